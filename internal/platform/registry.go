package platform

import "sort"

// Settings carries the config a few plugins need at construction time.
type Settings struct {
	GitHubToken     string
	StackAppsKey    string
	DiscourseForums []string
}

// Builtin returns all supported platform plugins keyed by name.
func Builtin(s Settings) map[string]Plugin {
	plugins := []Plugin{
		NewReddit(),
		NewHackerNews(),
		NewStackOverflow(s.StackAppsKey),
		NewQuora(),
		NewGitHub(s.GitHubToken),
		NewLobsters(),
		NewDevTo(),
		NewDiscourse(s.DiscourseForums),
	}
	m := make(map[string]Plugin, len(plugins))
	for _, p := range plugins {
		m[p.Name()] = p
	}
	return m
}

// Names returns the builtin platform names in sorted order.
func Names() []string {
	m := Builtin(Settings{})
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
