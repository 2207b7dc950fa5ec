package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorityOrdering(t *testing.T) {
	assert.Greater(t, SourceNativeAPI.Authority(), SourceBing.Authority())
	assert.Equal(t, SourceBing.Authority(), SourceGoogle.Authority())
	assert.Greater(t, SourceBing.Authority(), SourceGemini.Authority())
	assert.Equal(t, SourceGemini.Authority(), SourceFeed.Authority())
	assert.Greater(t, SourceFeed.Authority(), SourceScrape.Authority())
}

func TestSourceSetBasics(t *testing.T) {
	s := NewSourceSet(SourceScrape)
	s.Add(SourceNativeAPI)
	s.Add(SourceNativeAPI) // idempotent

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Has(SourceScrape))
	assert.False(t, s.Has(SourceBing))
	assert.Equal(t, 3, s.MaxAuthority())
}

func TestSourceSetListSorted(t *testing.T) {
	s := NewSourceSet(SourceScrape, SourceNativeAPI, SourceFeed)
	assert.Equal(t, []SourceID{SourceFeed, SourceNativeAPI, SourceScrape}, s.List())
}

func TestSourceSetJSONRoundTrip(t *testing.T) {
	s := NewSourceSet(SourceNativeAPI, SourceScrape)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["native-api","scrape"]`, string(data))

	var decoded SourceSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.List(), decoded.List())
}

func TestBucketFor(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, FreshnessToday, BucketFor(now.Add(-23*time.Hour), now))
	assert.Equal(t, FreshnessWeek, BucketFor(now.Add(-3*24*time.Hour), now))
	assert.Equal(t, FreshnessMonth, BucketFor(now.Add(-20*24*time.Hour), now))
	assert.Equal(t, FreshnessOlder, BucketFor(now.Add(-200*24*time.Hour), now))
	assert.Equal(t, FreshnessUnknown, BucketFor(time.Time{}, now))
}

func TestExclusionVerdictFailOpen(t *testing.T) {
	// Every signal set, but the check never completed: keep the item.
	unchecked := ExclusionVerdict{Locked: true, Missing: true, HasDisallowedMention: true}
	assert.False(t, unchecked.Exclude())

	assert.False(t, ExclusionVerdict{Checked: true}.Exclude())
	assert.True(t, ExclusionVerdict{Checked: true, Locked: true}.Exclude())
	assert.True(t, ExclusionVerdict{Checked: true, Missing: true}.Exclude())
	assert.True(t, ExclusionVerdict{Checked: true, HasDisallowedMention: true}.Exclude())
}
