package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact ignoring case and spacing", "  Yes ", "yes", 1},
		{"empty left", "", "yes", 0},
		{"empty right", "yes", "   ", 0},
		{"short substring floors at 0.66", "United States", "united", 0.66},
		{"long substring uses the ratio", "abcdefghij", "abcdefghi", 0.9},
		{"token overlap", "male gender", "gender identity", 0.5},
		{"no overlap", "Full-time", "FT", 0},
		{"tokens split on punctuation", "full-time role", "role: full", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatchOption(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		target  string
		want    string
		found   bool
	}{
		{"exact", []string{"Yes", "No", "Decline to answer"}, "yes", "Yes", true},
		{"nothing scores", []string{"Full-time", "Part-time"}, "FT", "", false},
		{"exact beats partial", []string{"Yes, I am", "Yes"}, "Yes", "Yes", true},
		{"ties keep the first", []string{"Remote work", "Remote only"}, "remote", "Remote work", true},
		{"empty target", []string{"Yes"}, "", "", false},
		{"no options", nil, "yes", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchOption(tt.options, tt.target)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchChoice_UsesValueToken(t *testing.T) {
	choices := []Choice{
		{Text: "Select...", Value: ""},
		{Text: "United States", Value: "US"},
		{Text: "Canada", Value: "CA"},
	}

	got, ok := MatchChoice(choices, "us")
	assert.True(t, ok)
	assert.Equal(t, "United States", got.Text)

	got, ok = MatchChoice(choices, "Canada")
	assert.True(t, ok)
	assert.Equal(t, "CA", got.Value)

	_, ok = MatchChoice(choices, "Mexico")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "first name", Normalize("  First\n\tNAME "))
	assert.Equal(t, "", Normalize(""))
}
