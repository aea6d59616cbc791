package alloc_test

import (
	"testing"

	"github.com/sherpa-wfm/backend/internal/alloc"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected alloc.Allocation
	}{
		"SimpleWithSpace": {
			input:    "8 RO",
			expected: alloc.Work(alloc.Entry{Team: "RO", Hours: 8}),
		},
		"SimpleNoSpace": {
			input:    "8RO",
			expected: alloc.Work(alloc.Entry{Team: "RO", Hours: 8}),
		},
		"SplitDay": {
			input: "4RO+4IT",
			expected: alloc.Work(
				alloc.Entry{Team: "RO", Hours: 4},
				alloc.Entry{Team: "IT", Hours: 4},
			),
		},
		"SplitDayLegacySpacing": {
			input: "4 RO + 4 HU",
			expected: alloc.Work(
				alloc.Entry{Team: "RO", Hours: 4},
				alloc.Entry{Team: "HU", Hours: 4},
			),
		},
		"LowercaseTeamNormalized": {
			input:    "6ro",
			expected: alloc.Work(alloc.Entry{Team: "RO", Hours: 6}),
		},
		"SickLeave": {
			input:    "SL",
			expected: alloc.NewLeave(alloc.SickLeave),
		},
		"Vacation": {
			input:    "Co",
			expected: alloc.NewLeave(alloc.Vacation),
		},
		"MedicalLeave": {
			input:    "CM",
			expected: alloc.NewLeave(alloc.MedicalLeave),
		},
		"DayOff": {
			input:    "LB",
			expected: alloc.NewLeave(alloc.DayOff),
		},
		"EmptyString": {
			input:    "",
			expected: alloc.Empty(),
		},
		"WhitespaceOnly": {
			input:    "   ",
			expected: alloc.Empty(),
		},
		"Garbage": {
			input:    "garbage!!",
			expected: alloc.Empty(),
		},
		"MixedValidInvalidAllOrNothing": {
			input:    "4RO+oops",
			expected: alloc.Empty(),
		},
		"TeamWithoutHours": {
			input:    "RO",
			expected: alloc.Empty(),
		},
		"HoursWithoutTeam": {
			input:    "8",
			expected: alloc.Empty(),
		},
		"ZeroHours": {
			input:    "0RO",
			expected: alloc.Empty(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, alloc.Decode(tt.input))
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	_, err := alloc.DecodeStrict("4RO+oops")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oops")

	a, err := alloc.DecodeStrict("4RO+4IT")
	assert.NoError(t, err)
	assert.Equal(t, alloc.Work(
		alloc.Entry{Team: "RO", Hours: 4},
		alloc.Entry{Team: "IT", Hours: 4},
	), a)
}

func TestEncode(t *testing.T) {
	tests := map[string]struct {
		input    alloc.Allocation
		expected string
	}{
		"Empty": {alloc.Empty(), ""},
		"Leave": {alloc.NewLeave(alloc.SickLeave), "SL"},
		"Work":  {alloc.Work(alloc.Entry{Team: "RO", Hours: 8}), "8RO"},
		"SplitCanonicalNoSpaces": {
			alloc.Work(alloc.Entry{Team: "RO", Hours: 4}, alloc.Entry{Team: "IT", Hours: 4}),
			"4RO+4IT",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, alloc.Encode(tt.input))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	valid := []alloc.Allocation{
		alloc.Empty(),
		alloc.NewLeave(alloc.SickLeave),
		alloc.NewLeave(alloc.Vacation),
		alloc.NewLeave(alloc.MedicalLeave),
		alloc.NewLeave(alloc.DayOff),
		alloc.Work(alloc.Entry{Team: "RO", Hours: 8}),
		alloc.Work(alloc.Entry{Team: "RO", Hours: 4}, alloc.Entry{Team: "IT", Hours: 4}),
		alloc.Work(
			alloc.Entry{Team: "DE", Hours: 2},
			alloc.Entry{Team: "NL", Hours: 3},
			alloc.Entry{Team: "HU", Hours: 3},
		),
	}

	for _, a := range valid {
		assert.Equal(t, a, alloc.Decode(alloc.Encode(a)), "round-trip failed for %q", alloc.Encode(a))
	}

	// Legacy spacing normalizes to the canonical form on a second pass.
	decoded := alloc.Decode("4 RO + 4 HU")
	assert.Equal(t, "4RO+4HU", alloc.Encode(decoded))
}

func TestTotalHours(t *testing.T) {
	assert.Equal(t, 0, alloc.TotalHours(alloc.Empty()))
	assert.Equal(t, 0, alloc.TotalHours(alloc.NewLeave(alloc.SickLeave)))
	assert.Equal(t, 8, alloc.TotalHours(alloc.Work(
		alloc.Entry{Team: "RO", Hours: 4},
		alloc.Entry{Team: "IT", Hours: 4},
	)))
	assert.Equal(t, 13, alloc.TotalHours(alloc.Work(
		alloc.Entry{Team: "RO", Hours: 7},
		alloc.Entry{Team: "IT", Hours: 6},
	)))
}
