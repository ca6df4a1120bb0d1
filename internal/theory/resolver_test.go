package theory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScale_AllKeysAndScales(t *testing.T) {
	for _, key := range Notes {
		for _, name := range ScaleNames() {
			tmpl, ok := LookupScale(name)
			require.True(t, ok)

			notes := ResolveScale(key, name, "")
			assert.Len(t, notes, len(tmpl.Intervals), "%s %s", key, name)
			assert.Equal(t, key, notes[0], "%s %s should start on the key", key, name)
		}
	}
}

func TestResolveScale(t *testing.T) {
	tests := []struct {
		name     string
		key      Note
		scale    string
		expected []Note
	}{
		{
			name:     "C major",
			key:      "C",
			scale:    "major",
			expected: []Note{"C", "D", "E", "F", "G", "A", "B"},
		},
		{
			name:     "A minor",
			key:      "A",
			scale:    "minor",
			expected: []Note{"A", "B", "C", "D", "E", "F", "G"},
		},
		{
			name:     "G mixolydian wraps past B",
			key:      "G",
			scale:    "mixolydian",
			expected: []Note{"G", "A", "B", "C", "D", "E", "F"},
		},
		{
			name:     "D dorian",
			key:      "D",
			scale:    "dorian",
			expected: []Note{"D", "E", "F", "G", "A", "B", "C"},
		},
		{
			name:     "E blues",
			key:      "E",
			scale:    "blues",
			expected: []Note{"E", "G", "A", "A#", "B", "D"},
		},
		{
			name:     "F# pentatonic",
			key:      "F#",
			scale:    "pentatonic",
			expected: []Note{"F#", "G#", "A#", "C#", "D#"},
		},
		{
			name:     "diatonic is major",
			key:      "D",
			scale:    "diatonic",
			expected: []Note{"D", "E", "F#", "G", "A", "B", "C#"},
		},
		{
			name:     "scale name is case insensitive",
			key:      "C",
			scale:    "MiNoR",
			expected: []Note{"C", "D", "D#", "F", "G", "G#", "A#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveScale(tt.key, tt.scale, ""))
		})
	}
}

func TestResolveScale_UnknownKeyIsEmpty(t *testing.T) {
	notes := ResolveScale("Z", "major", "")
	require.NotNil(t, notes)
	assert.Empty(t, notes)

	// Lowercase and flat spellings are not canonical
	assert.Empty(t, ResolveScale("c", "major", ""))
	assert.Empty(t, ResolveScale("Db", "major", ""))
}

func TestResolveScale_UnknownScaleFallsBackToMajor(t *testing.T) {
	assert.Equal(t, ResolveScale("C", "major", ""), ResolveScale("C", "unknownScale", ""))
	assert.Equal(t, ResolveScale("A#", "major", ""), ResolveScale("A#", "", ""))
}

func TestResolveScale_ModeHasNoEffect(t *testing.T) {
	for _, mode := range []string{"", "ionian", "dorian", "locrian", "anything"} {
		assert.Equal(t, ResolveScale("E", "minor", ""), ResolveScale("E", "minor", mode), "mode %q", mode)
	}
}

func TestResolveScaleStrict(t *testing.T) {
	notes, err := ResolveScaleStrict("C", "pentatonic", "")
	require.NoError(t, err)
	assert.Equal(t, []Note{"C", "D", "E", "G", "A"}, notes)

	_, err = ResolveScaleStrict("Z", "major", "")
	assert.True(t, errors.Is(err, ErrUnknownKey))

	_, err = ResolveScaleStrict("C", "lydian", "")
	assert.True(t, errors.Is(err, ErrUnknownScale))
	assert.Contains(t, err.Error(), "lydian")
}

func TestLookupScale_ReturnsCopy(t *testing.T) {
	tmpl, ok := LookupScale("major")
	require.True(t, ok)
	tmpl.Intervals[0] = 99

	again, _ := LookupScale("major")
	assert.Equal(t, 0, again.Intervals[0])
}

func TestScaleTemplates_AreWellFormed(t *testing.T) {
	for _, tmpl := range Scales() {
		require.NotEmpty(t, tmpl.Intervals, tmpl.Name)
		assert.Equal(t, 0, tmpl.Intervals[0], tmpl.Name)
		for i := 1; i < len(tmpl.Intervals); i++ {
			assert.Greater(t, tmpl.Intervals[i], tmpl.Intervals[i-1], tmpl.Name)
			assert.Less(t, tmpl.Intervals[i], 12, tmpl.Name)
		}
	}
	assert.Len(t, ScaleNames(), 7)
}
