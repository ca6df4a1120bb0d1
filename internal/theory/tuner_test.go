package theory

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPitch(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		midiNote  int
		noteName  string
		cents     float64
	}{
		{"concert A", 440, 69, "A4", 0},
		{"sharp A", 445, 69, "A4", 19.56},
		{"flat A", 435, 69, "A4", -19.79},
		{"low E string", 82.41, 40, "E2", 0.07},
		{"middle C", 261.63, 60, "C4", 0.03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DetectPitch(tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.midiNote, p.MIDINote)
			assert.Equal(t, tt.noteName, p.Name)
			assert.InDelta(t, tt.cents, p.Cents, 0.05)
		})
	}
}

func TestDetectPitch_Errors(t *testing.T) {
	for _, f := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, err := DetectPitch(f)
		assert.True(t, errors.Is(err, ErrInvalidFrequency), "frequency %v", f)
	}

	_, err := DetectPitch(1)
	assert.True(t, errors.Is(err, ErrFrequencyOutOfRange))

	_, err = DetectPitch(20000)
	assert.True(t, errors.Is(err, ErrFrequencyOutOfRange))
}

func TestNearestString(t *testing.T) {
	s, c, err := NearestString(110)
	require.NoError(t, err)
	assert.Equal(t, "A2", s.Name)
	assert.Equal(t, 5, s.Number)
	assert.InDelta(t, 0, c, 1e-6)

	s, c, err = NearestString(150)
	require.NoError(t, err)
	assert.Equal(t, "D3", s.Name)
	assert.Greater(t, c, 0.0)

	s, _, err = NearestString(330)
	require.NoError(t, err)
	assert.Equal(t, "E4", s.Name)

	_, _, err = NearestString(0)
	assert.Error(t, err)
}
