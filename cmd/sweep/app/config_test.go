package app

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/beamsway/internal/coherence"
)

func TestParseFlags_Defaults(t *testing.T) {
	c, err := ParseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []int{60, 120, 180}, c.Counts)
	assert.Len(t, c.Winds, 30)
	assert.Equal(t, 1.0, c.Winds[0])
	assert.Equal(t, 30.0, c.Winds[29])
	assert.Equal(t, 100, c.Repeats)
	assert.Nil(t, c.Seed)
	assert.Equal(t, coherence.DefaultAlpha, c.Alpha)
	assert.Equal(t, 1000.0, c.Simulation.SampleRate)
}

func TestParseFlags_Overrides(t *testing.T) {
	c, err := ParseFlags([]string{
		"-lengths", "0.1, 0.3",
		"-winds", "2,4,8",
		"-repeats", "7",
		"-seed", "0",
		"-height", "12",
		"-plot", "out.png",
	}, io.Discard)
	require.NoError(t, err)

	assert.Nil(t, c.Counts)
	assert.Equal(t, []float64{0.1, 0.3}, c.Lengths)
	assert.Equal(t, []float64{2, 4, 8}, c.Winds)
	assert.Equal(t, 7, c.Repeats)
	require.NotNil(t, c.Seed)
	assert.Equal(t, uint64(0), *c.Seed)
	assert.Equal(t, 12.0, c.Simulation.Height)
	assert.Equal(t, "out.png", c.PlotPath)
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad count", []string{"-counts", "60,x"}},
		{"empty counts", []string{"-counts", " , "}},
		{"bad range", []string{"-winds", "1:10"}},
		{"zero step", []string{"-winds", "1:10:0"}},
		{"reversed range", []string{"-winds", "10:1:1"}},
		{"zero repeats", []string{"-repeats", "0"}},
		{"negative workers", []string{"-workers", "-1"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseWinds_Range(t *testing.T) {
	got, err := parseWinds("0.5:2:0.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, got)

	got, err = parseWinds("1:2.9:1")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)
}
