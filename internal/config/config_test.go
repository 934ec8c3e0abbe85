package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansel/internal/scheme"
)

func TestBuildPrecedence(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("low_coverage_depth_fail: 12.5\nmax_missing_tiles: 0.1\n"), 0o644))
	t.Setenv("HANSEL_MAX_MISSING_TILES", "0.2")
	t.Setenv("HANSEL_SCHEME_VERSION_OVERRIDE", "9.9.9")

	p, err := Build(scheme.Defaults{LowCoverageWarning: 30, MinTileFreq: 5, LowCoverageDepthFail: 40}, fn,
		WithLowCoverageWarning(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.LowCoverageWarning)     // option beats scheme
	assert.Equal(t, 12.5, p.LowCoverageDepthFail)  // file beats scheme
	assert.Equal(t, 0.2, p.MaxMissingTiles)        // env beats file
	assert.Equal(t, 5, p.MinTileFreq)              // scheme beats built-in
	assert.Equal(t, 1000, p.MaxTileFreq)           // built-in
	assert.Equal(t, "9.9.9", p.SchemeVersionOverride)
}

func TestBuildRejectsBadThresholds(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative warning", WithLowCoverageWarning(-1)},
		{"ratio above one", WithMaxIntermediateTilesRatio(1.5)},
		{"missing above one", WithMaxMissingTiles(2)},
		{"zero min freq", WithTileFreq(0, 10)},
		{"max below min", WithTileFreq(10, 5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(scheme.Defaults{}, "", tc.opt)
			assert.Error(t, err)
		})
	}
}

func TestBuildBadFileAndEnv(t *testing.T) {
	_, err := Build(scheme.Defaults{}, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	fn := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("low_coverage_warning: [1,2]\n"), 0o644))
	_, err = Build(scheme.Defaults{}, fn)
	assert.Error(t, err)

	t.Setenv("HANSEL_MIN_TILE_FREQ", "lots")
	_, err = Build(scheme.Defaults{}, "")
	assert.Error(t, err)
}

func TestTilePresent(t *testing.T) {
	p := Defaults()
	assert.True(t, p.TilePresent(1, false))
	assert.False(t, p.TilePresent(0, false))
	assert.False(t, p.TilePresent(7, true))
	assert.True(t, p.TilePresent(8, true))
	assert.False(t, p.TilePresent(1001, true))
	p.MaxTileFreq = 0
	assert.True(t, p.TilePresent(1e6, true))
}
