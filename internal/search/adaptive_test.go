package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
)

func TestSearchAdaptiveFindsInLaterWindow(t *testing.T) {
	const version = "1.2.53.440"
	c := newCDN(t, installerPath(version, 25))

	opts := AdaptiveOptions{InitialWidth: 10, Increment: 10, MaxRounds: 5}

	s := c.searcher(8)
	resolved := s.SearchAdaptive(context.Background(), version, []platform.Platform{platform.WinX64}, opts)

	require.Len(t, resolved, 1)
	assert.Contains(t, resolved[platform.WinX64], "-25.exe")
}

func TestSearchAdaptiveRoundBudget(t *testing.T) {
	const version = "1.2.53.440"
	c := newCDN(t) // nothing published anywhere

	opts := AdaptiveOptions{InitialWidth: 10, Increment: 10, MaxRounds: 3}

	s := c.searcher(8)
	resolved := s.SearchAdaptive(context.Background(), version, []platform.Platform{platform.WinX64}, opts)

	// Not finding anything is a terminal outcome, not an error.
	assert.Empty(t, resolved)

	// One initial pass of 11 numbers plus three expansions of 10 each.
	assert.Equal(t, 41, c.total())
}

func TestSearchAdaptiveOnlyReprobesMissingPlatforms(t *testing.T) {
	const version = "1.2.53.440"
	c := newCDN(t,
		installerPath(version, 5), // Win-x64 hit in the initial window
		"/upgrade/client/osx-arm64/spotify-autoupdate-"+version+"-15.tbz",
	)

	opts := AdaptiveOptions{InitialWidth: 10, Increment: 10, MaxRounds: 5}

	s := c.searcher(8)
	resolved := s.SearchAdaptive(context.Background(), version, []platform.Platform{platform.WinX64, platform.MacARM64}, opts)

	require.Len(t, resolved, 2)
	assert.Contains(t, resolved[platform.WinX64], "-5.exe")
	assert.Contains(t, resolved[platform.MacARM64], "-15.tbz")

	// Win-x64 was satisfied after the initial pass and must not be probed in
	// the expansion rounds.
	assert.Equal(t, 11, c.totalWithPrefix("/upgrade/client/win32-x86_64/"))
	assert.Equal(t, 21, c.totalWithPrefix("/upgrade/client/osx-arm64/"))
}

func TestSearchAdaptivePicksHighestAcrossWindow(t *testing.T) {
	const version = "1.2.53.440"
	c := newCDN(t,
		installerPath(version, 3),
		installerPath(version, 8),
	)

	opts := AdaptiveOptions{InitialWidth: 10, Increment: 10, MaxRounds: 2}

	s := c.searcher(8)
	resolved := s.SearchAdaptive(context.Background(), version, []platform.Platform{platform.WinX64}, opts)

	require.Len(t, resolved, 1)
	assert.Contains(t, resolved[platform.WinX64], "-8.exe")
}

func TestSearchAdaptiveDefaultsApplied(t *testing.T) {
	const version = "1.2.53.440"
	c := newCDN(t, installerPath(version, 2))

	s := c.searcher(8)
	resolved := s.SearchAdaptive(context.Background(), version, []platform.Platform{platform.WinX64}, AdaptiveOptions{})

	require.Len(t, resolved, 1)
	assert.Contains(t, resolved[platform.WinX64], "-2.exe")
}

func TestSearchAdaptiveCancelledContext(t *testing.T) {
	const version = "1.2.53.440"
	c := newCDN(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := AdaptiveOptions{InitialWidth: 10, Increment: 10, MaxRounds: 10}

	s := c.searcher(4)
	resolved := s.SearchAdaptive(ctx, version, []platform.Platform{platform.WinX64}, opts)

	// A cancelled search stops after the current pass instead of burning the
	// whole round budget.
	assert.Empty(t, resolved)
}
