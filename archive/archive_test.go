package archive

import (
	"path/filepath"
	"testing"

	"git.gammaspectra.live/P2Pool/econsim/sim"
	"github.com/stretchr/testify/require"
)

func testArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := New(filepath.Join(t.TempDir(), "ticks.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

func testSnapshot(tick uint64) (sim.ModelSnapshot, []sim.AgentSnapshot) {
	model := sim.ModelSnapshot{
		Tick:          tick,
		TotalHashRate: 1.5,
		Difficulty:    1.05,
		BlocksMined:   tick * 2,
		Price:         3.25,
		ActiveMiners:  4,
	}
	agents := []sim.AgentSnapshot{
		{MinerId: 0, HashRate: 0.5, RewardBalance: 10, Active: 1, BlocksFound: 2, ExpectedBlocks: 1.5},
		{MinerId: 1, HashRate: 1.0, RewardBalance: 0, Active: 0},
	}
	return model, agents
}

func TestArchiveRoundTrip(t *testing.T) {
	a := testArchive(t)

	model, agents := testSnapshot(3)
	require.NoError(t, a.Store(model, agents))

	gotModel, err := a.Model(3)
	require.NoError(t, err)
	require.Equal(t, model, gotModel)

	gotAgents, err := a.Agents(3)
	require.NoError(t, err)
	require.Equal(t, agents, gotAgents)
}

func TestArchiveMissingTick(t *testing.T) {
	a := testArchive(t)

	_, err := a.Model(99)
	require.Error(t, err)
	_, err = a.Agents(99)
	require.Error(t, err)
}

func TestArchiveModelRangeAndTip(t *testing.T) {
	a := testArchive(t)

	for tick := uint64(0); tick < 5; tick++ {
		model, agents := testSnapshot(tick)
		require.NoError(t, a.Store(model, agents))
	}

	models, err := a.ModelRange(1, 3)
	require.NoError(t, err)
	require.Len(t, models, 3)
	for i, m := range models {
		require.Equal(t, uint64(i+1), m.Tick)
	}

	tip, ok := a.Tip()
	require.True(t, ok)
	require.Equal(t, uint64(4), tip)
}

func TestArchiveCollector(t *testing.T) {
	a := testArchive(t)

	var c sim.Collector = a
	model, agents := testSnapshot(7)
	c.Collect(model, agents)

	got, err := a.Model(7)
	require.NoError(t, err)
	require.Equal(t, model, got)
}
