package tetrisbeth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrisbeth/tetrisbeth/board"
)

func TestClampMoveSpeedRestrictsToBounds(t *testing.T) {
	assert.Equal(t, 1, clampMoveSpeed(0))
	assert.Equal(t, 1000, clampMoveSpeed(5000))
	assert.Equal(t, 20, clampMoveSpeed(20))
}

func TestBlockMoverIsNoopWithoutAPlan(t *testing.T) {
	cfg := testConfig()
	game, err := NewGame(cfg)
	require.NoError(t, err)

	m := NewBlockMover(game, 100)
	start := game.ActiveBlock()

	m.Start()
	time.Sleep(30 * time.Millisecond)
	m.Stop()

	assert.Equal(t, start, game.ActiveBlock())
}

func TestBlockMoverWalksActiveBlockTowardPlannedChild(t *testing.T) {
	cfg := testConfig()
	game, err := NewGame(cfg)
	require.NoError(t, err)

	eval := board.NewEvaluator(cfg.EvaluatorPreset)
	cp, err := NewComputerPlayer(game, cfg, eval)
	require.NoError(t, err)
	defer cp.Close()
	cp.Start()

	require.Eventually(t, func() bool {
		return game.NumPrecalculatedMoves() > 0
	}, 5*time.Second, 10*time.Millisecond)

	m := NewBlockMover(game, 200)
	m.SetImmediateDrop(false)
	m.Start()
	defer m.Stop()

	require.Eventually(t, func() bool {
		child, ok := game.FirstPlannedChild()
		if !ok {
			return false
		}
		target, ok := child.State().OriginalBlock()
		if !ok {
			return false
		}
		active := game.ActiveBlock()
		return active.Rotation == target.Rotation && active.Column == target.Column
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBlockMoverSetImmediateDropDefaultsTrue(t *testing.T) {
	cfg := testConfig()
	game, err := NewGame(cfg)
	require.NoError(t, err)

	m := NewBlockMover(game, 20)
	assert.True(t, m.immediateDrop)
	m.SetImmediateDrop(false)
	assert.False(t, m.immediateDrop)
}

func TestBlockMoverActualSpeedStartsAtZero(t *testing.T) {
	cfg := testConfig()
	game, err := NewGame(cfg)
	require.NoError(t, err)

	m := NewBlockMover(game, 20)
	assert.Equal(t, float32(0), m.ActualSpeed())
}
