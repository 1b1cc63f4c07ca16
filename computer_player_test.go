package tetrisbeth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrisbeth/tetrisbeth/board"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 20, 10
	cfg.SearchDepth = 2
	cfg.SearchWidth = 2
	cfg.WorkerCount = 2
	cfg.ComputerPlayerTickMillis = 5
	return cfg
}

func TestComputerPlayerFillsPrecomputedPlan(t *testing.T) {
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
}

func TestComputerPlayerRejectsInvalidConfig(t *testing.T) {
	game, err := NewGame(testConfig())
	require.NoError(t, err)

	bad := testConfig()
	bad.WorkerCount = 0
	_, err = NewComputerPlayer(game, bad, board.NewEvaluator(bad.EvaluatorPreset))
	assert.Error(t, err)
}

func TestComputerPlayerStartStopIsIdempotent(t *testing.T) {
	cfg := testConfig()
	game, err := NewGame(cfg)
	require.NoError(t, err)

	cp, err := NewComputerPlayer(game, cfg, board.NewEvaluator(cfg.EvaluatorPreset))
	require.NoError(t, err)

	cp.Start()
	cp.Start()
	cp.Stop()
	cp.Stop()

	assert.NoError(t, cp.Close())
}

func TestComputerPlayerTweakerOverridesParameters(t *testing.T) {
	cfg := testConfig()
	game, err := NewGame(cfg)
	require.NoError(t, err)

	eval := board.NewEvaluator(cfg.EvaluatorPreset)
	cp, err := NewComputerPlayer(game, cfg, eval)
	require.NoError(t, err)
	defer cp.Close()

	var sawDepth, sawWidth int
	cp.SetTweaker(func(state board.GameState, depth, width int) TweakResult {
		sawDepth, sawWidth = depth, width
		return TweakResult{Depth: 1, Width: 1, WorkerCount: 1, MoveSpeed: 5, Evaluator: eval}
	})

	cp.Start()

	require.Eventually(t, func() bool {
		return game.NumPrecalculatedMoves() > 0
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, cfg.SearchDepth, sawDepth)
	assert.Equal(t, cfg.SearchWidth, sawWidth)
}

func TestClampRestrictsToBounds(t *testing.T) {
	assert.Equal(t, 1, clamp(0, 1, 100))
	assert.Equal(t, 100, clamp(500, 1, 100))
	assert.Equal(t, 50, clamp(50, 1, 100))
}
