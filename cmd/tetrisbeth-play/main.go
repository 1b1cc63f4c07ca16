// Command tetrisbeth-play runs a self-playing console demonstration: the
// computer player drives the board to completion and the terminal shows
// the live grid, falling block, and search diagnostics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/tetrisbeth/tetrisbeth"
	"github.com/tetrisbeth/tetrisbeth/board"
)

var (
	rows        = flag.Int("rows", 20, "board rows")
	cols        = flag.Int("cols", 10, "board columns")
	level       = flag.Int("level", 1, "starting level")
	preset      = flag.String("preset", string(board.Balanced), "evaluator preset: balanced, survival, make_tetrises, depressed")
	depth       = flag.Int("depth", 0, "search depth (0 = preset recommendation)")
	width       = flag.Int("width", 0, "search width (0 = preset recommendation)")
	workers     = flag.Int("workers", 4, "worker pool size")
	moveSpeed   = flag.Int("move-speed", 20, "BlockMover moves per second")
	tickMillis  = flag.Int("tick-millis", 10, "ComputerPlayer control-loop tick, in milliseconds")
	gravityBase = flag.Int("gravity-millis", 1000, "level-1 gravity period, in milliseconds")
	noColor     = flag.Bool("no-color", false, "disable ANSI color output even on a TTY")
	renderHz    = flag.Int("render-hz", 10, "console redraw rate")
)

func main() {
	flag.Parse()

	cfg := tetrisbeth.DefaultConfig()
	cfg.Rows, cfg.Cols = *rows, *cols
	cfg.StartingLevel = *level
	cfg.EvaluatorPreset = board.Preset(*preset)
	cfg.WorkerCount = *workers
	cfg.MoveSpeed = *moveSpeed
	cfg.ComputerPlayerTickMillis = *tickMillis
	cfg.GravityBaseMillis = *gravityBase

	eval := board.NewEvaluator(cfg.EvaluatorPreset)
	if *depth > 0 {
		cfg.SearchDepth = *depth
	} else {
		cfg.SearchDepth, _ = eval.RecommendedDepthWidth()
	}
	if *width > 0 {
		cfg.SearchWidth = *width
	} else {
		_, cfg.SearchWidth = eval.RecommendedDepthWidth()
	}

	if !cfg.IsValid() {
		log.Fatal("tetrisbeth-play: invalid configuration, check flag values")
	}

	game, err := tetrisbeth.NewGame(cfg)
	if err != nil {
		log.Fatalf("tetrisbeth-play: %v", err)
	}

	cp, err := tetrisbeth.NewComputerPlayer(game, cfg, eval)
	if err != nil {
		log.Fatalf("tetrisbeth-play: %v", err)
	}
	defer cp.Close()

	mover := tetrisbeth.NewBlockMover(game, cfg.MoveSpeed)
	cp.SetBlockMover(mover)
	gravity := tetrisbeth.NewGravity(game, cfg.GravityBaseMillis)

	r := newRenderer(*noColor)

	cp.Start()
	mover.Start()
	gravity.Start()
	defer mover.Stop()
	defer gravity.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(maxInt(*renderHz, 1)))
	defer ticker.Stop()

	for range ticker.C {
		game.FlushEvents(0)
		r.draw(game)
		if game.IsGameOver() {
			break
		}
	}

	r.draw(game)
	fmt.Println("game over")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// renderer draws a Game's grid and active block to the terminal, coloring
// each tetromino type with a distinct hue when color output is available.
type renderer struct {
	profile termenv.Profile
	colors  map[board.CellType]termenv.Color
}

func newRenderer(forceNoColor bool) *renderer {
	profile := termenv.ColorProfile()
	if forceNoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		profile = termenv.Ascii
	}

	types := []board.CellType{board.I, board.J, board.L, board.O, board.S, board.T, board.Z}
	colors := make(map[board.CellType]termenv.Color, len(types))
	for i, t := range types {
		hue := 360.0 * float64(i) / float64(len(types))
		c := colorful.Hsv(hue, 0.65, 0.95)
		colors[t] = profile.Color(c.Hex())
	}

	return &renderer{profile: profile, colors: colors}
}

func (r *renderer) styled(t board.CellType) string {
	glyph := t.String()
	color, ok := r.colors[t]
	if !ok {
		return glyph
	}
	return termenv.String(glyph).Foreground(color).Styled()
}

// draw renders the committed grid overlaid with the falling active block,
// plus a status line.
func (r *renderer) draw(g *tetrisbeth.Game) {
	grid := g.GameGrid()
	active := g.ActiveBlock()
	shape := active.Shape()

	overlay := make(map[[2]int]board.CellType)
	for sr := 0; sr < shape.Rows(); sr++ {
		for sc := 0; sc < shape.Cols(); sc++ {
			if shape.Get(sr, sc) != board.Empty {
				overlay[[2]int{active.Row + sr, active.Column + sc}] = active.Type
			}
		}
	}

	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			cell := grid.Get(row, col)
			if t, ok := overlay[[2]int{row, col}]; ok {
				cell = t
			}
			if cell == board.Empty {
				b.WriteString(".")
			} else {
				b.WriteString(r.styled(cell))
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "level %d  plan %d  paused %v  over %v\n",
		g.Level(), g.NumPrecalculatedMoves(), g.IsPaused(), g.IsGameOver())

	fmt.Print(b.String())
}
