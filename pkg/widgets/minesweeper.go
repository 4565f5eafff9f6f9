package widgets

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// GameState is the state of a minesweeper round
type GameState string

const (
	StateIdle    GameState = "IDLE"
	StatePlaying GameState = "PLAYING"
	StateWon     GameState = "WON"
	StateLost    GameState = "LOST"
)

// Default board used by the minigame block
const (
	DefaultRows  = 8
	DefaultCols  = 12
	DefaultMines = 15
)

// ErrOutOfBounds is returned for moves outside the board
var ErrOutOfBounds = errors.New("cell out of bounds")

// Cell is one square of the board
type Cell struct {
	IsMine        bool `json:"isMine"`
	IsRevealed    bool `json:"isRevealed"`
	IsFlagged     bool `json:"isFlagged"`
	NeighborCount int  `json:"neighborCount"`
}

// Minesweeper holds the board and state of one game
type Minesweeper struct {
	rows, cols, mines int
	rng               *rand.Rand
	grid              [][]Cell
	state             GameState
	flagsUsed         int
}

// NewMinesweeper creates an idle game. Non-positive dimensions fall back to
// the defaults and the mine count is clamped to the number of cells.
func NewMinesweeper(rows, cols, mines int, rng *rand.Rand) *Minesweeper {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	if mines < 0 {
		mines = 0
	}
	if mines > rows*cols {
		mines = rows * cols
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Minesweeper{rows: rows, cols: cols, mines: mines, rng: rng, state: StateIdle}
}

// Reset generates a fresh board and starts playing
func (g *Minesweeper) Reset() {
	g.grid = make([][]Cell, g.rows)
	for r := range g.grid {
		g.grid[r] = make([]Cell, g.cols)
	}

	placed := 0
	for placed < g.mines {
		r := g.rng.Intn(g.rows)
		c := g.rng.Intn(g.cols)
		if !g.grid[r][c].IsMine {
			g.grid[r][c].IsMine = true
			placed++
		}
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.grid[r][c].IsMine {
				continue
			}
			g.grid[r][c].NeighborCount = g.countNeighborMines(r, c)
		}
	}

	g.state = StatePlaying
	g.flagsUsed = 0
}

func (g *Minesweeper) countNeighborMines(r, c int) int {
	count := 0
	g.eachNeighbor(r, c, func(nr, nc int) {
		if g.grid[nr][nc].IsMine {
			count++
		}
	})
	return count
}

// eachNeighbor calls fn for every in-bounds cell of the 8-neighborhood
func (g *Minesweeper) eachNeighbor(r, c int, fn func(nr, nc int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.inBounds(r+dr, c+dc) {
				fn(r+dr, c+dc)
			}
		}
	}
}

func (g *Minesweeper) inBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// Reveal uncovers a cell. Hitting a mine loses the game and reveals every
// mine; a zero cell flood-fills its region. Revealed or flagged cells and
// finished games are left alone.
func (g *Minesweeper) Reveal(r, c int) error {
	if !g.inBounds(r, c) {
		return ErrOutOfBounds
	}
	if g.state != StatePlaying || g.grid[r][c].IsRevealed || g.grid[r][c].IsFlagged {
		return nil
	}

	if g.grid[r][c].IsMine {
		g.state = StateLost
		for row := range g.grid {
			for col := range g.grid[row] {
				if g.grid[row][col].IsMine {
					g.grid[row][col].IsRevealed = true
				}
			}
		}
		return nil
	}

	g.flood(r, c)
	g.checkWin()
	return nil
}

func (g *Minesweeper) flood(r, c int) {
	stack := [][2]int{{r, c}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &g.grid[cur[0]][cur[1]]
		if cell.IsRevealed || cell.IsFlagged {
			continue
		}
		cell.IsRevealed = true
		if cell.NeighborCount != 0 {
			continue
		}
		g.eachNeighbor(cur[0], cur[1], func(nr, nc int) {
			stack = append(stack, [2]int{nr, nc})
		})
	}
}

func (g *Minesweeper) checkWin() {
	for _, row := range g.grid {
		for _, cell := range row {
			if !cell.IsMine && !cell.IsRevealed {
				return
			}
		}
	}
	g.state = StateWon
}

// ToggleFlag places or removes a flag on an unrevealed cell
func (g *Minesweeper) ToggleFlag(r, c int) error {
	if !g.inBounds(r, c) {
		return ErrOutOfBounds
	}
	if g.state != StatePlaying || g.grid[r][c].IsRevealed {
		return nil
	}

	cell := &g.grid[r][c]
	cell.IsFlagged = !cell.IsFlagged
	if cell.IsFlagged {
		g.flagsUsed++
	} else {
		g.flagsUsed--
	}
	return nil
}

// Cell returns a copy of the cell at r, c
func (g *Minesweeper) Cell(r, c int) (Cell, error) {
	if !g.inBounds(r, c) || g.grid == nil {
		return Cell{}, ErrOutOfBounds
	}
	return g.grid[r][c], nil
}

// State returns the current game state
func (g *Minesweeper) State() GameState { return g.state }

// FlagsUsed returns the number of flags on the board
func (g *Minesweeper) FlagsUsed() int { return g.flagsUsed }

// Rows returns the board height
func (g *Minesweeper) Rows() int { return g.rows }

// Cols returns the board width
func (g *Minesweeper) Cols() int { return g.cols }

// Mines returns the number of mines on the board
func (g *Minesweeper) Mines() int { return g.mines }

// String draws the board with column and row numbers. Hidden cells are '#',
// flags 'F', mines '*' and empty cells '.'.
func (g *Minesweeper) String() string {
	var b strings.Builder
	b.WriteString("   ")
	for c := 0; c < g.cols; c++ {
		fmt.Fprintf(&b, "%2d", c)
	}
	b.WriteByte('\n')

	for r := 0; r < g.rows; r++ {
		fmt.Fprintf(&b, "%2d ", r)
		for c := 0; c < g.cols; c++ {
			b.WriteByte(' ')
			b.WriteByte(g.symbol(r, c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Minesweeper) symbol(r, c int) byte {
	if g.grid == nil {
		return '#'
	}
	cell := g.grid[r][c]
	switch {
	case cell.IsFlagged && !cell.IsRevealed:
		return 'F'
	case !cell.IsRevealed:
		return '#'
	case cell.IsMine:
		return '*'
	case cell.NeighborCount == 0:
		return '.'
	default:
		return byte('0' + cell.NeighborCount)
	}
}
