package game

import "math/rand"

// Cell is one square of the grid: empty or holding one of the two marks.
type Cell int8

const (
	Empty Cell = -1
	Mark0 Cell = 0
	Mark1 Cell = 1
)

// Size of the grid in both dimensions.
const Size = 3

type LineKind string

const (
	LineRow      LineKind = "row"
	LineColumn   LineKind = "column"
	LineDiagonal LineKind = "diagonal"
)

// WinLine describes a completed line: who owns it, the kind of line and
// its index. Diagonal 0 runs top-left to bottom-right, diagonal 1 is the
// anti-diagonal.
type WinLine struct {
	Winner Cell
	Kind   LineKind
	Index  int
}

// Board is the 3x3 grid plus whose turn it is. It is not safe for
// concurrent use; the owning session serializes access.
type Board struct {
	cells [Size][Size]Cell
	turn  int
}

func NewBoard() *Board {
	b := &Board{}
	b.Restart()
	return b
}

// Turn reports which player (0 or 1) moves next.
func (b *Board) Turn() int {
	return b.turn
}

// Restart wipes the grid and re-randomizes the starting turn. The fresh
// random turn applies to every reset, so no player is structurally
// favored across repeated rounds.
func (b *Board) Restart() {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			b.cells[x][y] = Empty
		}
	}
	b.turn = rand.Intn(2)
}

// Play attempts a move by player at (x, y). It returns false without
// mutating anything when it is not that player's turn, the coordinates
// are out of range, or the cell is already taken.
func (b *Board) Play(player, x, y int) bool {
	if player != 0 && player != 1 {
		return false
	}
	if b.turn != player {
		return false
	}
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return false
	}
	if b.cells[x][y] != Empty {
		return false
	}
	b.cells[x][y] = Cell(player)
	b.turn = 1 - player
	return true
}

// CheckWinner scans for a completed line in a fixed order: primary
// diagonal, anti-diagonal, then rows 0-2, then columns 0-2. The first
// fully equal non-empty line is reported. The order is part of the
// contract; tests pin it with pre-seeded boards.
func (b *Board) CheckWinner() (WinLine, bool) {
	if c := b.cells[0][0]; c != Empty && c == b.cells[1][1] && c == b.cells[2][2] {
		return WinLine{Winner: c, Kind: LineDiagonal, Index: 0}, true
	}
	if c := b.cells[0][2]; c != Empty && c == b.cells[1][1] && c == b.cells[2][0] {
		return WinLine{Winner: c, Kind: LineDiagonal, Index: 1}, true
	}
	for i := 0; i < Size; i++ {
		if c := b.cells[i][0]; c != Empty && c == b.cells[i][1] && c == b.cells[i][2] {
			return WinLine{Winner: c, Kind: LineRow, Index: i}, true
		}
	}
	for i := 0; i < Size; i++ {
		if c := b.cells[0][i]; c != Empty && c == b.cells[1][i] && c == b.cells[2][i] {
			return WinLine{Winner: c, Kind: LineColumn, Index: i}, true
		}
	}
	return WinLine{}, false
}

// CheckDraw reports whether every cell is occupied. Callers check
// CheckWinner first; a full board with a winner is not a draw.
func (b *Board) CheckDraw() bool {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b.cells[x][y] == Empty {
				return false
			}
		}
	}
	return true
}

// Cells returns a snapshot copy of the grid, for observers like the
// virtual opponent that must not hold a reference into live state.
func (b *Board) Cells() [Size][Size]Cell {
	return b.cells
}
