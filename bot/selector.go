package bot

import "triline/game"

// MoveSelector is the opaque move-selection capability behind the virtual
// opponent: given a board snapshot, pick a legal move for mark. ok is
// false when no move exists.
type MoveSelector interface {
	SelectMove(cells [game.Size][game.Size]game.Cell, mark game.Cell) (x, y int, ok bool)
}

// HeuristicSelector plays a one-step lookahead:
// 1. take an immediate win
// 2. block the opponent's immediate win
// 3. take the center
// 4. take a corner
// 5. take the first free cell
type HeuristicSelector struct{}

func (HeuristicSelector) SelectMove(cells [game.Size][game.Size]game.Cell, mark game.Cell) (int, int, bool) {
	free := freeCells(cells)
	if len(free) == 0 {
		return 0, 0, false
	}

	opponent := game.Mark0
	if mark == game.Mark0 {
		opponent = game.Mark1
	}

	for _, c := range free {
		if completesLine(cells, c[0], c[1], mark) {
			return c[0], c[1], true
		}
	}
	for _, c := range free {
		if completesLine(cells, c[0], c[1], opponent) {
			return c[0], c[1], true
		}
	}

	if cells[1][1] == game.Empty {
		return 1, 1, true
	}
	for _, c := range [][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}} {
		if cells[c[0]][c[1]] == game.Empty {
			return c[0], c[1], true
		}
	}

	return free[0][0], free[0][1], true
}

func freeCells(cells [game.Size][game.Size]game.Cell) [][2]int {
	var free [][2]int
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if cells[x][y] == game.Empty {
				free = append(free, [2]int{x, y})
			}
		}
	}
	return free
}

// completesLine reports whether placing mark at (x, y) finishes a row,
// column or diagonal for that mark.
func completesLine(cells [game.Size][game.Size]game.Cell, x, y int, mark game.Cell) bool {
	cells[x][y] = mark

	if cells[x][0] == mark && cells[x][1] == mark && cells[x][2] == mark {
		return true
	}
	if cells[0][y] == mark && cells[1][y] == mark && cells[2][y] == mark {
		return true
	}
	if x == y && cells[0][0] == mark && cells[1][1] == mark && cells[2][2] == mark {
		return true
	}
	if x+y == 2 && cells[0][2] == mark && cells[1][1] == mark && cells[2][0] == mark {
		return true
	}
	return false
}
