package main

// Line families checked by the win scan: horizontal, vertical, rising
// diagonal, falling diagonal. Only one orientation per family is needed
// because every cell is tried as a run start.
var runDirections = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// computeResult rescans the whole grid. No incremental tracking: boards are
// tens of cells, so the O(columns*rows) scan after each move is cheap.
func (b Board) computeResult() GameResult {
	if winner, ok := b.findWinningRun(); ok {
		if winner == Player1 {
			return ResultPlayer1Win
		}
		return ResultPlayer2Win
	}
	if b.IsFull() {
		return ResultDraw
	}
	return ResultOngoing
}

func (b Board) findWinningRun() (Player, bool) {
	for col := 0; col < b.colCount; col++ {
		for row := 0; row < len(b.cols[col]); row++ {
			player := b.cols[col][row]
			for i := 0; i < 4; i++ {
				if b.hasRunFrom(col, row, runDirections[i][0], runDirections[i][1], player) {
					return player, true
				}
			}
		}
	}
	return 0, false
}

// hasRunFrom checks for connectRun same-player pieces starting at (col, row)
// and stepping by (dx, dy). The start cell must leave room for connectRun-1
// further cells in that direction.
func (b Board) hasRunFrom(col, row, dx, dy int, player Player) bool {
	endCol := col + (b.connectRun-1)*dx
	endRow := row + (b.connectRun-1)*dy
	if endCol < 0 || endCol >= b.colCount || endRow < 0 || endRow >= b.rowCount {
		return false
	}
	for i := 1; i < b.connectRun; i++ {
		x := col + i*dx
		y := row + i*dy
		if y >= len(b.cols[x]) || b.cols[x][y] != player {
			return false
		}
	}
	return true
}
