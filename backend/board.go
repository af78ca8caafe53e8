package main

import (
	"strconv"
	"strings"
)

type Player int

const (
	Player1 Player = iota + 1
	Player2
)

type GameResult int

const (
	ResultOngoing GameResult = iota
	ResultDraw
	ResultPlayer1Win
	ResultPlayer2Win
)

// Board is a gravity-stacked connect grid. Each column is a stack of pieces,
// index 0 at the bottom; a column holding rowCount pieces is full.
type Board struct {
	cols       [][]Player
	colCount   int
	rowCount   int
	connectRun int
	turn       Player
	result     GameResult
}

func NewBoard(colCount, rowCount, connectRun int) Board {
	b := Board{}
	b.Reset(colCount, rowCount, connectRun)
	return b
}

// Reset does not validate dimensions; the settings layer clamps them before
// they get here.
func (b *Board) Reset(colCount, rowCount, connectRun int) {
	b.colCount = colCount
	b.rowCount = rowCount
	b.connectRun = connectRun
	b.cols = make([][]Player, colCount)
	for i := range b.cols {
		b.cols[i] = make([]Player, 0, rowCount)
	}
	b.turn = Player1
	b.result = ResultOngoing
}

// ApplyMove drops a piece for the side to move into col. It reports false
// without mutating anything when col is out of range or full.
func (b *Board) ApplyMove(col int) bool {
	if col < 0 || col >= b.colCount {
		return false
	}
	if len(b.cols[col]) >= b.rowCount {
		return false
	}
	b.cols[col] = append(b.cols[col], b.turn)
	b.turn = otherPlayer(b.turn)
	b.result = b.computeResult()
	return true
}

// UndoMove removes the topmost piece of col. The caller must know col was the
// most recent move; the board itself keeps no history. Reports false when the
// column is already empty.
func (b *Board) UndoMove(col int) bool {
	if col < 0 || col >= b.colCount {
		return false
	}
	if len(b.cols[col]) == 0 {
		return false
	}
	b.cols[col] = b.cols[col][:len(b.cols[col])-1]
	b.turn = otherPlayer(b.turn)
	b.result = ResultOngoing
	return true
}

// LegalMoves lists the non-full columns in ascending order. An empty slice
// means the board is full.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, b.colCount)
	for col := 0; col < b.colCount; col++ {
		if len(b.cols[col]) < b.rowCount {
			moves = append(moves, col)
		}
	}
	return moves
}

func (b Board) Result() GameResult {
	return b.result
}

func (b Board) Turn() Player {
	return b.turn
}

func (b Board) ColumnCount() int {
	return b.colCount
}

func (b Board) RowCount() int {
	return b.rowCount
}

func (b Board) ConnectRun() int {
	return b.connectRun
}

func (b Board) ColumnHeight(col int) int {
	if col < 0 || col >= b.colCount {
		return 0
	}
	return len(b.cols[col])
}

// PieceAt reports the piece at (col, row), row 0 being the bottom. The second
// return is false for empty or out-of-range cells.
func (b Board) PieceAt(col, row int) (Player, bool) {
	if col < 0 || col >= b.colCount || row < 0 {
		return 0, false
	}
	if row >= len(b.cols[col]) {
		return 0, false
	}
	return b.cols[col][row], true
}

func (b Board) IsFull() bool {
	for col := 0; col < b.colCount; col++ {
		if len(b.cols[col]) < b.rowCount {
			return false
		}
	}
	return true
}

func (b Board) Clone() Board {
	clone := b
	clone.cols = make([][]Player, b.colCount)
	for i, col := range b.cols {
		clone.cols[i] = append(make([]Player, 0, b.rowCount), col...)
	}
	return clone
}

func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("Player ")
	sb.WriteString(b.turn.String())
	sb.WriteString("'s turn\n")
	for row := b.rowCount - 1; row >= 0; row-- {
		for col := 0; col < b.colCount; col++ {
			piece, ok := b.PieceAt(col, row)
			if !ok {
				sb.WriteString("| ")
			} else {
				sb.WriteByte('|')
				sb.WriteString(piece.String())
			}
		}
		sb.WriteString("|\n")
	}
	for col := 0; col < b.colCount; col++ {
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(col))
	}
	sb.WriteByte('=')
	return sb.String()
}

func (p Player) String() string {
	if p == Player2 {
		return "2"
	}
	return "1"
}

func otherPlayer(player Player) Player {
	if player == Player1 {
		return Player2
	}
	return Player1
}
