package main

import (
	"errors"
	"log"

	"golang.org/x/exp/slices"
)

const (
	winValue  = 100
	lossValue = -100
)

// ErrNoLegalMoves is returned by BestMoves when the position is terminal or
// the board is full; asking for advice there is a caller bug, not a position
// with an empty answer.
var ErrNoLegalMoves = errors.New("position is terminal or has no legal moves")

// Engine recommends columns using a depth-limited negamax search with
// alpha-beta pruning. Each instance owns its transposition table; discarding
// the engine discards the table.
//
// The engine is not safe for concurrent searches: it borrows the board it is
// given, explores by mutating and restoring it, and leaves it exactly as it
// found it before returning.
type Engine struct {
	table    *TranspositionTable
	plyLimit int
	lookups  int
}

func NewEngine(plyLimit int) *Engine {
	if plyLimit < 0 {
		plyLimit = 0
	}
	return &Engine{table: NewTranspositionTable(), plyLimit: plyLimit}
}

func (e *Engine) PlyLimit() int {
	return e.plyLimit
}

// Lookups reports how many table probes hit during the most recent
// BestMoves call.
func (e *Engine) Lookups() int {
	return e.lookups
}

func (e *Engine) Table() *TranspositionTable {
	return e.table
}

// BestMoves returns every column tied for the best evaluation from the
// perspective of the side to move, in ascending order.
func (e *Engine) BestMoves(board *Board) ([]int, error) {
	moves := board.LegalMoves()
	if board.Result() != ResultOngoing || len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}
	snapshot := board.FEN()
	e.lookups = 0
	logStats := GetConfig().AiLogSearchStats

	values := make([]int, len(moves))
	for i, col := range moves {
		board.ApplyMove(col)
		value := -e.negamax(board, lossValue, winValue, 0)
		if err := board.SetFEN(snapshot); err != nil {
			return nil, err
		}
		values[i] = value
		if logStats {
			log.Printf("[ai:search] column %d eval %d", col, value)
		}
	}

	best := slices.Max(values)
	bestCols := make([]int, 0, len(moves))
	for i, col := range moves {
		if values[i] == best {
			bestCols = append(bestCols, col)
		}
	}
	if logStats {
		log.Printf("[ai:search] lookups=%d table_size=%d", e.lookups, e.table.Count())
	}
	return bestCols, nil
}

// negamax evaluates the position from the perspective of the side to move:
// +100 a certain win for the mover, -100 a certain loss. Exploration is
// strict snapshot/apply/recurse/restore, so the board is back in its entry
// state on every path out of the call.
func (e *Engine) negamax(board *Board, alpha, beta, ply int) int {
	if ply >= e.plyLimit {
		return evaluatePosition(board)
	}
	switch board.Result() {
	case ResultPlayer1Win, ResultPlayer2Win:
		// The previous move completed a run, so the side to act has lost.
		return lossValue
	case ResultDraw:
		return 0
	}

	key := board.FEN()
	if value, ok := e.table.Probe(key); ok {
		e.lookups++
		return value
	}

	best := lossValue
	for _, col := range board.LegalMoves() {
		snapshot := board.FEN()
		board.ApplyMove(col)
		value := -e.negamax(board, -beta, -alpha, ply+1)
		_ = board.SetFEN(snapshot)
		if value > best {
			best = value
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}
	e.table.Store(key, best)
	return best
}

// evaluatePosition is the static evaluator used at the ply cutoff. It only
// recognizes already-decided positions; everything else scores 0. Scores are
// absolute to Player1/Player2 here, not relative to the side to move.
func evaluatePosition(board *Board) int {
	switch board.Result() {
	case ResultPlayer1Win:
		return winValue
	case ResultPlayer2Win:
		return lossValue
	default:
		return 0
	}
}
