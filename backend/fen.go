package main

import (
	"fmt"
	"strings"
)

// FENError reports a malformed board encoding handed to SetFEN.
type FENError struct {
	FEN    string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid board encoding %q: %s", e.FEN, e.Reason)
}

// FEN serializes the board to its canonical form: one token per column with
// '1'/'2' per piece bottom-to-top, columns emitted rightmost-first, tokens
// separated by single spaces, then the side to move as a final '1' or '2'.
// Boards with identical piece layout and turn always produce byte-identical
// strings; the engine relies on that for its transposition keys.
//
// Example (7x6 board, Player 2 to move):
//
//	1 12 2 11 211 2 2 2
func (b Board) FEN() string {
	tokens := make([]string, 0, b.colCount+1)
	for col := b.colCount - 1; col >= 0; col-- {
		var sb strings.Builder
		for _, piece := range b.cols[col] {
			if piece == Player2 {
				sb.WriteByte('2')
			} else {
				sb.WriteByte('1')
			}
		}
		tokens = append(tokens, sb.String())
	}
	tokens = append(tokens, b.turn.String())
	return strings.Join(tokens, " ")
}

// SetFEN replaces the entire board state from a canonical encoding. The
// board's dimensions stay as configured; the encoding must match them. On
// any failure the board is left untouched.
func (b *Board) SetFEN(fen string) error {
	tokens := strings.Split(fen, " ")
	if len(tokens) < 2 {
		return &FENError{FEN: fen, Reason: "missing turn marker"}
	}
	var turn Player
	switch tokens[len(tokens)-1] {
	case "1":
		turn = Player1
	case "2":
		turn = Player2
	default:
		return &FENError{FEN: fen, Reason: fmt.Sprintf("turn marker must be '1' or '2', got %q", tokens[len(tokens)-1])}
	}
	colTokens := tokens[:len(tokens)-1]
	if len(colTokens) != b.colCount {
		return &FENError{FEN: fen, Reason: fmt.Sprintf("expected %d column tokens, got %d", b.colCount, len(colTokens))}
	}
	cols := make([][]Player, b.colCount)
	for i, token := range colTokens {
		col := b.colCount - 1 - i
		if len(token) > b.rowCount {
			return &FENError{FEN: fen, Reason: fmt.Sprintf("column %d holds %d pieces but the board has %d rows", col, len(token), b.rowCount)}
		}
		stack := make([]Player, 0, b.rowCount)
		for _, ch := range token {
			switch ch {
			case '1':
				stack = append(stack, Player1)
			case '2':
				stack = append(stack, Player2)
			default:
				return &FENError{FEN: fen, Reason: fmt.Sprintf("invalid piece character %q", ch)}
			}
		}
		cols[col] = stack
	}
	b.cols = cols
	b.turn = turn
	b.result = b.computeResult()
	return nil
}
