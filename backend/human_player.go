package main

type HumanPlayer struct {
	pending       bool
	pendingColumn int
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) ChooseMove(*Board) (int, bool) {
	return 0, false
}

func (h *HumanPlayer) SetPendingMove(col int) {
	h.pendingColumn = col
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() int {
	h.pending = false
	return h.pendingColumn
}
