package main

// AIPlayer wraps a per-instance search engine. Two AI players in one game do
// not share a transposition table, and neither shares with the advisory
// engine behind the eval endpoint.
type AIPlayer struct {
	engine *Engine
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{engine: NewEngine(GetConfig().AiPlyLimit)}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// ChooseMove picks the lowest column among the engine's best recommendations.
func (a *AIPlayer) ChooseMove(board *Board) (int, bool) {
	best, err := a.engine.BestMoves(board)
	if err != nil || len(best) == 0 {
		return 0, false
	}
	return best[0], true
}

func (a *AIPlayer) Engine() *Engine {
	return a.engine
}

// ResetForConfigChange swaps in a fresh engine so a new ply limit takes
// effect and the old table is released.
func (a *AIPlayer) ResetForConfigChange() {
	a.engine = NewEngine(GetConfig().AiPlyLimit)
}
