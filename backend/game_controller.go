package main

import "sync"

// GameController serializes access to the Game for the HTTP and websocket
// layers.
type GameController struct {
	mu   sync.Mutex
	game Game
}

type EngineCacheStats struct {
	Entries  int `json:"entries"`
	Lookups  int `json:"lookups"`
	PlyLimit int `json:"ply_limit"`
}

func NewGameController(settings GameSettings) *GameController {
	return &GameController{game: NewGame(settings)}
}

func (gc *GameController) ApplyHumanMove(col int) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(col)
}

func (gc *GameController) SubmitHumanMove(col int) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(col)
}

func (gc *GameController) UndoLastMove() (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.UndoLastMove()
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) Board() Board {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Board()
}

func (gc *GameController) Status() GameStatus {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Status()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) GameID() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.ID()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) Position() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Position()
}

func (gc *GameController) SetPosition(fen string) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SetPosition(fen)
}

func (gc *GameController) BestMoves() ([]int, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.BestMoves()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// UpdateSettings without reset keeps the board and history and only swaps
// the player types, so a running game can change who controls each side.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset {
		gc.game.Reset(update)
		return
	}
	current := gc.game.Settings()
	current.Player1Type = update.Player1Type
	current.Player2Type = update.Player2Type
	gc.game.settings = current
	gc.game.createPlayers()
}

func (gc *GameController) ResetForConfigChange() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.ResetForConfigChange()
}

func (gc *GameController) CacheStats() map[string]EngineCacheStats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	stats := make(map[string]EngineCacheStats)
	for role, engine := range gc.game.Engines() {
		stats[role] = EngineCacheStats{
			Entries:  engine.Table().Count(),
			Lookups:  engine.Lookups(),
			PlyLimit: engine.PlyLimit(),
		}
	}
	return stats
}

func (gc *GameController) FlushCaches() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for _, engine := range gc.game.Engines() {
		engine.Table().Clear()
	}
}

// TopCacheEntries pages through the advisor engine's table, most-probed
// entries first.
func (gc *GameController) TopCacheEntries(offset, limit int) ([]TTEntry, int) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Engines()["advisor"].Table().TopEntriesByHits(offset, limit)
}
