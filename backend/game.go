package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusPlayer1Won
	StatusPlayer2Won
	StatusDraw
)

// Game owns one Board for the lifetime of a session, the move history, and
// the players. The advisor engine serves the eval endpoint without touching
// the players' tables.
type Game struct {
	settings  GameSettings
	board     Board
	history   MoveHistory
	player1   IPlayer
	player2   IPlayer
	advisor   *AIPlayer
	status    GameStatus
	id        string
	turnStart time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings.sanitized()
	g.board.Reset(g.settings.Columns, g.settings.Rows, g.settings.ConnectRun)
	g.history.Clear()
	g.createPlayers()
	g.advisor = NewAIPlayer()
	g.status = StatusNotStarted
	g.id = uuid.NewString()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.status == StatusNotStarted {
		g.status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Status() GameStatus {
	return g.status
}

func (g *Game) Board() Board {
	return g.board.Clone()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

// TryApplyMove plays a column for the side to move. Moves are rejected once
// the game has a result; the board itself never gates on result.
func (g *Game) TryApplyMove(col int) (bool, string) {
	if g.status != StatusRunning {
		return false, "game not running"
	}
	player := g.board.Turn()
	isAi := !g.CurrentPlayerIsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	if !g.board.ApplyMove(col) {
		return false, fmt.Sprintf("illegal move: column %d is out of range or full", col)
	}
	g.history.Push(HistoryEntry{Column: col, Player: player, ElapsedMs: elapsedMs, IsAi: isAi})
	g.logMovePlayed(col, player, elapsedMs, isAi)
	g.syncStatus()
	g.turnStart = time.Now()
	return true, ""
}

// UndoLastMove reverts the most recent move using the history stack.
func (g *Game) UndoLastMove() (bool, string) {
	entry, ok := g.history.Pop()
	if !ok {
		return false, "no moves to undo"
	}
	if !g.board.UndoMove(entry.Column) {
		g.history.Push(entry)
		return false, fmt.Sprintf("column %d is already empty", entry.Column)
	}
	if g.status != StatusNotStarted {
		g.status = StatusRunning
	}
	g.turnStart = time.Now()
	return true, ""
}

// SetPosition loads a canonical encoding into the live board. The history no
// longer matches the pieces after that, so it is cleared.
func (g *Game) SetPosition(fen string) error {
	if err := g.board.SetFEN(fen); err != nil {
		return err
	}
	g.history.Clear()
	g.status = StatusRunning
	g.syncStatus()
	g.turnStart = time.Now()
	return nil
}

func (g *Game) Position() string {
	return g.board.FEN()
}

// BestMoves runs the advisory search on the live board. The engine restores
// the board before returning, so repeated calls are safe mid-game.
func (g *Game) BestMoves() ([]int, error) {
	return g.advisor.Engine().BestMoves(&g.board)
}

// Tick advances the game by at most one move: a pending human move or an AI
// decision. Reports whether a move was applied.
func (g *Game) Tick() bool {
	if g.status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if !ok || !human.HasPendingMove() {
			return false
		}
		applied, _ := g.TryApplyMove(human.TakePendingMove())
		return applied
	}
	delay := GetConfig().AiMoveDelayMs
	if delay > 0 && time.Since(g.turnStart) < time.Duration(delay)*time.Millisecond {
		return false
	}
	col, ok := player.ChooseMove(&g.board)
	if !ok {
		return false
	}
	applied, _ := g.TryApplyMove(col)
	return applied
}

func (g *Game) SubmitHumanMove(col int) bool {
	player := g.currentPlayer()
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(col)
	return true
}

// Engines lists the live engines by role. Players that are human contribute
// no engine.
func (g *Game) Engines() map[string]*Engine {
	engines := map[string]*Engine{"advisor": g.advisor.Engine()}
	if ai, ok := g.player1.(*AIPlayer); ok {
		engines["player1"] = ai.Engine()
	}
	if ai, ok := g.player2.(*AIPlayer); ok {
		engines["player2"] = ai.Engine()
	}
	return engines
}

func (g *Game) ResetForConfigChange() {
	if ai, ok := g.player1.(*AIPlayer); ok {
		ai.ResetForConfigChange()
	}
	if ai, ok := g.player2.(*AIPlayer); ok {
		ai.ResetForConfigChange()
	}
	if g.advisor != nil {
		g.advisor.ResetForConfigChange()
	}
}

func (g *Game) createPlayers() {
	g.player1 = newPlayer(g.settings.Player1Type)
	g.player2 = newPlayer(g.settings.Player2Type)
}

func newPlayer(playerType PlayerType) IPlayer {
	if playerType == PlayerAI {
		return NewAIPlayer()
	}
	return NewHumanPlayer()
}

func (g *Game) currentPlayer() IPlayer {
	if g.board.Turn() == Player1 {
		return g.player1
	}
	return g.player2
}

func (g *Game) syncStatus() {
	switch g.board.Result() {
	case ResultPlayer1Win:
		g.status = StatusPlayer1Won
		g.logWin(Player1)
	case ResultPlayer2Win:
		g.status = StatusPlayer2Won
		g.logWin(Player2)
	case ResultDraw:
		g.status = StatusDraw
		if GetConfig().LogMoves {
			log.Printf("[game:%s] draw after %d moves", shortID(g.id), g.history.Size())
		}
	}
}

func (g *Game) logMatchup() {
	if !GetConfig().LogMoves {
		return
	}
	label := func(playerType PlayerType) string {
		if playerType == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("[game:%s] %dx%d connect-%d, Player 1 (%s) vs Player 2 (%s)",
		shortID(g.id), g.settings.Columns, g.settings.Rows, g.settings.ConnectRun,
		label(g.settings.Player1Type), label(g.settings.Player2Type))
}

func (g *Game) logMovePlayed(col int, player Player, elapsedMs float64, isAi bool) {
	if !GetConfig().LogMoves {
		return
	}
	source := "human"
	if isAi {
		source = "ai"
	}
	log.Printf("[game:%s] player %s -> column %d (%s, %.0fms)", shortID(g.id), player, col, source, elapsedMs)
}

func (g *Game) logWin(player Player) {
	if !GetConfig().LogMoves {
		return
	}
	log.Printf("[game:%s] player %s wins\n%s", shortID(g.id), player, g.board.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
