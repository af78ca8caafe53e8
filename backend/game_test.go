package main

import "testing"

func humanVsHumanSettings() GameSettings {
	return GameSettings{
		Columns:     7,
		Rows:        6,
		ConnectRun:  4,
		Player1Type: PlayerHuman,
		Player2Type: PlayerHuman,
	}
}

// withTestConfig swaps the shared config for the test and restores it on
// cleanup, so games stay quiet and searches stay shallow.
func withTestConfig(t *testing.T, mutate func(*Config)) {
	t.Helper()
	old := configStore.Get()
	t.Cleanup(func() { configStore.Update(old) })
	cfg := old
	cfg.LogMoves = false
	cfg.AiLogSearchStats = false
	cfg.AiMoveDelayMs = 0
	if mutate != nil {
		mutate(&cfg)
	}
	configStore.Update(cfg)
}

func TestTryApplyMoveRequiresRunningGame(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	if ok, reason := game.TryApplyMove(3); ok {
		t.Fatalf("expected moves to be rejected before Start, got ok (reason %q)", reason)
	}
	game.Start()
	if ok, reason := game.TryApplyMove(3); !ok {
		t.Fatalf("expected move to apply after Start: %s", reason)
	}
	if game.History().Size() != 1 {
		t.Fatalf("expected 1 history entry, got %d", game.History().Size())
	}
}

func TestTryApplyMoveRejectsIllegalColumn(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	if ok, _ := game.TryApplyMove(7); ok {
		t.Fatalf("expected an out-of-range column to be rejected")
	}
	if game.History().Size() != 0 {
		t.Fatalf("a rejected move must not be recorded, got %d entries", game.History().Size())
	}
}

func TestUndoLastMoveRestoresPosition(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	for _, col := range []int{3, 3, 2} {
		if ok, reason := game.TryApplyMove(col); !ok {
			t.Fatalf("setup move %d failed: %s", col, reason)
		}
	}
	before := game.Position()
	if ok, reason := game.TryApplyMove(4); !ok {
		t.Fatalf("move failed: %s", reason)
	}
	if ok, reason := game.UndoLastMove(); !ok {
		t.Fatalf("undo failed: %s", reason)
	}
	if got := game.Position(); got != before {
		t.Fatalf("undo must restore the position: got %q want %q", got, before)
	}
	if game.History().Size() != 3 {
		t.Fatalf("expected 3 history entries after undo, got %d", game.History().Size())
	}
}

func TestUndoLastMoveFailsWithoutHistory(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	if ok, _ := game.UndoLastMove(); ok {
		t.Fatalf("expected undo to fail on a fresh game")
	}
}

func TestWinEndsGameAndBlocksFurtherMoves(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	for _, col := range []int{0, 4, 1, 5, 2, 6, 3} {
		if ok, reason := game.TryApplyMove(col); !ok {
			t.Fatalf("setup move %d failed: %s", col, reason)
		}
	}
	if game.Status() != StatusPlayer1Won {
		t.Fatalf("expected Player 1 win, got %v", game.Status())
	}
	if ok, _ := game.TryApplyMove(0); ok {
		t.Fatalf("expected moves to be rejected after the game ended")
	}
}

func TestUndoReopensFinishedGame(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	for _, col := range []int{0, 4, 1, 5, 2, 6, 3} {
		if ok, reason := game.TryApplyMove(col); !ok {
			t.Fatalf("setup move %d failed: %s", col, reason)
		}
	}
	if ok, reason := game.UndoLastMove(); !ok {
		t.Fatalf("undo failed: %s", reason)
	}
	if game.Status() != StatusRunning {
		t.Fatalf("expected the game to resume after undo, got %v", game.Status())
	}
	if ok, reason := game.TryApplyMove(3); !ok {
		t.Fatalf("expected the winning move to replay: %s", reason)
	}
	if game.Status() != StatusPlayer1Won {
		t.Fatalf("expected Player 1 win after replay, got %v", game.Status())
	}
}

func TestSetPositionClearsHistory(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	for _, col := range []int{3, 3, 2} {
		if ok, reason := game.TryApplyMove(col); !ok {
			t.Fatalf("setup move %d failed: %s", col, reason)
		}
	}
	if err := game.SetPosition("       2"); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if game.History().Size() != 0 {
		t.Fatalf("history must be cleared after SetPosition, got %d entries", game.History().Size())
	}
	if game.Board().Turn() != Player2 {
		t.Fatalf("expected Player 2 to move after loading the position")
	}
}

func TestSetPositionWithDecidedEncodingEndsGame(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	if err := game.SetPosition("   2 12 112 1112 1"); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if game.Status() != StatusPlayer2Won {
		t.Fatalf("expected Player 2 win from the loaded position, got %v", game.Status())
	}
}

func TestTickAppliesPendingHumanMove(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	game.Start()
	if game.Tick() {
		t.Fatalf("Tick must not move without a pending human move")
	}
	if !game.SubmitHumanMove(2) {
		t.Fatalf("SubmitHumanMove failed")
	}
	if !game.Tick() {
		t.Fatalf("Tick must apply the pending move")
	}
	if game.Board().ColumnHeight(2) != 1 {
		t.Fatalf("expected the pending move to land in column 2")
	}
}

func TestTickPlaysAiVsAiToCompletion(t *testing.T) {
	withTestConfig(t, func(cfg *Config) {
		cfg.AiPlyLimit = 2
	})
	settings := humanVsHumanSettings()
	settings.Player1Type = PlayerAI
	settings.Player2Type = PlayerAI
	game := NewGame(settings)
	game.Start()
	for i := 0; i < 7*6 && game.Status() == StatusRunning; i++ {
		if !game.Tick() {
			t.Fatalf("Tick made no progress on an AI turn (iteration %d)", i)
		}
	}
	if game.Status() == StatusRunning {
		t.Fatalf("expected the AI game to finish within a full board of moves")
	}
	if game.History().Size() == 0 {
		t.Fatalf("expected AI moves in the history")
	}
}

func TestBestMovesAdvisesWinningColumn(t *testing.T) {
	withTestConfig(t, func(cfg *Config) {
		cfg.AiPlyLimit = 4
	})
	game := NewGame(humanVsHumanSettings())
	game.Start()
	for _, col := range []int{0, 6, 1, 6, 2, 6} {
		if ok, reason := game.TryApplyMove(col); !ok {
			t.Fatalf("setup move %d failed: %s", col, reason)
		}
	}
	before := game.Position()
	best, err := game.BestMoves()
	if err != nil {
		t.Fatalf("BestMoves failed: %v", err)
	}
	if len(best) != 1 || best[0] != 3 {
		t.Fatalf("expected the winning column [3], got %v", best)
	}
	if got := game.Position(); got != before {
		t.Fatalf("advisory search must not disturb the live board")
	}
}

func TestResetMintsNewGameID(t *testing.T) {
	withTestConfig(t, nil)
	game := NewGame(humanVsHumanSettings())
	first := game.ID()
	game.Reset(humanVsHumanSettings())
	if game.ID() == first || game.ID() == "" {
		t.Fatalf("expected a fresh game id after Reset")
	}
}
