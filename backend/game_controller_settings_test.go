package main

import (
	"testing"
	"time"
)

func TestUpdateSettingsSwitchToAIVsAIKeepsBoardAndContinuesGame(t *testing.T) {
	withTestConfig(t, func(cfg *Config) {
		cfg.AiPlyLimit = 2
	})

	settings := humanVsHumanSettings()
	controller := NewGameController(settings)
	controller.StartGame(settings)

	if applied, reason := controller.ApplyHumanMove(3); !applied {
		t.Fatalf("expected first human move to apply: %s", reason)
	}
	if applied, reason := controller.ApplyHumanMove(2); !applied {
		t.Fatalf("expected second human move to apply: %s", reason)
	}

	before := controller.Position()
	beforeHistorySize := controller.History().Size()
	if beforeHistorySize != 2 {
		t.Fatalf("expected 2 moves before settings switch, got %d", beforeHistorySize)
	}

	updated := controller.Settings()
	updated.Player1Type = PlayerAI
	updated.Player2Type = PlayerAI
	controller.UpdateSettings(updated, false)

	if got := controller.Position(); got != before {
		t.Fatalf("expected the board to be preserved when switching player types: got %q want %q", got, before)
	}
	if controller.History().Size() != beforeHistorySize {
		t.Fatalf("expected history to be preserved when switching player types")
	}
	if got := controller.Settings(); got.Player1Type != PlayerAI || got.Player2Type != PlayerAI {
		t.Fatalf("expected settings to switch to ai_vs_ai, got p1=%d p2=%d", got.Player1Type, got.Player2Type)
	}

	moved := false
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if controller.Tick() {
			moved = true
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !moved {
		t.Fatalf("expected AI to make a move after switching to ai_vs_ai")
	}
	if controller.History().Size() <= beforeHistorySize {
		t.Fatalf("expected history to grow after AI move")
	}
}

func TestUpdateSettingsWithResetStartsFreshBoard(t *testing.T) {
	withTestConfig(t, nil)

	settings := humanVsHumanSettings()
	controller := NewGameController(settings)
	controller.StartGame(settings)
	if applied, reason := controller.ApplyHumanMove(3); !applied {
		t.Fatalf("expected move to apply: %s", reason)
	}

	resized := settings
	resized.Columns = 9
	resized.Rows = 7
	controller.UpdateSettings(resized, true)

	if controller.History().Size() != 0 {
		t.Fatalf("expected history to be cleared on reset")
	}
	board := controller.Board()
	if board.ColumnCount() != 9 || board.RowCount() != 7 {
		t.Fatalf("expected a 9x7 board after reset, got %dx%d", board.ColumnCount(), board.RowCount())
	}
}

func TestControllerRejectsHumanMoveOnAITurn(t *testing.T) {
	withTestConfig(t, func(cfg *Config) {
		cfg.AiPlyLimit = 1
	})

	settings := humanVsHumanSettings()
	settings.Player1Type = PlayerAI
	controller := NewGameController(settings)
	controller.StartGame(settings)

	if applied, reason := controller.ApplyHumanMove(3); applied {
		t.Fatalf("expected human move to be rejected on the AI's turn (reason %q)", reason)
	}
}

func TestControllerCacheStatsAndFlush(t *testing.T) {
	withTestConfig(t, func(cfg *Config) {
		cfg.AiPlyLimit = 3
	})

	settings := humanVsHumanSettings()
	controller := NewGameController(settings)
	controller.StartGame(settings)
	if _, err := controller.BestMoves(); err != nil {
		t.Fatalf("BestMoves failed: %v", err)
	}

	stats := controller.CacheStats()
	advisor, ok := stats["advisor"]
	if !ok {
		t.Fatalf("expected advisor cache stats, got %v", stats)
	}
	if advisor.Entries == 0 {
		t.Fatalf("expected the advisor table to hold entries after a search")
	}
	if advisor.PlyLimit != 3 {
		t.Fatalf("expected ply limit 3 in stats, got %d", advisor.PlyLimit)
	}

	controller.FlushCaches()
	if got := controller.CacheStats()["advisor"].Entries; got != 0 {
		t.Fatalf("expected the advisor table to be empty after flush, got %d entries", got)
	}
}
