package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	GameID          string            `json:"game_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	FEN             string            `json:"fen"`
	LegalMoves      []int             `json:"legal_moves"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	ConnectRun  int    `json:"connect_run"`
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
}

type apiMove struct {
	Column int `json:"column"`
}

type apiPosition struct {
	FEN string `json:"fen"`
}

type historyEntryDTO struct {
	Column    int     `json:"column"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	GameID          string            `json:"game_id"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	FEN             string            `json:"fen"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type evalResponse struct {
	Columns   []int  `json:"columns"`
	Lookups   int    `json:"lookups"`
	TableSize int    `json:"table_size"`
	FEN       string `json:"fen"`
}

type ttCacheStatusResponse struct {
	Engines map[string]EngineCacheStats `json:"engines"`
	Total   int                         `json:"total_entries"`
}

type ttCacheEntryDTO struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
	Hits  uint32 `json:"hits"`
}

type ttCacheEntriesResponse struct {
	Items  []ttCacheEntryDTO `json:"items"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
	Total  int               `json:"total"`
}

func main() {
	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ghostHub := NewGhostHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go ghostHub.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if controller.Tick() {
					if entry, ok := latestHistoryEntry(controller); ok {
						hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{entry}}
					}
					hub.broadcastStatus <- controllerStatus(controller)
				}
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		controller.Reset(controller.Settings())
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
			controller.ResetForConfigChange()
		}
		if payload.Settings != nil {
			settings := settingsFromDTO(*payload.Settings, controller.Settings())
			controller.UpdateSettings(settings, false)
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(payload.Column)
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		if entry, ok := latestHistoryEntry(controller); ok {
			hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{entry}}
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/undo", func(w http.ResponseWriter, r *http.Request) {
		undone, errMsg := controller.UndoLastMove()
		if !undone {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/eval", func(w http.ResponseWriter, r *http.Request) {
		fen := controller.Position()
		columns, err := controller.BestMoves()
		if err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		stats := controller.CacheStats()["advisor"]
		writeJSON(w, http.StatusOK, evalResponse{
			Columns:   columns,
			Lookups:   stats.Lookups,
			TableSize: stats.Entries,
			FEN:       fen,
		})
	})

	r.Get("/api/position", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, apiPosition{FEN: controller.Position()})
	})

	r.Post("/api/position", func(w http.ResponseWriter, r *http.Request) {
		var payload apiPosition
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := controller.SetPosition(payload.FEN); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ttCacheStatus(controller))
	})
	r.Delete("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		controller.FlushCaches()
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})
	r.Get("/api/cache/tt/entries", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}
		if offset < 0 {
			offset = 0
		}
		writeJSON(w, http.StatusOK, ttCacheEntries(controller, offset, limit))
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})
	r.Get("/ws/ghost", func(w http.ResponseWriter, r *http.Request) {
		serveGhostWS(ghostHub, controller, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}
	cancel()
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := runClientWriter(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			client.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "move":
			var payload apiMove
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
			controller.SubmitHumanMove(payload.Column)
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	board := controller.Board()
	return StatusResponse{
		GameID:          controller.GameID(),
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToSlice(board),
		NextPlayer:      playerToInt(board.Turn()),
		Winner:          winnerFromStatus(controller.Status()),
		Status:          statusToString(controller.Status()),
		FEN:             board.FEN(),
		LegalMoves:      board.LegalMoves(),
		History:         historyToDTO(controller.History()),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func resetFromController(controller *GameController) resetPayload {
	board := controller.Board()
	return resetPayload{
		GameID:          controller.GameID(),
		Board:           boardToSlice(board),
		NextPlayer:      playerToInt(board.Turn()),
		Winner:          winnerFromStatus(controller.Status()),
		Status:          statusToString(controller.Status()),
		FEN:             board.FEN(),
		History:         historyToDTO(controller.History()),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	if dto.Columns != 0 {
		settings.Columns = dto.Columns
	}
	if dto.Rows != 0 {
		settings.Rows = dto.Rows
	}
	if dto.ConnectRun != 0 {
		settings.ConnectRun = dto.ConnectRun
	}
	switch dto.Mode {
	case "ai_vs_ai":
		settings.Player1Type = PlayerAI
		settings.Player2Type = PlayerAI
	case "human_vs_human":
		settings.Player1Type = PlayerHuman
		settings.Player2Type = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.Player1Type = PlayerAI
			settings.Player2Type = PlayerHuman
		} else {
			settings.Player1Type = PlayerHuman
			settings.Player2Type = PlayerAI
		}
	}
	return settings.sanitized()
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.Player1Type == PlayerAI && settings.Player2Type == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.Player1Type == PlayerHuman && settings.Player2Type == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.Player1Type == PlayerHuman {
		humanPlayer = 1
	} else if settings.Player2Type == PlayerHuman {
		humanPlayer = 2
	}
	return GameSettingsDTO{
		Columns:     settings.Columns,
		Rows:        settings.Rows,
		ConnectRun:  settings.ConnectRun,
		Mode:        mode,
		HumanPlayer: humanPlayer,
	}
}

// boardToSlice emits rows bottom-up: rows[0] is the bottom row, one int per
// column (0 empty, 1/2 for the players).
func boardToSlice(board Board) [][]int {
	rows := make([][]int, board.RowCount())
	for row := 0; row < board.RowCount(); row++ {
		rows[row] = make([]int, board.ColumnCount())
		for col := 0; col < board.ColumnCount(); col++ {
			if piece, ok := board.PieceAt(col, row); ok {
				rows[row][col] = playerToInt(piece)
			}
		}
	}
	return rows
}

func playerToInt(player Player) int {
	if player == Player2 {
		return 2
	}
	return 1
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusPlayer1Won:
		return 1
	case StatusPlayer2Won:
		return 2
	default:
		return 0
	}
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusPlayer1Won:
		return "player1_won"
	case StatusPlayer2Won:
		return "player2_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Column:    entry.Column,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
	}
}

func latestHistoryEntry(controller *GameController) (historyEntryDTO, bool) {
	history := controller.History()
	if history.Size() == 0 {
		return historyEntryDTO{}, false
	}
	entries := history.All()
	return historyEntryToDTO(entries[len(entries)-1]), true
}

func ttCacheStatus(controller *GameController) ttCacheStatusResponse {
	engines := controller.CacheStats()
	total := 0
	for _, stats := range engines {
		total += stats.Entries
	}
	return ttCacheStatusResponse{Engines: engines, Total: total}
}

func ttCacheEntries(controller *GameController, offset, limit int) ttCacheEntriesResponse {
	entries, total := controller.TopCacheEntries(offset, limit)
	items := make([]ttCacheEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ttCacheEntryDTO{Key: entry.Key, Value: entry.Value, Hits: entry.Hits})
	}
	return ttCacheEntriesResponse{Items: items, Offset: offset, Limit: limit, Total: total}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
