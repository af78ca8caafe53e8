package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type GameSettings struct {
	Columns     int        `json:"columns"`
	Rows        int        `json:"rows"`
	ConnectRun  int        `json:"connect_run"`
	Player1Type PlayerType `json:"-"`
	Player2Type PlayerType `json:"-"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		Columns:     7,
		Rows:        6,
		ConnectRun:  4,
		Player1Type: PlayerHuman,
		Player2Type: PlayerAI,
	}
}

const (
	minBoardDimension = 1
	maxBoardDimension = 20
)

// sanitized clamps dimensions to [1, 20]. Zero values fall back to the
// defaults so partial settings payloads keep working.
func (s GameSettings) sanitized() GameSettings {
	defaults := DefaultGameSettings()
	out := s
	out.Columns = clampDimension(s.Columns, defaults.Columns)
	out.Rows = clampDimension(s.Rows, defaults.Rows)
	out.ConnectRun = clampDimension(s.ConnectRun, defaults.ConnectRun)
	return out
}

func clampDimension(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	if value < minBoardDimension {
		return minBoardDimension
	}
	if value > maxBoardDimension {
		return maxBoardDimension
	}
	return value
}
