package main

import "sync"

type Config struct {
	AiPlyLimit       int  `json:"ai_ply_limit"`
	AiMoveDelayMs    int  `json:"ai_move_delay_ms"`
	AiLogSearchStats bool `json:"ai_log_search_stats"`
	LogMoves         bool `json:"log_moves"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		// The ply limit is the only bound on search time; it is required,
		// not optional.
		AiPlyLimit: 10,

		AiMoveDelayMs:    0,
		AiLogSearchStats: false,
		LogMoves:         true,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
