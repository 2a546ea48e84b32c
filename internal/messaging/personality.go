package messaging

import (
	"context"
	"sync"
)

// PersonalityConfig tunes how the assistant writes. Sliders are 0-100;
// the config is saved wholesale, never field by field.
type PersonalityConfig struct {
	Formality             int  `json:"formality"`
	Empathy               int  `json:"empathy"`
	Length                int  `json:"length"`
	EmojiUsage            bool `json:"emoji_usage"`
	ProactiveRescheduling bool `json:"proactive_rescheduling"`
	ABTesting             bool `json:"ab_testing"`
}

// DefaultPersonality is the configuration used until the clinic saves
// its own.
var DefaultPersonality = PersonalityConfig{
	Formality:             70,
	Empathy:               80,
	Length:                50,
	ProactiveRescheduling: true,
}

// ConfigStore holds the current personality configuration.
type ConfigStore struct {
	mu     sync.RWMutex
	config PersonalityConfig
}

// NewConfigStore creates a store seeded with the default personality.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{config: DefaultPersonality}
}

// Get returns the current configuration.
func (s *ConfigStore) Get(ctx context.Context) PersonalityConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Save replaces the configuration wholesale.
func (s *ConfigStore) Save(ctx context.Context, cfg PersonalityConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}
