package store

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"snaplogd/internal/models"
	"snaplogd/internal/providers"
	"snaplogd/internal/structures"
)

// ServerStore persists the server's own config document. The scheduler
// re-reads it every tick, so external edits take effect without a restart.
type ServerStore struct {
	path   string
	logger providers.Logger
}

func NewServerStore(conf *structures.Config, logger providers.Logger) *ServerStore {
	return &ServerStore{path: conf.Storage.ServerConfigFile, logger: logger}
}

// Load never fails: a missing or unreadable file yields defaults, a corrupt
// one logs a warning and yields defaults, a partial document is filled in
// field by field.
func (s *ServerStore) Load() *models.ServerConfig {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf(providers.TypeApp, "Failed to read server config %s: %s", s.path, err)
		}
		return models.DefaultServerConfig()
	}

	var cfg models.ServerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warnf(providers.TypeApp, "Corrupt server config %s, falling back to defaults: %s", s.path, err)
		return models.DefaultServerConfig()
	}

	cfg.Normalize()
	return &cfg
}

func (s *ServerStore) Save(cfg *models.ServerConfig) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal server config: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write server config %s: %w", s.path, err)
	}
	return nil
}
