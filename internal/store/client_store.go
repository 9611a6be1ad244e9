package store

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"snaplogd/internal/models"
	"snaplogd/internal/providers"
	"snaplogd/internal/structures"
)

// ClientStore reads and writes the client-config document on the shared path.
// Client processes read and modify the same file, so it is the source of
// truth and is re-read on every use rather than cached.
type ClientStore struct {
	path   string
	logger providers.Logger
}

func NewClientStore(conf *structures.Config, logger providers.Logger) *ClientStore {
	return &ClientStore{path: conf.Storage.ClientConfigFile, logger: logger}
}

func (s *ClientStore) Path() string {
	return s.path
}

// Load returns an empty map when the file does not exist yet; a corrupt file
// is an error so the caller can keep whatever it had.
func (s *ClientStore) Load() (models.ClientConfigs, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warnf(providers.TypeApp, "Client config file not found at %s, starting with empty configs", s.path)
			return make(models.ClientConfigs), nil
		}
		return nil, fmt.Errorf("failed to read client configs %s: %w", s.path, err)
	}

	var cfgs models.ClientConfigs
	if err := json.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("failed to parse client configs %s: %w", s.path, err)
	}
	if cfgs == nil {
		cfgs = make(models.ClientConfigs)
	}
	return cfgs, nil
}

func (s *ClientStore) Save(cfgs models.ClientConfigs) error {
	data, err := json.MarshalIndent(cfgs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal client configs: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write client configs %s: %w", s.path, err)
	}
	return nil
}
