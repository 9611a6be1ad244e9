package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snaplogd/internal/providers"
	"snaplogd/internal/store"
	"snaplogd/internal/structures"
)

// Registry reconciles device directories on the shared root with entries in
// the client-config document. A device counts as known if it appears in
// either place.
type Registry struct {
	basePath string
	reserved map[string]struct{}
	clients  *store.ClientStore
	logger   providers.Logger
}

func NewRegistry(conf *structures.Config, clients *store.ClientStore, logger providers.Logger) *Registry {
	cfgBase := filepath.Base(conf.Storage.ClientConfigFile)
	reserved := map[string]struct{}{
		"logs":      {},
		"converted": {},
		cfgBase:     {},
		strings.TrimSuffix(cfgBase, filepath.Ext(cfgBase)): {},
	}
	return &Registry{
		basePath: conf.Storage.BasePath,
		reserved: reserved,
		clients:  clients,
		logger:   logger,
	}
}

// Discover returns the sorted union of device directories under the shared
// root and device IDs already present in the client configs. A missing root
// is not an error, just zero discovered directories.
func (r *Registry) Discover() []string {
	seen := make(map[string]struct{})

	entries, err := os.ReadDir(r.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warnf(providers.TypeApp, "Network base path not found: %s", r.basePath)
		} else {
			r.logger.Errorf(providers.TypeApp, "Error scanning network path for clients: %s", err)
		}
	} else {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if _, ok := r.reserved[entry.Name()]; ok {
				continue
			}
			seen[entry.Name()] = struct{}{}
		}
	}

	cfgs, err := r.clients.Load()
	if err != nil {
		r.logger.Errorf(providers.TypeApp, "Error loading client configs during discovery: %s", err)
	} else {
		for id := range cfgs {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
