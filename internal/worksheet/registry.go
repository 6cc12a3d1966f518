package worksheet

import (
	"sync"

	"github.com/gpwtool/gpwmon/internal/fetch"
	"github.com/gpwtool/gpwmon/internal/storage"
)

// Registry owns DAOs keyed by source name. DAOs are created lazily on first
// request and live until released.
type Registry struct {
	store  *storage.Store
	client *fetch.Client

	mu   sync.Mutex
	daos map[string]*DAO
}

// NewRegistry creates a registry backed by the given storage and downloader.
func NewRegistry(store *storage.Store, client *fetch.Client) *Registry {
	return &Registry{
		store:  store,
		client: client,
		daos:   make(map[string]*DAO),
	}
}

// DAO returns the registry's DAO for a source, creating it on first use.
func (r *Registry) DAO(src Source) *DAO {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.daos[src.Name()]; ok {
		return d
	}
	d := NewDAO(src, r.store, r.client)
	r.daos[src.Name()] = d
	return d
}

// Get returns a previously created DAO by source name.
func (r *Registry) Get(name string) (*DAO, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.daos[name]
	return d, ok
}

// Release drops a DAO and its in-memory worksheet. The on-disk cache stays.
func (r *Registry) Release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.daos, name)
}
