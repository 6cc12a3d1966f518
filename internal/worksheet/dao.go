package worksheet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/gpwtool/gpwmon/internal/fetch"
	"github.com/gpwtool/gpwmon/internal/parser"
	"github.com/gpwtool/gpwmon/internal/storage"
	"github.com/gpwtool/gpwmon/internal/table"
)

// ErrNotLoaded is returned by queries before the worksheet has been loaded.
var ErrNotLoaded = errors.New("worksheet not loaded")

// Source declares a remote source: where its payload lives, how to parse it,
// and which semantic columns it exposes. Source-specific URL composition
// (paging, limits, dates) happens inside URL implementations.
type Source interface {
	Name() string
	DataPath() storage.DataPath
	URL() string
	Parser() parser.Parser
	Columns() ColumnMap
}

// entry is the loaded worksheet state: the parsed table and its grab time.
type entry struct {
	table     *table.Table
	grabbedAt time.Time
}

// DAO owns one source's cached worksheet. All loads of a DAO serialize on its
// lock; concurrent refreshes collapse into a single download whose result
// every caller observes. Distinct DAOs are not coordinated.
type DAO struct {
	src    Source
	store  *storage.Store
	client *fetch.Client

	flight singleflight.Group

	mu     sync.Mutex
	entry  *entry
	noData bool
}

// NewDAO wires a source to its storage and downloader.
func NewDAO(src Source, store *storage.Store, client *fetch.Client) *DAO {
	return &DAO{src: src, store: store, client: client}
}

// Source returns the DAO's source.
func (d *DAO) Source() Source { return d.src }

// ColumnIndex resolves a semantic column to the source's physical index.
func (d *DAO) ColumnIndex(c Column) (int, error) {
	idx, ok := d.src.Columns()[c]
	if !ok {
		return 0, &InvalidColumnError{Column: c, Source: d.src.Name()}
	}
	return idx, nil
}

// Load fetches (when forced or missing from cache) and parses the worksheet.
// A nil table with nil error means the source reported no data. Concurrent
// calls share a single download and parse.
func (d *DAO) Load(ctx context.Context, forceRefresh bool) (*table.Table, error) {
	v, err, _ := d.flight.Do("load", func() (any, error) {
		return d.load(ctx, forceRefresh)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*table.Table), nil
}

func (d *DAO) load(ctx context.Context, forceRefresh bool) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dp := d.src.DataPath()
	if forceRefresh || !d.store.Exists(dp) {
		data, err := d.client.Fetch(ctx, d.src.URL())
		if err != nil {
			return nil, err
		}
		if err := d.store.WritePayload(dp, data); err != nil {
			return nil, err
		}
	}

	t, err := d.src.Parser().Parse(d.store.PathFor(dp))
	if err != nil {
		return nil, err
	}
	if t == nil {
		log.Debug().Str("source", d.src.Name()).Msg("source reported no data")
		d.entry = nil
		d.noData = true
		return nil, nil
	}

	now := time.Now()
	if err := d.store.WriteTimestamp(dp, now); err != nil {
		log.Warn().Err(err).Str("source", d.src.Name()).Msg("grab timestamp not recorded")
	}
	d.entry = &entry{table: t, grabbedAt: now}
	d.noData = false
	return t, nil
}

// Access returns the cached table if one was loaded, performing a load
// otherwise.
func (d *DAO) Access(ctx context.Context) (*table.Table, error) {
	d.mu.Lock()
	if d.entry != nil {
		t := d.entry.table
		d.mu.Unlock()
		return t, nil
	}
	if d.noData {
		d.mu.Unlock()
		return nil, nil
	}
	d.mu.Unlock()
	return d.Load(ctx, false)
}

// GrabbedAt reports when the cached worksheet was grabbed.
func (d *DAO) GrabbedAt() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entry == nil {
		return time.Time{}, false
	}
	return d.entry.grabbedAt, true
}

// cached returns the loaded table without triggering a load.
func (d *DAO) cached() (*table.Table, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entry == nil {
		return nil, ErrNotLoaded
	}
	return d.entry.table, nil
}
