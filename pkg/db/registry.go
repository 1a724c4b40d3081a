package db

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"sync"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/consts"
	"github.com/pkg/errors"
)

type (
	// Opener opens a handle for a configured connection.
	Opener func(ctx context.Context, conn config.Connection) (*sql.DB, error)

	// Registry hands out database handles by connection name.
	Registry struct {
		mu      sync.Mutex
		conns   map[string]config.Connection
		handles map[string]*sql.DB
		opener  Opener
	}
)

// NewRegistry creates a registry over the configured connections. Handles are
// opened with Open on first use.
func NewRegistry(conns map[string]config.Connection) *Registry {
	return NewRegistryWithOpener(conns, Open)
}

// NewRegistryWithOpener creates a registry using a custom opener.
func NewRegistryWithOpener(conns map[string]config.Connection, opener Opener) *Registry {
	return &Registry{
		conns:   conns,
		handles: make(map[string]*sql.DB),
		opener:  opener,
	}
}

// Get returns the handle for the named connection, opening it if needed. An
// empty name selects the default connection.
func (r *Registry) Get(ctx context.Context, name string) (*sql.DB, error) {
	if name == "" {
		name = consts.DefaultConnection
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if handle, ok := r.handles[name]; ok {
		return handle, nil
	}

	conn, ok := r.conns[name]
	if !ok {
		return nil, errors.Errorf("unknown connection: %s", name)
	}

	handle, err := r.opener(ctx, conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open connection %s", name)
	}

	r.handles[name] = handle
	return handle, nil
}

// Names returns the configured connection names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.conns))
}

// Close closes every opened handle. The first error encountered is returned.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, name := range slices.Sorted(maps.Keys(r.handles)) {
		if err := r.handles[name].Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to close connection %s", name)
		}
	}

	clear(r.handles)
	return firstErr
}
