// Package offline keeps a local snapshot of the site's reference datasets so
// the tours stay browsable without network access.
//
// A Manager is built once at startup and shared by every consumer. The
// snapshot lives in a store.Store under SnapshotKey and is only ever replaced
// whole, after a populate has assembled every category in memory.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/store"
)

const (
	SnapshotKey       = "monastery-offline-data"
	DownloadKeyPrefix = "monastery-offline-download:"
	DownloadIndexKey  = "monastery-offline-downloads"

	DefaultStaleAfter = 24 * time.Hour
)

type Manager struct {
	store      store.Store
	source     Source
	latency    Latency
	fetcher    Fetcher
	now        func() time.Time
	staleAfter time.Duration

	mu       sync.Mutex
	online   bool
	nextSub  int
	subs     map[int]func(online bool)
	status   Status
	download sync.Mutex
}

type Option func(*Manager)

func WithSource(s Source) Option { return func(m *Manager) { m.source = s } }

func WithLatency(l Latency) Option { return func(m *Manager) { m.latency = l } }

func WithFetcher(f Fetcher) Option { return func(m *Manager) { m.fetcher = f } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func WithStaleAfter(d time.Duration) Option { return func(m *Manager) { m.staleAfter = d } }

func WithInitialReachability(online bool) Option { return func(m *Manager) { m.online = online } }

// New builds a Manager over st. Without options it has an empty source, no
// latency and assumes the network is reachable.
func New(st store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      st,
		source:     StaticSource{},
		latency:    NoLatency,
		now:        time.Now,
		staleAfter: DefaultStaleAfter,
		online:     true,
		subs:       make(map[int]func(bool)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fetcher == nil {
		m.fetcher = SimulatedFetcher(m.latency, m.now)
	}

	if m.HasSnapshot() {
		logger.Debug("offline: existing snapshot found in store")
	}
	return m
}

// ---- Reachability ----

// Online reports the last reachability state signalled by the environment.
func (m *Manager) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetReachability records a transition signalled by the environment.
// Subscribers are only called when the state actually changes.
func (m *Manager) SetReachability(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	handlers := make([]func(bool), 0, len(m.subs))
	for id := 0; id < m.nextSub; id++ {
		if h, ok := m.subs[id]; ok {
			handlers = append(handlers, h)
		}
	}
	m.mu.Unlock()

	if online {
		logger.Info("network is back online")
	} else {
		logger.Warn("network is offline, serving cached data")
	}
	for _, h := range handlers {
		h(online)
	}
}

// OnReachabilityChange registers h for future transitions. The returned func
// removes it.
func (m *Manager) OnReachabilityChange(h func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// ---- Snapshot reads ----

// HasSnapshot reports whether a readable snapshot is in the store right now.
func (m *Manager) HasSnapshot() bool {
	_, ok := m.loadSnapshot(context.Background())
	return ok
}

// Category returns the cached records of c. A missing or unreadable
// snapshot, or an unknown category, yields an empty slice.
func (m *Manager) Category(c Category) []Record {
	if !c.Valid() {
		return []Record{}
	}
	ds, ok := m.loadSnapshot(context.Background())
	if !ok {
		return []Record{}
	}
	return cloneRecords(ds.Records(c))
}

// Snapshot returns the whole cached dataset.
func (m *Manager) Snapshot() (Dataset, bool) {
	return m.loadSnapshot(context.Background())
}

// LastUpdated returns the completion time of the cached snapshot.
func (m *Manager) LastUpdated() (time.Time, bool) {
	ds, ok := m.loadSnapshot(context.Background())
	if !ok {
		return time.Time{}, false
	}
	return ds.UpdatedAt(), true
}

// Stale reports whether the snapshot is missing or older than the
// configured freshness window at now.
func (m *Manager) Stale(now time.Time) bool {
	last, ok := m.LastUpdated()
	if !ok {
		return true
	}
	return now.Sub(last) > m.staleAfter
}

func (m *Manager) loadSnapshot(ctx context.Context) (Dataset, bool) {
	data, err := m.store.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Debug("offline: snapshot unreadable, treating as absent: %v", err)
		}
		return Dataset{}, false
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		logger.Debug("offline: snapshot corrupt, treating as absent: %v", err)
		return Dataset{}, false
	}
	return ds, true
}
