package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/store"
	"github.com/MrSnakeDoc/gompa/internal/utils"
)

var (
	ErrEmptyLabel     = errors.New("empty resource label")
	ErrDownloadFailed = errors.New("download failed")
)

// DownloadEntry describes one resource saved through Download.
type DownloadEntry struct {
	Label    string `json:"label"`
	Size     int64  `json:"size"`
	SHA256   string `json:"sha256"`
	StoredAt int64  `json:"storedAt"`
}

// Download acquires the resource named label and keeps it for offline use.
// It never touches the category snapshot.
func (m *Manager) Download(ctx context.Context, label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	key := downloadKey(label)
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	payload, err := m.fetcher.Fetch(ctx, label)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %w", ErrDownloadFailed, label, err)
	}

	m.download.Lock()
	defer m.download.Unlock()

	if err := m.store.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("%w: store %s: %w", ErrDownloadFailed, label, err)
	}

	entries := m.Downloads()
	entry := DownloadEntry{
		Label:    label,
		Size:     int64(len(payload)),
		SHA256:   utils.SHA256Hex(payload),
		StoredAt: m.now().UnixMilli(),
	}
	replaced := false
	for i := range entries {
		if entries[i].Label == label {
			entries[i] = entry
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode index: %w", ErrDownloadFailed, err)
	}
	if err := m.store.Set(ctx, DownloadIndexKey, data); err != nil {
		return fmt.Errorf("%w: store index: %w", ErrDownloadFailed, err)
	}

	logger.Debug("offline: downloaded %s (%s)", label, utils.HumanSize(entry.Size))
	return nil
}

// Downloads lists the resources saved through Download, sorted by label.
func (m *Manager) Downloads() []DownloadEntry {
	data, err := m.store.Get(context.Background(), DownloadIndexKey)
	if err != nil {
		return []DownloadEntry{}
	}
	var entries []DownloadEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Debug("offline: download index corrupt, ignoring: %v", err)
		return []DownloadEntry{}
	}
	return utils.CloneSlice(entries)
}

// DownloadPayload returns the bytes stored for label.
func (m *Manager) DownloadPayload(label string) ([]byte, bool) {
	if label == "" {
		return nil, false
	}
	data, err := m.store.Get(context.Background(), downloadKey(label))
	if err != nil {
		return nil, false
	}
	return data, true
}

// downloadKey derives the store key for label. Labels are free text, so the
// key carries the label's sha256 rather than the label itself.
func downloadKey(label string) string {
	return DownloadKeyPrefix + utils.SHA256Hex([]byte(label))
}

// SimulatedFetcher stands in for a backend: it waits on latency and returns
// a small JSON document describing the resource.
func SimulatedFetcher(latency Latency, now func() time.Time) Fetcher {
	return FetcherFunc(func(ctx context.Context, label string) ([]byte, error) {
		if err := latency.Wait(ctx); err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{
			"label":        label,
			"downloadedAt": now().UnixMilli(),
		})
	})
}
