package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
)

var (
	ErrPopulateInProgress = errors.New("populate already in progress")
	ErrPopulateFailed     = errors.New("populate failed")
)

type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Progress is emitted once per completed category.
type Progress struct {
	Percent  int      `json:"percent"`
	Category Category `json:"category"`
}

// Status describes the current or last populate run.
type Status struct {
	State      State     `json:"state"`
	Progress   int       `json:"progress"`
	Current    Category  `json:"current,omitempty"`
	Err        error     `json:"-"`
	LastError  string    `json:"lastError,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Populate rebuilds the snapshot from the source, one category at a time in
// Categories order. onProgress (may be nil) is called after each category
// with a strictly increasing percentage; the final 100 is only reported once
// the snapshot has been written.
//
// Nothing is written unless every step succeeds, so a failed or abandoned
// run leaves the previous snapshot in place. A call made while another
// populate is running returns ErrPopulateInProgress immediately.
func (m *Manager) Populate(ctx context.Context, onProgress func(Progress)) (Dataset, error) {
	if !m.begin() {
		return Dataset{}, ErrPopulateInProgress
	}
	return m.run(ctx, onProgress)
}

// Start is the non-blocking form of Populate. The slot is claimed before it
// returns; the channel yields the run's result once and is then closed.
func (m *Manager) Start(ctx context.Context, onProgress func(Progress)) (<-chan error, error) {
	if !m.begin() {
		return nil, ErrPopulateInProgress
	}
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := m.run(ctx, onProgress)
		done <- err
	}()
	return done, nil
}

func (m *Manager) run(ctx context.Context, onProgress func(Progress)) (Dataset, error) {
	logger.Debug("offline: populate started")

	var ds Dataset
	last := len(Categories) - 1
	for i, c := range Categories {
		m.setCurrent(c)

		records, err := m.source.Load(ctx, c)
		if err != nil {
			return Dataset{}, m.fail(fmt.Errorf("load %s: %w", c, err))
		}
		if err := m.latency.Wait(ctx); err != nil {
			return Dataset{}, m.fail(fmt.Errorf("load %s: %w", c, err))
		}
		ds.set(c, cloneRecords(records))
		logger.Debug("offline: staged %d %s", len(records), c)

		if i < last {
			m.report(Progress{Percent: percentAfter(i), Category: c}, onProgress)
		}
	}

	ds.LastUpdated = m.now().UnixMilli()
	data, err := json.Marshal(ds)
	if err != nil {
		return Dataset{}, m.fail(fmt.Errorf("encode snapshot: %w", err))
	}
	if err := m.store.Set(ctx, SnapshotKey, data); err != nil {
		return Dataset{}, m.fail(fmt.Errorf("write snapshot: %w", err))
	}

	m.report(Progress{Percent: 100, Category: Categories[last]}, onProgress)
	m.finish()
	logger.Debug("offline: populate finished (%d bytes)", len(data))
	return ds, nil
}

func percentAfter(i int) int {
	return 100 * (i + 1) / len(Categories)
}

func (m *Manager) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.State == Running {
		return false
	}
	m.status = Status{State: Running, StartedAt: m.now()}
	return true
}

func (m *Manager) setCurrent(c Category) {
	m.mu.Lock()
	m.status.Current = c
	m.mu.Unlock()
}

func (m *Manager) report(p Progress, onProgress func(Progress)) {
	m.mu.Lock()
	m.status.Progress = p.Percent
	m.mu.Unlock()
	if onProgress != nil {
		onProgress(p)
	}
}

func (m *Manager) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.State = Succeeded
	m.status.Current = ""
	m.status.FinishedAt = m.now()
}

func (m *Manager) fail(cause error) error {
	err := fmt.Errorf("%w: %w", ErrPopulateFailed, cause)

	m.mu.Lock()
	m.status.State = Failed
	m.status.Progress = 0
	m.status.Current = ""
	m.status.Err = err
	m.status.LastError = err.Error()
	m.status.FinishedAt = m.now()
	m.mu.Unlock()

	logger.Debug("offline: %v", err)
	return err
}
