package offline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func testSource() StaticSource {
	return StaticSource{
		Monasteries: {
			{"id": "potala-palace", "name": "Potala Palace"},
			{"id": "jokhang-temple", "name": "Jokhang Temple"},
		},
		Tours:             {{"id": "tour-1", "stops": []any{"potala-palace", "jokhang-temple"}}},
		Maps:              {{"id": "map-lhasa"}},
		Documents:         {{"id": "doc-1"}, {"id": "doc-2"}},
		EmergencyContacts: {{"id": "police", "phone": "110"}},
	}
}

func newTestManager(t *testing.T, st store.Store, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithSource(testSource()),
		WithLatency(NoLatency),
		WithClock(func() time.Time { return fixedNow }),
	}
	return New(st, append(base, opts...)...)
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

// gateLatency blocks every Wait until release is closed.
type gateLatency struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gateLatency {
	return &gateLatency{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gateLatency) Wait(ctx context.Context) error {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestPopulate_ProgressSequenceAndSeededMonasteries(t *testing.T) {
	m := newTestManager(t, store.NewMemory())

	var seen []int
	var cats []Category
	_, err := m.Populate(context.Background(), func(p Progress) {
		seen = append(seen, p.Percent)
		cats = append(cats, p.Category)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40, 60, 80, 100}, seen)
	assert.Equal(t, Categories, cats)
	assert.Equal(t, []string{"potala-palace", "jokhang-temple"}, ids(m.Category(Monasteries)))

	st := m.Status()
	assert.Equal(t, Succeeded, st.State)
	assert.Equal(t, 100, st.Progress)
}

func TestPopulate_EveryCategoryMatchesStagedRecords(t *testing.T) {
	src := testSource()
	m := newTestManager(t, store.NewMemory())

	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)

	for _, c := range Categories {
		assert.Equal(t, ids(src[c]), ids(m.Category(c)), c)
	}
}

func TestHasSnapshot_FalseBeforeTrueAfter(t *testing.T) {
	m := newTestManager(t, store.NewMemory())
	assert.False(t, m.HasSnapshot())

	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, m.HasSnapshot())
}

func TestPopulate_PersistedLayout(t *testing.T) {
	st := store.NewMemory()
	m := newTestManager(t, st)

	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)

	raw, err := st.Get(context.Background(), SnapshotKey)
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &obj))
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"monasteries", "tours", "maps", "documents", "emergencyContacts", "lastUpdated"}, keys)
	assert.JSONEq(t, "1792056600000", string(obj["lastUpdated"]))
}

func TestPopulate_StorageFailureLeavesNoSnapshot(t *testing.T) {
	st := store.NewMemory()
	st.FailWrites = errors.New("quota exceeded")
	m := newTestManager(t, st)

	var seen []int
	_, err := m.Populate(context.Background(), func(p Progress) { seen = append(seen, p.Percent) })

	require.ErrorIs(t, err, ErrPopulateFailed)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.False(t, m.HasSnapshot())
	assert.NotContains(t, seen, 100)
	assert.Equal(t, 0, m.Status().Progress)
	assert.Equal(t, Failed, m.Status().State)
	assert.Equal(t, 0, st.Writes())
}

func TestPopulate_FailureKeepsPreviousSnapshot(t *testing.T) {
	st := store.NewMemory()
	m := newTestManager(t, st)
	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)
	before, err := st.Get(context.Background(), SnapshotKey)
	require.NoError(t, err)

	boom := errors.New("source exploded")
	m.source = SourceFunc(func(_ context.Context, c Category) ([]Record, error) {
		if c == Documents {
			return nil, boom
		}
		return []Record{{"id": "replacement"}}, nil
	})

	_, err = m.Populate(context.Background(), nil)
	require.ErrorIs(t, err, boom)

	after, err := st.Get(context.Background(), SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"potala-palace", "jokhang-temple"}, ids(m.Category(Monasteries)))
}

func TestPopulate_ReplacesPreviousSnapshotCompletely(t *testing.T) {
	st := store.NewMemory()
	now := fixedNow
	m := newTestManager(t, st, WithClock(func() time.Time { return now }))

	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)
	first, _ := m.LastUpdated()

	now = fixedNow.Add(time.Hour)
	m.source = StaticSource{Monasteries: {{"id": "sera"}}}
	_, err = m.Populate(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sera"}, ids(m.Category(Monasteries)))
	for _, c := range Categories[1:] {
		assert.Empty(t, m.Category(c), c)
	}
	second, _ := m.LastUpdated()
	assert.True(t, second.After(first))
}

func TestPopulate_RejectsConcurrentRun(t *testing.T) {
	gate := newGate()
	m := newTestManager(t, store.NewMemory(), WithLatency(gate))

	done := make(chan error, 1)
	go func() {
		_, err := m.Populate(context.Background(), nil)
		done <- err
	}()
	<-gate.entered

	assert.Equal(t, Running, m.Status().State)
	_, err := m.Populate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPopulateInProgress)

	close(gate.release)
	require.NoError(t, <-done)

	_, err = m.Populate(context.Background(), nil)
	assert.NoError(t, err, "a finished run frees the slot")
}

func TestPopulate_CancelledMidRunWritesNothing(t *testing.T) {
	gate := newGate()
	st := store.NewMemory()
	m := newTestManager(t, st, WithLatency(gate))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.Populate(ctx, nil)
		done <- err
	}()
	<-gate.entered
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrPopulateFailed)
	assert.False(t, m.HasSnapshot())
	assert.Equal(t, 0, st.Writes())
}

func TestPopulate_ProgressIsNonDecreasing(t *testing.T) {
	m := newTestManager(t, store.NewMemory())
	last := -1
	_, err := m.Populate(context.Background(), func(p Progress) {
		assert.Greater(t, p.Percent, last)
		assert.Equal(t, p.Percent, m.Status().Progress)
		last = p.Percent
	})
	require.NoError(t, err)
}

func TestPopulate_CacheDoesNotAliasSource(t *testing.T) {
	src := testSource()
	m := newTestManager(t, store.NewMemory(), WithSource(src))
	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)

	got := m.Category(Monasteries)
	got[0]["name"] = "changed"
	assert.Equal(t, "Potala Palace", src[Monasteries][0]["name"])
	assert.Equal(t, "Potala Palace", m.Category(Monasteries)[0]["name"])
}

func TestCategory_EmptyCases(t *testing.T) {
	st := store.NewMemory()
	m := newTestManager(t, st)

	t.Run("no snapshot", func(t *testing.T) {
		got := m.Category(Monasteries)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := m.Populate(context.Background(), nil)
		require.NoError(t, err)
		got := m.Category(Category("temples"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		st.Put(SnapshotKey, []byte("{not json"))
		assert.Empty(t, m.Category(Monasteries))
		assert.False(t, m.HasSnapshot())
	})

	t.Run("missing key in payload", func(t *testing.T) {
		st.Put(SnapshotKey, []byte(`{"monasteries":[{"id":"a"}],"lastUpdated":1}`))
		got := m.Category(Tours)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, []string{"a"}, ids(m.Category(Monasteries)))
	})
}

func TestStale(t *testing.T) {
	m := newTestManager(t, store.NewMemory(), WithStaleAfter(time.Hour))
	assert.True(t, m.Stale(fixedNow), "missing snapshot is stale")

	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, m.Stale(fixedNow.Add(30*time.Minute)))
	assert.True(t, m.Stale(fixedNow.Add(2*time.Hour)))
}

func TestReachability_NotifiesOnTransitionsOnly(t *testing.T) {
	m := newTestManager(t, store.NewMemory(), WithInitialReachability(true))
	assert.True(t, m.Online())

	var got []bool
	unsubscribe := m.OnReachabilityChange(func(online bool) { got = append(got, online) })

	m.SetReachability(true)
	m.SetReachability(false)
	m.SetReachability(false)
	m.SetReachability(true)
	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, m.Online())

	unsubscribe()
	unsubscribe()
	m.SetReachability(false)
	assert.Equal(t, []bool{false, true}, got)
	assert.False(t, m.Online())
}

func TestReachability_HandlersCalledInSubscriptionOrder(t *testing.T) {
	m := newTestManager(t, store.NewMemory())
	var order []string
	m.OnReachabilityChange(func(bool) { order = append(order, "first") })
	m.OnReachabilityChange(func(bool) { order = append(order, "second") })

	m.SetReachability(false)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"monasteries", Monasteries, false},
		{"emergencyContacts", EmergencyContacts, false},
		{"emergency-contacts", EmergencyContacts, false},
		{"emergency_contacts", EmergencyContacts, false},
		{"temples", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
