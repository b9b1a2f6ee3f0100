package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/db"
	"github.com/ramanasai/streak/internal/logger"
	"github.com/ramanasai/streak/internal/records"
)

type memStore struct {
	mu   sync.Mutex
	data map[records.Kind][]records.Record
	seq  int
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[records.Kind][]records.Record{}}
}

func (m *memStore) All(_ context.Context, kind records.Kind) ([]records.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]records.Record(nil), m.data[kind]...)
	return out, nil
}

func (m *memStore) Add(_ context.Context, r records.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.seq++
	id := fmt.Sprintf("id-%d", m.seq)
	switch v := r.(type) {
	case records.SleepRecord:
		v.ID = id
		r = v
	case records.ExerciseRecord:
		v.ID = id
		r = v
	case records.StudyRecord:
		v.ID = id
		r = v
	}
	// newest first
	m.data[r.Kind()] = append([]records.Record{r}, m.data[r.Kind()]...)
	return id, nil
}

func (m *memStore) Delete(_ context.Context, kind records.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.data[kind][:0]
	for _, r := range m.data[kind] {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	m.data[kind] = kept
	return nil
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(store Store) http.Handler {
	return New(store, Options{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	}, logger.Discard()).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreateListDelete(t *testing.T) {
	store := newMemStore()
	h := newTestServer(store)

	rr := do(t, h, http.MethodPost, "/api/exercise/records",
		`{"dateTime":"2024-03-10T07:00:00Z","activity":"Running","durationMinutes":45}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "id-1", created["id"])

	rr = do(t, h, http.MethodGet, "/api/exercise/records", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Total   int                      `json:"total"`
		Records []records.ExerciseRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Running", list.Records[0].Activity)
	assert.Equal(t, "2024-03-10T07:00:00.000Z", list.Records[0].DateTime)

	rr = do(t, h, http.MethodDelete, "/api/exercise/records/id-1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	// deleting again is fine
	rr = do(t, h, http.MethodDelete, "/api/exercise/records/id-1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/exercise/records", "")
	assert.Contains(t, rr.Body.String(), `"records":[]`)
}

func TestCreateValidation(t *testing.T) {
	h := newTestServer(newMemStore())

	tests := []struct {
		name string
		path string
		body string
	}{
		{"bad json", "/api/study/records", `{`},
		{"missing topic", "/api/study/records", `{"dateTime":"2024-03-10T07:00:00Z","durationMinutes":30}`},
		{"zero minutes", "/api/exercise/records", `{"dateTime":"2024-03-10T07:00:00Z","activity":"Row"}`},
		{"wake before sleep", "/api/sleep/records", `{"sleepTime":"2024-03-10T07:00:00Z","wakeTime":"2024-03-09T23:00:00Z"}`},
		{"bad timestamp", "/api/sleep/records", `{"sleepTime":"last night","wakeTime":"2024-03-10T07:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestUnknownKind(t *testing.T) {
	rr := do(t, newTestServer(newMemStore()), http.MethodGet, "/api/naps/records", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown_kind")
}

func TestListPagination(t *testing.T) {
	store := newMemStore()
	h := newTestServer(store)
	for i := 0; i < 5; i++ {
		rec, err := records.NewStudy(fixedNow, fmt.Sprintf("topic %d", i), 10, "")
		require.NoError(t, err)
		_, err = store.Add(context.Background(), rec)
		require.NoError(t, err)
	}

	rr := do(t, h, http.MethodGet, "/api/study/records?page=2&per_page=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Records    []records.StudyRecord `json:"records"`
		Page       int                   `json:"page"`
		TotalPages int                   `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "topic 2", resp.Records[0].Topic)

	rr = do(t, h, http.MethodGet, "/api/study/records?page=zero", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSummary(t *testing.T) {
	store := newMemStore()
	h := newTestServer(store)
	sleep, err := records.NewSleep(
		time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC), "")
	require.NoError(t, err)
	_, err = store.Add(context.Background(), sleep)
	require.NoError(t, err)

	rr := do(t, h, http.MethodGet, "/api/sleep/summary?days=3", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "h", resp.Unit)
	assert.Equal(t, []analytics.DailyTotal{
		{Date: "2024-03-08", Total: 0},
		{Date: "2024-03-09", Total: 0},
		{Date: "2024-03-10", Total: 7.5},
	}, resp.Days)
	assert.Equal(t, 1, resp.Stats.Streak)

	rr = do(t, h, http.MethodGet, "/api/sleep/summary?days=0", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHeatmapEndpoints(t *testing.T) {
	h := newTestServer(newMemStore())

	rr := do(t, h, http.MethodGet, "/api/study/heatmap.svg?months=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	// 2024-02-01 .. 2024-03-10 is 39 visible days
	assert.Equal(t, 39, strings.Count(rr.Body.String(), "<rect "))

	rr = do(t, h, http.MethodGet, "/api/study/heatmap?months=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var grid struct {
		Weeks int `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grid))
	assert.Equal(t, 7, grid.Weeks)

	rr = do(t, h, http.MethodGet, "/api/study/heatmap.svg?months=99", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIndexAndMetrics(t *testing.T) {
	h := newTestServer(newMemStore())

	rr := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, title := range []string{"Sleep", "Exercise", "Study"} {
		assert.Contains(t, body, "<h2>"+title+"</h2>")
	}
	assert.Equal(t, 6, strings.Count(body, "<svg "))

	rr = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "streak_http_requests_total")

	rr = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", rr.Body.String())
}

func TestStoreErrors(t *testing.T) {
	store := newMemStore()
	h := newTestServer(store)

	store.err = db.ErrUnsupportedEnvironment
	rr := do(t, h, http.MethodGet, "/api/sleep/records", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	store.err = &db.PersistenceError{Op: "read", Kind: records.KindSleep, Err: errors.New("disk I/O error")}
	rr = do(t, h, http.MethodGet, "/api/sleep/records", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk I/O")
}
