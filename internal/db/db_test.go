package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/streak/internal/encryption"
	"github.com/ramanasai/streak/internal/events"
	"github.com/ramanasai/streak/internal/records"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(stepClock(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)))}, opts...)
	s := New(filepath.Join(t.TempDir(), "streak.db"), opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sleepRecord(t *testing.T) records.SleepRecord {
	t.Helper()
	r, err := records.NewSleep(
		time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 7, 0, 0, 0, time.UTC),
		"deep",
	)
	require.NoError(t, err)
	return r
}

func TestAddSleepRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := sleepRecord(t)
	id, err := s.AddSleep(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Sleep(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := in
	want.ID = id
	want.CreatedAt = "2024-03-02T08:00:01.000Z"
	assert.Equal(t, want, got[0])
	assert.Equal(t, 480, got[0].DurationMinutes)
}

func TestListOrderedByInsertionNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for _, activity := range []string{"A", "B", "C"} {
		r, err := records.NewExercise(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), activity, 30, "")
		require.NoError(t, err)
		id, err := s.AddExercise(ctx, r)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := s.Exercise(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{got[0].Activity, got[1].Activity, got[2].Activity})
	assert.Equal(t, ids[2], got[0].ID)
}

func TestSameCreatedAtFallsBackToInsertionOrder(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return fixed }))

	for _, topic := range []string{"A", "B", "C"} {
		r, err := records.NewStudy(fixed, topic, 10, "")
		require.NoError(t, err)
		_, err = s.AddStudy(ctx, r)
		require.NoError(t, err)
	}

	got, err := s.Study(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "C", got[0].Topic)
	assert.Equal(t, "A", got[2].Topic)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r, err := records.NewStudy(time.Now(), "Go", 25, "")
	require.NoError(t, err)
	keep, err := s.AddStudy(ctx, r)
	require.NoError(t, err)
	drop, err := s.AddStudy(ctx, r)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, records.KindStudy, drop))
	afterOnce, err := s.Study(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, records.KindStudy, drop))
	afterTwice, err := s.Study(ctx)
	require.NoError(t, err)

	assert.Equal(t, afterOnce, afterTwice)
	require.Len(t, afterTwice, 1)
	assert.Equal(t, keep, afterTwice[0].ID)

	require.NoError(t, s.Delete(ctx, records.KindStudy, "never-existed"))
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.AddSleep(ctx, sleepRecord(t))
	require.NoError(t, err)

	ex, err := s.Exercise(ctx)
	require.NoError(t, err)
	assert.Empty(t, ex)

	all, err := s.All(ctx, records.KindSleep)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, records.KindSleep, all[0].Kind())
}

func TestConcurrentFirstCallersShareOneHandle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const n = 16
	handles := make([]*sql.DB, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = s.EnsureOpen(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, handles[0], handles[i])
	}
}

func TestConcurrentAddsAllCommit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := records.NewExercise(time.Now(), "Rowing", 15, "")
			if err != nil {
				errs <- err
				return
			}
			_, err = s.AddExercise(ctx, r)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Exercise(ctx)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestUnsupportedEnvironmentFailsFast(t *testing.T) {
	s := New("")
	_, err := s.Sleep(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedEnvironment)

	_, err = s.AddStudy(context.Background(), records.StudyRecord{Topic: "x", DurationMinutes: 1})
	assert.ErrorIs(t, err, ErrUnsupportedEnvironment)
}

func TestNewerSchemaIsRejected(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "future.db")

	raw, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = raw.Exec(`PRAGMA user_version = 7`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	s := New(path)
	defer s.Close()
	_, err = s.Study(ctx)
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "migrate", pe.Op)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "streak.db")

	first := New(path)
	_, err := first.AddSleep(ctx, sleepRecord(t))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := New(path)
	defer second.Close()
	got, err := second.Sleep(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestChangesPublishedAfterCommit(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	s := newTestStore(t, WithBus(bus))
	ch, cancel := bus.Subscribe()
	defer cancel()

	id, err := s.AddSleep(ctx, sleepRecord(t))
	require.NoError(t, err)

	added := <-ch
	assert.Equal(t, events.OpAdded, added.Op)
	assert.Equal(t, id, added.ID)
	assert.Equal(t, records.KindSleep, added.Kind)

	// the record is already visible when the change arrives
	got, err := s.Sleep(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, s.Delete(ctx, records.KindSleep, id))
	deleted := <-ch
	assert.Equal(t, events.OpDeleted, deleted.Op)
	assert.Equal(t, uint64(2), bus.Version())
}

func TestNotesEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	enc, err := encryption.NewEncryptor("pw", dir)
	require.NoError(t, err)

	s := New(filepath.Join(dir, "streak.db"), WithEncryptor(enc))
	defer s.Close()

	r, err := records.NewExercise(time.Now(), "Climbing", 60, "sore fingers")
	require.NoError(t, err)
	id, err := s.AddExercise(ctx, r)
	require.NoError(t, err)

	conn, err := s.EnsureOpen(ctx)
	require.NoError(t, err)
	var raw string
	require.NoError(t, conn.QueryRow(`SELECT notes FROM exerciseRecords WHERE id = ?`, id).Scan(&raw))
	assert.True(t, encryption.IsEncrypted(raw))

	got, err := s.Exercise(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sore fingers", got[0].Notes)
}
