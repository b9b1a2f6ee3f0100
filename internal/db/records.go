package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/events"
	"github.com/ramanasai/streak/internal/observability"
	"github.com/ramanasai/streak/internal/records"
)

// Collection is the table backing each record kind.
var Collection = map[records.Kind]string{
	records.KindSleep:    "sleepRecords",
	records.KindExercise: "exerciseRecords",
	records.KindStudy:    "studyRecords",
}

// AddSleep stores r under a fresh id and creation time and returns the id.
// ID and CreatedAt on r are ignored.
func (s *Store) AddSleep(ctx context.Context, r records.SleepRecord) (string, error) {
	return s.insert(ctx, records.KindSleep, r.Notes, func(id, notes, created string) (string, []any) {
		return `INSERT INTO sleepRecords (id, sleep_time, wake_time, duration_minutes, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			[]any{id, r.SleepTime, r.WakeTime, r.DurationMinutes, nullIfEmpty(notes), created}
	})
}

func (s *Store) AddExercise(ctx context.Context, r records.ExerciseRecord) (string, error) {
	return s.insert(ctx, records.KindExercise, r.Notes, func(id, notes, created string) (string, []any) {
		return `INSERT INTO exerciseRecords (id, date_time, activity, duration_minutes, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			[]any{id, r.DateTime, r.Activity, r.DurationMinutes, nullIfEmpty(notes), created}
	})
}

func (s *Store) AddStudy(ctx context.Context, r records.StudyRecord) (string, error) {
	return s.insert(ctx, records.KindStudy, r.Notes, func(id, notes, created string) (string, []any) {
		return `INSERT INTO studyRecords (id, date_time, topic, duration_minutes, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			[]any{id, r.DateTime, r.Topic, r.DurationMinutes, nullIfEmpty(notes), created}
	})
}

// Add dispatches on the concrete record type.
func (s *Store) Add(ctx context.Context, r records.Record) (string, error) {
	switch v := r.(type) {
	case records.SleepRecord:
		return s.AddSleep(ctx, v)
	case records.ExerciseRecord:
		return s.AddExercise(ctx, v)
	case records.StudyRecord:
		return s.AddStudy(ctx, v)
	}
	return "", fmt.Errorf("unsupported record type %T", r)
}

func (s *Store) insert(ctx context.Context, kind records.Kind, notes string, stmt func(id, notes, created string) (string, []any)) (id string, err error) {
	started := time.Now()
	defer func() { observability.ObserveStoreOp(kind.String(), "add", started, err) }()

	conn, err := s.EnsureOpen(ctx)
	if err != nil {
		return "", err
	}
	if s.enc != nil {
		if notes, err = s.enc.Encrypt(notes); err != nil {
			return "", persistErr("add", kind, err)
		}
	}

	id = uuid.NewString()
	created := records.FormatTime(s.now())
	query, args := stmt(id, notes, created)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return "", persistErr("add", kind, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return "", persistErr("add", kind, err)
	}
	if err = tx.Commit(); err != nil {
		return "", persistErr("add", kind, err)
	}

	s.log.Debug("record added", slog.String("kind", kind.String()), slog.String("id", id))
	s.publish(events.Change{Kind: kind, Op: events.OpAdded, ID: id})
	return id, nil
}

// Sleep returns every sleep record, most recently inserted first.
func (s *Store) Sleep(ctx context.Context) ([]records.SleepRecord, error) {
	return list(ctx, s, records.KindSleep,
		`SELECT id, sleep_time, wake_time, duration_minutes, notes, created_at
		FROM sleepRecords ORDER BY created_at DESC, rowid DESC`,
		func(rows *sql.Rows) (records.SleepRecord, sql.NullString, error) {
			var r records.SleepRecord
			var notes sql.NullString
			err := rows.Scan(&r.ID, &r.SleepTime, &r.WakeTime, &r.DurationMinutes, &notes, &r.CreatedAt)
			return r, notes, err
		},
		func(r *records.SleepRecord, notes string) { r.Notes = notes },
	)
}

func (s *Store) Exercise(ctx context.Context) ([]records.ExerciseRecord, error) {
	return list(ctx, s, records.KindExercise,
		`SELECT id, date_time, activity, duration_minutes, notes, created_at
		FROM exerciseRecords ORDER BY created_at DESC, rowid DESC`,
		func(rows *sql.Rows) (records.ExerciseRecord, sql.NullString, error) {
			var r records.ExerciseRecord
			var notes sql.NullString
			err := rows.Scan(&r.ID, &r.DateTime, &r.Activity, &r.DurationMinutes, &notes, &r.CreatedAt)
			return r, notes, err
		},
		func(r *records.ExerciseRecord, notes string) { r.Notes = notes },
	)
}

func (s *Store) Study(ctx context.Context) ([]records.StudyRecord, error) {
	return list(ctx, s, records.KindStudy,
		`SELECT id, date_time, topic, duration_minutes, notes, created_at
		FROM studyRecords ORDER BY created_at DESC, rowid DESC`,
		func(rows *sql.Rows) (records.StudyRecord, sql.NullString, error) {
			var r records.StudyRecord
			var notes sql.NullString
			err := rows.Scan(&r.ID, &r.DateTime, &r.Topic, &r.DurationMinutes, &notes, &r.CreatedAt)
			return r, notes, err
		},
		func(r *records.StudyRecord, notes string) { r.Notes = notes },
	)
}

// All returns the records of kind in the same order as the typed listers.
func (s *Store) All(ctx context.Context, kind records.Kind) ([]records.Record, error) {
	switch kind {
	case records.KindSleep:
		rs, err := s.Sleep(ctx)
		return widen(rs), err
	case records.KindExercise:
		rs, err := s.Exercise(ctx)
		return widen(rs), err
	case records.KindStudy:
		rs, err := s.Study(ctx)
		return widen(rs), err
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

func widen[T records.Record](rs []T) []records.Record {
	if rs == nil {
		return nil
	}
	out := make([]records.Record, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

func list[T any](
	ctx context.Context,
	s *Store,
	kind records.Kind,
	query string,
	scan func(*sql.Rows) (T, sql.NullString, error),
	setNotes func(*T, string),
) (out []T, err error) {
	started := time.Now()
	defer func() { observability.ObserveStoreOp(kind.String(), "list", started, err) }()

	conn, err := s.EnsureOpen(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, persistErr("list", kind, err)
	}
	defer rows.Close()

	out = []T{}
	for rows.Next() {
		r, notes, err := scan(rows)
		if err != nil {
			return nil, persistErr("list", kind, err)
		}
		setNotes(&r, s.openNotes(kind, notes.String))
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list", kind, err)
	}
	return out, nil
}

// openNotes decrypts sealed notes. Without a usable key the sealed text is
// returned as-is.
func (s *Store) openNotes(kind records.Kind, notes string) string {
	if s.enc == nil {
		return notes
	}
	plain, err := s.enc.Decrypt(notes)
	if err != nil {
		s.log.Warn("cannot decrypt notes", slog.String("kind", kind.String()), slog.Any("error", err))
		return notes
	}
	return plain
}

// Delete removes the record with id. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, kind records.Kind, id string) (err error) {
	started := time.Now()
	defer func() { observability.ObserveStoreOp(kind.String(), "delete", started, err) }()

	table, ok := Collection[kind]
	if !ok {
		return fmt.Errorf("unknown record kind %q", kind)
	}
	conn, err := s.EnsureOpen(ctx)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("delete", kind, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return persistErr("delete", kind, err)
	}
	if err = tx.Commit(); err != nil {
		return persistErr("delete", kind, err)
	}

	n, _ := res.RowsAffected()
	s.log.Debug("record deleted", slog.String("kind", kind.String()), slog.String("id", id), slog.Int64("rows", n))
	s.publish(events.Change{Kind: kind, Op: events.OpDeleted, ID: id})
	return nil
}

func (s *Store) publish(c events.Change) {
	if s.bus == nil {
		return
	}
	c = s.bus.Publish(c)
	observability.SetDataVersion(c.Version)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
