package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/db"
	"github.com/ramanasai/streak/internal/heatmap"
	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/render"
	"github.com/ramanasai/streak/internal/utils"
)

const maxBody = 1 << 20

type ListResponse struct {
	Kind       records.Kind     `json:"kind"`
	Records    []records.Record `json:"records"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalPages int              `json:"totalPages"`
}

// CreateRecordRequest carries the fields of every kind; each kind reads its own.
type CreateRecordRequest struct {
	SleepTime       string `json:"sleepTime"`
	WakeTime        string `json:"wakeTime"`
	DateTime        string `json:"dateTime"`
	Activity        string `json:"activity"`
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes"`
}

type SummaryResponse struct {
	Kind records.Kind            `json:"kind"`
	Unit string                  `json:"unit"`
	Days []analytics.DailyTotal `json:"days"`
	// Stats covers Days only.
	Stats analytics.Stats `json:"stats"`
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	kind := kindFrom(r)
	recs, err := s.store.All(r.Context(), kind)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	perPage := len(recs)
	if v := r.URL.Query().Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "per_page must be a positive integer")
			return
		}
		perPage = n
	}
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "page must be a positive integer")
			return
		}
		page = n
	}

	p := utils.NewPagination(len(recs), perPage, page)
	items := utils.Page(recs, p)
	if items == nil {
		items = []records.Record{}
	}
	writeJSON(w, http.StatusOK, ListResponse{
		Kind:       kind,
		Records:    items,
		Total:      p.Total,
		Page:       p.Current,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	})
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	kind := kindFrom(r)

	var req CreateRecordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	rec, err := buildRecord(kind, req)
	if err != nil {
		var ve *records.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "validation_failed", ve.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := s.store.Add(r.Context(), rec)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func buildRecord(kind records.Kind, req CreateRecordRequest) (records.Record, error) {
	parse := func(field, v string) (time.Time, error) {
		if v == "" {
			return time.Time{}, nil
		}
		t, err := records.ParseTime(v)
		if err != nil {
			return time.Time{}, &records.ValidationError{Field: field, Message: "must be an RFC3339 timestamp"}
		}
		return t, nil
	}

	switch kind {
	case records.KindSleep:
		sleep, err := parse("sleepTime", req.SleepTime)
		if err != nil {
			return nil, err
		}
		wake, err := parse("wakeTime", req.WakeTime)
		if err != nil {
			return nil, err
		}
		return records.NewSleep(sleep, wake, req.Notes)
	case records.KindExercise:
		at, err := parse("dateTime", req.DateTime)
		if err != nil {
			return nil, err
		}
		return records.NewExercise(at, req.Activity, req.DurationMinutes, req.Notes)
	case records.KindStudy:
		at, err := parse("dateTime", req.DateTime)
		if err != nil {
			return nil, err
		}
		return records.NewStudy(at, req.Topic, req.DurationMinutes, req.Notes)
	}
	return nil, errors.New("unknown kind")
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), kindFrom(r), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	kind := kindFrom(r)
	days, ok := intParam(w, r, "days", s.opts.SummaryDays, 366)
	if !ok {
		return
	}
	recs, err := s.store.All(r.Context(), kind)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	series := analytics.Daily(recs, kind, days, s.opts.Now(), s.opts.Location, s.log)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Kind:  kind,
		Unit:  analytics.Unit(kind),
		Days:  series,
		Stats: analytics.Summarize(series),
	})
}

func (s *Server) grid(w http.ResponseWriter, r *http.Request) (heatmap.Grid, bool) {
	kind := kindFrom(r)
	months, ok := intParam(w, r, "months", s.opts.HeatmapMonths, 24)
	if !ok {
		return heatmap.Grid{}, false
	}
	recs, err := s.store.All(r.Context(), kind)
	if err != nil {
		s.writeStoreError(w, err)
		return heatmap.Grid{}, false
	}
	start, end := heatmap.Window(s.opts.Now(), months, s.opts.Location)
	return render.KindGrid(recs, kind, start, end, s.opts.Location, s.log), true
}

func (s *Server) heatmapJSON(w http.ResponseWriter, r *http.Request) {
	if g, ok := s.grid(w, r); ok {
		writeJSON(w, http.StatusOK, g)
	}
}

func (s *Server) heatmapSVG(w http.ResponseWriter, r *http.Request) {
	g, ok := s.grid(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.HeatmapSVG(g)))
}

// intParam reads a positive integer query parameter no larger than max.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, max int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > max {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" must be between 1 and "+strconv.Itoa(max))
		return 0, false
	}
	return n, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrUnsupportedEnvironment) {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
		return
	}
	s.log.Error("store failure", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "server_error", "storage failure")
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
