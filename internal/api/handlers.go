package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

type progressResponse struct {
	Week    period.Range        `json:"week"`
	Overall float64             `json:"overall"`
	Goals   []engine.GoalStatus `json:"goals"`
}

type categoryProgressResponse struct {
	Category models.Category `json:"category"`
	Week     period.Range    `json:"week"`
	Achieved int             `json:"achieved"`
	Progress float64         `json:"progress"`
}

type badgesResponse struct {
	Achieved []models.Badge `json:"achieved"`
	Pending  []models.Badge `json:"pending"`
}

type syncResponse struct {
	At       time.Time         `json:"at"`
	Removed  int               `json:"removed"`
	Inserted []models.Activity `json:"inserted"`
	Degraded []string          `json:"degraded,omitempty"`
	Achieved []models.Badge    `json:"achieved,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ref reads the optional ?date=YYYY-MM-DD reference day, defaulting to now.
func (s *Server) ref(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.engine.Now(), nil
	}
	d, err := period.ParseDate(raw, s.engine.Calendar().Location)
	if err != nil {
		return time.Time{}, err
	}
	// noon keeps the reference inside the day across DST shifts
	return d.Add(12 * time.Hour), nil
}

func optionalCategory(raw string) (models.Category, error) {
	if raw == "" {
		return "", nil
	}
	return models.ParseCategory(raw)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := optionalCategory(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ref, err := s.ref(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rng *period.Range
	if raw := q.Get("period"); raw != "" {
		kind, err := period.ParseKind(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p := s.engine.Calendar().Period(kind, ref, s.engine.Now())
		rng = &p
	}
	writeJSON(w, http.StatusOK, s.engine.Query(c, rng))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	ref, err := s.ref(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		Week:    s.engine.Calendar().Week(ref),
		Overall: s.engine.OverallProgress(ref),
		Goals:   s.engine.GoalStatuses(ref),
	})
}

func (s *Server) handleCategoryProgress(w http.ResponseWriter, r *http.Request) {
	c, err := models.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ref, err := s.ref(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := categoryProgressResponse{
		Category: c,
		Week:     s.engine.Calendar().Week(ref),
		Progress: s.engine.ProgressFor(c, ref),
	}
	for _, st := range s.engine.GoalStatuses(ref) {
		if st.Goal.Category == c {
			resp.Achieved = st.Achieved
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	achieved, pending := s.engine.BadgePartition()
	writeJSON(w, http.StatusOK, badgesResponse{Achieved: achieved, Pending: pending})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	kind, c, ref, err := s.periodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Summary(kind, c, ref))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	kind, c, ref, err := s.periodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metric := engine.MetricCount
	if raw := r.URL.Query().Get("metric"); raw != "" {
		if metric, err = engine.ParseMetric(raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, s.engine.Series(kind, c, metric, ref))
}

func (s *Server) periodQuery(r *http.Request) (period.Kind, models.Category, time.Time, error) {
	kind, err := period.ParseKind(mux.Vars(r)["period"])
	if err != nil {
		return "", "", time.Time{}, err
	}
	c, err := optionalCategory(r.URL.Query().Get("category"))
	if err != nil {
		return "", "", time.Time{}, err
	}
	ref, err := s.ref(r)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return kind, c, ref, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ref, err := s.ref(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.HomeSummary(ref))
}

// handleSync runs a sync to completion. A client that goes away cancels the
// upstream fetch and leaves synced entries as they were.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	res := s.engine.SyncNow(r.Context())
	if res.Err != nil {
		writeError(w, http.StatusServiceUnavailable, res.Err.Error())
		return
	}

	resp := syncResponse{
		At:       res.At,
		Removed:  res.Removed,
		Inserted: res.Inserted,
		Achieved: res.Achieved,
	}
	if resp.Inserted == nil {
		resp.Inserted = []models.Activity{}
	}
	for _, sample := range res.Samples {
		if sample.Err != nil {
			resp.Degraded = append(resp.Degraded, fmt.Sprintf("%s: %v", sample.Category, sample.Err))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
