package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
)

type subscribeRequest struct {
	Email string   `json:"email"`
	Teams []string `json:"teams"`
}

type unsubscribeRequest struct {
	ID string `json:"id"`
}

type previewRequest struct {
	Teams []string `json:"teams"`
}

type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type previewResponse struct {
	Fixtures []fixture.Fixture `json:"fixtures"`
	Date     string            `json:"date,omitempty"`
}

type cronResponse struct {
	OK              bool                        `json:"ok"`
	Teams           []string                    `json:"teams"`
	Changes         int                         `json:"changes"`
	SourceAvailable bool                        `json:"sourceAvailable"`
	Sent            int                         `json:"sent"`
	Failed          int                         `json:"failed"`
	DiffsByTeam     map[string][]fixture.Change `json:"diffsByTeam,omitempty"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, sub, err := subscription.New(req.Email, req.Teams, s.deps.Now())
	switch {
	case errors.Is(err, subscription.ErrInvalidEmail):
		s.writeError(w, http.StatusBadRequest, "Email invalid")
		return
	case errors.Is(err, subscription.ErrNoTeams):
		s.writeError(w, http.StatusBadRequest, "Selectează cel puțin o echipă")
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Subscriptions.Add(r.Context(), id, sub); err != nil {
		s.log.Error("saving subscription", nil, err)
		s.writeError(w, http.StatusInternalServerError, "Eroare la salvarea abonării")
		return
	}
	s.log.Info("subscription added", logger.Fields{"teams": len(sub.Teams)})

	msg := "Abonare înregistrată cu succes!"
	if s.deps.Confirmer != nil {
		if err := s.deps.Confirmer.ConfirmSubscribe(r.Context(), sub.Email, sub.Teams); err != nil {
			s.log.Warn("subscribe confirmation failed", logger.Fields{"error": err.Error()})
		} else {
			msg = "Abonare confirmată! Verifică emailul pentru confirmare."
		}
	}
	s.writeJSON(w, http.StatusOK, messageResponse{OK: true, Message: msg})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, err := subscription.NormalizeEmail(req.ID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Email invalid")
		return
	}

	if err := s.deps.Subscriptions.Remove(r.Context(), id); err != nil {
		s.log.Error("removing subscription", nil, err)
		s.writeError(w, http.StatusInternalServerError, "Eroare la dezabonare")
		return
	}
	s.log.Info("subscription removed", nil)

	msg := "Dezabonare efectuată cu succes!"
	if s.deps.Confirmer != nil {
		if err := s.deps.Confirmer.ConfirmUnsubscribe(r.Context(), strings.TrimSpace(req.ID)); err != nil {
			s.log.Warn("unsubscribe confirmation failed", logger.Fields{"error": err.Error()})
		} else {
			msg = "Dezabonare confirmată! Verifică emailul pentru confirmare."
		}
	}
	s.writeJSON(w, http.StatusOK, messageResponse{OK: true, Message: msg})
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"teams": s.deps.Source.DiscoverTeams(r.Context())})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Subscriptions.Count(r.Context())
	if err != nil {
		s.log.Error("counting subscriptions", nil, err)
		s.writeError(w, http.StatusInternalServerError, "Eroare la citirea statisticilor")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Teams) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one team is required")
		return
	}

	result := s.deps.Source.Fixtures(r.Context(), req.Teams)
	date, fixtures := fixture.Preview(result.ByTeam, req.Teams)
	s.writeJSON(w, http.StatusOK, previewResponse{Fixtures: fixtures, Date: date})
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := s.deps.Runner.Run(r.Context())
	if err != nil {
		s.log.Error("check failed", nil, err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("check failed: %v", err))
		return
	}

	diffs := make(map[string][]fixture.Change)
	for team, rep := range result.Reports {
		if rep.Changed() {
			diffs[team] = rep.Changes
		}
	}
	s.writeJSON(w, http.StatusOK, cronResponse{
		OK:              true,
		Teams:           result.Teams,
		Changes:         len(diffs),
		SourceAvailable: result.SourceAvailable,
		Sent:            result.Sent,
		Failed:          result.Failed,
		DiffsByTeam:     diffs,
	})
}

// authorized checks the bearer token of a cron request. An empty secret
// leaves the endpoint open.
func (s *Server) authorized(r *http.Request) bool {
	if s.deps.CronSecret == "" {
		return true
	}
	got := []byte(r.Header.Get("Authorization"))
	want := []byte("Bearer " + s.deps.CronSecret)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", nil, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
