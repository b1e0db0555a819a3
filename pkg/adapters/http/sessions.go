package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// maxBodySize caps request bodies; contact fields are limited further by the engine.
const maxBodySize = 64 << 10

var errBadBody = errors.New("invalid request body")

// DatesRequest is the body of PUT /sessions/{id}/dates.
// Start and End accept YYYY-MM-DD or RFC 3339.
type DatesRequest struct {
	Kind     string `json:"kind"`
	Days     int    `json:"days,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	PresetID string `json:"preset_id,omitempty"`
}

// IDsRequest is the body of PUT /sessions/{id}/destinations and /experiences.
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// CurrencyRequest is the body of PUT /sessions/{id}/currency.
type CurrencyRequest struct {
	Code string `json:"code"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

// mutate runs op on the session in the URL and answers with the new state.
// Changes are broadcast to SSE subscribers as a diff.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Session, error)) {
	id := chi.URLParam(r, "id")
	// Best effort: a concurrent writer may slip in between this read and op.
	before, _ := s.Planner.Get(r.Context(), id)

	next, err := op(r.Context(), id)
	if next == nil {
		s.writeError(w, r, err)
		return
	}

	s.Streams.Publish(before, next)

	resp := sessionResponse{Session: next, Summary: s.Planner.Summarize(next)}
	status := http.StatusOK
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		resp.Error = vErr
		status = http.StatusUnprocessableEntity
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, resp)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Planner.Start(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.writeJSON(w, http.StatusCreated, sessionResponse{Session: sess, Summary: s.Planner.Summarize(sess)})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Planner.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Planner.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Summary: s.Planner.Summarize(sess)})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Planner.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary handles GET /sessions/{id}/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Planner.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Planner.Summarize(sess))
}

// GetSummaryHTML handles GET /sessions/{id}/summary.html.
func (s *Server) GetSummaryHTML(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Planner.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	markdown := report.Session(sess, s.Planner.Summarize(sess), s.Planner.Catalog())
	page, err := report.Page("Your Nagaland trip", markdown)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// GetAvailableDestinations handles GET /sessions/{id}/destinations.
func (s *Server) GetAvailableDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := s.Planner.AvailableDestinations(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dests)
}

// PutDates handles PUT /sessions/{id}/dates.
func (s *Server) PutDates(w http.ResponseWriter, r *http.Request) {
	var body DatesRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := domain.ParseDateInput(body.Kind, body.Days, body.Start, body.End, body.PresetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ctx context.Context, id string) (*domain.Session, error) {
		return s.Planner.SelectDates(ctx, id, in)
	})
}

// PutDestinations handles PUT /sessions/{id}/destinations.
func (s *Server) PutDestinations(w http.ResponseWriter, r *http.Request) {
	var body IDsRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ctx context.Context, id string) (*domain.Session, error) {
		return s.Planner.SelectDestinations(ctx, id, body.IDs)
	})
}

// PutExperiences handles PUT /sessions/{id}/experiences.
func (s *Server) PutExperiences(w http.ResponseWriter, r *http.Request) {
	var body IDsRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ctx context.Context, id string) (*domain.Session, error) {
		return s.Planner.SelectExperiences(ctx, id, body.IDs)
	})
}

// PutCurrency handles PUT /sessions/{id}/currency.
func (s *Server) PutCurrency(w http.ResponseWriter, r *http.Request) {
	var body CurrencyRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ctx context.Context, id string) (*domain.Session, error) {
		return s.Planner.SelectCurrency(ctx, id, body.Code)
	})
}

// PutContact handles PUT /sessions/{id}/contact.
func (s *Server) PutContact(w http.ResponseWriter, r *http.Request) {
	var body domain.ContactDetails
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ctx context.Context, id string) (*domain.Session, error) {
		return s.Planner.UpdateContact(ctx, id, body)
	})
}

// PostAdvance handles POST /sessions/{id}/advance.
func (s *Server) PostAdvance(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Planner.Advance)
}

// PostRetreat handles POST /sessions/{id}/retreat.
func (s *Server) PostRetreat(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Planner.Retreat)
}

// PostSubmit handles POST /sessions/{id}/submit.
// Without a body the stored contact draft is submitted.
func (s *Server) PostSubmit(w http.ResponseWriter, r *http.Request) {
	var body *domain.ContactDetails
	if r.ContentLength != 0 {
		body = &domain.ContactDetails{}
		if err := decode(r, body); err != nil {
			if !errors.Is(err, io.EOF) {
				s.writeError(w, r, err)
				return
			}
			body = nil
		}
	}
	s.mutate(w, r, func(ctx context.Context, id string) (*domain.Session, error) {
		contact := body
		if contact == nil {
			current, err := s.Planner.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			contact = &domain.ContactDetails{}
			if current.Contact != nil {
				contact = current.Contact
			}
		}
		return s.Planner.Submit(ctx, id, *contact)
	})
}
