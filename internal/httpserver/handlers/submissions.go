package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

type submissionRequest struct {
	Name         string                `json:"name"`
	Address      string                `json:"address"`
	Phone        string                `json:"phone"`
	Instagram    string                `json:"instagram"`
	Tags         []string              `json:"tags"`
	Location     domain.GeoPoint       `json:"location"`
	OpeningHours string                `json:"openingHours"`
	Hours        domain.WeeklySchedule `json:"hours"`
}

type reviewRequest struct {
	Note string `json:"note"`
}

type submissionsResponse struct {
	Count       int                  `json:"count"`
	Submissions []*domain.Submission `json:"submissions"`
}

// toCafe validates the request and builds the submitted cafe.
func (req submissionRequest) toCafe(encoder *domain.HoursEncoder) (domain.Cafe, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Cafe{}, errors.New("name is required")
	}
	loc := req.Location
	if loc.IsZero() || math.IsNaN(loc.Lat) || math.IsNaN(loc.Lon) ||
		math.Abs(loc.Lat) > 90 || math.Abs(loc.Lon) > 180 {
		return domain.Cafe{}, errors.New("a valid location is required")
	}

	hours := strings.TrimSpace(req.OpeningHours)
	switch {
	case hours != "":
		if _, err := domain.DecodeHours(hours); err != nil {
			return domain.Cafe{}, err
		}
	case len(req.Hours) > 0:
		hours = encoder.Encode(req.Hours)
	}

	return domain.Cafe{
		Name:         name,
		Address:      strings.TrimSpace(req.Address),
		Phone:        strings.TrimSpace(req.Phone),
		Instagram:    strings.TrimSpace(req.Instagram),
		Tags:         req.Tags,
		Location:     loc,
		OpeningHours: hours,
	}, nil
}

// CreateSubmission queues a user-submitted cafe for review
func CreateSubmission(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submissionRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}

		cafe, err := req.toCafe(d.Encoder)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sub := domain.NewSubmission(cafe, d.Now())
		d.CafeIndex.AddSubmission(sub)

		if d.Store != nil {
			if err := d.Store.SaveSubmission(r.Context(), sub); err != nil {
				d.Logger.Warn("failed to persist submission",
					logger.String("submission_id", sub.ID),
					logger.Error(err))
			}
		}

		d.Logger.Info("cafe submitted",
			logger.String("submission_id", sub.ID),
			logger.String("name", cafe.Name))

		writeJSON(w, http.StatusCreated, sub)
	}
}

// PendingSubmissions lists submissions waiting for review, oldest first
func PendingSubmissions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs := d.CafeIndex.PendingSubmissions()
		writeJSON(w, http.StatusOK, submissionsResponse{Count: len(subs), Submissions: subs})
	}
}

// ReviewSubmission approves or rejects a pending submission
func ReviewSubmission(d deps.Deps, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}

		id := chi.URLParam(r, "id")
		sub, err := d.CafeIndex.Review(id, approve, strings.TrimSpace(req.Note), d.Now())
		switch {
		case errors.Is(err, index.ErrSubmissionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case errors.Is(err, index.ErrAlreadyReviewed):
			writeError(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if d.Store != nil {
			if err := d.Store.SaveSubmission(r.Context(), sub); err != nil {
				d.Logger.Warn("failed to persist review",
					logger.String("submission_id", sub.ID),
					logger.Error(err))
			}
			if sub.Status == domain.StatusApproved {
				if err := d.Store.SaveCafe(r.Context(), &sub.Cafe); err != nil {
					d.Logger.Warn("failed to persist approved cafe",
						logger.String("cafe_id", sub.Cafe.ID),
						logger.Error(err))
				}
			}
		}
		if d.Metrics != nil {
			d.Metrics.SubmissionReviewed(string(sub.Status))
		}

		d.Logger.Info("submission reviewed",
			logger.String("submission_id", sub.ID),
			logger.String("status", string(sub.Status)))

		writeJSON(w, http.StatusOK, sub)
	}
}
