package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
)

type hoursString struct {
	OpeningHours string `json:"openingHours"`
}

// EncodeHours turns a weekly schedule into its compact string
func EncodeHours(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var schedule domain.WeeklySchedule
		if err := decodeJSON(w, r, &schedule, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid schedule: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, hoursString{OpeningHours: d.Encoder.Encode(schedule)})
	}
}

// DecodeHours parses a compact string back into a weekly schedule
func DecodeHours(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body hoursString
		if err := decodeJSON(w, r, &body, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}

		schedule, err := domain.DecodeHours(body.OpeningHours)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, schedule)
	}
}
