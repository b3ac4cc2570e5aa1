package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// GetForDay godoc
// @Summary Exchange rate for a day
// @Tags Rates
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} RateDayResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /rates/day/{date} [get]
func (h *Handler) GetForDay(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "date"))
	date, err := parseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	day, err := h.service.GetRateForDay(r.Context(), date)
	if err != nil {
		writeServiceError(w, err, "GetForDay", logrus.Fields{"date": raw})
		return
	}
	writeJSON(w, http.StatusOK, newRateDayResponse(day))
}
