package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// GetCurrent godoc
// @Summary Current exchange rate
// @Description Today's reference rate published by Banguat
// @Tags Rates
// @Produce json
// @Success 200 {object} RateDayResponse
// @Failure 502 {object} errorResponse
// @Router /rates/current [get]
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	day, err := h.service.GetCurrentRate(r.Context())
	if err != nil {
		writeServiceError(w, err, "GetCurrent", logrus.Fields{})
		return
	}
	writeJSON(w, http.StatusOK, newRateDayResponse(day))
}
