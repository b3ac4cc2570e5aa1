package handler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type RangeResponse struct {
	StartDate string            `json:"start_date" example:"2024-03-01"`
	EndDate   string            `json:"end_date" example:"2024-03-31"`
	Rates     []RateDayResponse `json:"rates"`
}

// GetRange godoc
// @Summary Exchange rates for a date range
// @Description Rates are listed in the order Banguat returns them; an empty list means no data
// @Tags Rates
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} RangeResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /rates [get]
func (h *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	rawFrom := strings.TrimSpace(r.URL.Query().Get("from"))
	rawTo := strings.TrimSpace(r.URL.Query().Get("to"))
	if rawFrom == "" || rawTo == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	from, err := parseDate(rawFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date, use YYYY-MM-DD")
		return
	}
	to, err := parseDate(rawTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date, use YYYY-MM-DD")
		return
	}

	rng, err := h.service.GetRateRange(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, "GetRange", logrus.Fields{"from": rawFrom, "to": rawTo})
		return
	}

	res := RangeResponse{
		StartDate: rng.StartDate.Format(dateLayout),
		EndDate:   rng.EndDate.Format(dateLayout),
		Rates:     make([]RateDayResponse, 0, len(rng.Rates)),
	}
	for _, day := range rng.Rates {
		res.Rates = append(res.Rates, newRateDayResponse(day))
	}
	writeJSON(w, http.StatusOK, res)
}
