package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AverageResponse struct {
	Year    int             `json:"year" example:"2024"`
	Month   int             `json:"month" example:"3"`
	Average decimal.Decimal `json:"average" example:"7.855"`
}

// GetAverage godoc
// @Summary Monthly average exchange rate
// @Tags Rates
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} AverageResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /rates/average/{year}/{month} [get]
func (h *Handler) GetAverage(w http.ResponseWriter, r *http.Request) {
	year, yearErr := strconv.Atoi(chi.URLParam(r, "year"))
	month, monthErr := strconv.Atoi(chi.URLParam(r, "month"))
	if yearErr != nil || monthErr != nil {
		writeError(w, http.StatusBadRequest, "invalid year or month")
		return
	}

	avg, err := h.service.GetMonthlyAverage(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err, "GetAverage", logrus.Fields{"year": year, "month": month})
		return
	}
	writeJSON(w, http.StatusOK, AverageResponse{Year: avg.Year, Month: avg.Month, Average: avg.Average})
}
