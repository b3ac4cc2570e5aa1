package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"banguat/internal/domain"
	"banguat/internal/rate"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service rate.Provider
}

func NewRateHandler(service rate.Provider) *Handler {
	return &Handler{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

type RateDayResponse struct {
	Date     string          `json:"date" example:"2024-03-20"`
	BuyRate  decimal.Decimal `json:"buy_rate" example:"7.85123"`
	SellRate decimal.Decimal `json:"sell_rate" example:"7.85123"`
}

func newRateDayResponse(day domain.ExchangeRateDay) RateDayResponse {
	return RateDayResponse{
		Date:     day.Date.Format(dateLayout),
		BuyRate:  day.BuyRate,
		SellRate: day.SellRate,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

// writeServiceError maps rate service failures to a status code. Anything that is not
// a caller mistake or a missing rate is an upstream problem.
func writeServiceError(w http.ResponseWriter, err error, handlerName string, fields logrus.Fields) {
	switch {
	case errors.Is(err, domain.ErrFutureDate), errors.Is(err, domain.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logrus.WithError(err).WithFields(fields).WithField("handler", handlerName).Error("upstream request failed")
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.Local)
}
