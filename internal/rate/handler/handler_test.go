package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"banguat/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) GetCurrentRate(ctx context.Context) (domain.ExchangeRateDay, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(domain.ExchangeRateDay)
	return v, args.Error(1)
}

func (m *MockService) GetRateForDay(ctx context.Context, date time.Time) (domain.ExchangeRateDay, error) {
	args := m.Called(ctx, date)
	v, _ := args.Get(0).(domain.ExchangeRateDay)
	return v, args.Error(1)
}

func (m *MockService) GetRateRange(ctx context.Context, startDate, endDate time.Time) (domain.ExchangeRateRange, error) {
	args := m.Called(ctx, startDate, endDate)
	v, _ := args.Get(0).(domain.ExchangeRateRange)
	return v, args.Error(1)
}

func (m *MockService) GetMonthlyAverage(ctx context.Context, year, month int) (domain.ExchangeRateAverage, error) {
	args := m.Called(ctx, year, month)
	v, _ := args.Get(0).(domain.ExchangeRateAverage)
	return v, args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func localDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func sampleDay(date time.Time) domain.ExchangeRateDay {
	return domain.ExchangeRateDay{
		Date:     date,
		BuyRate:  decimal.RequireFromString("7.85123"),
		SellRate: decimal.RequireFromString("7.85123"),
	}
}

// --- GetCurrent ---

func TestHandler_GetCurrent_OK(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	mockService.On("GetCurrentRate", mock.Anything).Return(sampleDay(localDate(2024, time.March, 20)), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rates/current", nil)
	rr := httptest.NewRecorder()
	h.GetCurrent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got RateDayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "2024-03-20", got.Date)
	require.Equal(t, "7.85123", got.BuyRate.String())
	require.Equal(t, "7.85123", got.SellRate.String())
	mockService.AssertExpectations(t)
}

func TestHandler_GetCurrent_UpstreamError(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	upstream := errors.New("failed to get current exchange rate: connection refused")
	mockService.On("GetCurrentRate", mock.Anything).Return(domain.ExchangeRateDay{}, upstream).Once()

	req := httptest.NewRequest(http.MethodGet, "/rates/current", nil)
	rr := httptest.NewRecorder()
	h.GetCurrent(rr, req)

	require.Equal(t, http.StatusBadGateway, rr.Code)
	var body errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, upstream.Error(), body.Error)
	mockService.AssertExpectations(t)
}

// --- GetForDay ---

func TestHandler_GetForDay_OK(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	date := localDate(2024, time.March, 1)
	mockService.On("GetRateForDay", mock.Anything, date).Return(sampleDay(date), nil).Once()

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/rates/day/2024-03-01", nil), "date", "2024-03-01")
	rr := httptest.NewRecorder()
	h.GetForDay(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got RateDayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "2024-03-01", got.Date)
	mockService.AssertExpectations(t)
}

func TestHandler_GetForDay_InvalidDate(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/rates/day/01-03-2024", nil), "date", "01-03-2024")
	rr := httptest.NewRecorder()
	h.GetForDay(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "invalid date format, use YYYY-MM-DD", body.Error)
	mockService.AssertNotCalled(t, "GetRateForDay", mock.Anything, mock.Anything)
}

func TestHandler_GetForDay_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "future date", err: fmt.Errorf("%w: 2030-01-01", domain.ErrFutureDate), wantStatus: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("%w for date: 2024-03-02", domain.ErrRateNotFound), wantStatus: http.StatusNotFound},
		{name: "invalid response", err: fmt.Errorf("%w: no exchange rate data", domain.ErrInvalidResponse), wantStatus: http.StatusBadGateway},
		{name: "transport", err: errors.New("failed to get exchange rate range: timeout"), wantStatus: http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			h := NewRateHandler(mockService)

			mockService.On("GetRateForDay", mock.Anything, mock.AnythingOfType("time.Time")).
				Return(domain.ExchangeRateDay{}, tc.err).Once()

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/rates/day/2024-03-02", nil), "date", "2024-03-02")
			rr := httptest.NewRecorder()
			h.GetForDay(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			var body errorJSON
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.Equal(t, tc.err.Error(), body.Error)
			mockService.AssertExpectations(t)
		})
	}
}

// --- GetRange ---

func TestHandler_GetRange_OK(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	from := localDate(2024, time.March, 1)
	to := localDate(2024, time.March, 2)
	mockService.On("GetRateRange", mock.Anything, from, to).Return(domain.ExchangeRateRange{
		StartDate: from,
		EndDate:   to,
		Rates:     []domain.ExchangeRateDay{sampleDay(from), sampleDay(to)},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rates?from=2024-03-01&to=2024-03-02", nil)
	rr := httptest.NewRecorder()
	h.GetRange(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got RangeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "2024-03-01", got.StartDate)
	require.Equal(t, "2024-03-02", got.EndDate)
	require.Len(t, got.Rates, 2)
	require.Equal(t, "2024-03-02", got.Rates[1].Date)
	mockService.AssertExpectations(t)
}

func TestHandler_GetRange_EmptyIsArray(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	from := localDate(2024, time.March, 2)
	to := localDate(2024, time.March, 3)
	mockService.On("GetRateRange", mock.Anything, from, to).
		Return(domain.ExchangeRateRange{StartDate: from, EndDate: to, Rates: []domain.ExchangeRateDay{}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rates?from=2024-03-02&to=2024-03-03", nil)
	rr := httptest.NewRecorder()
	h.GetRange(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"rates":[]`)
}

func TestHandler_GetRange_BadQuery(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{name: "missing both", query: "", wantMsg: "from and to query parameters are required"},
		{name: "missing to", query: "?from=2024-03-01", wantMsg: "from and to query parameters are required"},
		{name: "bad from", query: "?from=2024/03/01&to=2024-03-02", wantMsg: "invalid from date, use YYYY-MM-DD"},
		{name: "bad to", query: "?from=2024-03-01&to=tomorrow", wantMsg: "invalid to date, use YYYY-MM-DD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			h := NewRateHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, "/rates"+tc.query, nil)
			rr := httptest.NewRecorder()
			h.GetRange(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			var body errorJSON
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.Equal(t, tc.wantMsg, body.Error)
			mockService.AssertNotCalled(t, "GetRateRange", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_GetRange_FutureDate(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	err := fmt.Errorf("%w: 2030-01-02", domain.ErrFutureDate)
	mockService.On("GetRateRange", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ExchangeRateRange{}, err).Once()

	req := httptest.NewRequest(http.MethodGet, "/rates?from=2024-03-01&to=2030-01-02", nil)
	rr := httptest.NewRecorder()
	h.GetRange(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- GetAverage ---

func TestHandler_GetAverage_OK(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	mockService.On("GetMonthlyAverage", mock.Anything, 2024, 3).Return(domain.ExchangeRateAverage{
		Year:    2024,
		Month:   3,
		Average: decimal.RequireFromString("7.855"),
	}, nil).Once()

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/rates/average/2024/3", nil), "year", "2024", "month", "3")
	rr := httptest.NewRecorder()
	h.GetAverage(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got AverageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, 2024, got.Year)
	require.Equal(t, 3, got.Month)
	require.Equal(t, "7.855", got.Average.String())
	mockService.AssertExpectations(t)
}

func TestHandler_GetAverage_BadParams(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/rates/average/2024/march", nil), "year", "2024", "month", "march")
	rr := httptest.NewRecorder()
	h.GetAverage(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "invalid year or month", body.Error)
	mockService.AssertNotCalled(t, "GetMonthlyAverage", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetAverage_InvalidMonth(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService)

	mockService.On("GetMonthlyAverage", mock.Anything, 2024, 13).
		Return(domain.ExchangeRateAverage{}, domain.ErrInvalidMonth).Once()

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/rates/average/2024/13", nil), "year", "2024", "month", "13")
	rr := httptest.NewRecorder()
	h.GetAverage(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, domain.ErrInvalidMonth.Error(), body.Error)
	mockService.AssertExpectations(t)
}
