package rate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"banguat/internal/adapters"
	"banguat/internal/adapters/soap"
	"banguat/internal/domain"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint = "https://www.banguat.gob.gt/variables/ws/tipocambio.asmx?WSDL"
	DefaultTimeout  = 10 * time.Second
)

const (
	opCurrentRate  = "TipoCambioDia"
	opRateRange    = "TipoCambioRango"
	opMonthStarted = "TipoCambioFechaInicial"
)

// Provider is what the front ends need from the rate service.
type Provider interface {
	GetCurrentRate(ctx context.Context) (domain.ExchangeRateDay, error)
	GetRateForDay(ctx context.Context, date time.Time) (domain.ExchangeRateDay, error)
	GetRateRange(ctx context.Context, startDate, endDate time.Time) (domain.ExchangeRateRange, error)
	GetMonthlyAverage(ctx context.Context, year, month int) (domain.ExchangeRateAverage, error)
}

// Config selects the upstream endpoint and transport timeout. Zero values mean defaults.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

type Service struct {
	cfg    Config
	client adapters.SOAPClient
	clock  clockwork.Clock
	logger logrus.FieldLogger
}

type Option func(*Service)

func WithClient(client adapters.SOAPClient) Option {
	return func(s *Service) { s.client = client }
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the logger handed to the default SOAP transport.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(cfg Config, opts ...Option) *Service {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Service{cfg: cfg, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.client == nil {
		s.client = soap.NewClient(
			&http.Client{Timeout: cfg.Timeout},
			cfg.Endpoint,
			soap.WithListElements("VarDolar", "Var"),
			soap.WithLogger(s.logger),
		)
	}
	return s
}

func (s *Service) Config() Config { return s.cfg }

// GetCurrentRate returns today's reference rate as both buy and sell.
func (s *Service) GetCurrentRate(ctx context.Context) (domain.ExchangeRateDay, error) {
	day, err := s.getCurrentRate(ctx)
	if err != nil {
		return domain.ExchangeRateDay{}, wrap(err, "failed to get current exchange rate")
	}
	return day, nil
}

func (s *Service) getCurrentRate(ctx context.Context) (domain.ExchangeRateDay, error) {
	reply, err := s.client.Call(ctx, opCurrentRate)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}

	result, err := present[map[string]any](field(map[string]any(reply), "TipoCambioDiaResult"), "missing TipoCambioDiaResult")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	cambioDolar, err := present[map[string]any](result["CambioDolar"], "missing CambioDolar data")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	varDolar, err := present[map[string]any](first(cambioDolar["VarDolar"]), "missing or invalid VarDolar data")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	fecha, err := present[string](varDolar["fecha"], "missing date in response")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	referencia, err := present[string](varDolar["referencia"], "missing reference rate in response")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}

	date, err := ParseUpstreamDate(fecha)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	rate, err := parseRate(referencia)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	return domain.ExchangeRateDay{Date: date, BuyRate: rate, SellRate: rate}, nil
}

// GetRateForDay returns the first quote upstream publishes for date.
func (s *Service) GetRateForDay(ctx context.Context, date time.Time) (domain.ExchangeRateDay, error) {
	if date.After(s.today()) {
		return domain.ExchangeRateDay{}, fmt.Errorf("%w: %s", domain.ErrFutureDate, date.Format(isoDateLayout))
	}

	result, err := s.GetRateRange(ctx, date, date)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	if len(result.Rates) == 0 {
		return domain.ExchangeRateDay{}, fmt.Errorf("%w for date: %s", domain.ErrRateNotFound, date.Format(isoDateLayout))
	}
	return result.Rates[0], nil
}

// GetRateRange returns the quotes for the inclusive span. Missing data is an empty
// result, not an error. Upstream "venta" maps to BuyRate and "compra" to SellRate.
func (s *Service) GetRateRange(ctx context.Context, startDate, endDate time.Time) (domain.ExchangeRateRange, error) {
	today := s.today()
	if startDate.After(today) || endDate.After(today) {
		return domain.ExchangeRateRange{}, domain.ErrFutureDate
	}

	rng, err := s.getRateRange(ctx, startDate, endDate)
	if err != nil {
		return domain.ExchangeRateRange{}, wrap(err, "failed to get exchange rate range")
	}
	return rng, nil
}

func (s *Service) getRateRange(ctx context.Context, startDate, endDate time.Time) (domain.ExchangeRateRange, error) {
	reply, err := s.client.Call(ctx, opRateRange,
		adapters.Param{Name: "fechainit", Value: FormatRequestDate(startDate)},
		adapters.Param{Name: "fechafin", Value: FormatRequestDate(endDate)},
	)
	if err != nil {
		return domain.ExchangeRateRange{}, err
	}

	result, err := present[map[string]any](field(map[string]any(reply), "TipoCambioRangoResult"), "missing TipoCambioRangoResult")
	if err != nil {
		return domain.ExchangeRateRange{}, err
	}

	rng := domain.ExchangeRateRange{StartDate: startDate, EndDate: endDate, Rates: []domain.ExchangeRateDay{}}
	vars, ok, err := rateList(result)
	if err != nil || !ok {
		return rng, err
	}

	rng.Rates = make([]domain.ExchangeRateDay, 0, len(vars))
	for _, v := range vars {
		day, err := parseRangeEntry(v)
		if err != nil {
			return domain.ExchangeRateRange{}, err
		}
		rng.Rates = append(rng.Rates, day)
	}
	return rng, nil
}

func parseRangeEntry(entry any) (domain.ExchangeRateDay, error) {
	fecha, err := present[string](field(entry, "fecha"), "missing date in rate data")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	venta, err := present[string](field(entry, "venta"), "missing buy rate in rate data")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	compra, err := present[string](field(entry, "compra"), "missing sell rate in rate data")
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}

	date, err := ParseUpstreamDate(fecha)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	buy, err := parseRate(venta)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	sell, err := parseRate(compra)
	if err != nil {
		return domain.ExchangeRateDay{}, err
	}
	return domain.ExchangeRateDay{Date: date, BuyRate: buy, SellRate: sell}, nil
}

// GetMonthlyAverage averages the "venta" quotes upstream returns starting at the first day of the month.
func (s *Service) GetMonthlyAverage(ctx context.Context, year, month int) (domain.ExchangeRateAverage, error) {
	if month < 1 || month > 12 {
		return domain.ExchangeRateAverage{}, domain.ErrInvalidMonth
	}

	avg, err := s.getMonthlyAverage(ctx, year, month)
	if err != nil {
		return domain.ExchangeRateAverage{}, wrap(err, "failed to get monthly average")
	}
	return avg, nil
}

func (s *Service) getMonthlyAverage(ctx context.Context, year, month int) (domain.ExchangeRateAverage, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	reply, err := s.client.Call(ctx, opMonthStarted,
		adapters.Param{Name: "fechainit", Value: FormatRequestDate(monthStart)},
	)
	if err != nil {
		return domain.ExchangeRateAverage{}, err
	}

	result, err := present[map[string]any](field(map[string]any(reply), "TipoCambioFechaInicialResult"), "missing TipoCambioFechaInicialResult")
	if err != nil {
		return domain.ExchangeRateAverage{}, err
	}

	avg := domain.ExchangeRateAverage{Year: year, Month: month, Average: decimal.Zero}
	vars, ok, err := rateList(result)
	if err != nil || !ok {
		return avg, err
	}

	total := decimal.Zero
	for _, v := range vars {
		venta, err := present[string](field(v, "venta"), "missing sell rate in rate data")
		if err != nil {
			return domain.ExchangeRateAverage{}, err
		}
		value, err := parseRate(venta)
		if err != nil {
			return domain.ExchangeRateAverage{}, err
		}
		total = total.Add(value)
	}
	if len(vars) > 0 {
		avg.Average = total.Div(decimal.NewFromInt(int64(len(vars))))
	}
	return avg, nil
}

// rateList digs Vars.Var out of a result. ok is false when either level is absent.
func rateList(result map[string]any) ([]any, bool, error) {
	vars := field(result, "Vars")
	if isAbsent(vars) {
		return nil, false, nil
	}
	list := field(vars, "Var")
	if isAbsent(list) {
		return nil, false, nil
	}
	items, isList := list.([]any)
	if !isList {
		return nil, false, domain.ErrInvalidFormat
	}
	return items, true, nil
}

func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func (s *Service) today() time.Time {
	return startOfDay(s.clock.Now())
}

func wrap(err error, message string) error {
	if domain.IsServiceError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}
