package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"banguat/internal/domain"
	"banguat/internal/rate"

	"github.com/shopspring/decimal"
)

const (
	inputDateLayout  = "2006-01-02"
	outputDateLayout = "2006-01-02"
)

const usage = `
Banguat Exchange Rate CLI

Usage:
  banguat current                     Get current exchange rate
  banguat date <YYYY-MM-DD>           Get exchange rate for specific date
  banguat range <start> <end>         Get exchange rates for date range
  banguat average <YYYY> <MM>         Get monthly average
  banguat serve                       Serve the rates over HTTP until interrupted

Flags:
  --config <file>      YAML config file
  --endpoint <url>     Banguat web service endpoint
  --timeout <seconds>  Upstream request timeout
  --log-level <level>  Log level (debug, info, warn, error)
  --port <port>        HTTP port for serve

Examples:
  banguat current
  banguat date 2024-03-20
  banguat range 2024-03-01 2024-03-31
  banguat average 2024 3
`

// ServeFunc blocks serving the HTTP front end until ctx is done.
type ServeFunc func(ctx context.Context) error

type CLI struct {
	service rate.Provider
	out     io.Writer
	errOut  io.Writer
	serve   ServeFunc
}

type Option func(*CLI)

func WithServe(serve ServeFunc) Option {
	return func(c *CLI) { c.serve = serve }
}

func New(service rate.Provider, out, errOut io.Writer, opts ...Option) *CLI {
	c := &CLI{service: service, out: out, errOut: errOut}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	errDateRequired  = errors.New("Date is required (YYYY-MM-DD)")
	errRangeRequired = errors.New("Start and end dates are required (YYYY-MM-DD)")
	errInvalidDate   = errors.New("Invalid date format. Use YYYY-MM-DD")
	errMonthRequired = errors.New("Year and month are required")
	errInvalidMonth  = errors.New("Invalid year or month")
	errServeDisabled = errors.New("serve is not available")
)

// Run executes the command in args and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return 0
	}

	command := strings.ToLower(args[0])
	var err error
	switch command {
	case "current":
		err = c.current(ctx)
	case "date":
		err = c.date(ctx, args[1:])
	case "range":
		err = c.dateRange(ctx, args[1:])
	case "average":
		err = c.average(ctx, args[1:])
	case "serve":
		err = c.runServe(ctx)
	default:
		fmt.Fprint(c.out, usage)
		fmt.Fprintf(c.errOut, "\nError: Unknown command '%s'\n", command)
		return 1
	}

	if err != nil {
		fmt.Fprintf(c.errOut, "Error: %s\n", err)
		return 1
	}
	return 0
}

func (c *CLI) current(ctx context.Context) error {
	day, err := c.service.GetCurrentRate(ctx)
	if err != nil {
		return err
	}
	c.printDay(day)
	return nil
}

func (c *CLI) date(ctx context.Context, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return errDateRequired
	}
	date, err := parseDate(args[0])
	if err != nil {
		return errInvalidDate
	}

	day, err := c.service.GetRateForDay(ctx, date)
	if err != nil {
		return err
	}
	c.printDay(day)
	return nil
}

func (c *CLI) dateRange(ctx context.Context, args []string) error {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return errRangeRequired
	}
	start, startErr := parseDate(args[0])
	end, endErr := parseDate(args[1])
	if startErr != nil || endErr != nil {
		return errInvalidDate
	}

	rng, err := c.service.GetRateRange(ctx, start, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exchange rates from %s to %s:\n",
		rng.StartDate.Format(outputDateLayout), rng.EndDate.Format(outputDateLayout))
	for _, day := range rng.Rates {
		fmt.Fprintf(c.out, "\n%s:\n", day.Date.Format(outputDateLayout))
		c.printRates(day)
	}
	return nil
}

func (c *CLI) average(ctx context.Context, args []string) error {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return errMonthRequired
	}
	year, yearErr := strconv.Atoi(args[0])
	month, monthErr := strconv.Atoi(args[1])
	if yearErr != nil || monthErr != nil {
		return errInvalidMonth
	}

	avg, err := c.service.GetMonthlyAverage(ctx, year, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Average exchange rate for %d-%02d:\n", avg.Year, avg.Month)
	fmt.Fprintf(c.out, "%s\n", formatRate(avg.Average))
	return nil
}

func (c *CLI) runServe(ctx context.Context) error {
	if c.serve == nil {
		return errServeDisabled
	}
	return c.serve(ctx)
}

func (c *CLI) printDay(day domain.ExchangeRateDay) {
	fmt.Fprintf(c.out, "Exchange rate for %s:\n", day.Date.Format(outputDateLayout))
	c.printRates(day)
}

func (c *CLI) printRates(day domain.ExchangeRateDay) {
	fmt.Fprintf(c.out, "Buy: %s\n", formatRate(day.BuyRate))
	fmt.Fprintf(c.out, "Sell: %s\n", formatRate(day.SellRate))
}

func formatRate(v decimal.Decimal) string {
	return "Q" + v.StringFixed(4)
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(inputDateLayout, strings.TrimSpace(raw), time.Local)
}
