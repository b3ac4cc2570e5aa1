package rate

import (
	"context"
	"time"

	"banguat/internal/domain"

	"github.com/sirupsen/logrus"
)

// loggingService decorates a Provider with one log line per call.
type loggingService struct {
	next   Provider
	logger logrus.FieldLogger
}

func NewLoggingService(logger logrus.FieldLogger, next Provider) Provider {
	return &loggingService{next: next, logger: logger}
}

func (s *loggingService) GetCurrentRate(ctx context.Context) (day domain.ExchangeRateDay, err error) {
	defer func(begin time.Time) {
		s.log("get_current_rate", begin, err, logrus.Fields{"date": day.Date.Format(isoDateLayout)})
	}(time.Now())
	return s.next.GetCurrentRate(ctx)
}

func (s *loggingService) GetRateForDay(ctx context.Context, date time.Time) (day domain.ExchangeRateDay, err error) {
	defer func(begin time.Time) {
		s.log("get_rate_for_day", begin, err, logrus.Fields{"date": date.Format(isoDateLayout)})
	}(time.Now())
	return s.next.GetRateForDay(ctx, date)
}

func (s *loggingService) GetRateRange(ctx context.Context, startDate, endDate time.Time) (rng domain.ExchangeRateRange, err error) {
	defer func(begin time.Time) {
		s.log("get_rate_range", begin, err, logrus.Fields{
			"start": startDate.Format(isoDateLayout),
			"end":   endDate.Format(isoDateLayout),
			"count": len(rng.Rates),
		})
	}(time.Now())
	return s.next.GetRateRange(ctx, startDate, endDate)
}

func (s *loggingService) GetMonthlyAverage(ctx context.Context, year, month int) (avg domain.ExchangeRateAverage, err error) {
	defer func(begin time.Time) {
		s.log("get_monthly_average", begin, err, logrus.Fields{"year": year, "month": month})
	}(time.Now())
	return s.next.GetMonthlyAverage(ctx, year, month)
}

func (s *loggingService) log(method string, begin time.Time, err error, fields logrus.Fields) {
	entry := s.logger.WithFields(fields).WithFields(logrus.Fields{
		"method": method,
		"took":   time.Since(begin),
	})
	if err != nil {
		entry.WithError(err).Info("rate request failed")
		return
	}
	entry.Debug("rate request served")
}
