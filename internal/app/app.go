package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"banguat/internal/api"
	"banguat/internal/cli"
	"banguat/internal/config"
	httpserver "banguat/internal/platform/http"
	"banguat/internal/rate"
	"banguat/internal/rate/handler"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Run wires configuration, logging, the rate service and the command line front end,
// then executes args. It returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("banguat", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	appCfg, err := config.Init(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	// Logs go to stderr so command output stays clean.
	logrus.SetOutput(stderr)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.WarnLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logger := logrus.StandardLogger()
	logger.WithFields(logrus.Fields{
		"endpoint": appCfg.Banguat.Endpoint,
		"timeout":  appCfg.Banguat.Timeout(),
	}).Debug("config initialization successful")

	service := rate.NewService(
		rate.Config{Endpoint: appCfg.Banguat.Endpoint, Timeout: appCfg.Banguat.Timeout()},
		rate.WithLogger(logger),
	)
	provider := rate.NewLoggingService(logger, service)

	serve := func(ctx context.Context) error {
		router := api.NewRouter(handler.NewRateHandler(provider))
		logger.Info("starting http server")
		if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
			logger.WithError(serverErr).Error("HTTP server error")
			return serverErr
		}
		return nil
	}

	return cli.New(provider, stdout, stderr, cli.WithServe(serve)).Run(ctx, flags.Args())
}
