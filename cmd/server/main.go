package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-tasks/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	sweepInterval    = 5 * time.Minute
	shutdownTimeout  = 5 * time.Second
	evictionInterval = time.Minute
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "tasks",
		Short:   "Task manager: procedure-call backend and server-rendered front end",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $"+config.ConfigFileEnvVar+")")

	rootCmd.AddCommand(serviceCmd("api", "Run the procedure-call backend", &configPath, apiServices))
	rootCmd.AddCommand(serviceCmd("web", "Run the front end against API_ENDPOINT", &configPath, webServices))
	rootCmd.AddCommand(serviceCmd("all", "Run the backend and the front end in one process", &configPath, allServices))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// service is one HTTP server plus the background work that lives as long as it does
type service struct {
	server     *http.Server
	background []func(ctx context.Context)
	close      func() error
}

type servicesFunc func(c config.Config) ([]service, error)

func serviceCmd(use, short string, configPath *string, build servicesFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			setupLogging(c)
			displayAppname(c.GetAppName())
			return run(c, build)
		},
	}
}

func run(c config.Config, build servicesFunc) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	services, err := build(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := make(chan error, len(services))
	for _, svc := range services {
		for _, work := range svc.background {
			go work(ctx)
		}
		go func(server *http.Server) {
			if err := listenAndServe(server); err != nil {
				failed <- err
			}
		}(svc.server)
	}

	select {
	case <-waitForStopSignal():
	case returnError = <-failed:
	}
	cancel()

	for _, svc := range services {
		if err := shutdown(svc.server); err != nil && returnError == nil {
			returnError = err
		}
		if svc.close != nil {
			if err := svc.close(); err != nil && returnError == nil {
				returnError = err
			}
		}
	}
	log.Info().Msg("Server stopped")
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "server.ListenAndServe %s", server.Addr)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

// setupLogging uses a coloured console writer in DEV and JSON everywhere else
func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
