package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gauravsaxena1997/punit-portfolio/internal/config"
	"github.com/gauravsaxena1997/punit-portfolio/internal/mailer"
	"github.com/gauravsaxena1997/punit-portfolio/internal/ratelimit"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if errRun := run(ctx, os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("server failed")
		os.Exit(1)
	}
}

// run loads configuration, wires the contact pipeline and serves until ctx is
// cancelled.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	if strings.TrimSpace(*cfgPath) == "" {
		*cfgPath = os.Getenv(config.EnvConfigPath)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	store, closeStore, err := newRateLimitStore(ctx, cfg.RateLimit)
	if err != nil {
		return err
	}
	defer closeStore()

	limiter := ratelimit.NewLimiter(store, nil)
	notifier := mailer.NewResendNotifier(mailer.Config{
		APIKey:   cfg.Email.APIKey,
		From:     cfg.Email.From,
		To:       cfg.Email.To,
		Endpoint: cfg.Email.Endpoint,
		Timeout:  cfg.Email.Timeout,
		SendRate: cfg.Email.SendRate,
	}, nil)
	if !notifier.Configured() {
		log.Warnf("%s is not set, contact submissions will not be delivered", config.EnvResendAPIKey)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           newRouter(cfg, limiter, notifier),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return serve(ctx, server)
}

func setupLogging(cfg config.Config) {
	level, errParse := log.ParseLevel(cfg.LogLevel)
	if errParse != nil {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", server.Addr)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
		}
		close(errCh)
	}()

	select {
	case errServe := <-errCh:
		if errServe != nil {
			return fmt.Errorf("listen: %w", errServe)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("shutdown: %w", errShutdown)
	}
	return nil
}
