// Package main starts the StuartLink server.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/frudas24/stuartlink/internal/app"
	"github.com/frudas24/stuartlink/internal/config"
)

// run wires the application and blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closeLogs := setupLogging(cfg)
	defer closeLogs()
	if debug {
		logger.Printf("debug: enabled")
	}
	logStartup(logger, cfg)

	appInstance, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer appInstance.Stop()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// setupLogging routes log output to stderr, teeing into a rotating file when
// LOG_FILE is configured.
func setupLogging(cfg config.Config) (*log.Logger, func()) {
	if cfg.LogFile == "" {
		return log.Default(), func() {}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}
	out := io.MultiWriter(os.Stderr, rotator)
	logger := log.New(out, "", log.LstdFlags)
	log.SetOutput(out)
	return logger, func() {
		if err := rotator.Close(); err != nil {
			log.SetOutput(os.Stderr)
			log.Printf("log file close: %v", err)
		}
	}
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(logger *log.Logger, cfg config.Config) {
	logger.Printf("StuartLink starting")
	logEnvStatus(logger, cfg)
	logger.Printf("robot mode: %s", cfg.RobotMode)
	if cfg.RobotMode == "direct" {
		logger.Printf("robot url: %s (%s)", cfg.RobotURL, cfg.RobotEncoding)
	} else {
		logger.Printf("robot poll: /get_wheel_values (stale after %dms)", cfg.RelayStaleMs)
	}
	if cfg.CameraRTPPort > 0 {
		logger.Printf("camera: rtp on udp/%d", cfg.CameraRTPPort)
	} else {
		logger.Printf("camera: disabled")
	}
	logListenStatus(logger, cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found and required values are set.
func logEnvStatus(logger *log.Logger, cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		logger.Printf("env check: ok (%s)", envPath)
	} else {
		logger.Printf("env check: missing (%s)", envPath)
	}
	if fileExists(cfg.PhrasesPath) {
		logger.Printf("phrases: %s", cfg.PhrasesPath)
	} else {
		logger.Printf("phrases: none (%s)", cfg.PhrasesPath)
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(logger *log.Logger, addr string) {
	logger.Printf("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	logger.Printf("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
