// Package app wires config, dispatch, control, and the HTTP surface together.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/frudas24/stuartlink/internal/camera"
	"github.com/frudas24/stuartlink/internal/config"
	"github.com/frudas24/stuartlink/internal/control"
	"github.com/frudas24/stuartlink/internal/dispatch"
	"github.com/frudas24/stuartlink/internal/drive"
	"github.com/frudas24/stuartlink/internal/phrases"
	"github.com/frudas24/stuartlink/internal/relay"
	"github.com/frudas24/stuartlink/internal/robot"
	"github.com/frudas24/stuartlink/internal/state"
)

// App coordinates the dispatcher, the control websocket, the relay store,
// and the optional camera pipeline.
type App struct {
	cfg        config.Config
	logger     *log.Logger
	session    *state.Session
	dispatcher *dispatch.Dispatcher
	control    *control.Server
	relayStore *relay.Store
	camera     *camera.Relay
	cameraWS   *camera.Handler
	catalog    phrases.Catalog
}

// New creates an application with its dependencies wired from config.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		session: state.New(cfg.RobotMode, cfg.RobotURL, cfg.CameraRTPPort > 0),
	}

	timeout := time.Duration(cfg.DispatchTimeoutMs) * time.Millisecond
	var endpoint dispatch.Endpoint
	switch cfg.RobotMode {
	case state.ModeRelay:
		a.relayStore = relay.NewStore(time.Duration(cfg.RelayStaleMs) * time.Millisecond)
		endpoint = relay.NewEndpoint(a.relayStore, drive.Params{
			MaxDistance: cfg.DriveMaxDistance,
			MaxSpeed:    cfg.DriveMaxSpeed,
		})
	default:
		endpoint = robot.NewClient(cfg.RobotURL, robot.Encoding(cfg.RobotEncoding), timeout, logger)
	}
	a.dispatcher = dispatch.New(endpoint, logger, timeout, cfg.DispatchQueue)

	window := time.Duration(cfg.DoublePressMs) * time.Millisecond
	a.control = control.NewServer(a.dispatcher, a.session, window, logger)

	catalog, err := phrases.Load(cfg.PhrasesPath)
	if err != nil {
		return nil, fmt.Errorf("load phrases: %w", err)
	}
	a.catalog = catalog

	if cfg.CameraRTPPort > 0 {
		cam, err := camera.NewRelay()
		if err != nil {
			return nil, fmt.Errorf("camera setup: %w", err)
		}
		a.camera = cam
		a.cameraWS = camera.NewHandler(cam, logger)
	}

	return a, nil
}

// Start brings up the camera ingest when configured.
func (a *App) Start() error {
	if a.camera != nil {
		if err := a.camera.Listen(a.cfg.CameraRTPPort); err != nil {
			return err
		}
		a.logger.Printf("camera: rtp ingest on udp/%d", a.cfg.CameraRTPPort)
	}
	return nil
}

// Stop drains queued commands and releases the camera pipeline.
func (a *App) Stop() {
	a.dispatcher.Close()
	if a.camera != nil {
		a.camera.Close()
	}
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}
