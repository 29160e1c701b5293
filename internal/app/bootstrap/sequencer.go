// Package bootstrap sequences process startup and shutdown around the
// service registry:
//
//	Listen → Serve → readiness gate → Register → wait → Deregister → drain
//
// The registry is only told about the process once its health endpoint
// answers, and on shutdown the registration is removed before in-flight
// requests are drained so the registry stops routing traffic first.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/loyalnest/service-bootstrap/internal/domain"
	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Defaults applied to zero Settings durations.
const (
	DefaultReadyTimeout    = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	readyPollInterval      = 50 * time.Millisecond
)

var errNotReady = errors.New("health endpoint not ready")

// Server is the HTTP server lifecycle the sequencer drives.
type Server interface {
	Listen() error
	Serve() error
	Shutdown(ctx context.Context) error
	Port() int
}

// Settings configures a Sequencer.
type Settings struct {
	// Registration is the record template. A zero Port is replaced with the
	// bound port, an empty Address with the hostname, and an empty
	// HealthCheckURL with http://<address>:<port><HealthPath>.
	Registration domain.Registration
	// HealthPath is the aggregated health route, e.g. "/api/health".
	HealthPath string
	// LivePath is the liveness route polled by the readiness gate.
	LivePath string
	// ListenHost is the host the server binds; used to reach it locally.
	ListenHost string

	ReadyTimeout      time.Duration
	DeregisterTimeout time.Duration
	ShutdownTimeout   time.Duration

	// RegistrationRequired makes a failed registration stop the process.
	RegistrationRequired bool

	// Signals that trigger shutdown. Defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// Sequencer runs the bootstrap lifecycle. A nil registry skips registration.
type Sequencer struct {
	server   Server
	registry ports.RegistryClient
	settings Settings
	logger   *slog.Logger
	probe    *http.Client
}

// New creates a Sequencer.
func New(server Server, registry ports.RegistryClient, settings Settings, logger *slog.Logger) *Sequencer {
	if settings.ReadyTimeout <= 0 {
		settings.ReadyTimeout = DefaultReadyTimeout
	}
	if settings.ShutdownTimeout <= 0 {
		settings.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(settings.Signals) == 0 {
		settings.Signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return &Sequencer{
		server:   server,
		registry: registry,
		settings: settings,
		logger:   logging.OrDiscard(logger),
		probe:    &http.Client{Timeout: time.Second},
	}
}

// Run starts the server, registers, and blocks until ctx is done, a
// shutdown signal arrives, or the server fails. It then deregisters and
// drains the server. A signal or ctx cancellation is a clean exit and
// returns nil.
func (s *Sequencer) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, s.settings.Signals...)
	defer stop()

	if err := s.server.Listen(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.server.Serve() }()

	reg, err := s.start(ctx)
	if err != nil {
		s.drain(ctx)
		<-serveErr
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-serveErr:
		runErr = err
		serveErr = nil
		if runErr == nil {
			runErr = errors.New("http server stopped unexpectedly")
		}
		s.logger.Error("http server stopped",
			slog.String("operation", "Sequencer.Run"),
			slog.String("error", runErr.Error()),
		)
	}

	s.deregister(ctx, reg)
	s.drain(ctx)

	if serveErr != nil {
		if err := <-serveErr; err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// start waits for the health endpoint and registers. It returns an error
// only when registration is required and failed.
func (s *Sequencer) start(ctx context.Context) (domain.Registration, error) {
	reg := s.registration()
	if s.registry == nil {
		s.logger.Info("service registry disabled; skipping registration")
		return reg, nil
	}

	err := s.awaitReady(ctx)
	if err == nil {
		err = s.registry.Register(ctx, reg)
	}
	if err == nil {
		return reg, nil
	}

	if s.settings.RegistrationRequired {
		return reg, fmt.Errorf("registration required: %w", err)
	}
	s.logger.Warn("continuing without service registration",
		slog.String("operation", "Sequencer.start"),
		slog.String("service_id", reg.ServiceID()),
		slog.String("error", err.Error()),
	)
	return reg, nil
}

// registration fills the record template from the bound server.
func (s *Sequencer) registration() domain.Registration {
	reg := s.settings.Registration
	if reg.Port == 0 {
		reg.Port = s.server.Port()
	}
	if reg.Address == "" {
		if host, err := os.Hostname(); err == nil {
			reg.Address = host
		}
	}
	if reg.HealthCheckURL == "" {
		reg.HealthCheckURL = "http://" + net.JoinHostPort(reg.Address, strconv.Itoa(reg.Port)) + s.settings.HealthPath
	}
	return reg
}

// awaitReady polls the local liveness endpoint until it answers 200.
func (s *Sequencer) awaitReady(ctx context.Context) error {
	host := s.settings.ListenHost
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(s.server.Port())) + s.settings.LivePath

	ctx, cancel := context.WithTimeout(ctx, s.settings.ReadyTimeout)
	defer cancel()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		resp, err := s.probe.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return struct{}{}, fmt.Errorf("%s returned %d", url, resp.StatusCode)
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(readyPollInterval)),
		backoff.WithMaxElapsedTime(s.settings.ReadyTimeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", errNotReady, err)
	}
	return nil
}

// deregister removes the registration. It runs on a context detached from
// the cancelled run context and is bounded by the deregister timeout. The
// error is already logged by the registry client and is not fatal.
func (s *Sequencer) deregister(ctx context.Context, reg domain.Registration) {
	if s.registry == nil {
		return
	}
	dctx := context.WithoutCancel(ctx)
	if s.settings.DeregisterTimeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(dctx, s.settings.DeregisterTimeout)
		defer cancel()
	}
	if err := s.registry.Deregister(dctx, reg.ServiceID()); err != nil {
		s.logger.Debug("deregistration error ignored", slog.String("error", err.Error()))
	}
}

func (s *Sequencer) drain(ctx context.Context) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settings.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(sctx); err != nil {
		s.logger.Error("http server shutdown",
			slog.String("operation", "Sequencer.drain"),
			slog.String("error", err.Error()),
		)
	}
}
