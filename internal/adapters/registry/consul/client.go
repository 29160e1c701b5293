// Package consul is the outbound adapter for the Consul agent HTTP API. It
// implements [ports.RegistryClient]: it registers this process with an HTTP
// health check that the agent polls, and removes the registration on
// shutdown.
//
// All agent calls go through the caller-supplied http.RoundTripper, normally
// an [httpclient.Transport] providing circuit breaking and tracing. Calls are
// never retried.
package consul

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/consul/api"
	"go.opentelemetry.io/otel/metric"

	"github.com/loyalnest/service-bootstrap/internal/domain"
	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
	"github.com/loyalnest/service-bootstrap/internal/platform/telemetry"
	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Compile-time interface check.
var _ ports.RegistryClient = (*Client)(nil)

// DefaultDeregisterTimeout bounds Deregister when neither the caller's
// context nor Options set a deadline.
const DefaultDeregisterTimeout = 3 * time.Second

var (
	errInvalidAddress  = errors.New("registry address must be an http or https URL")
	errAlreadyReleased = errors.New("registration already released")
)

// Options configures a Client.
type Options struct {
	// Address is the agent URL, e.g. "http://consul:8500".
	Address string
	// Token is the ACL token sent with every call. Optional.
	Token string
	// RequestTimeout bounds each agent call. Zero means no client timeout.
	RequestTimeout time.Duration
	// DeregisterTimeout bounds Deregister when ctx has no deadline.
	DeregisterTimeout time.Duration
	// Transport carries agent calls. Nil uses http.DefaultTransport.
	Transport http.RoundTripper

	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

// Client registers and deregisters one service instance with a Consul agent.
// It is safe for concurrent use; the lifecycle state is guarded by a mutex.
type Client struct {
	agent             *api.Agent
	address           string
	deregisterTimeout time.Duration
	metrics           *telemetry.Metrics
	logger            *slog.Logger

	mu    sync.Mutex
	state domain.RegistrationState
}

// New creates a Client for the agent at opts.Address. No request is made.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.Address)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidAddress, opts.Address)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	cfg := api.DefaultConfig()
	cfg.Address = u.Host
	cfg.Scheme = u.Scheme
	cfg.Token = opts.Token
	cfg.HttpClient = &http.Client{Transport: transport, Timeout: opts.RequestTimeout}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating consul client: %w", err)
	}

	deregisterTimeout := opts.DeregisterTimeout
	if deregisterTimeout <= 0 {
		deregisterTimeout = DefaultDeregisterTimeout
	}

	return &Client{
		agent:             client.Agent(),
		address:           u.Redacted(),
		deregisterTimeout: deregisterTimeout,
		metrics:           opts.Metrics,
		logger:            logging.OrDiscard(opts.Logger),
		state:             domain.StateUnregistered,
	}, nil
}

// State returns the current lifecycle state.
func (c *Client) State() domain.RegistrationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s domain.RegistrationState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// Register submits reg to the agent with an HTTP health check named
// "<name>-health". Registering the same service ID again replaces the
// agent's entry. On failure the state returns to UNREGISTERED and the error
// is a *domain.RegistryError matching domain.ErrRegistration.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	id := reg.ServiceID()
	fail := func(err error) error {
		c.record(ctx, domain.OpRegister, false)
		return &domain.RegistryError{Op: domain.OpRegister, ServiceID: id, Err: err}
	}

	if err := reg.Validate(); err != nil {
		return fail(err)
	}

	c.mu.Lock()
	prev := c.state
	if prev == domain.StateDeregistering || prev == domain.StateDeregistered {
		c.mu.Unlock()
		return fail(errAlreadyReleased)
	}
	c.state = domain.StateRegistering
	c.mu.Unlock()

	err := c.agent.ServiceRegisterOpts(toAgentRegistration(reg), api.ServiceRegisterOpts{}.WithContext(ctx))
	if err != nil {
		// A failed update leaves an earlier registration in place.
		if prev == domain.StateRegistered {
			c.setState(domain.StateRegistered)
		} else {
			c.setState(domain.StateUnregistered)
		}
		return fail(err)
	}

	c.setState(domain.StateRegistered)
	c.record(ctx, domain.OpRegister, true)
	c.logger.InfoContext(ctx, "registered with service registry",
		slog.String("registry", c.address),
		slog.String("service_id", id),
		slog.String("check_url", reg.HealthCheckURL),
	)
	return nil
}

// Deregister removes serviceID from the agent. It is best effort: it is
// attempted from any state, it is bounded by the deregister timeout when ctx
// has no deadline, and it always leaves the client DEREGISTERED. A failure
// is logged and returned as a *domain.RegistryError matching
// domain.ErrDeregistration; callers may ignore it.
func (c *Client) Deregister(ctx context.Context, serviceID string) error {
	c.setState(domain.StateDeregistering)
	defer c.setState(domain.StateDeregistered)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.deregisterTimeout)
		defer cancel()
	}

	err := c.agent.ServiceDeregisterOpts(serviceID, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		c.record(ctx, domain.OpDeregister, false)
		c.logger.WarnContext(ctx, "deregistration failed",
			slog.String("operation", "consul.Deregister"),
			slog.String("registry", c.address),
			slog.String("service_id", serviceID),
			slog.String("error", err.Error()),
		)
		return &domain.RegistryError{Op: domain.OpDeregister, ServiceID: serviceID, Err: err}
	}

	c.record(ctx, domain.OpDeregister, true)
	c.logger.InfoContext(ctx, "deregistered from service registry",
		slog.String("registry", c.address),
		slog.String("service_id", serviceID),
	)
	return nil
}

func (c *Client) record(ctx context.Context, op domain.RegistryOp, ok bool) {
	if c.metrics == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	c.metrics.RegistryOperations.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrOperation.String(string(op)),
		telemetry.AttrResult.String(result),
	))
}

func toAgentRegistration(reg domain.Registration) *api.AgentServiceRegistration {
	return &api.AgentServiceRegistration{
		ID:      reg.ServiceID(),
		Name:    reg.Name,
		Address: reg.Address,
		Port:    reg.Port,
		Tags:    reg.Tags,
		Check: &api.AgentServiceCheck{
			Name:                           reg.CheckName(),
			HTTP:                           reg.HealthCheckURL,
			Interval:                       reg.Interval.String(),
			Timeout:                        reg.Timeout.String(),
			DeregisterCriticalServiceAfter: reg.DeregisterCriticalAfter.String(),
		},
	}
}
