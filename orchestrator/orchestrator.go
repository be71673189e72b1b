package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ruteri/medusa-provisioning/interfaces"
	"github.com/ruteri/medusa-provisioning/metrics"
	"github.com/ruteri/medusa-provisioning/provisioner"
	"go.uber.org/atomic"
)

// State is a startup orchestration phase.
type State int32

const (
	StateLaunching State = iota
	StateWaitingHealthy
	StateProvisioning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLaunching:
		return "launching"
	case StateWaitingHealthy:
		return "waiting_healthy"
	case StateProvisioning:
		return "provisioning"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Default timings.
const (
	DefaultGracePeriod       = 30 * time.Second
	DefaultPollInterval      = 10 * time.Second
	DefaultMaxHealthAttempts = 30
	DefaultSettleDelay       = 10 * time.Second
)

// Config holds the orchestrator settings.
type Config struct {
	BackendURL string
	Credential interfaces.Credential

	// GracePeriod is the delay between spawning the backend and the first health check.
	GracePeriod time.Duration
	// PollInterval is the delay between health checks.
	PollInterval time.Duration
	// MaxHealthAttempts bounds the number of health checks.
	MaxHealthAttempts int
	// SettleDelay is the wait between the first healthy answer and provisioning.
	SettleDelay time.Duration

	// KeyTitle is the title the key provisioner was configured with.
	KeyTitle string
	// KeyCommand is shown in the manual recovery steps.
	KeyCommand string
}

// DefaultConfig returns a Config with the default timings.
func DefaultConfig() Config {
	return Config{
		GracePeriod:       DefaultGracePeriod,
		PollInterval:      DefaultPollInterval,
		MaxHealthAttempts: DefaultMaxHealthAttempts,
		SettleDelay:       DefaultSettleDelay,
		KeyTitle:          provisioner.DefaultKeyTitle,
		KeyCommand:        "create-publishable-key",
	}
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State            string `json:"state"`
	HealthAttempts   int    `json:"health_attempts"`
	PublishableKeyID string `json:"publishable_key_id,omitempty"`
}

// Orchestrator supervises the backend process and provisions a publishable
// key once the backend is healthy. The backend's exit always ends Run, with
// the backend's exit code, whatever state provisioning is in.
type Orchestrator struct {
	cfg         Config
	log         *slog.Logger
	clock       clock.Clock
	out         io.Writer
	launcher    Launcher
	checker     interfaces.HealthChecker
	provisioner interfaces.KeyProvisioner
	observer    func(from, to State)

	state    atomic.Int32
	attempts atomic.Int32
	keyID    atomic.String

	sequenceDone chan struct{}
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock, e.g. with a mock in tests.
func WithClock(clk clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = clk }
}

// WithOutput sets where operator-facing messages are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithStateObserver registers a callback invoked on every state transition.
func WithStateObserver(fn func(from, to State)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// New creates an Orchestrator.
func New(cfg Config, log *slog.Logger, launcher Launcher, checker interfaces.HealthChecker, keys interfaces.KeyProvisioner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:          cfg,
		log:          log,
		clock:        clock.New(),
		out:          os.Stdout,
		launcher:     launcher,
		checker:      checker,
		provisioner:  keys,
		sequenceDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	metrics.OrchestratorState.Set(float64(StateLaunching))
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Status returns a snapshot for status reporting.
func (o *Orchestrator) Status() Status {
	return Status{
		State:            o.State().String(),
		HealthAttempts:   int(o.attempts.Load()),
		PublishableKeyID: o.keyID.Load(),
	}
}

// SequenceDone is closed when the health/provisioning sequence has finished,
// successfully or not.
func (o *Orchestrator) SequenceDone() <-chan struct{} {
	return o.sequenceDone
}

// Run starts the backend and blocks until it exits, returning its exit code.
// Cancelling ctx forwards SIGTERM to the backend; Run still waits for the
// backend to exit.
func (o *Orchestrator) Run(ctx context.Context) (int, error) {
	o.log.Info("Starting backend with automatic publishable key generation")

	proc, err := o.launcher.Start()
	if err != nil {
		o.log.Error("Failed to start backend", "err", err)
		return 1, fmt.Errorf("failed to start backend: %w", err)
	}
	o.log.Info("Backend process started", "pid", proc.Pid())

	exited := make(chan int, 1)
	go func() {
		exited <- proc.Wait()
	}()

	seqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o.log.Info("Scheduling health checks", "gracePeriod", o.cfg.GracePeriod)
	go o.runSequence(seqCtx)

	shutdown := ctx.Done()
	for {
		select {
		case code := <-exited:
			o.log.Info("Backend process exited", "code", code, "state", o.State().String())
			return code, nil
		case <-shutdown:
			shutdown = nil
			cancel()
			o.log.Info("Shutdown signal received, forwarding to backend", "pid", proc.Pid())
			if err := proc.Signal(syscall.SIGTERM); err != nil {
				o.log.Error("Failed to signal backend", "err", err)
			}
		}
	}
}

// runSequence waits out the grace period, then polls and provisions. A
// cancellation during the grace period leaves the state at StateLaunching.
func (o *Orchestrator) runSequence(ctx context.Context) {
	defer close(o.sequenceDone)

	if err := sleep(ctx, o.clock, o.cfg.GracePeriod); err != nil {
		return
	}

	o.transition(StateWaitingHealthy)
	poller := NewHealthPoller(o.checker, o.clock, o.cfg.PollInterval, o.cfg.MaxHealthAttempts, o.log)
	poller.OnAttempt = func(attempt int) { o.attempts.Store(int32(attempt)) }

	if _, err := poller.WaitHealthy(ctx); err != nil {
		o.fail(ctx, err)
		return
	}

	o.transition(StateProvisioning)
	o.log.Info("Waiting for full initialization", "settleDelay", o.cfg.SettleDelay)
	if err := sleep(ctx, o.clock, o.cfg.SettleDelay); err != nil {
		o.fail(ctx, err)
		return
	}

	o.log.Info("Creating publishable key")
	keyID, err := o.provisioner.CreateKey(ctx, o.cfg.BackendURL, o.cfg.Credential.Email, o.cfg.Credential.Password)
	if err != nil {
		o.fail(ctx, err)
		return
	}

	o.keyID.Store(keyID)
	provisioner.PrintSuccess(o.out, &interfaces.ProvisionedKey{ID: keyID, Title: o.cfg.KeyTitle})
	o.transition(StateDone)
}

// fail records the failure and prints recovery steps. The backend keeps running.
func (o *Orchestrator) fail(ctx context.Context, err error) {
	o.transition(StateFailed)
	if ctx.Err() != nil {
		o.log.Info("Startup sequence cancelled", "err", err)
		return
	}

	o.log.Error("Failed during startup sequence", "err", err)
	fmt.Fprintf(o.out, "Failed during startup sequence: %v\n", err)
	provisioner.PrintManualSteps(o.out, o.cfg.BackendURL, o.cfg.KeyCommand)
}

func (o *Orchestrator) transition(to State) {
	from := State(o.state.Swap(int32(to)))
	if from == to {
		return
	}
	metrics.OrchestratorState.Set(float64(to))
	o.log.Debug("State transition", "from", from.String(), "to", to.String())
	if o.observer != nil {
		o.observer(from, to)
	}
}
