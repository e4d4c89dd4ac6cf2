// Package applier pushes validated DNS profiles onto live interfaces
// and verifies the outcome. It is the only component allowed to touch
// the OS configuration facility.
package applier

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/haukened/dnsctl/internal/dns/common/clock"
	"github.com/haukened/dnsctl/internal/dns/common/log"
	"github.com/haukened/dnsctl/internal/dns/domain"
)

// ErrApplyInProgress is returned when an apply or reset is requested
// while another is running. Conflicting concurrent configurations are
// meaningless, so the second request is rejected, not queued.
var ErrApplyInProgress = errors.New("an apply operation is already in progress")

// DefaultStepTimeout bounds each individual OS operation. Exceeding it
// fails that step only; nothing is retried automatically because apply
// is declarative and a re-invocation converges to the same state.
const DefaultStepTimeout = 15 * time.Second

// State names the engine's position in the apply sequence. Terminal
// outcomes live in ApplyResult; the engine itself always returns to
// StateIdle.
type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateApplying
	StateVerifying
)

// String returns the textual representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateApplying:
		return "applying"
	case StateVerifying:
		return "verifying"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// Engine applies and resets per-interface DNS configuration. A single
// Engine accepts one in-flight operation at a time.
type Engine struct {
	configurator Configurator
	state        StateReader
	clock        clock.Clock
	logger       log.Logger
	stepTimeout  time.Duration

	inFlight atomic.Bool
	phase    atomic.Uint32
}

// Options configures a new Engine. Configurator and StateReader are
// required; the rest default sensibly.
type Options struct {
	Configurator Configurator
	StateReader  StateReader
	Clock        clock.Clock
	Logger       log.Logger
	StepTimeout  time.Duration
}

// New constructs an Engine from options.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = DefaultStepTimeout
	}
	return &Engine{
		configurator: opts.Configurator,
		state:        opts.StateReader,
		clock:        opts.Clock,
		logger:       opts.Logger,
		stepTimeout:  opts.StepTimeout,
	}
}

// State reports where the engine currently is in the apply sequence.
func (e *Engine) State() State {
	return State(e.phase.Load())
}

func (e *Engine) setState(s State) {
	e.phase.Store(uint32(s))
}

// Apply pushes the profile onto the interface. The sequence is:
// validate (no OS interaction on any violation), apply each protocol
// independently in IPv4-then-IPv6 order, flush the resolver cache
// best-effort, then re-query and verify observed state against intent.
// Once OS operations begin the sequence runs to verification; ctx
// bounds individual steps, it does not cancel the sequence.
func (e *Engine) Apply(ctx context.Context, iface domain.NetworkInterface, profile domain.Profile) (domain.ApplyResult, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return domain.ApplyResult{}, ErrApplyInProgress
	}
	defer e.inFlight.Store(false)
	defer e.setState(StateIdle)

	result := domain.ApplyResult{
		Profile:     profile.Name,
		InterfaceID: iface.ID,
	}

	e.setState(StateValidating)
	if errs := domain.Validate(profile); len(errs) > 0 {
		result.Outcome = domain.OutcomeFailed
		result.CompletedAt = e.clock.Now()
		return result, errs
	}

	e.setState(StateApplying)
	result.Steps = []domain.StepOutcome{
		e.applyProtocol(ctx, iface, domain.FamilyIPv4, profile),
		e.applyProtocol(ctx, iface, domain.FamilyIPv6, profile),
	}

	// Cache flush is a side effect of any apply; its failure never
	// changes the terminal state, only the warning list.
	if err := e.step(ctx, e.configurator.FlushCache); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("DNS cache flush failed: %v", err))
	}

	e.setState(StateVerifying)
	e.verify(ctx, iface, result.Steps)

	result.Outcome = domain.ResolveOutcome(result.Steps)
	result.CompletedAt = e.clock.Now()

	e.logger.Info(map[string]any{
		"interface": iface.ID,
		"profile":   profile.Name,
		"outcome":   result.Outcome.String(),
	}, "apply finished")
	return result, nil
}

// Reset restores the interface to automatic DNS unconditionally, using
// the same apply/verify sequence with a synthetic automatic profile.
// Saved profiles are untouched.
func (e *Engine) Reset(ctx context.Context, iface domain.NetworkInterface) (domain.ApplyResult, error) {
	return e.Apply(ctx, iface, domain.Profile{Name: "reset", Mode: domain.ModeAutomatic})
}

// applyProtocol issues the operations for one family and records the
// outcome. Failures here never abort the remaining sequence: an IPv6
// failure must not prevent IPv4 from being applied, and vice versa.
func (e *Engine) applyProtocol(ctx context.Context, iface domain.NetworkInterface, family domain.Family, profile domain.Profile) domain.StepOutcome {
	settings := profile.Protocol(family)
	out := domain.StepOutcome{Family: family}

	// Automatic mode and disabled protocols both mean "clear this
	// family back to DHCP"; intent stays empty.
	if profile.Mode == domain.ModeAutomatic || !settings.Enabled {
		err := e.step(ctx, func(c context.Context) error {
			return e.configurator.ClearToAutomatic(c, iface, family)
		})
		if err != nil {
			out.Err = err.Error()
		}
		return out
	}

	out.Intent = settings.Addresses()
	err := e.step(ctx, func(c context.Context) error {
		return e.configurator.SetServers(c, iface, family, out.Intent)
	})
	if err != nil {
		out.Err = err.Error()
		return out
	}

	if settings.Doh.Enabled {
		err := e.step(ctx, func(c context.Context) error {
			return e.configurator.BindDohTemplate(c, iface, family, settings.Primary, settings.Doh.Template)
		})
		if err != nil {
			out.Err = fmt.Sprintf("servers set, DoH binding failed: %v", err)
		}
	}
	return out
}

// step runs one OS operation under the per-step timeout.
func (e *Engine) step(ctx context.Context, op func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, e.stepTimeout)
	defer cancel()
	return op(stepCtx)
}

// verify re-queries the interface and compares observed state against
// each step's intent. A mismatch after a reportedly successful
// operation escalates that step to failed: the observed state is the
// only evidence the user can trust.
func (e *Engine) verify(ctx context.Context, iface domain.NetworkInterface, steps []domain.StepOutcome) {
	observed, err := e.state.CurrentDNS(ctx, iface)
	if err != nil {
		for i := range steps {
			if steps[i].Err == "" {
				steps[i].Err = fmt.Sprintf("verification failed: %v", err)
			}
		}
		return
	}

	for i := range steps {
		steps[i].Observed = observed.Servers(steps[i].Family)
		if steps[i].Err != "" {
			continue
		}
		if serverListsEqual(steps[i].Intent, steps[i].Observed) {
			steps[i].Applied = true
		} else {
			steps[i].Err = fmt.Sprintf("verification mismatch: intended %v, observed %v",
				steps[i].Intent, steps[i].Observed)
		}
	}
}

func serverListsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
