// Package orchestrator composes the registry, profile store, and apply
// engine behind a command/snapshot contract for the presentation layer.
// Every command returns a fresh immutable snapshot or a typed failure;
// the orchestrator validates nothing itself and surfaces component
// results unchanged.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/haukened/dnsctl/internal/dns/common/log"
	"github.com/haukened/dnsctl/internal/dns/domain"
	"github.com/haukened/dnsctl/internal/dns/repos/profilestore"
)

var (
	// ErrNoInterfaceSelected is returned by commands that need an
	// interface before one is selected or when none are available.
	ErrNoInterfaceSelected = errors.New("no network interface selected")

	// ErrUnknownInterface is returned when selecting an interface
	// that is not in the current enumeration snapshot.
	ErrUnknownInterface = errors.New("unknown network interface")
)

// Registry enumerates interfaces and reads DNS state.
type Registry interface {
	List(ctx context.Context) ([]domain.NetworkInterface, error)
	CurrentDNS(ctx context.Context, iface domain.NetworkInterface) (domain.DNSState, error)
}

// Applier runs apply and reset sequences.
type Applier interface {
	Apply(ctx context.Context, iface domain.NetworkInterface, profile domain.Profile) (domain.ApplyResult, error)
	Reset(ctx context.Context, iface domain.NetworkInterface) (domain.ApplyResult, error)
}

// Orchestrator owns the profile store and the current selection. It is
// used from a single goroutine; the presentation layer re-renders from
// the snapshot each command returns.
type Orchestrator struct {
	registry   Registry
	engine     Applier
	store      *profilestore.Store
	logger     log.Logger
	configPath string

	interfaces []domain.NetworkInterface
	selected   string // interface ID
	lastResult *domain.ApplyResult
	lastState  *domain.DNSState
	warnings   []string
}

// Options configures a new Orchestrator.
type Options struct {
	Registry   Registry
	Applier    Applier
	Logger     log.Logger
	ConfigPath string
}

// New constructs an Orchestrator with an empty store; call Startup to
// load state and select defaults.
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &Orchestrator{
		registry:   opts.Registry,
		engine:     opts.Applier,
		store:      profilestore.New(),
		logger:     opts.Logger,
		configPath: opts.ConfigPath,
	}
}

// Startup enumerates interfaces, loads the persisted store, selects
// the first interface and its profile (creating an automatic default
// when the scope is empty), and returns the initial snapshot.
//
// Enumeration failure degrades to "no interfaces available" and is
// returned alongside a usable snapshot; a malformed profile file loads
// as empty with a warning. Neither is fatal.
func (o *Orchestrator) Startup(ctx context.Context) (Snapshot, error) {
	store, err := profilestore.Load(o.configPath)
	o.store = store
	if err != nil {
		o.warnings = append(o.warnings, err.Error())
		o.logger.Warn(map[string]any{"error": err.Error()}, "profile file unusable, starting with empty store")
	}

	ifaces, err := o.registry.List(ctx)
	if err != nil {
		o.interfaces = nil
		o.selected = ""
		return o.snapshot(), fmt.Errorf("interface enumeration failed: %w", err)
	}
	o.interfaces = ifaces
	o.selected = ifaces[0].ID

	if _, err := o.store.EnsureDefault(o.selected); err != nil {
		return o.snapshot(), err
	}
	o.refreshState(ctx)
	return o.snapshot(), nil
}

// RefreshInterfaces re-enumerates interfaces, keeping the current
// selection when it survives.
func (o *Orchestrator) RefreshInterfaces(ctx context.Context) (Snapshot, error) {
	ifaces, err := o.registry.List(ctx)
	if err != nil {
		return o.snapshot(), fmt.Errorf("interface enumeration failed: %w", err)
	}
	o.interfaces = ifaces
	if _, ok := o.findInterface(o.selected); !ok {
		o.selected = ifaces[0].ID
		if _, err := o.store.EnsureDefault(o.selected); err != nil {
			return o.snapshot(), err
		}
	}
	return o.snapshot(), nil
}

// SelectInterface changes the current interface scope.
func (o *Orchestrator) SelectInterface(ctx context.Context, id string) (Snapshot, error) {
	if _, ok := o.findInterface(id); !ok {
		return o.snapshot(), ErrUnknownInterface
	}
	o.selected = id
	o.lastResult = nil
	if _, err := o.store.EnsureDefault(id); err != nil {
		return o.snapshot(), err
	}
	o.refreshState(ctx)
	return o.snapshot(), nil
}

// SelectProfile changes the scope's current profile.
func (o *Orchestrator) SelectProfile(name string) (Snapshot, error) {
	if o.selected == "" {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	if err := o.store.Select(o.selected, name); err != nil {
		return o.snapshot(), err
	}
	return o.snapshot(), nil
}

// CreateProfile adds a new default profile to the current scope.
func (o *Orchestrator) CreateProfile(name string) (Snapshot, error) {
	if o.selected == "" {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	if _, err := o.store.Create(o.selected, name); err != nil {
		return o.snapshot(), err
	}
	return o.snapshot(), nil
}

// DeleteProfile removes a profile from the current scope.
func (o *Orchestrator) DeleteProfile(name string) (Snapshot, error) {
	if o.selected == "" {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	if err := o.store.Delete(o.selected, name); err != nil {
		return o.snapshot(), err
	}
	return o.snapshot(), nil
}

// RenameProfile renames a profile within the current scope.
func (o *Orchestrator) RenameProfile(oldName, newName string) (Snapshot, error) {
	if o.selected == "" {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	if err := o.store.Rename(o.selected, oldName, newName); err != nil {
		return o.snapshot(), err
	}
	return o.snapshot(), nil
}

// UpdateProfile replaces a profile's settings in memory. Validation
// happens on apply, not here: a user may save work-in-progress edits.
func (o *Orchestrator) UpdateProfile(p domain.Profile) (Snapshot, error) {
	if o.selected == "" {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	if err := o.store.Update(o.selected, p); err != nil {
		return o.snapshot(), err
	}
	return o.snapshot(), nil
}

// Apply runs the apply sequence for the selected interface and profile,
// then persists the store so the applied configuration survives
// restarts. A persistence failure is reported as a warning on the
// snapshot; the in-memory state stays usable and Save can be retried.
func (o *Orchestrator) Apply(ctx context.Context) (Snapshot, error) {
	iface, ok := o.findInterface(o.selected)
	if !ok {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	profile, ok := o.store.Selected(o.selected)
	if !ok {
		return o.snapshot(), profilestore.ErrProfileNotFound
	}

	result, err := o.engine.Apply(ctx, iface, profile)
	if err != nil {
		return o.snapshot(), err
	}
	o.lastResult = &result
	o.stateFromResult(result)

	if err := o.store.Save(o.configPath); err != nil {
		o.warnings = append(o.warnings, fmt.Sprintf("profiles not persisted: %v", err))
	}
	return o.snapshot(), nil
}

// Reset restores the selected interface to automatic DNS without
// touching the saved profiles.
func (o *Orchestrator) Reset(ctx context.Context) (Snapshot, error) {
	iface, ok := o.findInterface(o.selected)
	if !ok {
		return o.snapshot(), ErrNoInterfaceSelected
	}
	result, err := o.engine.Reset(ctx, iface)
	if err != nil {
		return o.snapshot(), err
	}
	o.lastResult = &result
	o.stateFromResult(result)
	return o.snapshot(), nil
}

// Save persists the store without applying anything.
func (o *Orchestrator) Save() (Snapshot, error) {
	if err := o.store.Save(o.configPath); err != nil {
		return o.snapshot(), err
	}
	return o.snapshot(), nil
}

func (o *Orchestrator) findInterface(id string) (domain.NetworkInterface, bool) {
	for _, ifc := range o.interfaces {
		if ifc.ID == id {
			return ifc, true
		}
	}
	return domain.NetworkInterface{}, false
}

// refreshState reads the selected interface's observed DNS servers.
// Failure is non-fatal; the snapshot just carries no observed state.
func (o *Orchestrator) refreshState(ctx context.Context) {
	iface, ok := o.findInterface(o.selected)
	if !ok {
		o.lastState = nil
		return
	}
	state, err := o.registry.CurrentDNS(ctx, iface)
	if err != nil {
		o.logger.Warn(map[string]any{
			"interface": iface.ID,
			"error":     err.Error(),
		}, "could not read current DNS state")
		o.lastState = nil
		return
	}
	o.lastState = &state
}

// stateFromResult rebuilds the observed DNS state from the verified
// apply steps, saving a redundant OS round trip.
func (o *Orchestrator) stateFromResult(result domain.ApplyResult) {
	state := domain.DNSState{}
	for _, s := range result.Steps {
		switch s.Family {
		case domain.FamilyIPv4:
			state.IPv4 = s.Observed
		case domain.FamilyIPv6:
			state.IPv6 = s.Observed
		}
	}
	o.lastState = &state
}
