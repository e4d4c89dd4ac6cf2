package orchestrator

import "github.com/haukened/dnsctl/internal/dns/domain"

// Snapshot is the immutable application state handed to the
// presentation layer after every command. Slices and pointers are
// copies; mutating a snapshot never changes orchestrator state.
type Snapshot struct {
	Interfaces        []domain.NetworkInterface
	SelectedInterface *domain.NetworkInterface
	Profiles          []domain.Profile
	SelectedProfile   *domain.Profile
	CurrentDNS        *domain.DNSState
	LastResult        *domain.ApplyResult
	Warnings          []string
}

func (o *Orchestrator) snapshot() Snapshot {
	snap := Snapshot{
		Interfaces: append([]domain.NetworkInterface(nil), o.interfaces...),
		Warnings:   append([]string(nil), o.warnings...),
	}
	if iface, ok := o.findInterface(o.selected); ok {
		snap.SelectedInterface = &iface
		snap.Profiles = o.store.Profiles(o.selected)
		if p, ok := o.store.Selected(o.selected); ok {
			snap.SelectedProfile = &p
		}
	}
	if o.lastState != nil {
		state := *o.lastState
		snap.CurrentDNS = &state
	}
	if o.lastResult != nil {
		result := *o.lastResult
		snap.LastResult = &result
	}
	return snap
}
