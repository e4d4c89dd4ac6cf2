package netconf

import (
	"context"
	"fmt"
	"sync"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// Op names one recorded configurator operation.
type Op string

const (
	OpSetServers       Op = "set-servers"
	OpClearToAutomatic Op = "clear-to-automatic"
	OpBindDohTemplate  Op = "bind-doh-template"
	OpFlushCache       Op = "flush-cache"
)

// Call is one recorded invocation with its arguments.
type Call struct {
	Op        Op
	Interface string
	Family    domain.Family
	Servers   []string
	Template  string
}

// Recorder is an in-memory Configurator that records every call and
// returns scripted outcomes, making partial-failure sequences
// deterministic in tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// Fail maps an op+family key to an error returned for that call.
	// Keys are built by FailKey; FlushCache uses FailKey(OpFlushCache, 0).
	Fail map[string]error

	// Block, when non-nil, is received from before every call returns;
	// tests use it to hold an apply in flight.
	Block chan struct{}
}

// NewRecorder returns an empty recorder with no scripted failures.
func NewRecorder() *Recorder {
	return &Recorder{Fail: make(map[string]error)}
}

// FailKey builds the key used to script a failure for an operation.
func FailKey(op Op, family domain.Family) string {
	if op == OpFlushCache {
		return string(op)
	}
	return fmt.Sprintf("%s/%s", op, family)
}

// Calls returns a copy of the recorded call sequence.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsFor returns the recorded calls matching the given op.
func (r *Recorder) CallsFor(op Op) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) record(ctx context.Context, c Call) error {
	if r.Block != nil {
		select {
		case <-r.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	err := r.Fail[FailKey(c.Op, c.Family)]
	r.mu.Unlock()
	return err
}

// SetServers implements Configurator.
func (r *Recorder) SetServers(ctx context.Context, iface domain.NetworkInterface, family domain.Family, servers []string) error {
	return r.record(ctx, Call{Op: OpSetServers, Interface: iface.ID, Family: family, Servers: servers})
}

// ClearToAutomatic implements Configurator.
func (r *Recorder) ClearToAutomatic(ctx context.Context, iface domain.NetworkInterface, family domain.Family) error {
	return r.record(ctx, Call{Op: OpClearToAutomatic, Interface: iface.ID, Family: family})
}

// BindDohTemplate implements Configurator.
func (r *Recorder) BindDohTemplate(ctx context.Context, iface domain.NetworkInterface, family domain.Family, server, template string) error {
	return r.record(ctx, Call{Op: OpBindDohTemplate, Interface: iface.ID, Family: family, Servers: []string{server}, Template: template})
}

// FlushCache implements Configurator.
func (r *Recorder) FlushCache(ctx context.Context) error {
	return r.record(ctx, Call{Op: OpFlushCache})
}

var _ Configurator = (*Recorder)(nil)
