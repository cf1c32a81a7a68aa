package command

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ForgeLite/forgelite/pkg/audit"
)

// DefaultMaxAuditEntries bounds the in-memory audit ring buffer.
const DefaultMaxAuditEntries = 1000

var (
	// ErrHandlerNotFound reports an execute call for an unregistered id.
	ErrHandlerNotFound = errors.New("command handler not found")

	// ErrPermissionDenied reports a failed capability check. The handler is
	// never invoked.
	ErrPermissionDenied = errors.New("insufficient permissions")

	// ErrValidationFailed reports a failed input-schema check. The handler
	// is never invoked.
	ErrValidationFailed = errors.New("command validation failed")
)

// Registry holds all registered command handlers and executes them with
// permission checks, input validation, and audit logging.
type Registry struct {
	mu         sync.RWMutex
	handlers   map[string]*Handler
	log        []audit.Entry
	maxEntries int
	sink       audit.Sink
}

// Option configures a Registry.
type Option func(*Registry)

// WithSink sets the durable audit sink. Every entry is mirrored to it in
// addition to the in-memory ring.
func WithSink(sink audit.Sink) Option {
	return func(r *Registry) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// WithMaxAuditEntries overrides the in-memory audit ring capacity.
func WithMaxAuditEntries(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxEntries = n
		}
	}
}

// NewRegistry creates an empty registry with the default ring capacity and a
// no-op sink.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers:   make(map[string]*Handler),
		maxEntries: DefaultMaxAuditEntries,
		sink:       audit.NopSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a handler. A handler with an already-registered id replaces
// the previous one, which is how tests install doubles.
func (r *Registry) Register(h *Handler) error {
	if h == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	if h.ID == "" {
		return fmt.Errorf("command handler must have an id")
	}
	if h.Func == nil {
		return fmt.Errorf("command handler %q must have a handler function", h.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.ID] = h
	return nil
}

// Unregister removes a handler and reports whether it existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.handlers[id]
	delete(r.handlers, id)
	return ok
}

// Has reports whether a handler is registered for id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// Handler returns the registered handler for id, or nil.
func (r *Registry) Handler(id string) *Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[id]
}

// IDs returns all registered handler ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	return ids
}

// Execute runs the handler registered for id against ctx.
//
// The pipeline is: lookup → permission gate → input validation → timed
// invocation. Lookup, permission, and validation failures return a failed
// Result alongside a sentinel-wrapped error and are terminal for the
// invocation; the handler function is not called. A handler error or panic
// is captured into a failed Result with a nil error; Execute never
// propagates handler failures. Exactly one audit entry is recorded per
// attempt, whatever the outcome.
func (r *Registry) Execute(id string, ctx *Context) (*Result, error) {
	start := time.Now()

	handler := r.Handler(id)
	if handler == nil {
		result := &Result{Success: false, Message: fmt.Sprintf("command handler not found: %s", id)}
		r.record(id, ctx, result, time.Since(start))
		return result, fmt.Errorf("%w: %s", ErrHandlerNotFound, id)
	}

	for _, perm := range handler.Permissions {
		if !checkPermission(perm, ctx) {
			result := &Result{Success: false, Message: fmt.Sprintf("insufficient permissions: %s access required", perm)}
			r.record(id, ctx, result, time.Since(start))
			return result, fmt.Errorf("%w: %s access required", ErrPermissionDenied, perm)
		}
	}

	if err := validateInput(handler.Validation, ctx); err != nil {
		result := &Result{Success: false, Message: err.Error()}
		r.record(id, ctx, result, time.Since(start))
		return result, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	result := r.invoke(handler, ctx)
	r.record(id, ctx, result, time.Since(start))
	return result, nil
}

// invoke runs the handler body, converting errors and panics into a failed
// Result.
func (r *Registry) invoke(handler *Handler, ctx *Context) (result *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = &Result{Success: false, Message: fmt.Sprintf("command %s panicked: %v", handler.ID, rec)}
		}
	}()

	res, err := handler.Func(ctx)
	if err != nil {
		return &Result{Success: false, Message: err.Error()}
	}
	if res == nil {
		return &Result{Success: true}
	}
	return res
}

// AuditLog returns up to limit of the most recent audit entries, oldest
// first. limit <= 0 returns the whole retained window.
func (r *Registry) AuditLog(limit int) []audit.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.log
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	out := make([]audit.Entry, len(entries))
	copy(out, entries)
	return out
}

// ClearAuditLog drops the in-memory window. The durable sink is unaffected.
func (r *Registry) ClearAuditLog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
}

// Stats aggregates execution statistics over the retained audit window.
type Stats struct {
	TotalExecutions      int
	SuccessfulExecutions int
	FailedExecutions     int
	AverageDurationMS    float64
	CommandFrequency     map[string]int
}

// Stats recomputes aggregates from the audit buffer on every call, keeping
// the numbers trivially consistent with ring eviction.
func (r *Registry) Stats() *Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Stats{CommandFrequency: make(map[string]int)}

	var totalMS int64
	for _, entry := range r.log {
		stats.TotalExecutions++
		if entry.Success {
			stats.SuccessfulExecutions++
		} else {
			stats.FailedExecutions++
		}
		totalMS += entry.DurationMS
		stats.CommandFrequency[entry.CommandID]++
	}

	if stats.TotalExecutions > 0 {
		stats.AverageDurationMS = float64(totalMS) / float64(stats.TotalExecutions)
	}
	return stats
}

// record appends one audit entry to the ring and the durable sink.
func (r *Registry) record(id string, ctx *Context, result *Result, elapsed time.Duration) {
	entry := audit.Entry{
		Timestamp:  time.Now(),
		CommandID:  id,
		Success:    result.Success,
		Message:    result.Message,
		DurationMS: elapsed.Milliseconds(),
	}
	if ctx != nil {
		entry.Parameters = ctx.Parameters
		entry.SessionID = ctx.SessionID
	}

	r.mu.Lock()
	r.log = append(r.log, entry)
	if len(r.log) > r.maxEntries {
		r.log = r.log[len(r.log)-r.maxEntries:]
	}
	r.mu.Unlock()

	// Sink failures must not fail the command; the in-memory record stands.
	_ = r.sink.Append(entry)
}
