// Package audit defines the command audit record and the durable sink that
// retains it beyond the registry's in-memory ring buffer.
//
// Every command execution attempt produces exactly one Entry. The registry
// keeps a bounded in-memory window for statistics; the Sink is the durable
// trail, so ring eviction never loses history.
//
// The file sink writes JSON lines and chains each line to the previous one
// with an HMAC, making after-the-fact edits to the log detectable via
// Verify.
package audit

import "time"

// Entry is an immutable record of one command execution attempt.
type Entry struct {
	Timestamp  time.Time         `json:"timestamp"`
	CommandID  string            `json:"command_id"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	DurationMS int64             `json:"duration_ms"`
	SessionID  string            `json:"session_id,omitempty"`
}

// Sink receives every audit entry for durable retention.
type Sink interface {
	Append(entry Entry) error
	Flush() error
	Close() error
}

// NopSink discards all entries. Used in tests and when auditing to disk is
// disabled.
type NopSink struct{}

func (NopSink) Append(Entry) error { return nil }
func (NopSink) Flush() error       { return nil }
func (NopSink) Close() error       { return nil }
