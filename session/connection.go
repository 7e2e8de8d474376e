// Package session implements the connection context (C5): the
// mutable per-connection state the schema and envelope layers need
// but must never reach for globally — request/response counters,
// negotiated encryption settings, and PSK/bucket-key lookup. A
// *Connection satisfies envelope.ConnectionContext.
package session

import (
	"sync"

	"github.com/plabble/ptp-codec/envelope"
	"github.com/plabble/ptp-codec/plog"
)

// ErrCounterExhausted is returned by IncrementCounter when a 16-bit
// counter would wrap (§4.5: "hitting 0xFFFF is fatal" — wrapping would
// reuse a nonce under the same key).
var ErrCounterExhausted = counterExhaustedError{}

type counterExhaustedError struct{}

func (counterExhaustedError) Error() string { return "session: counter exhausted, connection must be re-keyed" }

// PSKLookup resolves a pre-shared-key id to its secret.
type PSKLookup func(id []byte) (secret []byte, ok bool)

// BucketKeyLookup resolves a bucket id to its encryption key, if the
// bucket is individually keyed.
type BucketKeyLookup func(bucketID [16]byte) (key []byte, ok bool)

// Connection is one negotiated session's mutable state.
type Connection struct {
	mu sync.Mutex

	requestCounter  uint16
	responseCounter uint16

	settings       envelope.EncryptionSettings
	sessionSecret  []byte
	getPSK         PSKLookup
	getBucketKey   BucketKeyLookup
}

// New returns a Connection with the default encryption suite and no
// negotiated session secret (suitable until a Session packet
// completes a key exchange).
func New() *Connection {
	return &Connection{settings: envelope.DefaultEncryptionSettings()}
}

// SetSessionSecret installs the secret negotiated by a completed
// Session request/response exchange.
func (c *Connection) SetSessionSecret(secret []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionSecret = append([]byte(nil), secret...)
}

// SetSettings overrides the connection's negotiated EncryptionSettings
// (from a Session packet's SpecifyEncryptionSettings block).
func (c *Connection) SetSettings(s envelope.EncryptionSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}

// SetPSKLookup installs the callback used to resolve a PSK id to its
// secret (§4.5's get_psk).
func (c *Connection) SetPSKLookup(f PSKLookup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getPSK = f
}

// SetBucketKeyLookup installs the callback used to resolve a bucket's
// individual encryption key (§4.5's get_bucket_key).
func (c *Connection) SetBucketKeyLookup(f BucketKeyLookup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getBucketKey = f
}

// BucketKey resolves bucketID's encryption key via the installed
// lookup, if any.
func (c *Connection) BucketKey(bucketID [16]byte) ([]byte, bool) {
	c.mu.Lock()
	f := c.getBucketKey
	c.mu.Unlock()
	if f == nil {
		return nil, false
	}
	return f(bucketID)
}

// RequestCounter implements envelope.ConnectionContext.
func (c *Connection) RequestCounter() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestCounter
}

// ResponseCounter implements envelope.ConnectionContext.
func (c *Connection) ResponseCounter() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responseCounter
}

// IncrementCounter implements envelope.ConnectionContext. It advances
// the counter for dir by one, failing with ErrCounterExhausted rather
// than wrapping past 0xFFFF.
func (c *Connection) IncrementCounter(dir envelope.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch dir {
	case envelope.DirectionRequest:
		if c.requestCounter == 0xFFFF {
			plog.Log().Error("session: request counter exhausted, connection must be re-keyed")
			return ErrCounterExhausted
		}
		c.requestCounter++
	case envelope.DirectionResponse:
		if c.responseCounter == 0xFFFF {
			plog.Log().Error("session: response counter exhausted, connection must be re-keyed")
			return ErrCounterExhausted
		}
		c.responseCounter++
	}
	return nil
}

// DefaultSettings implements envelope.ConnectionContext.
func (c *Connection) DefaultSettings() envelope.EncryptionSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SecretFor implements envelope.ConnectionContext: preShared=true
// resolves through the installed PSK lookup; otherwise it returns the
// session's own negotiated secret.
func (c *Connection) SecretFor(pskID []byte, preShared bool) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if preShared {
		if c.getPSK == nil {
			return nil, false
		}
		return c.getPSK(pskID)
	}
	if c.sessionSecret == nil {
		return nil, false
	}
	return c.sessionSecret, true
}
