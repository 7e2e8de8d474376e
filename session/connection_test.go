package session

import (
	"bytes"
	"testing"

	"github.com/plabble/ptp-codec/envelope"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.RequestCounter() != 0 || c.ResponseCounter() != 0 {
		t.Fatalf("fresh connection should start at zero counters")
	}
	want := envelope.DefaultEncryptionSettings()
	if c.DefaultSettings() != want {
		t.Errorf("DefaultSettings() = %+v, want %+v", c.DefaultSettings(), want)
	}
}

func TestIncrementCounterAdvancesIndependently(t *testing.T) {
	c := New()
	if err := c.IncrementCounter(envelope.DirectionRequest); err != nil {
		t.Fatalf("IncrementCounter(request): %v", err)
	}
	if c.RequestCounter() != 1 || c.ResponseCounter() != 0 {
		t.Errorf("request=%d response=%d, want 1,0", c.RequestCounter(), c.ResponseCounter())
	}
	if err := c.IncrementCounter(envelope.DirectionResponse); err != nil {
		t.Fatalf("IncrementCounter(response): %v", err)
	}
	if c.ResponseCounter() != 1 {
		t.Errorf("response = %d, want 1", c.ResponseCounter())
	}
}

func TestIncrementCounterExhaustion(t *testing.T) {
	c := New()
	c.requestCounter = 0xFFFF
	if err := c.IncrementCounter(envelope.DirectionRequest); err != ErrCounterExhausted {
		t.Fatalf("err = %v, want ErrCounterExhausted", err)
	}
	if c.RequestCounter() != 0xFFFF {
		t.Errorf("counter must not move past 0xFFFF, got %d", c.RequestCounter())
	}
}

func TestSecretForSession(t *testing.T) {
	c := New()
	if _, ok := c.SecretFor(nil, false); ok {
		t.Fatalf("unestablished session must report no secret")
	}
	secret := bytes.Repeat([]byte{0x42}, 32)
	c.SetSessionSecret(secret)
	got, ok := c.SecretFor(nil, false)
	if !ok || !bytes.Equal(got, secret) {
		t.Errorf("SecretFor(session) = %x,%v, want %x,true", got, ok, secret)
	}
}

func TestSecretForPSK(t *testing.T) {
	c := New()
	if _, ok := c.SecretFor([]byte{1, 2, 3}, true); ok {
		t.Fatalf("PSK lookup unset must report no secret")
	}
	known := map[string][]byte{
		string([]byte{1, 2, 3}): bytes.Repeat([]byte{0x7A}, 32),
	}
	c.SetPSKLookup(func(id []byte) ([]byte, bool) {
		secret, ok := known[string(id)]
		return secret, ok
	})
	got, ok := c.SecretFor([]byte{1, 2, 3}, true)
	if !ok || !bytes.Equal(got, known[string([]byte{1, 2, 3})]) {
		t.Errorf("SecretFor(psk) = %x,%v, want match", got, ok)
	}
	if _, ok := c.SecretFor([]byte{9, 9, 9}, true); ok {
		t.Errorf("unknown PSK id should not resolve")
	}
}

func TestBucketKeyLookup(t *testing.T) {
	c := New()
	var id [16]byte
	id[0] = 0xAA
	if _, ok := c.BucketKey(id); ok {
		t.Fatalf("unset bucket-key lookup must report not-found")
	}
	key := bytes.Repeat([]byte{0x11}, 32)
	c.SetBucketKeyLookup(func(b [16]byte) ([]byte, bool) {
		if b == id {
			return key, true
		}
		return nil, false
	})
	got, ok := c.BucketKey(id)
	if !ok || !bytes.Equal(got, key) {
		t.Errorf("BucketKey = %x,%v, want %x,true", got, ok, key)
	}
}

func TestSetSettingsOverride(t *testing.T) {
	c := New()
	s := envelope.DefaultEncryptionSettings()
	s.UsePostQuantum = true
	c.SetSettings(s)
	if !c.DefaultSettings().UsePostQuantum {
		t.Errorf("SetSettings should be reflected by DefaultSettings")
	}
}
