package cryptoalg

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
)

func TestAEADChaCha20Poly1305RoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	aead, err := reg.AEAD("chacha20poly1305")
	if err != nil {
		t.Fatalf("AEAD: %v", err)
	}
	key := make([]byte, aead.KeySize())
	nonce := make([]byte, aead.NonceSize())
	plaintext := []byte("plabble")
	aad := []byte("header")

	ct, err := aead.Seal(key, nonce, plaintext, aad)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	pt, err := aead.Open(key, nonce, ct, aad)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(pt) != string(plaintext) {
		t.Errorf("got %q, want %q", pt, plaintext)
	}
}

func TestAEADOpenRejectsTamperedAAD(t *testing.T) {
	reg := NewDefaultRegistry()
	aead, err := reg.AEAD("chacha20poly1305")
	if err != nil {
		t.Fatalf("AEAD: %v", err)
	}
	key := make([]byte, aead.KeySize())
	nonce := make([]byte, aead.NonceSize())
	ct, err := aead.Seal(key, nonce, []byte("msg"), []byte("aad1"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := aead.Open(key, nonce, ct, []byte("aad2")); err == nil {
		t.Fatalf("expected authentication failure under mismatched AAD")
	}
}

func TestAEADAesGcmRoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	aead, err := reg.AEAD("aes-gcm")
	if err != nil {
		t.Fatalf("AEAD: %v", err)
	}
	key := make([]byte, aead.KeySize())
	nonce := make([]byte, aead.NonceSize())
	ct, err := aead.Seal(key, nonce, []byte("msg"), nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	pt, err := aead.Open(key, nonce, ct, nil)
	if err != nil || string(pt) != "msg" {
		t.Errorf("got %q,%v want msg,nil", pt, err)
	}
}

func TestHashBlake2Deterministic(t *testing.T) {
	reg := NewDefaultRegistry()
	h, err := reg.Hash(Blake2)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	key := []byte("key")
	data := []byte("data")
	a, err := h.Sum(key, data, 16)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	b, err := h.Sum(key, data, 16)
	if err != nil || len(a) != 16 || string(a) != string(b) {
		t.Errorf("Sum not deterministic or wrong size: %x %x %v", a, b, err)
	}
}

func TestHashBlake3(t *testing.T) {
	reg := NewDefaultRegistry()
	h, err := reg.Hash(Blake3)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	sum, err := h.Sum([]byte("key"), []byte("data"), 32)
	if err != nil || len(sum) != 32 {
		t.Errorf("Sum = %x,%v want 32 bytes", sum, err)
	}
}

func TestSignerEd25519RoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	signer, err := reg.Signer(Ed25519)
	if err != nil {
		t.Fatalf("Signer: %v", err)
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	msg := []byte("plabble script assertion")
	sig, err := signer.Sign(priv, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := signer.Verify(pub, msg, sig)
	if err != nil || !ok {
		t.Errorf("Verify = %v,%v want true,nil", ok, err)
	}
	if ok2, _ := signer.Verify(pub, []byte("tampered"), sig); ok2 {
		t.Errorf("Verify should reject a tampered message")
	}
}

func TestSignerFalconUnsupported(t *testing.T) {
	reg := NewDefaultRegistry()
	if _, err := reg.Signer(Falcon); err == nil {
		t.Fatalf("expected ErrUnsupportedAlgorithm for Falcon")
	}
}

func TestKeyExchangeX25519RoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	kx, err := reg.KeyExchange(X25519)
	if err != nil {
		t.Fatalf("KeyExchange: %v", err)
	}
	aPub, aPriv, err := kx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	bPub, bPriv, err := kx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s1, err := kx.SharedSecret(aPriv, bPub)
	if err != nil {
		t.Fatalf("SharedSecret (a): %v", err)
	}
	s2, err := kx.SharedSecret(bPriv, aPub)
	if err != nil {
		t.Fatalf("SharedSecret (b): %v", err)
	}
	if string(s1) != string(s2) {
		t.Errorf("shared secrets diverge: %x vs %x", s1, s2)
	}
}
