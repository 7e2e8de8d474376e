// Package envelope implements the crypto envelope (C4): the outer
// framing — version, flags, optional EncryptionSettings, PSK
// identifiers, MAC or AEAD payload — that every Plabble packet is
// wrapped in.
package envelope

import (
	"crypto/sha256"
	"io"

	"github.com/plabble/ptp-codec/bitio"
	"github.com/plabble/ptp-codec/cryptoalg"
	"github.com/plabble/ptp-codec/plog"
	"golang.org/x/crypto/hkdf"
)

// Direction distinguishes the request and response nonce/key spaces
// of a connection (§4.4: "Nonce: a monotonic (direction, counter) pair").
type Direction int

const (
	DirectionRequest Direction = iota
	DirectionResponse
)

// ConnectionContext is the subset of C5 the envelope layer needs:
// counters to derive nonces from, and secret resolution for both the
// PSK and negotiated-session-key paths. *session.Connection
// implements this; envelope does not import session, avoiding a
// cycle (§9: "replace [the] global callback table with an explicit
// dependency object").
type ConnectionContext interface {
	RequestCounter() uint16
	ResponseCounter() uint16
	IncrementCounter(dir Direction) error
	DefaultSettings() EncryptionSettings
	// SecretFor resolves the base key material for a packet: when
	// preShared is true, it looks up the PSK by id (16 bytes,
	// §3: "pre_shared_key=true ⇒ both psk_id... and psk_salt... are
	// present"); the connection's own get_psk callback does the
	// lookup. When false, it returns the session's own negotiated
	// secret (established by a prior Session packet). ok=false on PSK
	// lookup miss.
	SecretFor(pskID []byte, preShared bool) (secret []byte, ok bool)
}

// Envelope is the outer framing of one packet (§4.4).
type Envelope struct {
	Version                   uint8
	FireAndForget             bool
	PreSharedKey              bool
	UseEncryption             bool
	SpecifyEncryptionSettings bool
	Settings                  EncryptionSettings // meaningful only if SpecifyEncryptionSettings
	PSKId                     []byte             // 16 bytes, present iff PreSharedKey
	PSKSalt                   []byte             // 16 bytes, present iff PreSharedKey
}

// EffectiveSettings returns the settings that govern this packet:
// the explicit block if present, otherwise the default suite.
func (e Envelope) EffectiveSettings() EncryptionSettings {
	if e.SpecifyEncryptionSettings {
		return e.Settings
	}
	return DefaultEncryptionSettings()
}

// Encode frames plaintext (the already-serialized header‖body) inside
// the envelope described by env, deriving keys/nonce from conn and
// advancing its counter on success.
func Encode(env Envelope, plaintext []byte, isRequest bool, conn ConnectionContext, reg cryptoalg.Registry) ([]byte, error) {
	if env.PreSharedKey {
		if len(env.PSKId) != 16 || len(env.PSKSalt) != 16 {
			return nil, ErrUnexpectedLength{Expected: 16, Actual: len(env.PSKId)}
		}
	} else if len(env.PSKId) != 0 || len(env.PSKSalt) != 0 {
		return nil, ErrInvalidData{Msg: "psk_id/psk_salt set without pre_shared_key"}
	}

	w := bitio.NewWriter()
	w.WriteSmallDynUnsigned(uint64(env.Version), 4)
	w.WriteBool(env.FireAndForget)
	w.WriteBool(env.PreSharedKey)
	w.WriteBool(env.UseEncryption)
	w.WriteBool(env.SpecifyEncryptionSettings)

	settings := DefaultEncryptionSettings()
	if env.SpecifyEncryptionSettings {
		settings = env.Settings
		if err := settings.encode(w); err != nil {
			return nil, err
		}
	}

	if env.PreSharedKey {
		w.WriteBytes(env.PSKId)
		w.WriteBytes(env.PSKSalt)
	}

	secret, ok := conn.SecretFor(env.PSKId, env.PreSharedKey)
	if !ok {
		plog.Log().Warning("envelope: encode: no secret available for packet")
		return nil, ErrDecryptionFailed
	}

	direction := DirectionRequest
	counter := conn.RequestCounter()
	if !isRequest {
		direction = DirectionResponse
		counter = conn.ResponseCounter()
	}

	prefix := append([]byte(nil), w.Bytes()...)

	if env.UseEncryption {
		aead, err := reg.AEAD(aeadName(settings))
		if err != nil {
			return nil, err
		}
		key := deriveKey(secret, env.PSKSalt, direction, "key", aead.KeySize())
		nonce := deriveNonce(secret, env.PSKSalt, direction, counter, aead.NonceSize())
		ciphertext, err := aead.Seal(key, nonce, plaintext, prefix)
		if err != nil {
			return nil, ErrInvalidData{Msg: "encryption failed: " + err.Error()}
		}
		w.WriteBytes(ciphertext)
	} else {
		hash, err := reg.Hash(hashAlgorithm(settings))
		if err != nil {
			return nil, err
		}
		macKey := deriveKey(secret, env.PSKSalt, direction, "mac", 32)
		mac, err := hash.Sum(macKey, append(prefix, plaintext...), settings.MacSize())
		if err != nil {
			return nil, err
		}
		w.WriteBytes(mac)
		w.WriteBytes(plaintext)
	}

	if err := conn.IncrementCounter(direction); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode strips the envelope from buf, returning the decrypted/verified
// plaintext (header‖body bytes) for the schema codec to parse.
func Decode(buf []byte, isRequest bool, conn ConnectionContext, reg cryptoalg.Registry) ([]byte, Envelope, error) {
	r := bitio.NewReader(buf)
	var env Envelope

	version, err := r.ReadSmallDynUnsigned(4)
	if err != nil {
		return nil, env, err
	}
	env.Version = uint8(version)
	// Supported versions: 0 (debug) and 1.
	if version > 1 {
		return nil, env, ErrUnknownVersion{Version: version}
	}

	if env.FireAndForget, err = r.ReadBool(); err != nil {
		return nil, env, err
	}
	if env.PreSharedKey, err = r.ReadBool(); err != nil {
		return nil, env, err
	}
	if env.UseEncryption, err = r.ReadBool(); err != nil {
		return nil, env, err
	}
	if env.SpecifyEncryptionSettings, err = r.ReadBool(); err != nil {
		return nil, env, err
	}

	settings := DefaultEncryptionSettings()
	if env.SpecifyEncryptionSettings {
		settings, err = decodeEncryptionSettings(r)
		if err != nil {
			return nil, env, err
		}
		env.Settings = settings
	}

	if env.PreSharedKey {
		env.PSKId, err = r.ReadBytes(16)
		if err != nil {
			return nil, env, err
		}
		env.PSKSalt, err = r.ReadBytes(16)
		if err != nil {
			return nil, env, err
		}
	}

	secret, ok := conn.SecretFor(env.PSKId, env.PreSharedKey)
	if !ok {
		plog.Log().Warning("envelope: decode: no secret available for packet")
		return nil, env, ErrDecryptionFailed
	}

	direction := DirectionRequest
	counter := conn.RequestCounter()
	if !isRequest {
		direction = DirectionResponse
		counter = conn.ResponseCounter()
	}

	prefixBitLen := r.BitPos()
	prefix := append([]byte(nil), buf[:(prefixBitLen+7)/8]...)

	var plaintext []byte
	if env.UseEncryption {
		aead, err := reg.AEAD(aeadName(settings))
		if err != nil {
			return nil, env, err
		}
		ciphertext := r.ReadRemainingBytes()
		key := deriveKey(secret, env.PSKSalt, direction, "key", aead.KeySize())
		nonce := deriveNonce(secret, env.PSKSalt, direction, counter, aead.NonceSize())
		plaintext, err = aead.Open(key, nonce, ciphertext, prefix)
		if err != nil {
			plog.Log().Warning("envelope: decode: AEAD open failed, dropping packet")
			return nil, env, ErrDecryptionFailed
		}
	} else {
		mac, err := r.ReadBytes(settings.MacSize())
		if err != nil {
			return nil, env, err
		}
		payload := r.ReadRemainingBytes()
		hash, err := reg.Hash(hashAlgorithm(settings))
		if err != nil {
			return nil, env, err
		}
		macKey := deriveKey(secret, env.PSKSalt, direction, "mac", 32)
		expected, err := hash.Sum(macKey, append(prefix, payload...), settings.MacSize())
		if err != nil {
			return nil, env, err
		}
		if !constantTimeEqual(mac, expected) {
			plog.Log().Warning("envelope: decode: MAC mismatch, dropping packet")
			return nil, env, ErrIntegrityFailed
		}
		plaintext = payload
	}

	if err := conn.IncrementCounter(direction); err != nil {
		return nil, env, err
	}
	return plaintext, env, nil
}

func aeadName(s EncryptionSettings) string {
	if s.ChaCha20Poly1305 {
		return "chacha20poly1305"
	}
	if s.AesGcm {
		return "aes-gcm"
	}
	return "chacha20poly1305"
}

func hashAlgorithm(s EncryptionSettings) cryptoalg.HashAlgorithm {
	if s.Blake3 {
		return cryptoalg.Blake3
	}
	return cryptoalg.Blake2
}

// deriveKey expands secret (and, if present, the per-packet salt) into
// key material scoped by direction and purpose via HKDF, the
// "HKDF-style" derivation §4.4 calls for.
func deriveKey(secret, salt []byte, direction Direction, purpose string, size int) []byte {
	info := []byte(purpose + ":request")
	if direction == DirectionResponse {
		info = []byte(purpose + ":response")
	}
	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, size)
	_, _ = io.ReadFull(hk, key)
	return key
}

// deriveNonce derives a per-direction base IV and folds the monotonic
// counter into its low bytes, the base-IV-xor-counter construction
// used by TLS 1.3/QUIC-style AEAD nonces.
func deriveNonce(secret, salt []byte, direction Direction, counter uint16, size int) []byte {
	base := deriveKey(secret, salt, direction, "nonce", size)
	if size >= 2 {
		base[size-2] ^= byte(counter >> 8)
		base[size-1] ^= byte(counter)
	}
	return base
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
