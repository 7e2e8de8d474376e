// Package cryptoalg is the small algorithm interface §1 requires
// cryptographic primitives be consumed through: the codec and VM never
// call a concrete cipher or signature scheme directly, only this
// registry. The default registry wraps golang.org/x/crypto for the
// classical suite (ChaCha20-Poly1305, Blake2, Ed25519, X25519) and
// cloudflare/circl for the post-quantum suite (ML-KEM, ML-DSA),
// mirroring the small-wrapper-type shape the teacher uses for its own
// crypto (kryptco-kr's sodiumBox family).
package cryptoalg

import "fmt"

// KeyExchangeAlgorithm identifies a key-exchange scheme negotiated by
// EncryptionSettings/PostQuantumSettings.
type KeyExchangeAlgorithm uint8

const (
	X25519 KeyExchangeAlgorithm = iota
	Kem512
	Kem768
)

// SignatureAlgorithm identifies a signature scheme.
type SignatureAlgorithm uint8

const (
	Ed25519 SignatureAlgorithm = iota
	Dsa44
	Dsa65
	Falcon
	SlhDsaSha128s
)

// HashAlgorithm identifies the keyed-hash MAC / HASH opcode algorithm.
type HashAlgorithm uint8

const (
	Blake2 HashAlgorithm = iota
	Blake3
)

// ErrUnsupportedAlgorithm is returned by registry methods for
// algorithms that are reserved on the wire (selector bytes, settings
// bits) but have no implementation wired in — Falcon and SLH-DSA have
// no maintained Go package in the retrieval pack or ecosystem (see
// DESIGN.md); callers get a typed, catchable error rather than a
// panic or silent fallback.
type ErrUnsupportedAlgorithm struct {
	Algorithm string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("cryptoalg: unsupported algorithm %s", e.Algorithm)
}

// AEAD is the interface satisfied by an authenticated-encryption
// scheme (ChaCha20-Poly1305, AES-GCM).
type AEAD interface {
	// Seal encrypts plaintext under key and nonce, authenticating
	// associatedData, and returns ciphertext||tag.
	Seal(key, nonce, plaintext, associatedData []byte) ([]byte, error)
	// Open reverses Seal, returning an error (DecryptionFailed at the
	// envelope layer) if authentication fails.
	Open(key, nonce, ciphertextAndTag, associatedData []byte) ([]byte, error)
	KeySize() int
	NonceSize() int
}

// KeyedHash is the interface satisfied by a MAC-capable hash
// (Blake2b/Blake2s, Blake3) used when use_encryption=false.
type KeyedHash interface {
	// Sum computes the keyed digest of data, truncated/expanded to
	// size bytes (16 or 32 per larger_hashes).
	Sum(key, data []byte, size int) ([]byte, error)
}

// Signer is the interface satisfied by a signature scheme.
type Signer interface {
	Sign(privateKey, message []byte) ([]byte, error)
	Verify(publicKey, message, signature []byte) (bool, error)
	PublicKeySize() int
	SignatureSize() int
}

// KeyExchange is the interface satisfied by a key-agreement scheme.
type KeyExchange interface {
	// GenerateKeyPair returns a fresh (public, private) key pair.
	GenerateKeyPair() (public, private []byte, err error)
	// SharedSecret derives the shared secret from our private key and
	// the peer's public key/ciphertext.
	SharedSecret(privateKey, peerPublic []byte) (shared []byte, err error)
	PublicKeySize() int
}

// Registry resolves algorithm selectors (as used in EncryptionSettings,
// PostQuantumSettings, and the one-byte crypto-opcode selectors) to
// concrete implementations.
type Registry interface {
	AEAD(name string) (AEAD, error)
	Hash(alg HashAlgorithm) (KeyedHash, error)
	Signer(alg SignatureAlgorithm) (Signer, error)
	KeyExchange(alg KeyExchangeAlgorithm) (KeyExchange, error)
}

// KeyExchangePublicKeySize returns the on-wire public key size for a
// KeyExchangeRequest variant (§3 Body.Session).
func KeyExchangePublicKeySize(alg KeyExchangeAlgorithm) int {
	switch alg {
	case X25519:
		return 32
	case Kem512:
		return 800
	case Kem768:
		return 1184
	default:
		return 0
	}
}

// KeyExchangeResponseSize returns the on-wire encapsulated-secret size
// for a KeyExchangeResponse variant.
func KeyExchangeResponseSize(alg KeyExchangeAlgorithm) int {
	switch alg {
	case X25519:
		return 32
	case Kem512:
		return 768
	case Kem768:
		return 1088
	default:
		return 0
	}
}

// SignatureSize returns the on-wire signature size for a
// CryptoSignature variant.
func SignatureSize(alg SignatureAlgorithm) int {
	switch alg {
	case Ed25519:
		return 64
	case Dsa44:
		return 2420
	case Dsa65:
		return 3309
	case Falcon:
		return 1462
	case SlhDsaSha128s:
		return 7856
	default:
		return 0
	}
}
