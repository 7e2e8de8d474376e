package envelope

import "github.com/plabble/ptp-codec/bitio"

// EncryptionSettings governs the crypto suite for a packet (§4.4).
// When a packet omits its own settings block, DefaultEncryptionSettings
// applies: ChaCha20-Poly1305, Ed25519, X25519, Blake2, 16-byte hashes,
// no post-quantum.
type EncryptionSettings struct {
	ChaCha20Poly1305 bool
	AesGcm           bool
	Ed25519          bool
	X25519           bool
	Blake2           bool
	Blake3           bool
	LargerHashes     bool
	UsePostQuantum   bool
	PostQuantum      *PostQuantumSettings
}

// PostQuantumSettings is the eight-bit sub-block present iff
// EncryptionSettings.UsePostQuantum is set. Unset PQ bits fall back to
// the classical primitive they pair with if it remains enabled (§3).
type PostQuantumSettings struct {
	Kem512        bool
	Kem768        bool
	Dsa44         bool
	Dsa65         bool
	Falcon        bool
	SlhDsaSha128s bool
	_reserved6    bool
	_reserved7    bool
}

// DefaultEncryptionSettings returns the suite used when a packet does
// not carry its own EncryptionSettings block.
func DefaultEncryptionSettings() EncryptionSettings {
	return EncryptionSettings{
		ChaCha20Poly1305: true,
		Ed25519:          true,
		X25519:           true,
		Blake2:           true,
		LargerHashes:     false,
	}
}

// MacSize returns the integrity-field size this settings value implies
// for the !use_encryption path: 32 bytes if LargerHashes, else 16.
func (s EncryptionSettings) MacSize() int {
	if s.LargerHashes {
		return 32
	}
	return 16
}

func (s EncryptionSettings) encode(w *bitio.Writer) error {
	w.WriteBool(s.ChaCha20Poly1305)
	w.WriteBool(s.AesGcm)
	w.WriteBool(s.Ed25519)
	w.WriteBool(s.X25519)
	w.WriteBool(s.Blake2)
	w.WriteBool(s.Blake3)
	w.WriteBool(s.LargerHashes)
	w.WriteBool(s.UsePostQuantum)
	if s.UsePostQuantum {
		if s.PostQuantum == nil {
			// Caller promised a PQ block by setting the flag but didn't
			// supply one — InvalidData per §4.4 scenario 4.
			return ErrInvalidData{Msg: "use_post_quantum set without PostQuantumSettings"}
		}
		s.PostQuantum.encode(w)
	}
	return nil
}

func decodeEncryptionSettings(r *bitio.Reader) (EncryptionSettings, error) {
	var s EncryptionSettings
	var err error
	if s.ChaCha20Poly1305, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.AesGcm, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.Ed25519, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.X25519, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.Blake2, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.Blake3, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.LargerHashes, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.UsePostQuantum, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.UsePostQuantum {
		pq, err := decodePostQuantumSettings(r)
		if err != nil {
			return s, err
		}
		s.PostQuantum = &pq
	}
	return s, nil
}

func (p PostQuantumSettings) encode(w *bitio.Writer) {
	w.WriteBool(p.Kem512)
	w.WriteBool(p.Kem768)
	w.WriteBool(p.Dsa44)
	w.WriteBool(p.Dsa65)
	w.WriteBool(p.Falcon)
	w.WriteBool(p.SlhDsaSha128s)
	w.WriteBool(p._reserved6)
	w.WriteBool(p._reserved7)
}

func decodePostQuantumSettings(r *bitio.Reader) (PostQuantumSettings, error) {
	var p PostQuantumSettings
	var err error
	if p.Kem512, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.Kem768, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.Dsa44, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.Dsa65, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.Falcon, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.SlhDsaSha128s, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p._reserved6, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p._reserved7, err = r.ReadBool(); err != nil {
		return p, err
	}
	return p, nil
}
