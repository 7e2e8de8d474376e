package wire

import (
	"github.com/plabble/ptp-codec/bitio"
	uuid "github.com/satori/go.uuid"
)

// BucketID is the fixed 16-byte identifier every bucket-scoped variant
// carries (§3 "bucket id (16 B)"). It shares a representation with a
// standard UUID, so tooling can print/parse it as one.
type BucketID [16]byte

// NewBucketID generates a random bucket id (UUIDv4), the natural way
// to mint a fresh bucket identifier for a client creating one,
// grounded on kryptco-kr's use of satori/go.uuid for its own derived
// pairing identifiers.
func NewBucketID() (BucketID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return BucketID{}, err
	}
	var out BucketID
	copy(out[:], id.Bytes())
	return out, nil
}

// String renders id in canonical UUID form, e.g. for log lines and
// the human-readable surface.
func (id BucketID) String() string {
	u, err := uuid.FromBytes(id[:])
	if err != nil {
		return ""
	}
	return u.String()
}

func writeBucketID(w *bitio.Writer, id BucketID) { w.WriteBytes(id[:]) }

func readBucketID(r *bitio.Reader) (BucketID, error) {
	var id BucketID
	b, err := r.ReadBytes(16)
	if err != nil {
		return id, err
	}
	copy(id[:], b)
	return id, nil
}

// writeKeyList encodes a dynint count followed by each key as a
// dynint-length-prefixed byte string. binary_keys only changes how a
// human-readable presentation interprets the bytes (UTF-8 text vs.
// opaque binary); the wire shape is identical either way (§6.2).
func writeKeyList(w *bitio.Writer, keys [][]byte) {
	w.WriteDynUint(uint64(len(keys)))
	for _, k := range keys {
		w.WriteDynUint(uint64(len(k)))
		w.WriteBytes(k)
	}
}

func readKeyList(r *bitio.Reader) ([][]byte, error) {
	n, err := r.ReadDynUint()
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		l, err := r.ReadDynUint()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadBytes(int(l))
		if err != nil {
			return nil, err
		}
		keys = append(keys, b)
	}
	return keys, nil
}

// writeOptionalUntilKey encodes the "range_mode_until" trailing key:
// present iff toggled on, in which case a dynint-length-prefixed byte
// string follows.
func writeOptionalUntilKey(w *bitio.Writer, present bool, until []byte) {
	if !present {
		return
	}
	w.WriteDynUint(uint64(len(until)))
	w.WriteBytes(until)
}

func readOptionalUntilKey(r *bitio.Reader, present bool) ([]byte, error) {
	if !present {
		return nil, nil
	}
	l, err := r.ReadDynUint()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(l))
}
