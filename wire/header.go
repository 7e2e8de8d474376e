// Package wire implements the schema codec (C3): the packet header
// (4-bit tag, 4-bit per-variant flags) and the sixteen request/response
// body variants it selects between. Flags and lengths that come from
// outside the header (fire_and_forget, the session key size) are
// passed to the encode/decode functions as plain parameters.
package wire

import (
	"github.com/plabble/ptp-codec/bitio"
)

// Tag identifies one of the sixteen packet types (§6.1). The same tag
// space is shared by requests and responses; which struct a tag
// decodes to depends on whether DecodeRequest or DecodeResponse reads it.
type Tag uint8

const (
	TagCertificate Tag = 0
	TagSession     Tag = 1
	TagGet         Tag = 2
	TagStream      Tag = 3
	TagPost        Tag = 4
	TagPatch       Tag = 5
	TagPut         Tag = 6
	TagDelete      Tag = 7
	TagSubscribe   Tag = 8
	TagUnsubscribe Tag = 9
	TagRegister    Tag = 10
	TagIdentify    Tag = 11
	TagProxy       Tag = 12
	TagReserved13  Tag = 13
	TagOpcode      Tag = 14
	TagReserved15  Tag = 15
)

// Header is the first byte(s) of a packet body: a 4-bit tag in the
// high nibble and 4 independent flag bits in the low nibble (§3
// Header, confirmed by scenario 1's `0xB0` for tag 11 with no flags
// set), followed by an optional 16-bit response_to/request_counter
// that is present whenever the enclosing envelope has
// fire_and_forget=false (§3: "present only in session packets"; an
// Opcode response with Counter=7 starts `e0 00 07` ahead of its
// Result bytes).
type Header struct {
	Tag     Tag
	Flags   uint8   // low 4 bits significant
	Counter *uint16 // response_to/request_counter; nil iff fire_and_forget
}

// EncodeHeader writes the tag+flags byte, followed by the 16-bit
// counter when h.Counter is non-nil.
func EncodeHeader(w *bitio.Writer, h Header) {
	w.WriteBits(uint64(h.Tag), 4)
	w.WriteBits(uint64(h.Flags&0x0f), 4)
	if h.Counter != nil {
		w.WriteUint16(*h.Counter)
	}
}

// DecodeHeader reads the tag+flags byte, then the 16-bit counter iff
// fireAndForget is false. Reserved tags (13, 15) are accepted and
// round-tripped unchanged; unknown flag combinations within a known
// tag are never an error (§6.1).
func DecodeHeader(r *bitio.Reader, fireAndForget bool) (Header, error) {
	tag, err := r.ReadBits(4)
	if err != nil {
		return Header{}, err
	}
	flags, err := r.ReadBits(4)
	if err != nil {
		return Header{}, err
	}
	h := Header{Tag: Tag(tag), Flags: uint8(flags)}
	if !fireAndForget {
		counter, err := r.ReadUint16()
		if err != nil {
			return Header{}, err
		}
		h.Counter = &counter
	}
	return h, nil
}

// flag bit positions within the low nibble, assigned in the order
// each variant's doc comment in type_and_flags.rs lists them.
const (
	flagBit0 = uint8(1) << 0
	flagBit1 = uint8(1) << 1
	flagBit2 = uint8(1) << 2
	flagBit3 = uint8(1) << 3
)

func setFlag(flags uint8, bit uint8, v bool) uint8 {
	if v {
		return flags | bit
	}
	return flags &^ bit
}

func getFlag(flags, bit uint8) bool { return flags&bit != 0 }
