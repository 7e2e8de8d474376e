package script

import (
	"encoding/binary"
	"math"

	"github.com/plabble/ptp-codec/bitio"
)

// OpcodeScript is an ordered sequence of instructions (§3 OpcodeScript).
type OpcodeScript struct {
	Instructions []Instruction
}

// IsPushOnly reports whether every instruction is a literal producer
// (discriminator < 10) — the requirement for an "unlocker" prefix in a
// locking/unlocking script pair.
func (s OpcodeScript) IsPushOnly() bool {
	for _, ins := range s.Instructions {
		if ins.Op.discriminator() >= pushOnlyBound {
			return false
		}
	}
	return true
}

// EncodeScript writes instructions back-to-back; the sequence has no
// length prefix of its own — callers that need a bounded region (e.g.
// a body's trailing script field) rely on "until end of buffer" or
// wrap it in a length-prefixed blob themselves.
func EncodeScript(w *bitio.Writer, s OpcodeScript) error {
	for _, ins := range s.Instructions {
		if err := encodeInstruction(w, ins); err != nil {
			return err
		}
	}
	return nil
}

// DecodeScript reads instructions until the underlying reader is
// exhausted at a byte boundary.
func DecodeScript(r *bitio.Reader) (OpcodeScript, error) {
	var s OpcodeScript
	for r.RemainingBits() > 0 {
		ins, err := decodeInstruction(r)
		if err != nil {
			return s, err
		}
		s.Instructions = append(s.Instructions, ins)
	}
	return s, nil
}

func encodeInstruction(w *bitio.Writer, ins Instruction) error {
	w.WriteUint8(uint8(ins.Op))
	switch ins.Op {
	case PUSH1:
		w.WriteUint8(ins.Byte)
	case PUSH2:
		if len(ins.Bytes) != 2 {
			return ErrInvalidOperand{Op: ins.Op, Want: 2, Got: len(ins.Bytes)}
		}
		w.WriteBytes(ins.Bytes)
	case PUSH4:
		if len(ins.Bytes) != 4 {
			return ErrInvalidOperand{Op: ins.Op, Want: 4, Got: len(ins.Bytes)}
		}
		w.WriteBytes(ins.Bytes)
	case PUSHL1:
		if len(ins.Bytes) > 0xff {
			return ErrInvalidOperand{Op: ins.Op, Want: 0xff, Got: len(ins.Bytes)}
		}
		w.WriteUint8(uint8(len(ins.Bytes)))
		w.WriteBytes(ins.Bytes)
	case PUSHL2:
		w.WriteUint16(uint16(len(ins.Bytes)))
		w.WriteBytes(ins.Bytes)
	case PUSHL4:
		w.WriteUint32(uint32(len(ins.Bytes)))
		w.WriteBytes(ins.Bytes)
	case PUSHINT:
		w.WriteDynInt(ins.Int)
	case PUSHFLOAT:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(ins.Float))
		w.WriteBytes(buf[:])
	case DUPN:
		w.WriteUint8(ins.Byte)
	case SELECT:
		if len(ins.Bytes) != 16 {
			return ErrInvalidOperand{Op: ins.Op, Want: 16, Got: len(ins.Bytes)}
		}
		w.WriteBytes(ins.Bytes)
	case READ, WRITE, DELETE:
		if len(ins.Bytes) != 2 {
			return ErrInvalidOperand{Op: ins.Op, Want: 2, Got: len(ins.Bytes)}
		}
		w.WriteBytes(ins.Bytes)
	case HASH, SIGN, VERIFY, ENCRYPT, DECRYPT:
		w.WriteUint8(ins.Byte)
	default:
		// no inline operand
	}
	return nil
}

func decodeInstruction(r *bitio.Reader) (Instruction, error) {
	opByte, err := r.ReadUint8()
	if err != nil {
		return Instruction{}, err
	}
	op := Opcode(opByte)
	ins := Instruction{Op: op}
	switch op {
	case PUSH1:
		ins.Byte, err = r.ReadUint8()
	case PUSH2:
		ins.Bytes, err = r.ReadBytes(2)
	case PUSH4:
		ins.Bytes, err = r.ReadBytes(4)
	case PUSHL1:
		var n uint8
		if n, err = r.ReadUint8(); err == nil {
			ins.Bytes, err = r.ReadBytes(int(n))
		}
	case PUSHL2:
		var n uint16
		if n, err = r.ReadUint16(); err == nil {
			ins.Bytes, err = r.ReadBytes(int(n))
		}
	case PUSHL4:
		var n uint32
		if n, err = r.ReadUint32(); err == nil {
			ins.Bytes, err = r.ReadBytes(int(n))
		}
	case PUSHINT:
		ins.Int, err = r.ReadDynInt()
	case PUSHFLOAT:
		var buf []byte
		if buf, err = r.ReadBytes(8); err == nil {
			ins.Float = math.Float64frombits(binary.BigEndian.Uint64(buf))
		}
	case DUPN:
		ins.Byte, err = r.ReadUint8()
	case SELECT:
		ins.Bytes, err = r.ReadBytes(16)
	case READ, WRITE, DELETE:
		ins.Bytes, err = r.ReadBytes(2)
	case HASH, SIGN, VERIFY, ENCRYPT, DECRYPT:
		ins.Byte, err = r.ReadUint8()
	default:
		// no inline operand
	}
	if err != nil {
		return Instruction{}, err
	}
	return ins, nil
}
