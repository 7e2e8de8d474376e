package script

import (
	"bytes"
	"testing"

	"github.com/plabble/ptp-codec/bitio"
)

func TestEncodeDecodeScriptRoundTrip(t *testing.T) {
	s := OpcodeScript{Instructions: []Instruction{
		{Op: PUSHINT, Int: 16},
		{Op: PUSHINT, Int: 2},
		{Op: MUL},
		{Op: PUSHINT, Int: 32},
		{Op: EQ},
		{Op: ASSERT},
	}}

	w := bitio.NewWriter()
	if err := EncodeScript(w, s); err != nil {
		t.Fatalf("EncodeScript: %v", err)
	}

	got, err := DecodeScript(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("DecodeScript: %v", err)
	}
	if len(got.Instructions) != len(s.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(got.Instructions), len(s.Instructions))
	}
	for i, ins := range got.Instructions {
		if ins.Op != s.Instructions[i].Op {
			t.Errorf("instruction %d: op = %d, want %d", i, ins.Op, s.Instructions[i].Op)
		}
		if ins.Int != s.Instructions[i].Int {
			t.Errorf("instruction %d: int = %d, want %d", i, ins.Int, s.Instructions[i].Int)
		}
	}
}

func TestEncodeDecodePushVariants(t *testing.T) {
	s := OpcodeScript{Instructions: []Instruction{
		{Op: PUSH1, Byte: 0x42},
		{Op: PUSH2, Bytes: []byte{0xAA, 0xBB}},
		{Op: PUSH4, Bytes: []byte{1, 2, 3, 4}},
		{Op: PUSHL1, Bytes: []byte("hi")},
		{Op: PUSHL2, Bytes: bytes.Repeat([]byte{0x01}, 300)},
		{Op: PUSHFLOAT, Float: 3.5},
		{Op: DUPN, Byte: 3},
		{Op: SELECT, Bytes: bytes.Repeat([]byte{0x09}, 16)},
		{Op: READ, Bytes: []byte{0x00, 0x01}},
		{Op: HASH, Byte: 1},
	}}

	w := bitio.NewWriter()
	if err := EncodeScript(w, s); err != nil {
		t.Fatalf("EncodeScript: %v", err)
	}
	got, err := DecodeScript(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("DecodeScript: %v", err)
	}
	if len(got.Instructions) != len(s.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(got.Instructions), len(s.Instructions))
	}
	for i, ins := range got.Instructions {
		want := s.Instructions[i]
		if ins.Op != want.Op {
			t.Fatalf("instruction %d: op = %d, want %d", i, ins.Op, want.Op)
		}
		if ins.Byte != want.Byte {
			t.Errorf("instruction %d: byte = %d, want %d", i, ins.Byte, want.Byte)
		}
		if !bytes.Equal(ins.Bytes, want.Bytes) {
			t.Errorf("instruction %d: bytes = %x, want %x", i, ins.Bytes, want.Bytes)
		}
		if ins.Float != want.Float {
			t.Errorf("instruction %d: float = %v, want %v", i, ins.Float, want.Float)
		}
	}
}

func TestEncodeInvalidOperandWidth(t *testing.T) {
	s := OpcodeScript{Instructions: []Instruction{
		{Op: PUSH2, Bytes: []byte{0x01}},
	}}
	w := bitio.NewWriter()
	err := EncodeScript(w, s)
	if _, ok := err.(ErrInvalidOperand); !ok {
		t.Fatalf("err = %v (%T), want ErrInvalidOperand", err, err)
	}
}

func TestIsPushOnly(t *testing.T) {
	pushOnly := OpcodeScript{Instructions: []Instruction{{Op: PUSHINT, Int: 1}, {Op: TRUE}}}
	if !pushOnly.IsPushOnly() {
		t.Error("expected push-only script to report IsPushOnly true")
	}
	withOp := OpcodeScript{Instructions: []Instruction{{Op: PUSHINT, Int: 1}, {Op: ADD}}}
	if withOp.IsPushOnly() {
		t.Error("expected script containing ADD to report IsPushOnly false")
	}
}
