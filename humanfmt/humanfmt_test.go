package humanfmt

import (
	"testing"

	"github.com/plabble/ptp-codec/script"
)

func TestEncodeDecodeBytesRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFE, 0xFF}
	enc := EncodeBytes(raw)
	got, err := DecodeBytes(enc)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("got %x, want %x", got, raw)
	}
}

func TestEncodeHexIsLowercase(t *testing.T) {
	got := EncodeHex([]byte{0xAB, 0xCD})
	if got != "abcd" {
		t.Errorf("EncodeHex = %q, want lowercase abcd", got)
	}
	back, err := DecodeHex(got)
	if err != nil || string(back) != "\xab\xcd" {
		t.Errorf("DecodeHex round trip failed: %v %x", err, back)
	}
}

func TestScriptRoundTrip(t *testing.T) {
	s := script.OpcodeScript{Instructions: []script.Instruction{
		{Op: script.PUSHINT, Int: 5},
		{Op: script.PUSHINT, Int: 2},
		{Op: script.ADD},
		{Op: script.PUSHL1, Bytes: []byte{0xDE, 0xAD}},
		{Op: script.EQ},
	}}
	h := FromScript(s)
	if len(h.Instructions) != 5 {
		t.Fatalf("got %d human instructions, want 5", len(h.Instructions))
	}
	if h.Instructions[0].Op != "PUSHINT" || h.Instructions[0].Int == nil || *h.Instructions[0].Int != 5 {
		t.Errorf("instruction 0 = %+v, want PUSHINT int=5", h.Instructions[0])
	}
	if h.Instructions[3].Bytes != "dead" {
		t.Errorf("instruction 3 bytes = %q, want dead", h.Instructions[3].Bytes)
	}

	back, err := ToScript(h)
	if err != nil {
		t.Fatalf("ToScript: %v", err)
	}
	if len(back.Instructions) != len(s.Instructions) {
		t.Fatalf("got %d instructions back, want %d", len(back.Instructions), len(s.Instructions))
	}
	for i, ins := range back.Instructions {
		want := s.Instructions[i]
		if ins.Op != want.Op || ins.Int != want.Int || string(ins.Bytes) != string(want.Bytes) {
			t.Errorf("instruction %d = %+v, want %+v", i, ins, want)
		}
	}
}

func TestToScriptUnknownOpcode(t *testing.T) {
	h := HumanScript{Instructions: []HumanInstruction{{Op: "NOT_A_REAL_OPCODE"}}}
	if _, err := ToScript(h); err == nil {
		t.Fatalf("expected error for unknown opcode mnemonic")
	}
}

func TestMarshalUnmarshalTOMLRoundTrip(t *testing.T) {
	s := script.OpcodeScript{Instructions: []script.Instruction{
		{Op: script.TRUE},
		{Op: script.ASSERT},
	}}
	h := FromScript(s)
	data, err := MarshalTOML(h)
	if err != nil {
		t.Fatalf("MarshalTOML: %v", err)
	}
	var back HumanScript
	if err := UnmarshalTOML(data, &back); err != nil {
		t.Fatalf("UnmarshalTOML: %v", err)
	}
	if len(back.Instructions) != 2 || back.Instructions[0].Op != "TRUE" || back.Instructions[1].Op != "ASSERT" {
		t.Errorf("got %+v", back)
	}
}

func TestMarshalUnmarshalJSONRoundTrip(t *testing.T) {
	h := HumanScript{Instructions: []HumanInstruction{{Op: "NOP"}}}
	data, err := MarshalJSON(h)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var back HumanScript
	if err := UnmarshalJSON(data, &back); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if len(back.Instructions) != 1 || back.Instructions[0].Op != "NOP" {
		t.Errorf("got %+v", back)
	}
}
