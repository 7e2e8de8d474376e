package humanfmt

import (
	"fmt"

	"github.com/plabble/ptp-codec/script"
)

// HumanInstruction is the TOML/JSON-friendly mirror of
// script.Instruction: the opcode by mnemonic, operand bytes as
// lowercase hex (§6.2), numeric operands written directly.
type HumanInstruction struct {
	Op    string   `toml:"op" json:"op"`
	Byte  *uint8   `toml:"byte,omitempty" json:"byte,omitempty"`
	Bytes string   `toml:"bytes,omitempty" json:"bytes,omitempty"`
	Int   *int64   `toml:"int,omitempty" json:"int,omitempty"`
	Float *float64 `toml:"float,omitempty" json:"float,omitempty"`
}

// HumanScript is the TOML/JSON-friendly mirror of script.OpcodeScript.
type HumanScript struct {
	Instructions []HumanInstruction `toml:"instructions" json:"instructions"`
}

// FromScript converts a decoded script.OpcodeScript to its
// human-readable mirror.
func FromScript(s script.OpcodeScript) HumanScript {
	out := HumanScript{Instructions: make([]HumanInstruction, 0, len(s.Instructions))}
	for _, ins := range s.Instructions {
		h := HumanInstruction{Op: opcodeName(ins.Op)}
		if len(ins.Bytes) > 0 {
			h.Bytes = EncodeHex(ins.Bytes)
		}
		switch ins.Op {
		case script.PUSH1, script.DUPN, script.HASH, script.SIGN, script.VERIFY, script.ENCRYPT, script.DECRYPT:
			b := ins.Byte
			h.Byte = &b
		}
		if ins.Op == script.PUSHINT {
			i := ins.Int
			h.Int = &i
		}
		if ins.Op == script.PUSHFLOAT {
			f := ins.Float
			h.Float = &f
		}
		out.Instructions = append(out.Instructions, h)
	}
	return out
}

// ToScript converts a human-readable script back to script.OpcodeScript.
func ToScript(h HumanScript) (script.OpcodeScript, error) {
	out := script.OpcodeScript{Instructions: make([]script.Instruction, 0, len(h.Instructions))}
	for i, hi := range h.Instructions {
		op, ok := opcodeByName(hi.Op)
		if !ok {
			return script.OpcodeScript{}, fmt.Errorf("humanfmt: unknown opcode %q at instruction %d", hi.Op, i)
		}
		ins := script.Instruction{Op: op}
		if hi.Bytes != "" {
			b, err := DecodeHex(hi.Bytes)
			if err != nil {
				return script.OpcodeScript{}, fmt.Errorf("humanfmt: instruction %d: %w", i, err)
			}
			ins.Bytes = b
		}
		if hi.Byte != nil {
			ins.Byte = *hi.Byte
		}
		if hi.Int != nil {
			ins.Int = *hi.Int
		}
		if hi.Float != nil {
			ins.Float = *hi.Float
		}
		out.Instructions = append(out.Instructions, ins)
	}
	return out, nil
}
