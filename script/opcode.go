// Package script implements the opcode virtual machine (C6): the
// instruction set, the typed stack, the control-flow jump table, and
// the evaluator that runs a validated script under resource and
// capability limits.
package script

// Opcode identifies one VM instruction. Numbering follows the later of
// the two tables carried in the source material — the one with
// ADD=10, EQ=54, ASSERT=78 — per the project's own note that it
// supersedes the earlier illustrative numbering.
type Opcode uint8

const (
	FALSE Opcode = 0
	TRUE  Opcode = 1

	PUSH1  Opcode = 2
	PUSH2  Opcode = 3
	PUSH4  Opcode = 4
	PUSHL1 Opcode = 5
	PUSHL2 Opcode = 6
	PUSHL4 Opcode = 7

	PUSHINT   Opcode = 8
	PUSHFLOAT Opcode = 9

	// pushOnlyBound: instructions with discriminator < this are
	// push-only (literal producers); see IsPushOnly.
	pushOnlyBound = 10

	ADD Opcode = 10
	SUB Opcode = 11
	MUL Opcode = 12
	DIV Opcode = 13
	MOD Opcode = 14

	NEG Opcode = 15
	ABS Opcode = 16

	FADD Opcode = 17
	FSUB Opcode = 18
	FMUL Opcode = 19
	FDIV Opcode = 20
	FMOD Opcode = 21

	LT  Opcode = 22
	GT  Opcode = 23
	LTE Opcode = 24
	GTE Opcode = 25
	MIN Opcode = 26
	MAX Opcode = 27

	FLT  Opcode = 28
	FGT  Opcode = 29
	FLTE Opcode = 30
	FGTE Opcode = 31
	FMIN Opcode = 32
	FMAX Opcode = 33

	FLOOR  Opcode = 36
	CEIL   Opcode = 37
	ROUND  Opcode = 38
	ROUNDE Opcode = 39

	BAND Opcode = 40
	BOR  Opcode = 41
	BXOR Opcode = 42
	BSHL Opcode = 43
	BSHR Opcode = 44
	BNOT Opcode = 45

	NOT Opcode = 50
	AND Opcode = 51
	OR  Opcode = 52
	XOR Opcode = 53

	EQ  Opcode = 54
	NEQ Opcode = 55

	POW  Opcode = 60
	SQRT Opcode = 61

	NOP   Opcode = 70
	IF    Opcode = 71
	ELSE  Opcode = 72
	FI    Opcode = 73
	BREAK Opcode = 74
	LOOP  Opcode = 75
	POOL  Opcode = 76
	JMP   Opcode = 77

	ASSERT Opcode = 78
	RETURN Opcode = 79

	DUP  Opcode = 90
	DUP2 Opcode = 91
	DUP3 Opcode = 92
	DUP4 Opcode = 93
	DUPN Opcode = 94

	SWAP   Opcode = 95
	ROT    Opcode = 96
	POP    Opcode = 97
	COPY   Opcode = 98
	BUBBLE Opcode = 99
	SINK   Opcode = 100

	TOALT    Opcode = 101
	FROMALT  Opcode = 102
	SNAPSHOT Opcode = 103
	RESTORE  Opcode = 104
	CLEAR    Opcode = 105
	SWITCH   Opcode = 106
	CONCAT   Opcode = 107
	COUNT    Opcode = 108

	NUMBER Opcode = 120
	FLOAT  Opcode = 121

	SERVER Opcode = 130
	SELECT Opcode = 131
	READ   Opcode = 132
	WRITE  Opcode = 133
	APPEND Opcode = 134
	DELETE Opcode = 135

	LEN     Opcode = 140
	REVERSE Opcode = 141
	SLICE   Opcode = 142
	SPLICE  Opcode = 143

	HASH    Opcode = 150
	SIGN    Opcode = 151
	VERIFY  Opcode = 152
	ENCRYPT Opcode = 153
	DECRYPT Opcode = 154

	TIME Opcode = 200

	EVALSUB Opcode = 254
	EVAL    Opcode = 255
)

// Instruction is one decoded opcode plus any inline operand it carries.
type Instruction struct {
	Op Opcode

	// Operand, populated depending on Op:
	Byte   uint8  // PUSH1, DUPN; algorithm selector of HASH/SIGN/VERIFY/ENCRYPT/DECRYPT
	Bytes  []byte // PUSH2, PUSH4, PUSHL1/2/4 data; SELECT bucket id (16 B); READ/WRITE/DELETE slot (2 B)
	Int    int64  // PUSHINT (zig-zag dynint; fits the protocol's dynint range)
	Float  float64
}

// IsControlFlowTarget reports whether op participates in the jump
// table.
func (op Opcode) IsControlFlowTarget() bool {
	switch op {
	case IF, ELSE, FI, LOOP, POOL, BREAK:
		return true
	default:
		return false
	}
}

// discriminator mirrors Opcode.get_discriminator() in the source: the
// raw numeric value, used for the push-only test.
func (op Opcode) discriminator() uint8 { return uint8(op) }
