package humanfmt

import "github.com/plabble/ptp-codec/script"

// opcodeNames is the mnemonic table for the human-readable surface;
// it mirrors script/opcode.go's authoritative numbering one-for-one.
var opcodeNames = map[script.Opcode]string{
	script.FALSE: "FALSE", script.TRUE: "TRUE",
	script.PUSH1: "PUSH1", script.PUSH2: "PUSH2", script.PUSH4: "PUSH4",
	script.PUSHL1: "PUSHL1", script.PUSHL2: "PUSHL2", script.PUSHL4: "PUSHL4",
	script.PUSHINT: "PUSHINT", script.PUSHFLOAT: "PUSHFLOAT",

	script.ADD: "ADD", script.SUB: "SUB", script.MUL: "MUL", script.DIV: "DIV", script.MOD: "MOD",
	script.NEG: "NEG", script.ABS: "ABS",
	script.FADD: "FADD", script.FSUB: "FSUB", script.FMUL: "FMUL", script.FDIV: "FDIV", script.FMOD: "FMOD",

	script.LT: "LT", script.GT: "GT", script.LTE: "LTE", script.GTE: "GTE", script.MIN: "MIN", script.MAX: "MAX",
	script.FLT: "FLT", script.FGT: "FGT", script.FLTE: "FLTE", script.FGTE: "FGTE", script.FMIN: "FMIN", script.FMAX: "FMAX",

	script.FLOOR: "FLOOR", script.CEIL: "CEIL", script.ROUND: "ROUND", script.ROUNDE: "ROUNDE",

	script.BAND: "BAND", script.BOR: "BOR", script.BXOR: "BXOR", script.BSHL: "BSHL", script.BSHR: "BSHR", script.BNOT: "BNOT",

	script.NOT: "NOT", script.AND: "AND", script.OR: "OR", script.XOR: "XOR",
	script.EQ: "EQ", script.NEQ: "NEQ",

	script.POW: "POW", script.SQRT: "SQRT",

	script.NOP: "NOP", script.IF: "IF", script.ELSE: "ELSE", script.FI: "FI",
	script.BREAK: "BREAK", script.LOOP: "LOOP", script.POOL: "POOL", script.JMP: "JMP",

	script.ASSERT: "ASSERT", script.RETURN: "RETURN",

	script.DUP: "DUP", script.DUP2: "DUP2", script.DUP3: "DUP3", script.DUP4: "DUP4", script.DUPN: "DUPN",
	script.SWAP: "SWAP", script.ROT: "ROT", script.POP: "POP", script.COPY: "COPY",
	script.BUBBLE: "BUBBLE", script.SINK: "SINK",

	script.TOALT: "TOALT", script.FROMALT: "FROMALT", script.SNAPSHOT: "SNAPSHOT", script.RESTORE: "RESTORE",
	script.CLEAR: "CLEAR", script.SWITCH: "SWITCH", script.CONCAT: "CONCAT", script.COUNT: "COUNT",

	script.NUMBER: "NUMBER", script.FLOAT: "FLOAT",

	script.SERVER: "SERVER", script.SELECT: "SELECT", script.READ: "READ", script.WRITE: "WRITE",
	script.APPEND: "APPEND", script.DELETE: "DELETE",

	script.LEN: "LEN", script.REVERSE: "REVERSE", script.SLICE: "SLICE", script.SPLICE: "SPLICE",

	script.HASH: "HASH", script.SIGN: "SIGN", script.VERIFY: "VERIFY", script.ENCRYPT: "ENCRYPT", script.DECRYPT: "DECRYPT",

	script.TIME: "TIME",

	script.EVALSUB: "EVALSUB", script.EVAL: "EVAL",
}

var opcodeByMnemonic = func() map[string]script.Opcode {
	m := make(map[string]script.Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

func opcodeName(op script.Opcode) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

func opcodeByName(name string) (script.Opcode, bool) {
	op, ok := opcodeByMnemonic[name]
	return op, ok
}
