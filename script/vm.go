package script

import (
	"time"

	"github.com/plabble/ptp-codec/cryptoalg"
	"github.com/plabble/ptp-codec/plog"
)

// limitExceeded builds an ErrLimitExceeded for kind, logging it as a
// warning so an operator can tell a capacity-tripped script apart from
// a malformed one (§4.6's resource limits are hit in normal operation,
// not only under attack).
func limitExceeded(kind LimitKind) error {
	plog.Log().Warning("script: limit exceeded: " + kind.String())
	return ErrLimitExceeded{Kind: kind}
}

// VM executes one validated OpcodeScript. A VM is created per
// evaluation and discarded afterward (§3 "VM State" lifecycle) — it
// carries no state across scripts.
type VM struct {
	script    OpcodeScript
	jumpTable map[int]int
	settings  Settings
	registry  cryptoalg.Registry
	bucket    BucketFacade

	pc         int
	stack      []StackData
	alt        []StackData
	snapshot   []StackData
	hasSnap    bool
	memory     int
	executions int
	search     int
}

// New validates s against settings and returns a ready-to-run VM.
// Validation order follows §4.6: script length, capability scan, jump
// table construction, nesting depth.
func New(s OpcodeScript, settings Settings, registry cryptoalg.Registry, bucket BucketFacade) (*VM, error) {
	if len(s.Instructions) > settings.MaxScriptLen {
		return nil, limitExceeded(LimitScriptLen)
	}
	if err := scanCapabilities(s, settings); err != nil {
		return nil, err
	}
	jt, err := BuildJumpTable(s)
	if err != nil {
		return nil, err
	}
	depth, err := MaxNestingDepth(s)
	if err != nil {
		return nil, err
	}
	if depth > settings.MaxNestingDepth {
		return nil, limitExceeded(LimitNestingDepth)
	}
	if bucket == nil {
		bucket = NoBucketFacade{}
	}
	return &VM{script: s, jumpTable: jt, settings: settings, registry: registry, bucket: bucket}, nil
}

func scanCapabilities(s OpcodeScript, settings Settings) error {
	for _, ins := range s.Instructions {
		if ins.Op.discriminator() >= pushOnlyBound && !settings.AllowNonPush {
			return ErrCapabilityDenied{Kind: CapNonPush}
		}
		switch ins.Op {
		case IF, ELSE, FI:
			if !settings.AllowControlFlow {
				return ErrCapabilityDenied{Kind: CapControlFlow}
			}
		case LOOP, POOL, BREAK:
			if !settings.AllowLoop {
				return ErrCapabilityDenied{Kind: CapLoop}
			}
		case JMP:
			if !settings.AllowJump {
				return ErrCapabilityDenied{Kind: CapJump}
			}
		case CLEAR:
			if !settings.AllowClear {
				return ErrCapabilityDenied{Kind: CapClear}
			}
		case EVAL:
			if !settings.AllowEval {
				return ErrCapabilityDenied{Kind: CapEval}
			}
		case EVALSUB:
			if !settings.AllowSandboxedEval {
				return ErrCapabilityDenied{Kind: CapSandboxedEval}
			}
		case SELECT, READ, WRITE, APPEND, DELETE:
			if !settings.AllowBucketActions {
				return ErrCapabilityDenied{Kind: CapBucketActions}
			}
		}
	}
	return nil
}

// Run executes the script to completion and returns its result: the
// top of the main stack at RETURN or end-of-script, or nil if the
// stack is empty.
func (vm *VM) Run() (*StackData, error) {
	justJumped := false
	for vm.pc < len(vm.script.Instructions) {
		arrivedViaJump := justJumped
		justJumped = false

		vm.executions++
		if vm.executions > vm.settings.ExecutionsLimit {
			return nil, limitExceeded(LimitExecutions)
		}

		ins := vm.script.Instructions[vm.pc]
		jumped, result, err := vm.step(ins, arrivedViaJump)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		if jumped {
			justJumped = true
			continue
		}
		vm.pc++
	}
	return vm.top(), nil
}

// step executes one instruction. It returns jumped=true if it set
// vm.pc itself (caller must not also advance it), and a non-nil result
// if the script terminated (RETURN or ASSERT's implicit success path
// does not terminate; only RETURN does).
func (vm *VM) step(ins Instruction, arrivedViaJump bool) (jumped bool, result *StackData, err error) {
	switch ins.Op {
	case FALSE:
		return false, nil, vm.pushChecked(Bool(false))
	case TRUE:
		return false, nil, vm.pushChecked(Bool(true))
	case PUSH1:
		return false, nil, vm.pushChecked(Byt(ins.Byte))
	case PUSH2, PUSH4:
		return false, nil, vm.pushChecked(Buf(ins.Bytes))
	case PUSHL1, PUSHL2, PUSHL4:
		if len(ins.Bytes) > vm.settings.MaxSliceSize {
			return false, nil, limitExceeded(LimitSliceSize)
		}
		return false, nil, vm.pushChecked(Buf(ins.Bytes))
	case PUSHINT:
		return false, nil, vm.pushChecked(Num(ins.Int))
	case PUSHFLOAT:
		return false, nil, vm.pushChecked(Flt(ins.Float))

	case ADD, SUB, MUL, DIV, MOD:
		return false, nil, vm.numericBinOp(ins.Op)
	case NEG, ABS:
		return false, nil, vm.numericUnaryOp(ins.Op)
	case FADD, FSUB, FMUL, FDIV, FMOD:
		return false, nil, vm.floatBinOp(ins.Op)
	case LT, GT, LTE, GTE, MIN, MAX:
		return false, nil, vm.numericCompareOp(ins.Op)
	case FLT, FGT, FLTE, FGTE, FMIN, FMAX:
		return false, nil, vm.floatCompareOp(ins.Op)
	case FLOOR, CEIL, ROUND, ROUNDE:
		return false, nil, vm.floatRoundOp(ins.Op)
	case BAND, BOR, BXOR, BSHL, BSHR:
		return false, nil, vm.bitwiseBinOp(ins.Op)
	case BNOT:
		return false, nil, vm.bitwiseNot()
	case NOT:
		return false, nil, vm.booleanNot()
	case AND, OR, XOR:
		return false, nil, vm.booleanBinOp(ins.Op)
	case EQ, NEQ:
		return false, nil, vm.equalityOp(ins.Op)
	case POW, SQRT:
		return false, nil, vm.advancedNumericOp(ins.Op)

	case NOP:
		// no-op, modulo the executions counter

	case IF:
		cond, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		b, ok := cond.AsBoolean()
		if !ok {
			return false, nil, ErrTypeMismatch
		}
		if !b {
			target, ok := vm.jumpTable[vm.pc]
			if !ok {
				return false, nil, ErrControlFlowMalformed
			}
			vm.pc = target
			return true, nil, nil
		}
	case ELSE:
		if arrivedViaJump {
			// this IS the start of the false branch; no-op through
		} else {
			target, ok := vm.jumpTable[vm.pc]
			if !ok {
				return false, nil, ErrControlFlowMalformed
			}
			vm.pc = target
			return true, nil, nil
		}
	case FI:
		// always a no-op marker
	case LOOP:
		// always a no-op marker (back-edge target)
	case POOL:
		if arrivedViaJump {
			// reached via BREAK: exit the loop, no-op through
		} else {
			target, ok := vm.jumpTable[vm.pc]
			if !ok {
				return false, nil, ErrControlFlowMalformed
			}
			vm.pc = target
			return true, nil, nil
		}
	case BREAK:
		target, ok := vm.jumpTable[vm.pc]
		if !ok {
			return false, nil, ErrControlFlowMalformed
		}
		vm.pc = target
		return true, nil, nil
	case JMP:
		addr, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		n, ok := addr.AsNumber()
		if !ok {
			return false, nil, ErrTypeMismatch
		}
		if n < 0 || int(n) > len(vm.script.Instructions) {
			return false, nil, ErrAddressOutOfRange
		}
		vm.pc = int(n)
		return true, nil, nil

	case ASSERT:
		top, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		b, ok := top.AsBoolean()
		if !ok {
			return false, nil, ErrTypeMismatch
		}
		if !b {
			return false, nil, ErrAssertionFailed
		}
	case RETURN:
		vm.pc = len(vm.script.Instructions)
		return true, vm.top(), nil

	case DUP, DUP2, DUP3, DUP4, DUPN:
		return false, nil, vm.dup(ins)
	case SWAP:
		return false, nil, vm.swap()
	case ROT:
		return false, nil, vm.rot()
	case POP:
		if _, ok := vm.pop(); !ok {
			return false, nil, ErrStackUnderflow
		}
	case COPY, BUBBLE, SINK:
		return false, nil, vm.indexedOp(ins.Op)
	case TOALT:
		v, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		vm.alt = append(vm.alt, v)
	case FROMALT:
		if len(vm.alt) == 0 {
			return false, nil, ErrStackUnderflow
		}
		v := vm.alt[len(vm.alt)-1]
		vm.alt = vm.alt[:len(vm.alt)-1]
		return false, nil, vm.pushChecked(v)
	case SNAPSHOT:
		vm.snapshot = append([]StackData(nil), vm.stack...)
		vm.hasSnap = true
	case RESTORE:
		if !vm.hasSnap {
			return false, nil, ErrStackUnderflow
		}
		vm.stack = append([]StackData(nil), vm.snapshot...)
		vm.recomputeMemory()
	case CLEAR:
		vm.stack = nil
		vm.recomputeMemory()
	case SWITCH:
		vm.stack, vm.alt = vm.alt, vm.stack
		vm.recomputeMemory()
	case CONCAT:
		return false, nil, vm.concat()
	case COUNT:
		return false, nil, vm.pushChecked(Num(int64(len(vm.stack))))

	case NUMBER:
		return false, nil, vm.castTop(KindNumber)
	case FLOAT:
		return false, nil, vm.castTop(KindFloat)

	case SERVER:
		if _, ok := vm.pop(); !ok {
			return false, nil, ErrStackUnderflow
		}
	case SELECT:
		var id [16]byte
		copy(id[:], ins.Bytes)
		if err := vm.bucket.Select(id); err != nil {
			return false, nil, err
		}
	case READ:
		slot := uint16(ins.Bytes[0])<<8 | uint16(ins.Bytes[1])
		v, err := vm.bucket.Read(slot)
		if err != nil {
			return false, nil, err
		}
		return false, nil, vm.pushChecked(Buf(v))
	case WRITE:
		slot := uint16(ins.Bytes[0])<<8 | uint16(ins.Bytes[1])
		v, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		buf, ok := v.AsBuffer()
		if !ok {
			return false, nil, ErrTypeMismatch
		}
		if err := vm.bucket.Write(slot, buf); err != nil {
			return false, nil, err
		}
	case APPEND:
		v, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		buf, ok := v.AsBuffer()
		if !ok {
			return false, nil, ErrTypeMismatch
		}
		slot, err := vm.bucket.Append(buf)
		if err != nil {
			return false, nil, err
		}
		return false, nil, vm.pushChecked(Num(int64(slot)))
	case DELETE:
		slot := uint16(ins.Bytes[0])<<8 | uint16(ins.Bytes[1])
		if err := vm.bucket.Delete(slot); err != nil {
			return false, nil, err
		}

	case LEN:
		v, ok := vm.pop()
		if !ok {
			return false, nil, ErrStackUnderflow
		}
		buf, ok := v.AsBuffer()
		if !ok {
			return false, nil, ErrTypeMismatch
		}
		return false, nil, vm.pushChecked(Num(int64(len(buf))))
	case REVERSE:
		return false, nil, vm.reverse()
	case SLICE:
		return false, nil, vm.slice()
	case SPLICE:
		return false, nil, vm.splice()

	case HASH, SIGN, VERIFY, ENCRYPT, DECRYPT:
		return false, nil, vm.cryptoOp(ins)

	case TIME:
		return false, nil, vm.pushChecked(Num(time.Now().Unix()))

	case EVALSUB:
		return false, nil, vm.evalSub()
	case EVAL:
		return false, nil, vm.eval()

	default:
		return false, nil, ErrTypeMismatch
	}
	return false, nil, nil
}

func (vm *VM) top() *StackData {
	if len(vm.stack) == 0 {
		return nil
	}
	v := vm.stack[len(vm.stack)-1]
	return &v
}

func (vm *VM) pop() (StackData, bool) {
	if len(vm.stack) == 0 {
		return StackData{}, false
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	vm.memory -= v.Memory()
	return v, true
}

func (vm *VM) pushChecked(v StackData) error {
	if len(vm.stack) >= vm.settings.MaxStackItems {
		return limitExceeded(LimitStackItems)
	}
	vm.memory += v.Memory()
	if vm.memory > vm.settings.MemoryLimit {
		return limitExceeded(LimitMemory)
	}
	vm.stack = append(vm.stack, v)
	return nil
}

func (vm *VM) recomputeMemory() {
	total := 0
	for _, v := range vm.stack {
		total += v.Memory()
	}
	for _, v := range vm.alt {
		total += v.Memory()
	}
	for _, v := range vm.snapshot {
		total += v.Memory()
	}
	vm.memory = total
}
