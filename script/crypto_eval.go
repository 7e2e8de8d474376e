package script

import (
	"github.com/plabble/ptp-codec/bitio"
	"github.com/plabble/ptp-codec/cryptoalg"
)

// cryptoOp implements HASH/SIGN/VERIFY/ENCRYPT/DECRYPT: each consumes
// the instruction's inline one-byte algorithm selector and delegates
// to the algorithm registry (§4.6). Selector values are scoped per
// opcode: HASH uses HashAlgorithm, SIGN/VERIFY use SignatureAlgorithm,
// ENCRYPT/DECRYPT use an AEAD name.
func (vm *VM) cryptoOp(ins Instruction) error {
	switch ins.Op {
	case HASH:
		return vm.cryptoHash(ins.Byte)
	case SIGN:
		return vm.cryptoSign(ins.Byte)
	case VERIFY:
		return vm.cryptoVerify(ins.Byte)
	case ENCRYPT:
		return vm.cryptoEncrypt(ins.Byte)
	case DECRYPT:
		return vm.cryptoDecrypt(ins.Byte)
	}
	return ErrTypeMismatch
}

func (vm *VM) cryptoHash(selector uint8) error {
	v, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	data, ok := v.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	alg := cryptoalg.Blake2
	if selector == 1 {
		alg = cryptoalg.Blake3
	}
	h, err := vm.registry.Hash(alg)
	if err != nil {
		return err
	}
	sum, err := h.Sum(nil, data, 32)
	if err != nil {
		return err
	}
	return vm.pushChecked(Buf(sum))
}

func signatureAlgorithmFor(selector uint8) cryptoalg.SignatureAlgorithm {
	switch selector {
	case 1:
		return cryptoalg.Dsa44
	case 2:
		return cryptoalg.Dsa65
	case 3:
		return cryptoalg.Falcon
	case 4:
		return cryptoalg.SlhDsaSha128s
	default:
		return cryptoalg.Ed25519
	}
}

func (vm *VM) cryptoSign(selector uint8) error {
	dataVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	keyVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	data, ok := dataVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	key, ok := keyVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	signer, err := vm.registry.Signer(signatureAlgorithmFor(selector))
	if err != nil {
		return err
	}
	sig, err := signer.Sign(key, data)
	if err != nil {
		return err
	}
	return vm.pushChecked(Buf(sig))
}

func (vm *VM) cryptoVerify(selector uint8) error {
	dataVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	sigVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	pubVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	data, ok := dataVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	sig, ok := sigVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	pub, ok := pubVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	signer, err := vm.registry.Signer(signatureAlgorithmFor(selector))
	if err != nil {
		return err
	}
	valid, err := signer.Verify(pub, data, sig)
	if err != nil {
		return err
	}
	return vm.pushChecked(Bool(valid))
}

func aeadNameFor(selector uint8) string {
	if selector == 1 {
		return "aes-gcm"
	}
	return "chacha20poly1305"
}

func (vm *VM) cryptoEncrypt(selector uint8) error {
	dataVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	keyVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	data, ok := dataVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	key, ok := keyVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	aead, err := vm.registry.AEAD(aeadNameFor(selector))
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	ciphertext, err := aead.Seal(key, nonce, data, nil)
	if err != nil {
		return err
	}
	return vm.pushChecked(Buf(ciphertext))
}

func (vm *VM) cryptoDecrypt(selector uint8) error {
	dataVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	keyVal, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	data, ok := dataVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	key, ok := keyVal.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	aead, err := vm.registry.AEAD(aeadNameFor(selector))
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	plaintext, err := aead.Open(key, nonce, data, nil)
	if err != nil {
		return err
	}
	return vm.pushChecked(Buf(plaintext))
}

// evalSub implements EVALSUB: pop a buffer, parse it as a script,
// validate with allow_eval=false against a fresh stack, and push its
// single result back (§4.6).
func (vm *VM) evalSub() error {
	v, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	buf, ok := v.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	inner, err := DecodeScript(bitio.NewReader(buf))
	if err != nil {
		return err
	}
	childSettings := vm.settings.remaining(vm.memory, vm.executions, vm.search)
	child, err := New(inner, childSettings, vm.registry, vm.bucket)
	if err != nil {
		return ErrSubEvalFailed{Cause: err}
	}
	result, err := child.Run()
	if err != nil {
		return ErrSubEvalFailed{Cause: err}
	}
	if result == nil {
		return vm.pushChecked(Buf(nil))
	}
	return vm.pushChecked(*result)
}

// eval implements EVAL (only reachable if allow_eval=true): run the
// popped script against the CURRENT stacks and counters, not a fresh
// sandbox. Treated as dangerous per §4.6.
func (vm *VM) eval() error {
	v, ok := vm.pop()
	if !ok {
		return ErrStackUnderflow
	}
	buf, ok := v.AsBuffer()
	if !ok {
		return ErrTypeMismatch
	}
	inner, err := DecodeScript(bitio.NewReader(buf))
	if err != nil {
		return err
	}
	jt, err := BuildJumpTable(inner)
	if err != nil {
		return err
	}
	sub := &VM{
		script:     inner,
		jumpTable:  jt,
		settings:   vm.settings,
		registry:   vm.registry,
		bucket:     vm.bucket,
		stack:      vm.stack,
		alt:        vm.alt,
		snapshot:   vm.snapshot,
		hasSnap:    vm.hasSnap,
		memory:     vm.memory,
		executions: vm.executions,
		search:     vm.search,
	}
	if _, err := sub.Run(); err != nil {
		return err
	}
	vm.stack, vm.alt, vm.snapshot, vm.hasSnap = sub.stack, sub.alt, sub.snapshot, sub.hasSnap
	vm.memory, vm.executions, vm.search = sub.memory, sub.executions, sub.search
	return nil
}
