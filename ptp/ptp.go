// Package ptp is the entry API (C7): the small facade that ties the
// schema codec (wire), the crypto envelope (envelope), the opcode VM
// (script), and a connection's negotiated state (session) together
// into four calls a transport loop actually needs.
package ptp

import (
	"github.com/plabble/ptp-codec/bitio"
	"github.com/plabble/ptp-codec/cryptoalg"
	"github.com/plabble/ptp-codec/envelope"
	"github.com/plabble/ptp-codec/script"
	"github.com/plabble/ptp-codec/wire"
)

// EncodeRequest serializes tag/body through the schema codec, then
// wraps the result in env via the crypto envelope, advancing conn's
// request counter. The header's request_counter is taken from conn's
// current request counter and omitted entirely when env is
// fire_and_forget (§3).
func EncodeRequest(env envelope.Envelope, tag wire.Tag, body wire.RequestBody, conn envelope.ConnectionContext, reg cryptoalg.Registry) ([]byte, error) {
	w := bitio.NewWriter()
	var counter *uint16
	if !env.FireAndForget {
		c := conn.RequestCounter()
		counter = &c
	}
	if err := wire.EncodeRequest(w, tag, body, counter); err != nil {
		return nil, err
	}
	return envelope.Encode(env, w.Bytes(), true, conn, reg)
}

// DecodeRequest strips buf's crypto envelope and parses the resulting
// plaintext as a request packet. sessionKeyLen is forwarded to
// wire.DecodeRequest for a Session body's key width; the envelope's
// own fire_and_forget bit governs whether the header carries a
// request_counter.
func DecodeRequest(buf []byte, sessionKeyLen int, conn envelope.ConnectionContext, reg cryptoalg.Registry) (envelope.Envelope, wire.Header, wire.RequestBody, error) {
	plaintext, env, err := envelope.Decode(buf, true, conn, reg)
	if err != nil {
		return env, wire.Header{}, nil, err
	}
	h, body, err := wire.DecodeRequest(bitio.NewReader(plaintext), env.FireAndForget, sessionKeyLen)
	return env, h, body, err
}

// EncodeResponse is EncodeRequest's response-side counterpart; the
// header's response_to is conn's current response counter, omitted
// when env is fire_and_forget.
func EncodeResponse(env envelope.Envelope, tag wire.Tag, body wire.ResponseBody, conn envelope.ConnectionContext, reg cryptoalg.Registry) ([]byte, error) {
	w := bitio.NewWriter()
	var counter *uint16
	if !env.FireAndForget {
		c := conn.ResponseCounter()
		counter = &c
	}
	wire.EncodeResponse(w, tag, body, counter)
	return envelope.Encode(env, w.Bytes(), false, conn, reg)
}

// DecodeResponse is DecodeRequest's response-side counterpart.
func DecodeResponse(buf []byte, conn envelope.ConnectionContext, reg cryptoalg.Registry) (envelope.Envelope, wire.Header, wire.ResponseBody, error) {
	plaintext, env, err := envelope.Decode(buf, false, conn, reg)
	if err != nil {
		return env, wire.Header{}, nil, err
	}
	h, body, err := wire.DecodeResponse(bitio.NewReader(plaintext), env.FireAndForget)
	return env, h, body, err
}

// RunScript evaluates an OpcodeRequest's script to completion and
// packages the resulting top-of-stack value (if any) as an
// OpcodeResponse, the shape a bucket server sends back over the wire.
func RunScript(req wire.OpcodeRequest, reg cryptoalg.Registry, bucket script.BucketFacade) (wire.OpcodeResponse, error) {
	settings := script.DefaultSettings()
	settings.AllowEval = req.AllowEval
	settings.AllowBucketActions = req.AllowBucketOperations

	vm, err := script.New(req.Script, settings, reg, bucket)
	if err != nil {
		return wire.OpcodeResponse{}, err
	}
	result, err := vm.Run()
	if err != nil {
		return wire.OpcodeResponse{}, err
	}
	if result == nil {
		return wire.OpcodeResponse{}, nil
	}
	buf, _ := result.AsBuffer()
	return wire.OpcodeResponse{Result: buf}, nil
}
