package ptp

import (
	"bytes"
	"testing"

	"github.com/plabble/ptp-codec/cryptoalg"
	"github.com/plabble/ptp-codec/envelope"
	"github.com/plabble/ptp-codec/script"
	"github.com/plabble/ptp-codec/session"
	"github.com/plabble/ptp-codec/wire"
)

func pairedConnections(t *testing.T, secret []byte) (*session.Connection, *session.Connection) {
	t.Helper()
	client := session.New()
	server := session.New()
	client.SetSessionSecret(secret)
	server.SetSessionSecret(secret)
	return client, server
}

func TestEncodeDecodeRequestRoundTrip(t *testing.T) {
	reg := cryptoalg.NewDefaultRegistry()
	secret := bytes.Repeat([]byte{0x5A}, 32)
	client, server := pairedConnections(t, secret)

	env := envelope.Envelope{Version: 1, UseEncryption: true}
	req := wire.IdentifyRequest{}

	buf, err := EncodeRequest(env, wire.TagIdentify, req, client, reg)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}

	_, h, body, err := DecodeRequest(buf, 0, server, reg)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if h.Tag != wire.TagIdentify {
		t.Errorf("tag = %d, want TagIdentify", h.Tag)
	}
	if _, ok := body.(wire.IdentifyRequest); !ok {
		t.Errorf("body type = %T, want IdentifyRequest", body)
	}
	if client.RequestCounter() != 1 || server.RequestCounter() != 1 {
		t.Errorf("counters should advance together, got client=%d server=%d",
			client.RequestCounter(), server.RequestCounter())
	}
}

func TestEncodeDecodeResponseRoundTrip(t *testing.T) {
	reg := cryptoalg.NewDefaultRegistry()
	secret := bytes.Repeat([]byte{0x11}, 32)
	client, server := pairedConnections(t, secret)

	env := envelope.Envelope{Version: 1, UseEncryption: false}
	resp := wire.OpcodeResponse{Result: []byte{0xCA, 0xFE}}

	buf, err := EncodeResponse(env, wire.TagOpcode, resp, server, reg)
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	_, h, body, err := DecodeResponse(buf, client, reg)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if h.Tag != wire.TagOpcode {
		t.Fatalf("tag = %d, want TagOpcode", h.Tag)
	}
	got := body.(wire.OpcodeResponse)
	if !bytes.Equal(got.Result, resp.Result) {
		t.Errorf("Result = %x, want %x", got.Result, resp.Result)
	}
}

func TestDecodeRequestWrongSecretFails(t *testing.T) {
	reg := cryptoalg.NewDefaultRegistry()
	client := session.New()
	server := session.New()
	client.SetSessionSecret(bytes.Repeat([]byte{0x01}, 32))
	server.SetSessionSecret(bytes.Repeat([]byte{0x02}, 32))

	env := envelope.Envelope{Version: 1, UseEncryption: true}
	buf, err := EncodeRequest(env, wire.TagIdentify, wire.IdentifyRequest{}, client, reg)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	if _, _, _, err := DecodeRequest(buf, 0, server, reg); err == nil {
		t.Fatalf("expected decryption failure under mismatched secret")
	}
}

func TestRunScriptArithmetic(t *testing.T) {
	reg := cryptoalg.NewDefaultRegistry()
	s := script.OpcodeScript{Instructions: []script.Instruction{
		{Op: script.PUSHINT, Int: 2},
		{Op: script.PUSHINT, Int: 3},
		{Op: script.ADD},
	}}
	req := wire.OpcodeRequest{AllowEval: true, Script: s}

	resp, err := RunScript(req, reg, script.NoBucketFacade{})
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if len(resp.Result) == 0 {
		t.Fatalf("expected a non-empty result buffer for 2+3")
	}
}

func TestRunScriptDeniesBucketActionsWhenNotAllowed(t *testing.T) {
	reg := cryptoalg.NewDefaultRegistry()
	var bucketID [16]byte
	s := script.OpcodeScript{Instructions: []script.Instruction{
		{Op: script.PUSHL1, Bytes: bucketID[:]},
		{Op: script.SELECT},
	}}
	req := wire.OpcodeRequest{AllowBucketOperations: false, Script: s}

	if _, err := RunScript(req, reg, script.NoBucketFacade{}); err == nil {
		t.Fatalf("expected capability-denied error for bucket op without AllowBucketOperations")
	}
}
