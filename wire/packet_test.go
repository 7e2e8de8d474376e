package wire

import (
	"bytes"
	"testing"

	"github.com/plabble/ptp-codec/bitio"
	"github.com/plabble/ptp-codec/script"
)

func TestIdentifyRequestRoundTrip(t *testing.T) {
	w := bitio.NewWriter()
	if err := EncodeRequest(w, TagIdentify, IdentifyRequest{}, nil); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	if !bytes.Equal(w.Bytes(), []byte{0xB0}) {
		t.Fatalf("got %x, want [b0]", w.Bytes())
	}
	h, body, err := DecodeRequest(bitio.NewReader(w.Bytes()), true, 0)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if h.Tag != TagIdentify {
		t.Errorf("tag = %d, want TagIdentify", h.Tag)
	}
	if _, ok := body.(IdentifyRequest); !ok {
		t.Errorf("body type = %T, want IdentifyRequest", body)
	}
}

func TestGetRequestRoundTrip(t *testing.T) {
	var id BucketID
	for i := range id {
		id[i] = byte(i)
	}
	req := GetRequest{
		BinaryKeys: true,
		Subscribe:  false,
		BucketID:   id,
		Keys:       [][]byte{[]byte("a"), []byte("bb")},
	}
	w := bitio.NewWriter()
	if err := EncodeRequest(w, TagGet, req, nil); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	h, body, err := DecodeRequest(bitio.NewReader(w.Bytes()), true, 0)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if h.Tag != TagGet {
		t.Fatalf("tag = %d, want TagGet", h.Tag)
	}
	got, ok := body.(GetRequest)
	if !ok {
		t.Fatalf("body type = %T, want GetRequest", body)
	}
	if got.BucketID != id {
		t.Errorf("BucketID = %v, want %v", got.BucketID, id)
	}
	if !got.BinaryKeys || got.Subscribe {
		t.Errorf("flags = %+v, want BinaryKeys=true Subscribe=false", got)
	}
	if len(got.Keys) != 2 || string(got.Keys[0]) != "a" || string(got.Keys[1]) != "bb" {
		t.Errorf("keys = %v, want [a bb]", got.Keys)
	}
}

func TestPutRequestAppendModeOmitsKeys(t *testing.T) {
	var id BucketID
	req := PutRequest{Append: true, BucketID: id, Values: [][]byte{[]byte("v1")}}
	w := bitio.NewWriter()
	if err := EncodeRequest(w, TagPut, req, nil); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	_, body, err := DecodeRequest(bitio.NewReader(w.Bytes()), true, 0)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	got := body.(PutRequest)
	if !got.Append || len(got.Keys) != 0 || len(got.Values) != 1 || string(got.Values[0]) != "v1" {
		t.Errorf("got %+v", got)
	}
}

func TestSessionRequestRoundTrip(t *testing.T) {
	exp := uint32(3600)
	req := SessionRequest{
		EnableEncryption: true,
		Keys:             [][]byte{bytes.Repeat([]byte{0x01}, 32)},
		PSKExpiration:    &exp,
	}
	counter := uint16(1)
	w := bitio.NewWriter()
	if err := EncodeRequest(w, TagSession, req, &counter); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	h, body, err := DecodeRequest(bitio.NewReader(w.Bytes()), false, 32)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if h.Tag != TagSession {
		t.Fatalf("tag = %d, want TagSession", h.Tag)
	}
	if h.Counter == nil || *h.Counter != 1 {
		t.Errorf("Counter = %v, want 1", h.Counter)
	}
	got := body.(SessionRequest)
	if !got.EnableEncryption {
		t.Error("EnableEncryption should round-trip true")
	}
	if len(got.Keys) != 1 || !bytes.Equal(got.Keys[0], req.Keys[0]) {
		t.Errorf("Keys = %v, want %v", got.Keys, req.Keys)
	}
	if got.PSKExpiration == nil || *got.PSKExpiration != 3600 {
		t.Errorf("PSKExpiration = %v, want 3600", got.PSKExpiration)
	}
}

func TestOpcodeRequestRoundTrip(t *testing.T) {
	s := script.OpcodeScript{Instructions: []script.Instruction{
		{Op: script.PUSHINT, Int: 5},
		{Op: script.PUSHINT, Int: 2},
		{Op: script.PUSHINT, Int: 3},
		{Op: script.ADD},
		{Op: script.EQ},
	}}
	req := OpcodeRequest{AllowBucketOperations: false, AllowEval: false, Script: s}
	w := bitio.NewWriter()
	if err := EncodeRequest(w, TagOpcode, req, nil); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	h, body, err := DecodeRequest(bitio.NewReader(w.Bytes()), true, 0)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if h.Tag != TagOpcode {
		t.Fatalf("tag = %d, want TagOpcode", h.Tag)
	}
	got := body.(OpcodeRequest)
	if len(got.Script.Instructions) != len(s.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(got.Script.Instructions), len(s.Instructions))
	}
	for i, ins := range got.Script.Instructions {
		if ins.Op != s.Instructions[i].Op || ins.Int != s.Instructions[i].Int {
			t.Errorf("instruction %d = %+v, want %+v", i, ins, s.Instructions[i])
		}
	}
}

func TestOpcodeResponseRoundTrip(t *testing.T) {
	counter := uint16(7)
	resp := OpcodeResponse{Result: []byte{0x01, 0x02, 0x03, 0x04, 0x05}}
	w := bitio.NewWriter()
	EncodeResponse(w, TagOpcode, resp, &counter)
	h, body, err := DecodeResponse(bitio.NewReader(w.Bytes()), false)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if h.Tag != TagOpcode {
		t.Fatalf("tag = %d, want TagOpcode", h.Tag)
	}
	if h.Counter == nil || *h.Counter != 7 {
		t.Errorf("Counter = %v, want 7", h.Counter)
	}
	got := body.(OpcodeResponse)
	if !bytes.Equal(got.Result, resp.Result) {
		t.Errorf("Result = %x, want %x", got.Result, resp.Result)
	}
}

// TestOpcodeResponseScenario3 pins scenario 3's body byte-for-byte:
// an Opcode response with request_counter=7 and result=0x0102030405
// encodes to exactly `e000070102030405`, the tag+flags byte laid out
// as in scenario 1 (tag 14 in the high nibble, no flags).
func TestOpcodeResponseScenario3(t *testing.T) {
	counter := uint16(7)
	resp := OpcodeResponse{Result: []byte{0x01, 0x02, 0x03, 0x04, 0x05}}
	w := bitio.NewWriter()
	EncodeResponse(w, TagOpcode, resp, &counter)
	got := w.Bytes()
	want := []byte{0xe0, 0x00, 0x07, 0x01, 0x02, 0x03, 0x04, 0x05}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
	h, body, err := DecodeResponse(bitio.NewReader(got), false)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if h.Counter == nil || *h.Counter != 7 {
		t.Fatalf("Counter = %v, want 7", h.Counter)
	}
	if result := body.(OpcodeResponse).Result; !bytes.Equal(result, resp.Result) {
		t.Errorf("Result = %x, want %x", result, resp.Result)
	}
}

func TestReservedTagRoundTrip(t *testing.T) {
	req := ReservedRequest{Raw: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	w := bitio.NewWriter()
	if err := EncodeRequest(w, TagReserved13, req, nil); err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	h, body, err := DecodeRequest(bitio.NewReader(w.Bytes()), true, 0)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if h.Tag != TagReserved13 {
		t.Fatalf("tag = %d, want TagReserved13", h.Tag)
	}
	got := body.(ReservedRequest)
	if !bytes.Equal(got.Raw, req.Raw) {
		t.Errorf("Raw = %x, want %x", got.Raw, req.Raw)
	}
}
