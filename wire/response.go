package wire

import (
	"github.com/plabble/ptp-codec/bitio"
)

// Response flag bit assignments (type_and_flags.rs's ResponsePacketType).
const (
	respSessWithPSK  = flagBit0
	respSessWithSalt = flagBit1

	respGetBinaryKeys = flagBit0

	respProxyIncludeHopInfo = flagBit0
)

// CertificateResponse: §6.1 tag 0, no flags. Carries the certificate
// chain/challenge signature "until end of packet".
type CertificateResponse struct {
	Data []byte
}

func encodeCertificateResponse(w *bitio.Writer, b CertificateResponse) { w.WriteBytes(b.Data) }

func decodeCertificateResponse(r *bitio.Reader) (CertificateResponse, error) {
	return CertificateResponse{Data: r.ReadRemainingBytes()}, nil
}

// SessionResponse: §6.1 tag 1.
type SessionResponse struct {
	WithPSK  bool
	WithSalt bool

	PSKID []byte // 16 B, present iff WithPSK
	Salt  []byte // 16 B, present iff WithSalt
}

func (b SessionResponse) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, respSessWithPSK, b.WithPSK)
	f = setFlag(f, respSessWithSalt, b.WithSalt)
	return f
}

func encodeSessionResponse(w *bitio.Writer, b SessionResponse) {
	if b.WithPSK {
		w.WriteBytes(b.PSKID)
	}
	if b.WithSalt {
		w.WriteBytes(b.Salt)
	}
}

func decodeSessionResponse(r *bitio.Reader, flags uint8) (SessionResponse, error) {
	withPSK := getFlag(flags, respSessWithPSK)
	withSalt := getFlag(flags, respSessWithSalt)
	var pskID, salt []byte
	var err error
	if withPSK {
		if pskID, err = r.ReadBytes(16); err != nil {
			return SessionResponse{}, err
		}
	}
	if withSalt {
		if salt, err = r.ReadBytes(16); err != nil {
			return SessionResponse{}, err
		}
	}
	return SessionResponse{WithPSK: withPSK, WithSalt: withSalt, PSKID: pskID, Salt: salt}, nil
}

// GetResponse: §6.1 tag 2. Values parallel the request's key order.
type GetResponse struct {
	BinaryKeys bool
	Values     [][]byte
}

func (b GetResponse) flags() uint8 { return setFlag(0, respGetBinaryKeys, b.BinaryKeys) }

func encodeGetResponse(w *bitio.Writer, b GetResponse) { writeKeyList(w, b.Values) }

func decodeGetResponse(r *bitio.Reader, flags uint8) (GetResponse, error) {
	values, err := readKeyList(r)
	if err != nil {
		return GetResponse{}, err
	}
	return GetResponse{BinaryKeys: getFlag(flags, respGetBinaryKeys), Values: values}, nil
}

// StreamResponse/PostResponse/PatchResponse/PutResponse/DeleteResponse/
// SubscribeResponse/UnsubscribeResponse/RegisterResponse/
// IdentifyResponse: §6.1, no flags, no body beyond the header+MAC —
// success is implied by the packet decoding/verifying at all.
type StreamResponse struct{}
type PostResponse struct{}
type PatchResponse struct{}
type PutResponse struct{}
type DeleteResponse struct{}
type SubscribeResponse struct{}
type UnsubscribeResponse struct{}
type RegisterResponse struct{}
type IdentifyResponse struct{}

func encodeEmptyResponse(*bitio.Writer) {}

// ProxyResponse: §6.1 tag 12.
type ProxyResponse struct {
	IncludeHopInfo bool
	HopInfo        []byte // until end of packet, present iff IncludeHopInfo
}

func (b ProxyResponse) flags() uint8 { return setFlag(0, respProxyIncludeHopInfo, b.IncludeHopInfo) }

func encodeProxyResponse(w *bitio.Writer, b ProxyResponse) {
	if b.IncludeHopInfo {
		w.WriteBytes(b.HopInfo)
	}
}

func decodeProxyResponse(r *bitio.Reader, flags uint8) (ProxyResponse, error) {
	include := getFlag(flags, respProxyIncludeHopInfo)
	var hopInfo []byte
	if include {
		hopInfo = r.ReadRemainingBytes()
	}
	return ProxyResponse{IncludeHopInfo: include, HopInfo: hopInfo}, nil
}

// ReservedResponse mirrors ReservedRequest.
type ReservedResponse struct {
	Raw []byte
}

func encodeReservedResponse(w *bitio.Writer, b ReservedResponse) { w.WriteBytes(b.Raw) }

func decodeReservedResponse(r *bitio.Reader) (ReservedResponse, error) {
	return ReservedResponse{Raw: r.ReadRemainingBytes()}, nil
}

// OpcodeResponse: §6.1 tag 14, no flags (§3 "OpcodeResponse: optional
// result byte string"). In the non-fire-and-forget encoding
// `e000070102030405`, `e0` is the header's tag+flags byte (tag 14 in
// the high nibble), `0007` is the 16-bit request_counter DecodeHeader
// already consumed, and only the trailing `0102030405` is this body's
// Result — with no length prefix, "until end of packet".
type OpcodeResponse struct {
	Result []byte // nil means the script produced no result
}

func encodeOpcodeResponse(w *bitio.Writer, b OpcodeResponse) {
	if b.Result != nil {
		w.WriteBytes(b.Result)
	}
}

func decodeOpcodeResponse(r *bitio.Reader) (OpcodeResponse, error) {
	if r.RemainingBits() == 0 {
		return OpcodeResponse{}, nil
	}
	return OpcodeResponse{Result: r.ReadRemainingBytes()}, nil
}

// ErrorResponse: §6.1 tag 15 (response side), reports a codec/script
// error back to the peer instead of a tag-specific body.
type ErrorResponse struct {
	Code    uint8
	Message []byte
}

func encodeErrorResponse(w *bitio.Writer, b ErrorResponse) {
	w.WriteUint8(b.Code)
	w.WriteBytes(b.Message)
}

func decodeErrorResponse(r *bitio.Reader) (ErrorResponse, error) {
	code, err := r.ReadUint8()
	if err != nil {
		return ErrorResponse{}, err
	}
	return ErrorResponse{Code: code, Message: r.ReadRemainingBytes()}, nil
}
