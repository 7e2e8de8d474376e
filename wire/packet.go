package wire

import (
	"fmt"

	"github.com/plabble/ptp-codec/bitio"
)

// RequestBody is any of the sixteen request-side variants; Flags
// returns the header's low nibble this variant wants written.
type RequestBody interface {
	flags() uint8
}

// ResponseBody is the response-side counterpart.
type ResponseBody interface {
	flags() uint8
}

// some variants carry no independent flags; they satisfy the
// interfaces via a zero method set added below.
func (PatchRequest) flags() uint8      { return 0 }
func (RegisterRequest) flags() uint8   { return 0 }
func (IdentifyRequest) flags() uint8   { return 0 }
func (ReservedRequest) flags() uint8   { return 0 }

func (CertificateResponse) flags() uint8  { return 0 }
func (StreamResponse) flags() uint8       { return 0 }
func (PostResponse) flags() uint8         { return 0 }
func (PatchResponse) flags() uint8        { return 0 }
func (PutResponse) flags() uint8          { return 0 }
func (DeleteResponse) flags() uint8       { return 0 }
func (SubscribeResponse) flags() uint8    { return 0 }
func (UnsubscribeResponse) flags() uint8  { return 0 }
func (RegisterResponse) flags() uint8     { return 0 }
func (IdentifyResponse) flags() uint8     { return 0 }
func (ReservedResponse) flags() uint8     { return 0 }
func (OpcodeResponse) flags() uint8       { return 0 }
func (ErrorResponse) flags() uint8        { return 0 }

// ErrUnknownTag is returned when a tag does not map to any known
// variant for the requested direction.
type ErrUnknownTag struct {
	Tag Tag
}

func (e ErrUnknownTag) Error() string { return fmt.Sprintf("wire: unknown tag %d", e.Tag) }

// EncodeRequest writes the header followed by body's tag-specific
// encoding. counter is written as the header's request_counter when
// non-nil (§3: omitted iff the enclosing envelope is
// fire_and_forget).
func EncodeRequest(w *bitio.Writer, tag Tag, body RequestBody, counter *uint16) error {
	EncodeHeader(w, Header{Tag: tag, Flags: body.flags(), Counter: counter})
	switch b := body.(type) {
	case CertificateRequest:
	case SessionRequest:
		encodeSessionRequest(w, b)
	case GetRequest:
		encodeGetRequest(w, b)
	case StreamRequest:
		encodeStreamRequest(w, b)
	case PostRequest:
		encodePostRequest(w, b)
	case PatchRequest:
		encodePatchRequest(w, b)
	case PutRequest:
		encodePutRequest(w, b)
	case DeleteRequest:
		encodeDeleteRequest(w, b)
	case SubscribeRequest:
		encodeSubscribeRequest(w, b)
	case UnsubscribeRequest:
		encodeUnsubscribeRequest(w, b)
	case RegisterRequest:
		encodeRegisterRequest(w, b)
	case IdentifyRequest:
		encodeIdentifyRequest(w, b)
	case ProxyRequest:
		encodeProxyRequest(w, b)
	case ReservedRequest:
		encodeReservedRequest(w, b)
	case OpcodeRequest:
		return encodeOpcodeRequest(w, b)
	default:
		return ErrUnknownTag{}
	}
	return nil
}

// DecodeRequest reads the header and dispatches to the tag-specific
// decoder. fireAndForget governs whether the header carries a
// request_counter (§3); sessionKeyLen supplies the per-key width for
// a Session body (§3: determined by the negotiated key-exchange
// algorithm, which lives above this layer in the connection context).
func DecodeRequest(r *bitio.Reader, fireAndForget bool, sessionKeyLen int) (Header, RequestBody, error) {
	h, err := DecodeHeader(r, fireAndForget)
	if err != nil {
		return Header{}, nil, err
	}
	body, err := decodeRequestBody(r, h, sessionKeyLen)
	return h, body, err
}

func decodeRequestBody(r *bitio.Reader, h Header, sessionKeyLen int) (RequestBody, error) {
	switch h.Tag {
	case TagCertificate:
		return decodeCertificateRequest(h.Flags), nil
	case TagSession:
		return decodeSessionRequest(r, h.Flags, sessionKeyLen)
	case TagGet:
		return decodeGetRequest(r, h.Flags)
	case TagStream:
		return decodeStreamRequest(r, h.Flags)
	case TagPost:
		return decodePostRequest(r, h.Flags)
	case TagPatch:
		return decodePatchRequest(r)
	case TagPut:
		return decodePutRequest(r, h.Flags)
	case TagDelete:
		return decodeDeleteRequest(r, h.Flags)
	case TagSubscribe:
		return decodeSubscribeRequest(r, h.Flags)
	case TagUnsubscribe:
		return decodeUnsubscribeRequest(r, h.Flags)
	case TagRegister:
		return decodeRegisterRequest(r)
	case TagIdentify:
		return decodeIdentifyRequest(r)
	case TagProxy:
		return decodeProxyRequest(r, h.Flags)
	case TagReserved13, TagReserved15:
		return decodeReservedRequest(r)
	case TagOpcode:
		return decodeOpcodeRequest(r, h.Flags)
	default:
		return nil, ErrUnknownTag{Tag: h.Tag}
	}
}

// EncodeResponse mirrors EncodeRequest for the response side; counter
// is the response_to value (the request's counter being answered).
func EncodeResponse(w *bitio.Writer, tag Tag, body ResponseBody, counter *uint16) {
	EncodeHeader(w, Header{Tag: tag, Flags: body.flags(), Counter: counter})
	switch b := body.(type) {
	case CertificateResponse:
		encodeCertificateResponse(w, b)
	case SessionResponse:
		encodeSessionResponse(w, b)
	case GetResponse:
		encodeGetResponse(w, b)
	case StreamResponse, PostResponse, PatchResponse, PutResponse, DeleteResponse,
		SubscribeResponse, UnsubscribeResponse, RegisterResponse, IdentifyResponse:
		encodeEmptyResponse(w)
	case ProxyResponse:
		encodeProxyResponse(w, b)
	case ReservedResponse:
		encodeReservedResponse(w, b)
	case OpcodeResponse:
		encodeOpcodeResponse(w, b)
	case ErrorResponse:
		encodeErrorResponse(w, b)
	}
}

// DecodeResponse mirrors DecodeRequest.
func DecodeResponse(r *bitio.Reader, fireAndForget bool) (Header, ResponseBody, error) {
	h, err := DecodeHeader(r, fireAndForget)
	if err != nil {
		return Header{}, nil, err
	}
	body, err := decodeResponseBody(r, h)
	return h, body, err
}

func decodeResponseBody(r *bitio.Reader, h Header) (ResponseBody, error) {
	switch h.Tag {
	case TagCertificate:
		return decodeCertificateResponse(r)
	case TagSession:
		return decodeSessionResponse(r, h.Flags)
	case TagGet:
		return decodeGetResponse(r, h.Flags)
	case TagStream:
		return StreamResponse{}, nil
	case TagPost:
		return PostResponse{}, nil
	case TagPatch:
		return PatchResponse{}, nil
	case TagPut:
		return PutResponse{}, nil
	case TagDelete:
		return DeleteResponse{}, nil
	case TagSubscribe:
		return SubscribeResponse{}, nil
	case TagUnsubscribe:
		return UnsubscribeResponse{}, nil
	case TagRegister:
		return RegisterResponse{}, nil
	case TagIdentify:
		return IdentifyResponse{}, nil
	case TagProxy:
		return decodeProxyResponse(r, h.Flags)
	case TagReserved13:
		return decodeReservedResponse(r)
	case TagOpcode:
		return decodeOpcodeResponse(r)
	case TagReserved15:
		return decodeErrorResponse(r)
	default:
		return nil, ErrUnknownTag{Tag: h.Tag}
	}
}
