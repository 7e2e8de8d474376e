package wire

import (
	"github.com/plabble/ptp-codec/bitio"
	"github.com/plabble/ptp-codec/script"
)

// Request flag bit assignments, in the order each variant's doc
// comment in type_and_flags.rs lists them.
const (
	certFullChain  = flagBit0
	certChallenge  = flagBit1
	certQueryMode  = flagBit2

	sessPersistKey        = flagBit0
	sessEnableEncryption  = flagBit1
	sessWithSalt          = flagBit2
	sessRequestSalt       = flagBit3

	getBinaryKeys      = flagBit0
	getSubscribe       = flagBit1
	getRangeModeUntil  = flagBit2

	streamBinaryKeys     = flagBit0
	streamSubscribe      = flagBit1
	streamRangeModeUntil = flagBit2
	streamAppend         = flagBit3

	postBinaryKeys     = flagBit0
	postSubscribe      = flagBit1
	postRangeModeUntil = flagBit2
	postDoNotPersist   = flagBit3

	putBinaryKeys  = flagBit0
	putSubscribe   = flagBit1
	putAssertKeys  = flagBit2
	putAppend      = flagBit3

	delBinaryKeys     = flagBit0
	delRangeModeUntil = flagBit1

	subBinaryKeys     = flagBit0
	subRangeModeUntil = flagBit1

	unsubBinaryKeys     = flagBit0
	unsubRangeModeUntil = flagBit1

	proxyInitSession       = flagBit0
	proxyKeepConnection    = flagBit1
	proxySelectRandomHops  = flagBit2

	opcodeAllowBucketOps = flagBit0
	opcodeAllowEval      = flagBit1
)

// CertificateRequest: §6.1 tag 0.
type CertificateRequest struct {
	FullChain bool
	Challenge bool
	QueryMode bool
}

func (b CertificateRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, certFullChain, b.FullChain)
	f = setFlag(f, certChallenge, b.Challenge)
	f = setFlag(f, certQueryMode, b.QueryMode)
	return f
}

func decodeCertificateRequest(flags uint8) CertificateRequest {
	return CertificateRequest{
		FullChain: getFlag(flags, certFullChain),
		Challenge: getFlag(flags, certChallenge),
		QueryMode: getFlag(flags, certQueryMode),
	}
}

// SessionRequest: §6.1 tag 1, §3 "Session{keys, psk_expiration}". Each
// keys[i] is a serialized key-exchange public component (§3).
type SessionRequest struct {
	PersistKey       bool
	EnableEncryption bool
	WithSalt         bool
	RequestSalt      bool

	Keys          [][]byte
	PSKExpiration *uint32
}

func (b SessionRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, sessPersistKey, b.PersistKey)
	f = setFlag(f, sessEnableEncryption, b.EnableEncryption)
	f = setFlag(f, sessWithSalt, b.WithSalt)
	f = setFlag(f, sessRequestSalt, b.RequestSalt)
	return f
}

func encodeSessionRequest(w *bitio.Writer, b SessionRequest) {
	w.WriteDynUint(uint64(len(b.Keys)))
	for _, k := range b.Keys {
		w.WriteBytes(k)
	}
	w.WriteBool(b.PSKExpiration != nil)
	if b.PSKExpiration != nil {
		w.WriteUint32(*b.PSKExpiration)
	}
}

func decodeSessionRequest(r *bitio.Reader, flags uint8, keyLen int) (SessionRequest, error) {
	n, err := r.ReadDynUint()
	if err != nil {
		return SessionRequest{}, err
	}
	keys := make([][]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		k, err := r.ReadBytes(keyLen)
		if err != nil {
			return SessionRequest{}, err
		}
		keys = append(keys, k)
	}
	hasExp, err := r.ReadBool()
	if err != nil {
		return SessionRequest{}, err
	}
	var exp *uint32
	if hasExp {
		v, err := r.ReadUint32()
		if err != nil {
			return SessionRequest{}, err
		}
		exp = &v
	}
	return SessionRequest{
		PersistKey:       getFlag(flags, sessPersistKey),
		EnableEncryption: getFlag(flags, sessEnableEncryption),
		WithSalt:         getFlag(flags, sessWithSalt),
		RequestSalt:      getFlag(flags, sessRequestSalt),
		Keys:             keys,
		PSKExpiration:    exp,
	}, nil
}

// bucketKeyRequest is the common shape of Get/Put/Delete/Subscribe/
// Unsubscribe: a bucket id, a key list, and an optional "until" key
// for range mode (§3 "bucket id (16 B), key list or range").
type bucketKeyRequest struct {
	BucketID BucketID
	Keys     [][]byte
	Until    []byte
}

func encodeBucketKeyRequest(w *bitio.Writer, b bucketKeyRequest, rangeModeUntil bool) {
	writeBucketID(w, b.BucketID)
	writeKeyList(w, b.Keys)
	writeOptionalUntilKey(w, rangeModeUntil, b.Until)
}

func decodeBucketKeyRequest(r *bitio.Reader, rangeModeUntil bool) (bucketKeyRequest, error) {
	id, err := readBucketID(r)
	if err != nil {
		return bucketKeyRequest{}, err
	}
	keys, err := readKeyList(r)
	if err != nil {
		return bucketKeyRequest{}, err
	}
	until, err := readOptionalUntilKey(r, rangeModeUntil)
	if err != nil {
		return bucketKeyRequest{}, err
	}
	return bucketKeyRequest{BucketID: id, Keys: keys, Until: until}, nil
}

// GetRequest: §6.1 tag 2.
type GetRequest struct {
	BinaryKeys     bool
	Subscribe      bool
	RangeModeUntil bool
	BucketID       BucketID
	Keys           [][]byte
	Until          []byte
}

func (b GetRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, getBinaryKeys, b.BinaryKeys)
	f = setFlag(f, getSubscribe, b.Subscribe)
	f = setFlag(f, getRangeModeUntil, b.RangeModeUntil)
	return f
}

func encodeGetRequest(w *bitio.Writer, b GetRequest) {
	encodeBucketKeyRequest(w, bucketKeyRequest{b.BucketID, b.Keys, b.Until}, b.RangeModeUntil)
}

func decodeGetRequest(r *bitio.Reader, flags uint8) (GetRequest, error) {
	rangeMode := getFlag(flags, getRangeModeUntil)
	bk, err := decodeBucketKeyRequest(r, rangeMode)
	if err != nil {
		return GetRequest{}, err
	}
	return GetRequest{
		BinaryKeys:     getFlag(flags, getBinaryKeys),
		Subscribe:      getFlag(flags, getSubscribe),
		RangeModeUntil: rangeMode,
		BucketID:       bk.BucketID,
		Keys:           bk.Keys,
		Until:          bk.Until,
	}, nil
}

// StreamRequest: §6.1 tag 3.
type StreamRequest struct {
	BinaryKeys     bool
	Subscribe      bool
	RangeModeUntil bool
	StreamAppend   bool
	BucketID       BucketID
	Keys           [][]byte
	Until          []byte
}

func (b StreamRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, streamBinaryKeys, b.BinaryKeys)
	f = setFlag(f, streamSubscribe, b.Subscribe)
	f = setFlag(f, streamRangeModeUntil, b.RangeModeUntil)
	f = setFlag(f, streamAppend, b.StreamAppend)
	return f
}

func encodeStreamRequest(w *bitio.Writer, b StreamRequest) {
	encodeBucketKeyRequest(w, bucketKeyRequest{b.BucketID, b.Keys, b.Until}, b.RangeModeUntil)
}

func decodeStreamRequest(r *bitio.Reader, flags uint8) (StreamRequest, error) {
	rangeMode := getFlag(flags, streamRangeModeUntil)
	bk, err := decodeBucketKeyRequest(r, rangeMode)
	if err != nil {
		return StreamRequest{}, err
	}
	return StreamRequest{
		BinaryKeys:     getFlag(flags, streamBinaryKeys),
		Subscribe:      getFlag(flags, streamSubscribe),
		RangeModeUntil: rangeMode,
		StreamAppend:   getFlag(flags, streamAppend),
		BucketID:       bk.BucketID,
		Keys:           bk.Keys,
		Until:          bk.Until,
	}, nil
}

// PostRequest: §6.1 tag 4, creates a new bucket.
type PostRequest struct {
	BinaryKeys     bool
	Subscribe      bool
	RangeModeUntil bool
	DoNotPersist   bool
	BucketID       BucketID
	Keys           [][]byte
	Until          []byte
}

func (b PostRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, postBinaryKeys, b.BinaryKeys)
	f = setFlag(f, postSubscribe, b.Subscribe)
	f = setFlag(f, postRangeModeUntil, b.RangeModeUntil)
	f = setFlag(f, postDoNotPersist, b.DoNotPersist)
	return f
}

func encodePostRequest(w *bitio.Writer, b PostRequest) {
	encodeBucketKeyRequest(w, bucketKeyRequest{b.BucketID, b.Keys, b.Until}, b.RangeModeUntil)
}

func decodePostRequest(r *bitio.Reader, flags uint8) (PostRequest, error) {
	rangeMode := getFlag(flags, postRangeModeUntil)
	bk, err := decodeBucketKeyRequest(r, rangeMode)
	if err != nil {
		return PostRequest{}, err
	}
	return PostRequest{
		BinaryKeys:     getFlag(flags, postBinaryKeys),
		Subscribe:      getFlag(flags, postSubscribe),
		RangeModeUntil: rangeMode,
		DoNotPersist:   getFlag(flags, postDoNotPersist),
		BucketID:       bk.BucketID,
		Keys:           bk.Keys,
		Until:          bk.Until,
	}, nil
}

// PatchRequest: §6.1 tag 5, no flags.
type PatchRequest struct {
	BucketID BucketID
	Settings []byte // opaque settings blob, "until end of packet"
}

func encodePatchRequest(w *bitio.Writer, b PatchRequest) {
	writeBucketID(w, b.BucketID)
	w.WriteBytes(b.Settings)
}

func decodePatchRequest(r *bitio.Reader) (PatchRequest, error) {
	id, err := readBucketID(r)
	if err != nil {
		return PatchRequest{}, err
	}
	return PatchRequest{BucketID: id, Settings: r.ReadRemainingBytes()}, nil
}

// PutRequest: §6.1 tag 6. Values parallel Keys by index; in append
// mode Keys is empty and only Values is populated.
type PutRequest struct {
	BinaryKeys bool
	Subscribe  bool
	AssertKeys bool
	Append     bool
	BucketID   BucketID
	Keys       [][]byte
	Values     [][]byte
}

func (b PutRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, putBinaryKeys, b.BinaryKeys)
	f = setFlag(f, putSubscribe, b.Subscribe)
	f = setFlag(f, putAssertKeys, b.AssertKeys)
	f = setFlag(f, putAppend, b.Append)
	return f
}

func encodePutRequest(w *bitio.Writer, b PutRequest) {
	writeBucketID(w, b.BucketID)
	if !b.Append {
		writeKeyList(w, b.Keys)
	}
	writeKeyList(w, b.Values)
}

func decodePutRequest(r *bitio.Reader, flags uint8) (PutRequest, error) {
	id, err := readBucketID(r)
	if err != nil {
		return PutRequest{}, err
	}
	append_ := getFlag(flags, putAppend)
	var keys [][]byte
	if !append_ {
		keys, err = readKeyList(r)
		if err != nil {
			return PutRequest{}, err
		}
	}
	values, err := readKeyList(r)
	if err != nil {
		return PutRequest{}, err
	}
	return PutRequest{
		BinaryKeys: getFlag(flags, putBinaryKeys),
		Subscribe:  getFlag(flags, putSubscribe),
		AssertKeys: getFlag(flags, putAssertKeys),
		Append:     append_,
		BucketID:   id,
		Keys:       keys,
		Values:     values,
	}, nil
}

// DeleteRequest: §6.1 tag 7.
type DeleteRequest struct {
	BinaryKeys     bool
	RangeModeUntil bool
	BucketID       BucketID
	Keys           [][]byte
	Until          []byte
}

func (b DeleteRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, delBinaryKeys, b.BinaryKeys)
	f = setFlag(f, delRangeModeUntil, b.RangeModeUntil)
	return f
}

func encodeDeleteRequest(w *bitio.Writer, b DeleteRequest) {
	encodeBucketKeyRequest(w, bucketKeyRequest{b.BucketID, b.Keys, b.Until}, b.RangeModeUntil)
}

func decodeDeleteRequest(r *bitio.Reader, flags uint8) (DeleteRequest, error) {
	rangeMode := getFlag(flags, delRangeModeUntil)
	bk, err := decodeBucketKeyRequest(r, rangeMode)
	if err != nil {
		return DeleteRequest{}, err
	}
	return DeleteRequest{
		BinaryKeys:     getFlag(flags, delBinaryKeys),
		RangeModeUntil: rangeMode,
		BucketID:       bk.BucketID,
		Keys:           bk.Keys,
		Until:          bk.Until,
	}, nil
}

// SubscribeRequest: §6.1 tag 8.
type SubscribeRequest struct {
	BinaryKeys     bool
	RangeModeUntil bool
	BucketID       BucketID
	Keys           [][]byte
	Until          []byte
}

func (b SubscribeRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, subBinaryKeys, b.BinaryKeys)
	f = setFlag(f, subRangeModeUntil, b.RangeModeUntil)
	return f
}

func encodeSubscribeRequest(w *bitio.Writer, b SubscribeRequest) {
	encodeBucketKeyRequest(w, bucketKeyRequest{b.BucketID, b.Keys, b.Until}, b.RangeModeUntil)
}

func decodeSubscribeRequest(r *bitio.Reader, flags uint8) (SubscribeRequest, error) {
	rangeMode := getFlag(flags, subRangeModeUntil)
	bk, err := decodeBucketKeyRequest(r, rangeMode)
	if err != nil {
		return SubscribeRequest{}, err
	}
	return SubscribeRequest{
		BinaryKeys:     getFlag(flags, subBinaryKeys),
		RangeModeUntil: rangeMode,
		BucketID:       bk.BucketID,
		Keys:           bk.Keys,
		Until:          bk.Until,
	}, nil
}

// UnsubscribeRequest: §6.1 tag 9.
type UnsubscribeRequest struct {
	BinaryKeys     bool
	RangeModeUntil bool
	BucketID       BucketID
	Keys           [][]byte
	Until          []byte
}

func (b UnsubscribeRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, unsubBinaryKeys, b.BinaryKeys)
	f = setFlag(f, unsubRangeModeUntil, b.RangeModeUntil)
	return f
}

func encodeUnsubscribeRequest(w *bitio.Writer, b UnsubscribeRequest) {
	encodeBucketKeyRequest(w, bucketKeyRequest{b.BucketID, b.Keys, b.Until}, b.RangeModeUntil)
}

func decodeUnsubscribeRequest(r *bitio.Reader, flags uint8) (UnsubscribeRequest, error) {
	rangeMode := getFlag(flags, unsubRangeModeUntil)
	bk, err := decodeBucketKeyRequest(r, rangeMode)
	if err != nil {
		return UnsubscribeRequest{}, err
	}
	return UnsubscribeRequest{
		BinaryKeys:     getFlag(flags, unsubBinaryKeys),
		RangeModeUntil: rangeMode,
		BucketID:       bk.BucketID,
		Keys:           bk.Keys,
		Until:          bk.Until,
	}, nil
}

// RegisterRequest: §6.1 tag 10, no flags. Carries the caller's
// identity public key "until end of packet".
type RegisterRequest struct {
	PublicKey []byte
}

func encodeRegisterRequest(w *bitio.Writer, b RegisterRequest) { w.WriteBytes(b.PublicKey) }

func decodeRegisterRequest(r *bitio.Reader) (RegisterRequest, error) {
	return RegisterRequest{PublicKey: r.ReadRemainingBytes()}, nil
}

// IdentifyRequest: §6.1 tag 11, no flags, no body (scenario 1: the
// plaintext is the header byte alone).
type IdentifyRequest struct{}

func encodeIdentifyRequest(*bitio.Writer, IdentifyRequest) {}

func decodeIdentifyRequest(*bitio.Reader) (IdentifyRequest, error) { return IdentifyRequest{}, nil }

// ProxyRequest: §6.1 tag 12.
type ProxyRequest struct {
	InitSession      bool
	KeepConnection   bool
	SelectRandomHops bool
	Route            [][]byte // hop identifiers, until end of packet
}

func (b ProxyRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, proxyInitSession, b.InitSession)
	f = setFlag(f, proxyKeepConnection, b.KeepConnection)
	f = setFlag(f, proxySelectRandomHops, b.SelectRandomHops)
	return f
}

func encodeProxyRequest(w *bitio.Writer, b ProxyRequest) { writeKeyList(w, b.Route) }

func decodeProxyRequest(r *bitio.Reader, flags uint8) (ProxyRequest, error) {
	route, err := readKeyList(r)
	if err != nil {
		return ProxyRequest{}, err
	}
	return ProxyRequest{
		InitSession:      getFlag(flags, proxyInitSession),
		KeepConnection:   getFlag(flags, proxyKeepConnection),
		SelectRandomHops: getFlag(flags, proxySelectRandomHops),
		Route:            route,
	}, nil
}

// ReservedRequest round-trips an unknown tag's body unchanged (§6.1
// "reserved tags must round-trip unchanged").
type ReservedRequest struct {
	Raw []byte
}

func encodeReservedRequest(w *bitio.Writer, b ReservedRequest) { w.WriteBytes(b.Raw) }

func decodeReservedRequest(r *bitio.Reader) (ReservedRequest, error) {
	return ReservedRequest{Raw: r.ReadRemainingBytes()}, nil
}

// OpcodeRequest: §6.1 tag 14, wraps an OpcodeScript (§3 "an
// OpcodeScript (a sequence of typed instructions)").
type OpcodeRequest struct {
	AllowBucketOperations bool
	AllowEval             bool
	Script                script.OpcodeScript
}

func (b OpcodeRequest) flags() uint8 {
	f := uint8(0)
	f = setFlag(f, opcodeAllowBucketOps, b.AllowBucketOperations)
	f = setFlag(f, opcodeAllowEval, b.AllowEval)
	return f
}

func encodeOpcodeRequest(w *bitio.Writer, b OpcodeRequest) error {
	return script.EncodeScript(w, b.Script)
}

func decodeOpcodeRequest(r *bitio.Reader, flags uint8) (OpcodeRequest, error) {
	s, err := script.DecodeScript(r)
	if err != nil {
		return OpcodeRequest{}, err
	}
	return OpcodeRequest{
		AllowBucketOperations: getFlag(flags, opcodeAllowBucketOps),
		AllowEval:             getFlag(flags, opcodeAllowEval),
		Script:                s,
	}, nil
}
