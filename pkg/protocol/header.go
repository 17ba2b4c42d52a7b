// Package protocol implements the fixed 12-byte control header prefixed to
// every message on the vhost-user GPU channel: construction, flag handling,
// wire encoding/decoding and request/reply correlation. Payload bodies,
// socket framing and file-descriptor passing belong to the transport built
// on top of this package.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"vhost-gpu-go/pkg/protocol/spec"

	"github.com/rs/zerolog"
)

// HeaderSize is the fixed wire size of a control header:
// request (4) + flags (4) + size (4), no padding.
const HeaderSize = 12

var (
	// ErrInvalidMessage reports a request field that decodes to no known code.
	ErrInvalidMessage = errors.New("protocol: invalid message request code")
	// ErrShortHeader reports a buffer smaller than HeaderSize.
	ErrShortHeader = errors.New("protocol: short header")
)

// DecodeRequest maps a wire value back into the code set R. It is the
// receiving half of the registry contract; the sending half is the plain
// uint32 conversion, total by construction.
func DecodeRequest[R spec.Request](value uint32) (R, error) {
	r := R(value)
	if !r.Known() {
		var zero R
		return zero, ErrInvalidMessage
	}
	return r, nil
}

// Header is the 12-byte record at the front of every control message. The
// type parameter pins which request-code set the header is valid against; it
// occupies no wire bytes, so headers for different directions of the channel
// share the layout but not the type. Two headers are equal iff their three
// fields are equal; plain == works.
type Header[R spec.Request] struct {
	request uint32
	flags   uint32
	size    uint32
}

// NewHeader builds the header for one outgoing message. Caller flags outside
// the defined set are dropped and the version bit is forced on. The request
// code is stored unvalidated so the same shape can also hold raw bytes read
// off the wire; validity is a separate, explicit step.
func NewHeader[R spec.Request](request R, flags HeaderFlag, size uint32) Header[R] {
	return Header[R]{
		request: uint32(request),
		flags:   uint32((flags & headerFlagMask) | FlagVersion),
		size:    size,
	}
}

// DefaultHeader returns the protocol default: no request, version bit only,
// zero size.
func DefaultHeader[R spec.Request]() Header[R] {
	return Header[R]{flags: uint32(FlagVersion)}
}

// Code decodes the stored request field against R's code set.
func (h *Header[R]) Code() (R, error) {
	return DecodeRequest[R](h.request)
}

// IsValid reports whether the request field holds a known code. Flags and
// size carry no validity constraint here; the maximum message size is
// enforced by the transport.
func (h *Header[R]) IsValid() bool {
	_, err := h.Code()
	return err == nil
}

// IsReply reports whether the reply bit is set.
func (h *Header[R]) IsReply() bool {
	return HeaderFlag(h.flags).Has(FlagReply)
}

// SetReply sets or clears the reply bit.
func (h *Header[R]) SetReply(isReply bool) {
	h.flags = uint32(HeaderFlag(h.flags).With(FlagReply, isReply))
}

// Size returns the declared byte length of the payload following the header.
func (h *Header[R]) Size() uint32 {
	return h.size
}

// SetSize declares the payload byte length. No range check here.
func (h *Header[R]) SetSize(size uint32) {
	h.size = size
}

// IsReplyFor reports whether h is the reply to req: both codes decode, the
// codes match, h carries the reply bit and req does not. This is the only
// correlation mechanism on the channel; there are no sequence numbers.
func (h *Header[R]) IsReplyFor(req *Header[R]) bool {
	code, err := h.Code()
	if err != nil {
		return false
	}
	reqCode, err := req.Code()
	if err != nil {
		return false
	}
	return h.IsReply() && !req.IsReply() && code == reqCode
}

// MarshalBinary encodes the header into its 12-byte wire form. All fields
// are little-endian.
func (h *Header[R]) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	if err := h.MarshalBinaryTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// MarshalBinaryTo encodes the header into the first HeaderSize bytes of buf.
func (h *Header[R]) MarshalBinaryTo(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrShortHeader
	}
	binary.LittleEndian.PutUint32(buf[0:4], h.request)
	binary.LittleEndian.PutUint32(buf[4:8], h.flags)
	binary.LittleEndian.PutUint32(buf[8:12], h.size)
	return nil
}

// UnmarshalBinary decodes a header from buf without validating the request
// field; call IsValid or Code afterwards.
func (h *Header[R]) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrShortHeader
	}
	h.request = binary.LittleEndian.Uint32(buf[0:4])
	h.flags = binary.LittleEndian.Uint32(buf[4:8])
	h.size = binary.LittleEndian.Uint32(buf[8:12])
	return nil
}

func (h Header[R]) String() string {
	return fmt.Sprintf("Header{request: %d (%s), flags: %#x, size: %d}",
		h.request, R(h.request), h.flags, h.size)
}

// MarshalZerologObject renders the header as a structured log object.
func (h Header[R]) MarshalZerologObject(e *zerolog.Event) {
	e.Uint32("request", h.request).
		Str("code", R(h.request).String()).
		Uint32("flags", h.flags).
		Uint32("size", h.size)
}
