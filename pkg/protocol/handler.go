package protocol

import (
	"fmt"

	"vhost-gpu-go/pkg/protocol/spec"
)

// Handler consumes one message: its header plus the raw payload bytes that
// followed it on the socket. Payload parsing stays with the handler; the
// dispatch layer never inspects the bytes.
type Handler[R spec.Request] func(h Header[R], payload []byte) error

// HandlerMap routes messages to handlers by decoded request code.
type HandlerMap[R spec.Request] map[R]Handler[R]

// Dispatch decodes the header's request code and invokes the matching
// handler. An unknown code surfaces ErrInvalidMessage; a known code with no
// handler gets its own error so callers can tell wire garbage from
// unimplemented requests.
func (m HandlerMap[R]) Dispatch(h Header[R], payload []byte) error {
	code, err := h.Code()
	if err != nil {
		return err
	}
	fn, ok := m[code]
	if !ok {
		return fmt.Errorf("no handler registered for request %s", code)
	}
	return fn(h, payload)
}
