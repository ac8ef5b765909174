package backend

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	// ErrTransport classifies network failures and timeouts.
	ErrTransport = errors.New("backend transport error")
	// ErrProtocol classifies responses that arrived but were rejected: falsy
	// status, non-2xx code or an unexpected shape.
	ErrProtocol = errors.New("backend protocol error")
)

// Error is what every failed call returns. Error() is the human message that
// ends up in store state.
type Error struct {
	Kind    error // ErrTransport or ErrProtocol
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportErr(op, msg string, err error) *Error {
	return &Error{Kind: ErrTransport, Op: op, Message: msg, Err: err}
}

func protocolErr(op, msg string, err error) *Error {
	return &Error{Kind: ErrProtocol, Op: op, Message: msg, Err: err}
}

// messageText picks message.en, then message.ar, then a plain string message.
func messageText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if raw[0] == '"' {
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
		return ""
	}
	var m struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	}
	if json.Unmarshal(raw, &m) != nil {
		return ""
	}
	if m.En != "" {
		return m.En
	}
	return m.Ar
}

// truthy follows the backend's loose "status" convention.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return true
	case 'f', 'n':
		return false
	case '"':
		var s string
		return json.Unmarshal(raw, &s) == nil && s != ""
	case '{', '[':
		return true
	}
	var n float64
	return json.Unmarshal(raw, &n) == nil && n != 0
}
