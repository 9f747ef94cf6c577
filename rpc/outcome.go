package rpc

import (
	"errors"
	"fmt"
)

// Kind classifies the terminal result of a session.
type Kind int

const (
	Success Kind = iota
	ConnectionFailure
	ProtocolFailure
	Timeout
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ConnectionFailure:
		return "connection_failure"
	case ProtocolFailure:
		return "protocol_failure"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors matching the non-success kinds.
var (
	ErrConnection = errors.New("connection failure")
	ErrProtocol   = errors.New("protocol failure")
	ErrTimeout    = errors.New("timeout")
)

// Outcome is the single result a session produces: Success carries Text,
// every other kind carries Message.
type Outcome struct {
	Kind    Kind
	Text    string
	Message string
}

// Succeeded builds a Success outcome.
func Succeeded(text string) Outcome {
	return Outcome{Kind: Success, Text: text}
}

// Failed builds a failure outcome of the given kind.
func Failed(kind Kind, format string, args ...any) Outcome {
	return Outcome{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// OK reports whether the outcome is a Success.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

// Display returns the text shown to the caller: the result on success,
// the failure message otherwise.
func (o Outcome) Display() string {
	if o.OK() {
		return o.Text
	}
	return o.Message
}

// Err returns nil on success, or an error wrapping the sentinel for Kind.
func (o Outcome) Err() error {
	var base error
	switch o.Kind {
	case Success:
		return nil
	case ConnectionFailure:
		base = ErrConnection
	case ProtocolFailure:
		base = ErrProtocol
	case Timeout:
		base = ErrTimeout
	default:
		base = ErrProtocol
	}
	return fmt.Errorf("%w: %s", base, o.Message)
}
