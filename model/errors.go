package model

import (
	"github.com/pkg/errors"
)

// Kind classifies a failure by the pipeline stage it happened in.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindParse
	KindStore
	KindNotify
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindParse:
		return "parse error"
	case KindStore:
		return "store error"
	case KindNotify:
		return "notify error"
	}
	return "unknown error"
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Cause() error  { return e.Err }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func NetworkError(op string, err error) error { return newError(KindNetwork, op, err) }
func ParseError(op string, err error) error   { return newError(KindParse, op, err) }
func StoreError(op string, err error) error   { return newError(KindStore, op, err) }
func NotifyError(op string, err error) error  { return newError(KindNotify, op, err) }

// KindOf returns the kind of the outermost *Error in the chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
