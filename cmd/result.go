package cmd

import (
	"github.com/goccy/go-json"
	"github.com/mwantia/litedb/data"
)

// ResultKind tells which field of a Result is set.
type ResultKind int

const (
	ResultNull ResultKind = iota
	ResultScalar
	ResultDocument
	ResultArray
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultNull:
		return "null"
	case ResultScalar:
		return "scalar"
	case ResultDocument:
		return "document"
	case ResultArray:
		return "array"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the value produced by a command.
type Result struct {
	Kind     ResultKind
	Scalar   any
	Document data.Document
	Array    []any
	Error    string
}

func NullResult() *Result {
	return &Result{Kind: ResultNull}
}

func ScalarResult(value any) *Result {
	return &Result{Kind: ResultScalar, Scalar: value}
}

// DocumentResult wraps doc, or returns a null result if doc is nil.
func DocumentResult(doc data.Document) *Result {
	if doc == nil {
		return NullResult()
	}
	return &Result{Kind: ResultDocument, Document: doc}
}

func ArrayResult(items []any) *Result {
	if items == nil {
		items = []any{}
	}
	return &Result{Kind: ResultArray, Array: items}
}

func ErrorResult(err error) *Result {
	return &Result{Kind: ResultError, Error: err.Error()}
}

// IsNull reports whether the result carries no value.
func (r *Result) IsNull() bool {
	return r == nil || r.Kind == ResultNull
}

func (r *Result) value() any {
	switch r.Kind {
	case ResultScalar:
		return r.Scalar
	case ResultDocument:
		return r.Document
	case ResultArray:
		return r.Array
	case ResultError:
		return map[string]string{"error": r.Error}
	default:
		return nil
	}
}

func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.value())
}

// Render returns the indented JSON form of the result, as printed by the shell.
func (r *Result) Render() string {
	if r.IsNull() {
		return "null"
	}

	raw, err := json.MarshalIndent(r.value(), "", "  ")
	if err != nil {
		return ErrorResult(err).Render()
	}
	return string(raw)
}

func (r *Result) String() string {
	raw, err := r.MarshalJSON()
	if err != nil {
		return err.Error()
	}
	return string(raw)
}
