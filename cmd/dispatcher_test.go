package cmd_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/mwantia/litedb/cmd"
)

type fakeCommand struct {
	name    string
	pattern *regexp.Regexp
	execute func(scanner *cmd.Scanner) (*cmd.Result, error)
	calls   int
}

func (fc *fakeCommand) Name() string        { return fc.name }
func (fc *fakeCommand) Description() string { return "" }
func (fc *fakeCommand) Usage() string       { return fc.name }

func (fc *fakeCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(fc.pattern)
}

func (fc *fakeCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	fc.calls++
	if fc.execute == nil {
		return nil, nil
	}
	return fc.execute(scanner)
}

func newFakeCommand(name, pattern string) *fakeCommand {
	return &fakeCommand{name: name, pattern: regexp.MustCompile(pattern)}
}

func TestScanner(t *testing.T) {
	word := regexp.MustCompile(`^(\w+)`)
	scanner := cmd.NewScanner("  fs.update   123  {\"a\": 1}  ")

	if scanner.Input() != "fs.update   123  {\"a\": 1}" {
		t.Errorf("Expected trimmed input, got %q", scanner.Input())
	}
	if !scanner.Match(regexp.MustCompile(`^fs\.update`)) {
		t.Error("Expected match at start of input")
	}
	if scanner.Match(regexp.MustCompile(`update`)) {
		t.Error("Expected unanchored match past the cursor to be rejected")
	}

	if keyword, ok := scanner.Scan(regexp.MustCompile(`^fs\.update`)); !ok || keyword != "fs.update" {
		t.Errorf("Expected 'fs.update', got %q (%v)", keyword, ok)
	}
	if id, ok := scanner.Scan(word); !ok || id != "123" {
		t.Errorf("Expected '123', got %q (%v)", id, ok)
	}
	if _, ok := scanner.Scan(word); ok {
		t.Error("Expected no word at '{'")
	}
	if rest := scanner.Remaining(); rest != "{\"a\": 1}" {
		t.Errorf("Expected JSON literal, got %q", rest)
	}
	if !scanner.EOF() {
		t.Error("Expected EOF after Remaining")
	}

	scanner.Reset()
	if scanner.EOF() || !scanner.Match(regexp.MustCompile(`^fs`)) {
		t.Error("Expected Reset to rewind to the start")
	}
}

func TestDispatcher_RegistrationOrder(t *testing.T) {
	d := cmd.NewDispatcher(nil, nil)

	broad := newFakeCommand("broad", `(?i)^fs\.`)
	narrow := newFakeCommand("narrow", `(?i)^fs\.info`)

	if err := d.Register(broad); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := d.Register(narrow); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := d.Register(newFakeCommand("broad", `^x`)); err == nil {
		t.Error("Expected duplicate name to be rejected")
	}
	if err := d.Register(nil); err == nil {
		t.Error("Expected nil command to be rejected")
	}

	// The first registered match wins
	matched, ok := d.Match("fs.info x")
	if !ok || matched.Name() != "broad" {
		t.Errorf("Expected 'broad' to win, got %v", matched)
	}

	if err := d.Unregister("broad"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	matched, ok = d.Match("fs.info x")
	if !ok || matched.Name() != "narrow" {
		t.Errorf("Expected 'narrow' after unregister, got %v", matched)
	}

	if names := d.List(); len(names) != 1 {
		t.Errorf("Expected 1 command, got %d", len(names))
	}
	if _, err := d.Get("broad"); err == nil {
		t.Error("Expected unregistered command to be gone")
	}
}

func TestDispatcher_Execute(t *testing.T) {
	ctx := t.Context()
	d := cmd.NewDispatcher(nil, nil)

	echo := newFakeCommand("echo", `(?i)^echo\b`)
	echo.execute = func(scanner *cmd.Scanner) (*cmd.Result, error) {
		// Execute always starts from the beginning of the input
		if _, ok := scanner.Scan(regexp.MustCompile(`(?i)^echo`)); !ok {
			return nil, errors.New("scanner not reset")
		}
		return cmd.ScalarResult(scanner.Remaining()), nil
	}
	d.Register(echo)

	result, err := d.Execute(ctx, "ECHO hello world")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Kind != cmd.ResultScalar || result.Scalar != "hello world" {
		t.Errorf("Expected scalar 'hello world', got %v", result)
	}

	_, err = d.Execute(ctx, "frobnicate")
	if !errors.Is(err, cmd.ErrUnrecognizedCommand) {
		t.Errorf("Expected ErrUnrecognizedCommand, got %v", err)
	}
	if _, err := d.Execute(ctx, "   "); !errors.Is(err, cmd.ErrUnrecognizedCommand) {
		t.Errorf("Expected ErrUnrecognizedCommand for empty input, got %v", err)
	}

	// A nil result is reported as null
	d.Register(newFakeCommand("noop", `^noop$`))
	if result, _ := d.Execute(ctx, "noop"); !result.IsNull() {
		t.Errorf("Expected null result, got %v", result)
	}
}

func TestDispatcher_RunNeverPanics(t *testing.T) {
	ctx := t.Context()
	d := cmd.NewDispatcher(nil, nil)

	boom := newFakeCommand("boom", `^boom$`)
	boom.execute = func(*cmd.Scanner) (*cmd.Result, error) {
		panic("kaboom")
	}
	fail := newFakeCommand("fail", `^fail$`)
	fail.execute = func(*cmd.Scanner) (*cmd.Result, error) {
		return nil, errors.New("nope")
	}
	d.Register(boom)
	d.Register(fail)

	for _, input := range []string{"boom", "fail", "frobnicate"} {
		result := d.Run(ctx, input)
		if result.Kind != cmd.ResultError || result.Error == "" {
			t.Errorf("Expected error result for %q, got %v", input, result)
		}
	}

	// The dispatcher stays usable after a panic
	if result := d.Run(ctx, "fail"); result.Kind != cmd.ResultError {
		t.Errorf("Expected dispatcher to keep working, got %v", result)
	}
}

func TestResult_Rendering(t *testing.T) {
	tests := []struct {
		result *cmd.Result
		want   string
	}{
		{cmd.NullResult(), `null`},
		{cmd.ScalarResult(true), `true`},
		{cmd.DocumentResult(nil), `null`},
		{cmd.DocumentResult(map[string]any{"a": 1}), `{"a":1}`},
		{cmd.ArrayResult(nil), `[]`},
		{cmd.ErrorResult(errors.New("bad")), `{"error":"bad"}`},
	}

	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("Expected %s for %s result, got %s", tt.want, tt.result.Kind, got)
		}
	}
}
