package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mwantia/litedb/log"
)

var ErrUnrecognizedCommand = errors.New("litedb: unrecognized command")

// Dispatcher selects the first registered command accepting an input line and executes it.
// Commands are tried in registration order.
type Dispatcher struct {
	mu       sync.Mutex
	api      API
	log      *log.Logger
	commands []Command
}

// NewDispatcher creates a dispatcher executing commands against api.
// A nil logger discards all output.
func NewDispatcher(api API, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Discard()
	}

	return &Dispatcher{
		api: api,
		log: logger.Named("shell"),
	}
}

// Register appends cmd to the ordered command list.
func (d *Dispatcher) Register(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}

	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexUnsafe(name) >= 0 {
		return fmt.Errorf("command already registered: %s", name)
	}

	d.commands = append(d.commands, cmd)
	return nil
}

// Unregister removes a registered command
func (d *Dispatcher) Unregister(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexUnsafe(name)
	if i < 0 {
		return fmt.Errorf("command not found: %s", name)
	}

	d.commands = append(d.commands[:i], d.commands[i+1:]...)
	return nil
}

// Get returns a command by name
func (d *Dispatcher) Get(name string) (Command, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexUnsafe(name)
	if i < 0 {
		return nil, fmt.Errorf("command not found: %s", name)
	}
	return d.commands[i], nil
}

// List returns all registered commands in registration order
func (d *Dispatcher) List() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()

	commands := make([]Command, len(d.commands))
	copy(commands, d.commands)
	return commands
}

// Match returns the command that would execute input.
func (d *Dispatcher) Match(input string) (Command, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmd := d.matchUnsafe(NewScanner(input))
	return cmd, cmd != nil
}

// Execute runs the first command matching input.
// Only one command executes at a time.
func (d *Dispatcher) Execute(ctx context.Context, input string) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	scanner := NewScanner(input)
	if scanner.EOF() {
		return nil, fmt.Errorf("%w: empty input", ErrUnrecognizedCommand)
	}

	cmd := d.matchUnsafe(scanner)
	if cmd == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedCommand, scanner.Input())
	}

	scanner.Reset()
	d.log.Debug("Executing '%s' for: %s", cmd.Name(), scanner.Input())

	result, err := cmd.Execute(ctx, d.api, scanner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	if result == nil {
		result = NullResult()
	}
	return result, nil
}

// Run is like Execute but reports errors and panics as an error result.
func (d *Dispatcher) Run(ctx context.Context, input string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Command panicked: %v", r)
			result = ErrorResult(fmt.Errorf("command panicked: %v", r))
		}
	}()

	result, err := d.Execute(ctx, input)
	if err != nil {
		d.log.Warn("Command failed: %v", err)
		return ErrorResult(err)
	}
	return result
}

// matchUnsafe MUST be called while holding the lock.
func (d *Dispatcher) matchUnsafe(scanner *Scanner) Command {
	for _, cmd := range d.commands {
		scanner.Reset()
		if cmd.Matches(scanner) {
			return cmd
		}
	}
	return nil
}

// indexUnsafe MUST be called while holding the lock.
func (d *Dispatcher) indexUnsafe(name string) int {
	for i, cmd := range d.commands {
		if cmd.Name() == name {
			return i
		}
	}
	return -1
}
