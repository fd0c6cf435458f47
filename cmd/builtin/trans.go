package builtin

import (
	"context"
	"regexp"

	"github.com/mwantia/litedb/cmd"
)

var (
	beginPattern    = regexp.MustCompile(`(?i)^begin(\s+trans)?$`)
	commitPattern   = regexp.MustCompile(`(?i)^commit(\s+trans)?$`)
	rollbackPattern = regexp.MustCompile(`(?i)^rollback(\s+trans)?$`)
)

type BeginCommand struct {
}

func (c *BeginCommand) Name() string {
	return "begin"
}

func (c *BeginCommand) Description() string {
	return "Starts a new transaction"
}

func (c *BeginCommand) Usage() string {
	return "begin [trans]"
}

func (c *BeginCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(beginPattern)
}

func (c *BeginCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(beginPattern)

	if _, err := api.BeginTrans(ctx); err != nil {
		return nil, err
	}
	return cmd.NullResult(), nil
}

type CommitCommand struct {
}

func (c *CommitCommand) Name() string {
	return "commit"
}

func (c *CommitCommand) Description() string {
	return "Commits the current transaction"
}

func (c *CommitCommand) Usage() string {
	return "commit [trans]"
}

func (c *CommitCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(commitPattern)
}

func (c *CommitCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(commitPattern)

	if err := api.Commit(ctx); err != nil {
		return nil, err
	}
	return cmd.NullResult(), nil
}

type RollbackCommand struct {
}

func (c *RollbackCommand) Name() string {
	return "rollback"
}

func (c *RollbackCommand) Description() string {
	return "Undoes every write of the current transaction"
}

func (c *RollbackCommand) Usage() string {
	return "rollback [trans]"
}

func (c *RollbackCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(rollbackPattern)
}

func (c *RollbackCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(rollbackPattern)

	if err := api.Rollback(ctx); err != nil {
		return nil, err
	}
	return cmd.NullResult(), nil
}
