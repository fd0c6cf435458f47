package builtin

import (
	"context"
	"regexp"

	"github.com/mwantia/litedb/cmd"
)

var infoPattern = regexp.MustCompile(`(?i)^db\.info$`)

type InfoCommand struct {
}

func (c *InfoCommand) Name() string {
	return "db.info"
}

func (c *InfoCommand) Description() string {
	return "Shows backend, cache and collection diagnostics"
}

func (c *InfoCommand) Usage() string {
	return "db.info"
}

func (c *InfoCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(infoPattern)
}

func (c *InfoCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(infoPattern)

	info, err := api.Info(ctx)
	if err != nil {
		return nil, err
	}
	return cmd.DocumentResult(info), nil
}
