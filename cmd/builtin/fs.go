package builtin

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mwantia/litedb/cmd"
	"github.com/mwantia/litedb/data"
)

var (
	fsUpdatePattern = regexp.MustCompile(`(?i)^fs\.update\s+`)
	fsInfoPattern   = regexp.MustCompile(`(?i)^fs\.info\s+`)
	fsFindPattern   = regexp.MustCompile(`(?i)^fs\.find(\s+|$)`)
	fsDeletePattern = regexp.MustCompile(`(?i)^fs\.delete\s+`)

	fileIDPattern = regexp.MustCompile(`^\S+`)
)

// scanFileID reads the file id following the command keyword.
func scanFileID(scanner *cmd.Scanner) (data.ID, error) {
	id, ok := scanner.Scan(fileIDPattern)
	if !ok {
		return "", fmt.Errorf("%w: missing file id", data.ErrInvalidFileID)
	}
	return data.ID(id), nil
}

type FsUpdateCommand struct {
}

func (c *FsUpdateCommand) Name() string {
	return "fs.update"
}

func (c *FsUpdateCommand) Description() string {
	return "Replaces the metadata of a stored file"
}

func (c *FsUpdateCommand) Usage() string {
	return "fs.update <id> <json-document>"
}

func (c *FsUpdateCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(fsUpdatePattern)
}

func (c *FsUpdateCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(fsUpdatePattern)

	id, err := scanFileID(scanner)
	if err != nil {
		return nil, err
	}

	metadata, err := data.ParseDocument(scanner.Remaining())
	if err != nil {
		return nil, err
	}

	info, found, err := api.SetFileMetadata(ctx, id, metadata)
	if err != nil {
		return nil, err
	}
	if !found {
		return cmd.NullResult(), nil
	}
	return cmd.DocumentResult(info.Metadata), nil
}

type FsInfoCommand struct {
}

func (c *FsInfoCommand) Name() string {
	return "fs.info"
}

func (c *FsInfoCommand) Description() string {
	return "Shows the stored information of a file"
}

func (c *FsInfoCommand) Usage() string {
	return "fs.info <id>"
}

func (c *FsInfoCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(fsInfoPattern)
}

func (c *FsInfoCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(fsInfoPattern)

	id, err := scanFileID(scanner)
	if err != nil {
		return nil, err
	}

	info, found, err := api.FileInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return cmd.NullResult(), nil
	}

	doc, err := info.ToDocument()
	if err != nil {
		return nil, err
	}
	return cmd.DocumentResult(doc), nil
}

type FsFindCommand struct {
}

func (c *FsFindCommand) Name() string {
	return "fs.find"
}

func (c *FsFindCommand) Description() string {
	return "Lists stored files, optionally limited to an id prefix"
}

func (c *FsFindCommand) Usage() string {
	return "fs.find [prefix]"
}

func (c *FsFindCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(fsFindPattern)
}

func (c *FsFindCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(fsFindPattern)

	infos, err := api.FindFiles(ctx, scanner.Remaining())
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(infos))
	for _, info := range infos {
		doc, err := info.ToDocument()
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	return cmd.ArrayResult(items), nil
}

type FsDeleteCommand struct {
}

func (c *FsDeleteCommand) Name() string {
	return "fs.delete"
}

func (c *FsDeleteCommand) Description() string {
	return "Deletes a stored file with all its chunks"
}

func (c *FsDeleteCommand) Usage() string {
	return "fs.delete <id>"
}

func (c *FsDeleteCommand) Matches(scanner *cmd.Scanner) bool {
	return scanner.Match(fsDeletePattern)
}

func (c *FsDeleteCommand) Execute(ctx context.Context, api cmd.API, scanner *cmd.Scanner) (*cmd.Result, error) {
	scanner.Scan(fsDeletePattern)

	id, err := scanFileID(scanner)
	if err != nil {
		return nil, err
	}

	deleted, err := api.DeleteFile(ctx, id)
	if err != nil {
		return nil, err
	}
	return cmd.ScalarResult(deleted), nil
}
