package builtin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwantia/litedb"
	"github.com/mwantia/litedb/backend/ephemeral"
	"github.com/mwantia/litedb/cmd"
	"github.com/mwantia/litedb/cmd/builtin"
	"github.com/mwantia/litedb/data"
	"github.com/mwantia/litedb/log"
)

// recordingAPI records the arguments commands pass to the database.
type recordingAPI struct {
	began     int
	updatedID data.ID
	metadata  data.Document
}

func (ra *recordingAPI) BeginTrans(ctx context.Context) (bool, error) {
	ra.began++
	return true, nil
}

func (ra *recordingAPI) Commit(ctx context.Context) error   { return nil }
func (ra *recordingAPI) Rollback(ctx context.Context) error { return nil }

func (ra *recordingAPI) Info(ctx context.Context) (data.Document, error) {
	return data.Document{"backend": "fake"}, nil
}

func (ra *recordingAPI) FileInfo(ctx context.Context, id data.ID) (*data.FileInfo, bool, error) {
	return nil, false, nil
}

func (ra *recordingAPI) FindFiles(ctx context.Context, prefix string) ([]*data.FileInfo, error) {
	return nil, nil
}

func (ra *recordingAPI) SetFileMetadata(ctx context.Context, id data.ID, metadata data.Document) (*data.FileInfo, bool, error) {
	ra.updatedID = id
	ra.metadata = metadata

	info := data.NewFileInfo(id, string(id))
	info.Metadata = metadata
	return info, true, nil
}

func (ra *recordingAPI) DeleteFile(ctx context.Context, id data.ID) (bool, error) {
	return false, nil
}

func newTestDispatcher(t *testing.T, api cmd.API) *cmd.Dispatcher {
	t.Helper()

	d := cmd.NewDispatcher(api, log.Discard())
	if err := builtin.InitBuiltin(d); err != nil {
		t.Fatalf("InitBuiltin failed: %v", err)
	}
	return d
}

func TestBuiltin_Matching(t *testing.T) {
	d := newTestDispatcher(t, &recordingAPI{})

	tests := []struct {
		input string
		want  string
	}{
		{"begin", "begin"},
		{"begin trans", "begin"},
		{"BEGIN   TRANS", "begin"},
		{"commit trans", "commit"},
		{"rollback", "rollback"},
		{"db.info", "db.info"},
		{"DB.INFO", "db.info"},
		{`fs.update 123 {"a":1}`, "fs.update"},
		{"fs.info photos/a.png", "fs.info"},
		{"fs.find", "fs.find"},
		{"fs.find photos/", "fs.find"},
		{"fs.delete photos/a.png", "fs.delete"},
	}

	for _, tt := range tests {
		matched, ok := d.Match(tt.input)
		if !ok {
			t.Errorf("Expected %q to match %q, matched nothing", tt.input, tt.want)
			continue
		}
		if matched.Name() != tt.want {
			t.Errorf("Expected %q to match %q, got %q", tt.input, tt.want, matched.Name())
		}
	}

	for _, input := range []string{"frobnicate", "begin transaction", "db.infos", "fs.update", "fs.findall", "fs.info"} {
		if matched, ok := d.Match(input); ok {
			t.Errorf("Expected %q to match nothing, got %q", input, matched.Name())
		}
	}
}

func TestBuiltin_MatchersAreExclusive(t *testing.T) {
	inputs := map[string]string{
		"begin trans":           "begin",
		"db.info":               "db.info",
		`fs.update 123 {"a":1}`: "fs.update",
	}

	for input, want := range inputs {
		for _, c := range builtin.Commands() {
			matches := c.Matches(cmd.NewScanner(input))
			if matches != (c.Name() == want) {
				t.Errorf("Expected %s.Matches(%q) = %v", c.Name(), input, c.Name() == want)
			}
		}
	}
}

func TestBuiltin_FsUpdateParsesArguments(t *testing.T) {
	api := &recordingAPI{}
	d := newTestDispatcher(t, api)

	result, err := d.Execute(t.Context(), `fs.update 123 {"a":1}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if api.updatedID != "123" {
		t.Errorf("Expected id '123', got %q", api.updatedID)
	}
	if len(api.metadata) != 1 || api.metadata["a"] != float64(1) {
		t.Errorf("Expected metadata {a:1}, got %v", api.metadata)
	}
	if result.Kind != cmd.ResultDocument || result.Document["a"] != float64(1) {
		t.Errorf("Expected metadata document result, got %v", result)
	}
}

func TestBuiltin_FsUpdateMalformedLiteral(t *testing.T) {
	api := &recordingAPI{}
	d := newTestDispatcher(t, api)

	for _, input := range []string{`fs.update 123 {"a":`, `fs.update 123`, `fs.update 123 [1]`} {
		if _, err := d.Execute(t.Context(), input); !errors.Is(err, data.ErrDeserialization) {
			t.Errorf("Expected ErrDeserialization for %q, got %v", input, err)
		}
	}
	if api.updatedID != "" {
		t.Errorf("Expected no update on malformed input, got %q", api.updatedID)
	}
}

func TestBuiltin_BeginAndInfo(t *testing.T) {
	api := &recordingAPI{}
	d := newTestDispatcher(t, api)

	result, err := d.Execute(t.Context(), "begin trans")
	if err != nil || !result.IsNull() {
		t.Errorf("Expected null result, got %v (%v)", result, err)
	}
	if api.began != 1 {
		t.Errorf("Expected 1 BeginTrans call, got %d", api.began)
	}

	result, err = d.Execute(t.Context(), "db.info")
	if err != nil || result.Kind != cmd.ResultDocument || result.Document["backend"] != "fake" {
		t.Errorf("Expected info document, got %v (%v)", result, err)
	}
}

func TestBuiltin_AgainstDatabase(t *testing.T) {
	ctx := t.Context()

	db, err := litedb.Open(ctx, ephemeral.NewEphemeralBackend(), litedb.WithLogger(log.Discard()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close(ctx)

	if _, err := db.FileStorage().Upload(ctx, "photos/a.png", "a.png", strings.NewReader("png")); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	d := newTestDispatcher(t, cmd.NewAPI(db))

	// Unknown file ids are not found, not an error
	if result := d.Run(ctx, `fs.update 123 {"a":1}`); !result.IsNull() {
		t.Errorf("Expected null for unknown file, got %v", result)
	}

	result := d.Run(ctx, `fs.update photos/a.png {"owner":"alice"}`)
	if result.Kind != cmd.ResultDocument || result.Document["owner"] != "alice" {
		t.Errorf("Expected updated metadata, got %v", result)
	}

	result = d.Run(ctx, "fs.info photos/a.png")
	if result.Kind != cmd.ResultDocument || result.Document["filename"] != "a.png" {
		t.Errorf("Expected file info document, got %v", result)
	}

	result = d.Run(ctx, "fs.find photos/")
	if result.Kind != cmd.ResultArray || len(result.Array) != 1 {
		t.Errorf("Expected 1 file, got %v", result)
	}

	// Rolled back transactions undo the metadata change
	d.Run(ctx, "begin")
	d.Run(ctx, `fs.update photos/a.png {"owner":"mallory"}`)
	d.Run(ctx, "rollback trans")

	info, _, _ := db.FileStorage().FindByID(ctx, "photos/a.png")
	if info.Metadata["owner"] != "alice" {
		t.Errorf("Expected owner 'alice' after rollback, got %v", info.Metadata["owner"])
	}

	result = d.Run(ctx, "fs.delete photos/a.png")
	if result.Kind != cmd.ResultScalar || result.Scalar != true {
		t.Errorf("Expected true, got %v", result)
	}
	result = d.Run(ctx, "fs.delete photos/a.png")
	if result.Scalar != false {
		t.Errorf("Expected false on second delete, got %v", result)
	}

	if result := d.Run(ctx, "commit"); result.Kind != cmd.ResultError {
		t.Errorf("Expected error without transaction, got %v", result)
	}
	if result := d.Run(ctx, "frobnicate"); result.Kind != cmd.ResultError || !strings.Contains(result.Error, "unrecognized") {
		t.Errorf("Expected unrecognized command error, got %v", result)
	}
}
