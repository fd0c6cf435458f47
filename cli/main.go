package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/litedb"
	"github.com/mwantia/litedb/backend"
	"github.com/mwantia/litedb/backend/ephemeral"
	"github.com/mwantia/litedb/backend/sqlite"
	"github.com/mwantia/litedb/cli/tui"
	"github.com/mwantia/litedb/cmd"
	"github.com/mwantia/litedb/cmd/builtin"
	"github.com/mwantia/litedb/log"
)

type flags struct {
	path     string
	logLevel string
	logFile  string
	compress bool
	exec     string
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.path, "db", "", "database file; empty keeps everything in memory")
	flag.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error, fatal)")
	flag.StringVar(&f.logFile, "log-file", "", "write logs to this file with rotation")
	flag.BoolVar(&f.compress, "compress", false, "compress stored documents (database file only)")
	flag.StringVar(&f.exec, "exec", "", "execute a single command, print its result and exit")
	flag.Parse()
	return f
}

// setupDatabase opens the backend selected by f
func setupDatabase(ctx context.Context, f *flags) (*litedb.Database, error) {
	level, err := log.Parse(f.logLevel)
	if err != nil {
		return nil, err
	}

	var storage backend.DocumentStorageBackend
	if f.path == "" {
		storage = ephemeral.NewEphemeralBackend()
	} else {
		var opts []sqlite.SQLiteOption
		if f.compress {
			opts = append(opts, sqlite.WithCompression())
		}

		storage, err = sqlite.NewSQLiteBackend(f.path, opts...)
		if err != nil {
			return nil, err
		}
	}

	opts := []litedb.DatabaseOption{litedb.WithLogLevel(level)}
	if f.logFile != "" {
		opts = append(opts, litedb.WithLogFile(f.logFile))
	}
	if f.exec == "" {
		// Terminal output would corrupt the TUI.
		opts = append(opts, litedb.WithoutTerminalLog())
	}

	return litedb.Open(ctx, storage, opts...)
}

func main() {
	ctx := context.Background()
	f := parseFlags()

	db, err := setupDatabase(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	dispatcher := cmd.NewDispatcher(cmd.NewAPI(db), db.Logger())
	if err := builtin.InitBuiltin(dispatcher); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register commands: %v\n", err)
		os.Exit(1)
	}

	code := 0
	if f.exec != "" {
		result := dispatcher.Run(ctx, f.exec)
		fmt.Println(result.Render())
		if result.Kind == cmd.ResultError {
			code = 1
		}
	} else {
		title := f.path
		if title == "" {
			title = "in-memory"
		}

		model := tui.NewModel(ctx, dispatcher, title)
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			code = 1
		}
	}

	if err := db.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v\n", err)
		code = 1
	}
	os.Exit(code)
}
