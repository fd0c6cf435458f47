package builtin

import "github.com/mwantia/litedb/cmd"

// Commands returns the builtin shell commands in dispatch order.
func Commands() []cmd.Command {
	return []cmd.Command{
		&BeginCommand{},
		&CommitCommand{},
		&RollbackCommand{},
		&InfoCommand{},
		&FsUpdateCommand{},
		&FsInfoCommand{},
		&FsFindCommand{},
		&FsDeleteCommand{},
	}
}

// InitBuiltin registers every builtin command with d.
func InitBuiltin(d *cmd.Dispatcher) error {
	for _, c := range Commands() {
		if err := d.Register(c); err != nil {
			return err
		}
	}
	return nil
}
