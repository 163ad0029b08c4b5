package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/idpack-cloud/idc-go/internal/cmd/base"
	"github.com/idpack-cloud/idc-go/internal/cmd/commands/record"
	"github.com/idpack-cloud/idc-go/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}

	for _, op := range record.Operations() {
		Commands[op.Name] = func() (cli.Command, error) {
			return &record.Command{Command: b, Operation: op}, nil
		}
	}
}
