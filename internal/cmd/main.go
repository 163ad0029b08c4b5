package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/idpack-cloud/idc-go/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	return run(args, ui, os.Stderr)
}

func run(args []string, ui cli.Ui, logOutput io.Writer) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name:   cliName,
		Output: logOutput,
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	initCommands(log, ui)

	c := &cli.CLI{
		Name:       cliName,
		Args:       args[1:],
		Version:    version.Version,
		Commands:   Commands,
		HelpWriter: logOutput,
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}
