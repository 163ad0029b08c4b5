package cmd

import (
	"io"
	"sort"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommands(t *testing.T) {
	initCommands(hclog.NewNullLogger(), cli.NewMockUi())

	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	assert.Equal(t, []string{
		"delete-record",
		"get-all-records",
		"get-badge-preview",
		"get-photo-id",
		"get-record",
		"insert-record",
		"set-record-active",
		"set-record-not-active",
		"set-record-not-trash",
		"set-record-trash",
		"update-record",
		"version",
	}, names)

	for name, factory := range Commands {
		command, err := factory()
		require.NoError(t, err, name)
		assert.NotEmpty(t, command.Synopsis(), name)
		assert.Contains(t, command.Help(), "Usage: idc "+name, name)
	}
}

func TestRun_Version(t *testing.T) {
	for _, arg := range []string{"version", "-version", "-v"} {
		t.Run(arg, func(t *testing.T) {
			ui := cli.NewMockUi()
			code := run([]string{"idc", arg}, ui, io.Discard)
			assert.Equal(t, 0, code)
			assert.Contains(t, ui.OutputWriter.String(), "idc v1.3.072")
		})
	}
}

func TestRun_RecordCommandWithoutConfig(t *testing.T) {
	t.Setenv("IDC_CONFIG", "")

	ui := cli.NewMockUi()
	code := run([]string{"idc", "get-all-records"}, ui, io.Discard)
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "config file is required")
}
