package version

import (
	"fmt"

	"github.com/idpack-cloud/idc-go/internal/cmd/base"
	"github.com/idpack-cloud/idc-go/internal/version"
	"github.com/idpack-cloud/idc-go/pkg/idc"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: idc version

  Prints the CLI version and the client version reported to the API.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("idc v%s (api client %s)", version.Version, idc.Version))
	return 0
}
