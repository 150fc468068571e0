// Package authcmd implements "lodestone auth <subcommand>": the display-code
// pairing flow and credential management.
package authcmd

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
)

// Command is the bare "auth" group; it only shows its subcommands.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage the credential used to talk to the app"
}

func (c *Command) Help() string {
	return `Usage: lodestone auth <subcommand> [options]

  This command groups subcommands for pairing with the app and managing the
  saved credential.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
