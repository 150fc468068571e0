package authcmd

import (
	"flag"

	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
)

// LogoutCommand removes the saved credential.
type LogoutCommand struct {
	*base.Command

	flagConfig string
}

func (c *LogoutCommand) Synopsis() string {
	return "Remove the saved credential"
}

func (c *LogoutCommand) Help() string {
	return `Usage: lodestone auth logout [options]

  Removes the locally saved credential. The app-side pairing is not revoked;
  do that from the app's settings if needed.

Options:
  -config=PATH   Configuration file`
}

func (c *LogoutCommand) Run(args []string) int {
	f := flag.NewFlagSet("auth logout", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "configuration file")
	if err := f.Parse(args); err != nil {
		return 1
	}

	stack, err := c.BuildStack(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if err := stack.Store.Clear(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Info("Credential removed.")
	return 0
}
