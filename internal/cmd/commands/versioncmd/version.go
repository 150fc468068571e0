// Package versioncmd implements "lodestone version".
package versioncmd

import (
	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
	"github.com/hashicorp-forge/lodestone/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the CLI version"
}

func (c *Command) Help() string {
	return "Usage: lodestone version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
