package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
	"github.com/hashicorp-forge/lodestone/internal/cmd/commands/authcmd"
	"github.com/hashicorp-forge/lodestone/internal/cmd/commands/resolvecmd"
	"github.com/hashicorp-forge/lodestone/internal/cmd/commands/versioncmd"
	"github.com/hashicorp-forge/lodestone/pkg/resolve"
)

// Commands is the CLI command registry.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := &base.Command{UI: ui, Log: log}

	resolveFor := func(kind resolve.Kind) cli.CommandFactory {
		return func() (cli.Command, error) {
			return &resolvecmd.Command{Command: b, Kind: kind}, nil
		}
	}

	Commands = map[string]cli.CommandFactory{
		"auth": func() (cli.Command, error) {
			return &authcmd.Command{Command: b}, nil
		},
		"auth login": func() (cli.Command, error) {
			return &authcmd.LoginCommand{Command: b}, nil
		},
		"auth logout": func() (cli.Command, error) {
			return &authcmd.LogoutCommand{Command: b}, nil
		},
		"auth status": func() (cli.Command, error) {
			return &authcmd.StatusCommand{Command: b}, nil
		},
		"resolve space":    resolveFor(resolve.KindSpace),
		"resolve type":     resolveFor(resolve.KindType),
		"resolve object":   resolveFor(resolve.KindObject),
		"resolve list":     resolveFor(resolve.KindList),
		"resolve property": resolveFor(resolve.KindProperty),
		"resolve tag":      resolveFor(resolve.KindTag),
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: b}, nil
		},
	}
}
