package authcmd

import (
	"context"
	"flag"

	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
)

// StatusCommand reports whether a credential is saved and still accepted.
type StatusCommand struct {
	*base.Command

	flagConfig string
	flagOutput string
}

func (c *StatusCommand) Synopsis() string {
	return "Show whether a credential is saved and accepted by the app"
}

func (c *StatusCommand) Help() string {
	return `Usage: lodestone auth status [options]

  Reports whether a credential is saved locally and, if so, whether the app
  still accepts it.

Options:
  -config=PATH     Configuration file
  -output=FORMAT   Output format: json (default) or yaml`
}

type statusResult struct {
	CredentialSaved bool   `json:"credential_saved" yaml:"credential_saved"`
	Accepted        bool   `json:"accepted" yaml:"accepted"`
	Detail          string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func (c *StatusCommand) Run(args []string) int {
	f := flag.NewFlagSet("auth status", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "configuration file")
	f.StringVar(&c.flagOutput, "output", "json", "output format")
	if err := f.Parse(args); err != nil {
		return 1
	}

	stack, err := c.BuildStack(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	res := statusResult{}

	_, ok, err := stack.Store.Load()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	res.CredentialSaved = ok

	if ok {
		// Any authenticated call will do as a probe.
		if _, err := stack.Directory.ListSpaces(context.Background()); err != nil {
			res.Detail = err.Error()
			if apiclient.IsAuthError(err) {
				res.Detail += " (run 'lodestone auth login' to re-pair)"
			}
		} else {
			res.Accepted = true
		}
	}

	if err := c.Render(c.flagOutput, res); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if !res.CredentialSaved || !res.Accepted {
		return 1
	}
	return 0
}
