package authcmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
	"github.com/hashicorp-forge/lodestone/pkg/auth"
)

// LoginCommand runs the pairing flow: wait for the app, create a challenge,
// prompt for the code the app displays, exchange it for a token, save it.
type LoginCommand struct {
	*base.Command

	flagConfig    string
	flagNoBrowser bool
}

func (c *LoginCommand) Synopsis() string {
	return "Pair with the app and save the issued credential"
}

func (c *LoginCommand) Help() string {
	return `Usage: lodestone auth login [options]

  Starts the display-code pairing flow. The app shows a short code; entering
  it here issues a bearer token which is saved locally for later commands.

Options:
  -config=PATH   Configuration file
  -no-browser    Do not try to bring the app's window forward`
}

func (c *LoginCommand) Run(args []string) int {
	f := flag.NewFlagSet("auth login", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "configuration file")
	f.BoolVar(&c.flagNoBrowser, "no-browser", false, "do not open the app")
	if err := f.Parse(args); err != nil {
		return 1
	}

	stack, err := c.BuildStack(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx := context.Background()

	c.UI.Info(fmt.Sprintf("Waiting for the app at %s ...", stack.Config.BaseURL))
	if err := auth.WaitForApp(ctx, stack.Config.BaseURL, 15*time.Second, c.Log); err != nil {
		c.UI.Error(err.Error())
		c.UI.Error("Start the app and try again.")
		return 1
	}

	flow := auth.NewHandshake(stack.API, stack.Config.AppIdentifier, c.Log)

	challengeID, err := flow.Begin(ctx)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if !c.flagNoBrowser {
		// Best effort; pairing works without it.
		if err := browser.OpenURL(stack.Config.BaseURL); err != nil {
			c.Log.Debug("could not open app window", "error", err)
		}
	}

	code, err := c.UI.Ask("Enter the 4-digit code shown in the app:")
	if err != nil {
		c.UI.Error(fmt.Sprintf("reading code: %v", err))
		return 1
	}

	token, err := flow.Complete(ctx, challengeID, code)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if err := stack.Store.Save(token); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Info("Paired. Credential saved.")
	return 0
}
