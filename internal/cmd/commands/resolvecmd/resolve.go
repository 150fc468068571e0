// Package resolvecmd implements "lodestone resolve <kind> [flags] NAME":
// thin plumbing from CLI arguments to the resolver.
package resolvecmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/lodestone/internal/cmd/base"
	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
	"github.com/hashicorp-forge/lodestone/pkg/directory"
	"github.com/hashicorp-forge/lodestone/pkg/resolve"
)

// Command resolves a single name for one entity kind. Kind selects the
// resolver method; parent scopes arrive as flags and accept either a name or
// a literal ID.
type Command struct {
	*base.Command

	Kind resolve.Kind

	flagConfig   string
	flagOutput   string
	flagSpace    string
	flagType     string
	flagProperty string
	flagKey      bool
}

func (c *Command) Synopsis() string {
	return fmt.Sprintf("Resolve a %s name to its ID", c.Kind)
}

func (c *Command) Help() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: lodestone resolve %s [options] NAME\n\n", c.Kind)
	fmt.Fprintf(&b, "  Resolves a %s name to the canonical ID the app's API expects.\n", c.Kind)
	b.WriteString("  A NAME that already has the canonical ID shape is returned unchanged.\n\n")
	b.WriteString("Options:\n")
	b.WriteString("  -config=PATH     Configuration file\n")
	b.WriteString("  -output=FORMAT   Output format: json (default) or yaml\n")

	switch c.Kind {
	case resolve.KindType:
		b.WriteString("  -space=SPACE     Space name or ID (required)\n")
		b.WriteString("  -key             Treat NAME as the type's machine key instead of its display name\n")
	case resolve.KindObject, resolve.KindList:
		b.WriteString("  -space=SPACE     Space name or ID (required)\n")
	case resolve.KindProperty:
		b.WriteString("  -space=SPACE     Space name or ID (required)\n")
		b.WriteString("  -type=TYPE       Type name or ID (required)\n")
	case resolve.KindTag:
		b.WriteString("  -space=SPACE     Space name or ID (required)\n")
		b.WriteString("  -type=TYPE       Type name or ID (required)\n")
		b.WriteString("  -property=PROP   Property name or ID (required)\n")
	}
	return b.String()
}

func (c *Command) flags() *flag.FlagSet {
	f := flag.NewFlagSet("resolve "+string(c.Kind), flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "configuration file")
	f.StringVar(&c.flagOutput, "output", "json", "output format")

	switch c.Kind {
	case resolve.KindType:
		f.StringVar(&c.flagSpace, "space", "", "space name or ID")
		f.BoolVar(&c.flagKey, "key", false, "resolve by machine key")
	case resolve.KindObject, resolve.KindList:
		f.StringVar(&c.flagSpace, "space", "", "space name or ID")
	case resolve.KindProperty:
		f.StringVar(&c.flagSpace, "space", "", "space name or ID")
		f.StringVar(&c.flagType, "type", "", "type name or ID")
	case resolve.KindTag:
		f.StringVar(&c.flagSpace, "space", "", "space name or ID")
		f.StringVar(&c.flagType, "type", "", "type name or ID")
		f.StringVar(&c.flagProperty, "property", "", "property name or ID")
	}
	return f
}

// result is the rendered outcome.
type result struct {
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
}

func (c *Command) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		return 1
	}
	if len(f.Args()) != 1 {
		c.UI.Error("exactly one NAME argument is required")
		return cli.RunResultHelp
	}
	name := f.Args()[0]

	stack, err := c.BuildStack(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx := context.Background()
	id, err := c.resolve(ctx, stack.Resolver, name)
	if err != nil {
		return c.fail(err)
	}

	if err := c.Render(c.flagOutput, result{Kind: string(c.Kind), Name: name, ID: id}); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

func (c *Command) resolve(ctx context.Context, r *resolve.Resolver, name string) (string, error) {
	switch c.Kind {
	case resolve.KindSpace:
		return r.Space(ctx, name)

	case resolve.KindType:
		spaceID, err := c.requireSpace(ctx, r)
		if err != nil {
			return "", err
		}
		if c.flagKey {
			// Machine keys are snake_case; normalize what the user typed.
			return r.TypeByKey(ctx, spaceID, directory.KeyForName(name))
		}
		return r.Type(ctx, spaceID, name)

	case resolve.KindObject:
		spaceID, err := c.requireSpace(ctx, r)
		if err != nil {
			return "", err
		}
		return r.Object(ctx, spaceID, name)

	case resolve.KindList:
		spaceID, err := c.requireSpace(ctx, r)
		if err != nil {
			return "", err
		}
		return r.List(ctx, spaceID, name)

	case resolve.KindProperty:
		typeID, err := c.requireType(ctx, r)
		if err != nil {
			return "", err
		}
		return r.Property(ctx, typeID, name)

	case resolve.KindTag:
		propertyID, err := c.requireProperty(ctx, r)
		if err != nil {
			return "", err
		}
		return r.Tag(ctx, propertyID, name)

	default:
		return "", fmt.Errorf("unknown kind %q", c.Kind)
	}
}

func (c *Command) requireSpace(ctx context.Context, r *resolve.Resolver) (string, error) {
	if c.flagSpace == "" {
		return "", fmt.Errorf("-space is required")
	}
	return r.Space(ctx, c.flagSpace)
}

func (c *Command) requireType(ctx context.Context, r *resolve.Resolver) (string, error) {
	spaceID, err := c.requireSpace(ctx, r)
	if err != nil {
		return "", err
	}
	if c.flagType == "" {
		return "", fmt.Errorf("-type is required")
	}
	return r.Type(ctx, spaceID, c.flagType)
}

func (c *Command) requireProperty(ctx context.Context, r *resolve.Resolver) (string, error) {
	typeID, err := c.requireType(ctx, r)
	if err != nil {
		return "", err
	}
	if c.flagProperty == "" {
		return "", fmt.Errorf("-property is required")
	}
	return r.Property(ctx, typeID, c.flagProperty)
}

// fail maps resolution errors to exit codes with actionable messages.
func (c *Command) fail(err error) int {
	switch {
	case resolve.IsNotFound(err):
		c.UI.Error(err.Error())
		c.UI.Error("Check the spelling, or list the available names in the app.")
	case apiclient.IsAuthError(err):
		c.UI.Error(err.Error())
		c.UI.Error("Run 'lodestone auth login' to pair with the app.")
	default:
		c.UI.Error(err.Error())
	}
	return 1
}
