// Package base carries the pieces shared by every CLI command: UI, logger,
// construction of the client stack from configuration, and output rendering.
package base

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/lodestone/internal/config"
	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
	"github.com/hashicorp-forge/lodestone/pkg/auth"
	"github.com/hashicorp-forge/lodestone/pkg/directory"
	"github.com/hashicorp-forge/lodestone/pkg/resolve"
)

// Command is embedded by every CLI command.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger
}

// Stack bundles the layered clients a command works with. Commands are
// plumbing: they call into the stack and render results, nothing more.
type Stack struct {
	Config    *config.Config
	Store     *auth.FileStore
	API       *apiclient.Client
	Directory *directory.Client
	Resolver  *resolve.Resolver
}

// BuildStack loads configuration and wires up the full client stack. The
// resolve cache lives for the duration of one CLI invocation.
func (c *Command) BuildStack(configPath string) (*Stack, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath, err = auth.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
	}
	store := auth.NewFileStore(afero.NewOsFs(), tokenPath)

	api := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
		Tokens:  store,
		Logger:  c.Log,
	})

	dir := directory.NewClient(api, c.Log)

	resolver, err := resolve.New(resolve.Config{
		Directory:       dir,
		Cache:           resolve.NewCache(resolve.CacheConfig{TTL: cfg.CacheTTL()}),
		CaseInsensitive: cfg.CaseInsensitive,
		Logger:          c.Log,
	})
	if err != nil {
		return nil, err
	}

	return &Stack{
		Config:    cfg,
		Store:     store,
		API:       api,
		Directory: dir,
		Resolver:  resolver,
	}, nil
}

// Render writes v to the UI in the requested format ("json" or "yaml").
func (c *Command) Render(format string, v any) error {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		c.UI.Output(string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		c.UI.Output(string(data))
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
	return nil
}
