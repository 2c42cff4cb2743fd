package commands

import (
	"flag"
	"fmt"

	"github.com/homedash/homedash/src/internal/apache"
)

// RenderCommand prints a VirtualHost config for a reverse-proxied service.
type RenderCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext

	preset string
	proxy  apache.ProxyConfig
}

// CreateRenderCommand creates a new render command.
func CreateRenderCommand() Runner {
	return &RenderCommand{}
}

// Name returns the command name.
func (c *RenderCommand) Name() string {
	return "render"
}

// Init parses the proxy flags. Explicit -target and -websockets flags win over the preset.
func (c *RenderCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("render", flag.ContinueOnError)

	defaults := apache.DefaultProxyConfig()
	var flags apache.ProxyConfig

	c.fs.StringVar(&c.preset, "preset", string(apache.PresetGeneric), "Application type: generic, react or nodejs")
	c.fs.StringVar(&flags.ServerName, "server-name", apache.DefaultServerName, "Public host name")
	c.fs.StringVar(&flags.Target, "target", defaults.Target, "Internal address to proxy to")
	c.fs.BoolVar(&flags.EnableSSL, "ssl", false, "Listen on 443 with SSL")
	c.fs.StringVar(&flags.SSLCertPath, "cert", defaults.SSLCertPath, "SSL certificate file")
	c.fs.StringVar(&flags.SSLKeyPath, "key", defaults.SSLKeyPath, "SSL certificate key file")
	c.fs.BoolVar(&flags.EnableWebSockets, "websockets", false, "Proxy WebSocket upgrades")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	switch p := apache.Preset(c.preset); p {
	case apache.PresetGeneric, apache.PresetReact, apache.PresetNodeJS:
	default:
		return fmt.Errorf("unknown preset %q", p)
	}

	proxy := flags.WithPreset(apache.Preset(c.preset))
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			proxy.Target = flags.Target
		case "websockets":
			proxy.EnableWebSockets = flags.EnableWebSockets
		}
	})
	c.proxy = proxy
	return nil
}

// Run prints the rendered config.
func (c *RenderCommand) Run() error {
	out, err := apache.Render(c.proxy)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.ctx.stdout(), out)
	return err
}
