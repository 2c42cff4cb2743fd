package apache

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/valyala/fasttemplate"

	"github.com/homedash/homedash/src/internal/catalog"
	apperrors "github.com/homedash/homedash/src/internal/errors"
)

const (
	DefaultServerName  = "your-domain.com"
	DefaultTarget      = "http://localhost:8000"
	DefaultSSLCertPath = "/etc/ssl/certs/your_domain.crt"
	DefaultSSLKeyPath  = "/etc/ssl/private/your_domain.key"
)

// Preset is an application type with a typical upstream.
type Preset string

const (
	PresetGeneric Preset = "generic"
	PresetReact   Preset = "react"
	PresetNodeJS  Preset = "nodejs"
)

// ProxyConfig describes a reverse-proxied service to publish.
type ProxyConfig struct {
	ServerName       string `json:"serverName"`
	Target           string `json:"target"`
	EnableSSL        bool   `json:"enableSsl"`
	SSLCertPath      string `json:"sslCertPath"`
	SSLKeyPath       string `json:"sslKeyPath"`
	EnableWebSockets bool   `json:"enableWebSockets"`
}

// DefaultProxyConfig returns the generic preset with placeholder certificate paths.
func DefaultProxyConfig() ProxyConfig {
	return ProxyConfig{
		Target:      DefaultTarget,
		SSLCertPath: DefaultSSLCertPath,
		SSLKeyPath:  DefaultSSLKeyPath,
	}.WithPreset(PresetGeneric)
}

// WithPreset sets the upstream and WebSocket flag typical for p.
// Unknown presets behave like PresetGeneric.
func (c ProxyConfig) WithPreset(p Preset) ProxyConfig {
	switch p {
	case PresetReact:
		c.Target = "http://localhost:3000"
		c.EnableWebSockets = true
	case PresetNodeJS:
		c.Target = "http://localhost:8080"
		c.EnableWebSockets = true
	default:
		c.Target = DefaultTarget
		c.EnableWebSockets = false
	}
	return c
}

var (
	vhostTemplate = fasttemplate.New(`<VirtualHost *:{{port}}>
    ServerName {{server_name}}

{{ssl}}    # Basic reverse proxy
    ProxyPass / {{target}}/
    ProxyPassReverse / {{target}}/
{{websockets}}</VirtualHost>`, "{{", "}}")

	sslTemplate = fasttemplate.New(`    SSLEngine on
    SSLCertificateFile "{{cert}}"
    SSLCertificateKeyFile "{{key}}"

`, "{{", "}}")

	websocketTemplate = fasttemplate.New(`
    # WebSocket proxy configuration
    RewriteEngine On
    RewriteCond %{HTTP:Upgrade} websocket [NC]
    RewriteCond %{HTTP:Connection} upgrade [NC]
    RewriteRule ^/?(.*) "{{ws_target}}$1" [P,L]
`, "{{", "}}")
)

// Render produces the VirtualHost configuration for c. The result is accepted
// by Extract, which recovers the server name and target from it.
func Render(c ProxyConfig) (string, error) {
	c, err := c.normalize(false)
	if err != nil {
		return "", err
	}

	port := 80
	ssl := ""
	if c.EnableSSL {
		port = 443
		ssl = sslTemplate.ExecuteString(map[string]interface{}{
			"cert": c.SSLCertPath,
			"key":  c.SSLKeyPath,
		})
	}

	websockets := ""
	if c.EnableWebSockets {
		websockets = websocketTemplate.ExecuteString(map[string]interface{}{
			"ws_target": websocketTarget(c.Target),
		})
	}

	return vhostTemplate.ExecuteString(map[string]interface{}{
		"port":        strconv.Itoa(port),
		"server_name": c.ServerName,
		"ssl":         ssl,
		"target":      c.Target,
		"websockets":  websockets,
	}), nil
}

// NewServiceEntry builds the catalog entry for a manually configured service.
// Unlike Render it requires a server name.
func NewServiceEntry(c ProxyConfig) (catalog.Entry, error) {
	c, err := c.normalize(true)
	if err != nil {
		return catalog.Entry{}, err
	}

	scheme := "http"
	if c.EnableSSL {
		scheme = "https"
	}

	return catalog.Entry{
		Title:       c.ServerName,
		URL:         scheme + "://" + c.ServerName,
		Description: "Reverse proxy to " + c.Target,
		Kind:        catalog.KindService,
		Enabled:     true,
		ProxyTarget: &catalog.ProxyTarget{
			Target:           c.Target,
			EnableSSL:        c.EnableSSL,
			SSLCertPath:      c.SSLCertPath,
			SSLKeyPath:       c.SSLKeyPath,
			EnableWebSockets: c.EnableWebSockets,
		},
	}, nil
}

func (c ProxyConfig) normalize(requireServerName bool) (ProxyConfig, error) {
	c.ServerName = strings.TrimSpace(c.ServerName)
	c.Target = strings.TrimRight(strings.TrimSpace(c.Target), "/")

	if c.ServerName == "" {
		if requireServerName {
			return c, apperrors.NewValidationError("serverName: field is required", nil)
		}
		c.ServerName = DefaultServerName
	}
	if strings.ContainsFunc(c.ServerName, func(r rune) bool { return unicode.IsSpace(r) || r == '#' || r == '/' }) {
		return c, apperrors.NewValidationError("serverName: must be a bare host name", nil)
	}

	if c.Target == "" {
		return c, apperrors.NewValidationError("target: field is required", nil)
	}
	if !strings.HasPrefix(c.Target, "http://") && !strings.HasPrefix(c.Target, "https://") {
		return c, apperrors.NewValidationError("target: must start with http:// or https://", nil)
	}
	if strings.ContainsFunc(c.Target, unicode.IsSpace) {
		return c, apperrors.NewValidationError("target: must not contain whitespace", nil)
	}

	if c.EnableSSL {
		if c.SSLCertPath == "" {
			c.SSLCertPath = DefaultSSLCertPath
		}
		if c.SSLKeyPath == "" {
			c.SSLKeyPath = DefaultSSLKeyPath
		}
	}
	return c, nil
}

// websocketTarget swaps the http(s) scheme of target for ws(s).
func websocketTarget(target string) string {
	if rest, ok := strings.CutPrefix(target, "https://"); ok {
		return "wss://" + rest + "/"
	}
	return "ws://" + strings.TrimPrefix(target, "http://") + "/"
}
