// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	prefix      = "mailclip"
	tableFormat = `Mailclip is configured via the environment. The following environment
variables can be used:

KEY	DEFAULT	REQUIRED	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_default .}}	{{usage_required .}}	{{usage_description .}}
{{end}}`
)

// Dispatch modes.
const (
	ModeDirect  = "direct"
	ModeBackend = "backend"
)

var (
	// Version of this build, set by main
	Version = ""

	// BuildDate for this build, set by main
	BuildDate = ""
)

// Root wraps all other configurations.
type Root struct {
	LogLevel string `required:"true" default:"INFO" desc:"TRACE, INFO, WARN, or ERROR"`
	Mode     string `required:"true" default:"direct" desc:"Save dispatch mode: direct or backend"`
	Notion   Notion
	Backend  Backend
	Web      Web
	Extract  Extract
	Lua      Lua
}

// Notion contains the document database API configuration.
type Notion struct {
	Token          string        `desc:"API integration token"`
	MailDatabaseID string        `desc:"Mail collection database ID"`
	BillDatabaseID string        `desc:"Bill collection database ID"`
	Timeout        time.Duration `required:"true" default:"30s" desc:"API request timeout"`
}

// Backend contains the proxy backend configuration, used in backend mode.
type Backend struct {
	URL     string        `desc:"Base URL of the save proxy backend"`
	Timeout time.Duration `required:"true" default:"30s" desc:"Backend request timeout"`
}

// Web contains the HTTP server configuration.
type Web struct {
	Addr           string `required:"true" default:"0.0.0.0:9000" desc:"Web server IP4 host:port"`
	BasePath       string `desc:"Base path prefix for UI and API URLs"`
	MonitorHistory int    `required:"true" default:"30" desc:"Monitor remembered saves"`
}

// Extract contains the DOM extraction configuration.
type Extract struct {
	Host               string `required:"true" default:"mail.google.com" desc:"Host substring required of attachment URLs"`
	MinImageDim        int    `required:"true" default:"20" desc:"Minimum inline image width and height"`
	MaxImageFetchBytes int64  `required:"true" default:"5242880" desc:"Maximum bytes fetched per inline image"`
}

// Lua contains the extension script configuration.
type Lua struct {
	Path string `default:"mailclip.lua" desc:"Lua extension script path"`
}

// Process loads and parses configuration from the environment.
func Process() (*Root, error) {
	c := &Root{}
	if err := envconfig.Process(prefix, c); err != nil {
		return c, err
	}
	if c.Mode != ModeDirect && c.Mode != ModeBackend {
		return c, fmt.Errorf("MAILCLIP_MODE must be %q or %q, got %q",
			ModeDirect, ModeBackend, c.Mode)
	}
	return c, nil
}

// Usage prints out the envconfig usage to Stderr.
func Usage() {
	tabs := tabwriter.NewWriter(os.Stderr, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(prefix, &Root{}, tabs, tableFormat); err != nil {
		log.Fatalf("Unable to parse env config: %v", err)
	}
	tabs.Flush()
}
