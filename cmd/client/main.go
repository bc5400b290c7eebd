// Package main implements a command line client for the mailclip REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/dispatch"
)

var host = flag.String("host", "localhost", "host/IP of mailclip server")
var port = flag.Uint("port", 9000, "HTTP port of mailclip server")

func main() {
	// Important top-level flags.
	subcommands.ImportantFlag("host")
	subcommands.ImportantFlag("port")

	// Setup standard helpers.
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	// Setup my commands.
	subcommands.Register(&clipCmd{}, "")
	subcommands.Register(&billCmd{}, "")
	subcommands.Register(&optionsCmd{}, "")

	// Parse and execute.
	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func baseURL() string {
	return "http://" + net.JoinHostPort(*host, strconv.FormatUint(uint64(*port), 10))
}

// apiClient builds a client for the server's save API.
func apiClient() (*dispatch.Backend, error) {
	return dispatch.NewBackend(config.Backend{URL: baseURL()})
}

// splitList turns a comma separated flag value into its non-empty parts.
func splitList(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func fatal(msg string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	return subcommands.ExitFailure
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitUsageError
}
