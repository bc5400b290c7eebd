package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/google/subcommands"
)

type optionsCmd struct {
	bill bool
}

func (*optionsCmd) Name() string {
	return "options"
}

func (*optionsCmd) Synopsis() string {
	return "list select option vocabulary"
}

func (*optionsCmd) Usage() string {
	return `options [-bill]:
	list the select options of the mail (or bill) collection
`
}

func (o *optionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.bill, "bill", false, "list the bill collection instead of mail")
}

func (o *optionsCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := apiClient()
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	options := client.MailOptions(ctx)
	if o.bill {
		options = client.BillOptions(ctx)
	}

	props := make([]string, 0, len(options))
	for name := range options {
		props = append(props, name)
	}
	sort.Strings(props)

	for _, name := range props {
		names := make([]string, len(options[name]))
		for i, opt := range options[name] {
			names[i] = opt.Name
		}
		fmt.Printf("%v: %v\n", name, strings.Join(names, ", "))
	}
	return subcommands.ExitSuccess
}
