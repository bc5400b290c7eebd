package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/google/subcommands"
	"github.com/mailclip/mailclip/pkg/record"
)

type billCmd struct {
	subject string
	amount  string
	month   string
	method  string
	note    string
}

func (*billCmd) Name() string {
	return "bill"
}

func (*billCmd) Synopsis() string {
	return "save a message as a bill page"
}

func (*billCmd) Usage() string {
	return `bill [flags] [file]:
	save a bill page, optionally harvesting attachments from an .html or .eml file
`
}

func (b *billCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.subject, "subject", "", "bill page title")
	f.StringVar(&b.amount, "amount", "", "monthly amount, e.g. 1234.5")
	f.StringVar(&b.month, "month", "", "bill month, e.g. 2025-03")
	f.StringVar(&b.method, "method", "", "payment method")
	f.StringVar(&b.note, "note", "", "free-form note")
}

func (b *billCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sub := record.BillSubmission{
		EmailSubject:  b.subject,
		BillMonth:     b.month,
		PaymentMethod: b.method,
		Note:          b.note,
	}
	if b.amount != "" {
		amount, err := strconv.ParseFloat(b.amount, 64)
		if err != nil {
			return usage("amount must be a number")
		}
		sub.Amount = &amount
	}

	// A source file contributes its attachments and inline images.
	if path := f.Arg(0); path != "" {
		rec, err := loadRecord(ctx, path)
		if err != nil {
			return fatal("Couldn't read message", err)
		}
		sub.Attachments = rec.Attachments
		sub.InlineImages = rec.InlineImages
		if sub.EmailSubject == "" {
			sub.EmailSubject = rec.Subject
		}
	}

	client, err := apiClient()
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	result, err := client.SaveBill(ctx, sub)
	if err != nil {
		return fatal("Save failed", err)
	}

	printResult(result)
	return subcommands.ExitSuccess
}
