package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/eml"
	"github.com/mailclip/mailclip/pkg/extract"
	"github.com/mailclip/mailclip/pkg/record"
)

type clipCmd struct {
	reason   string
	category string
	tags     string
	newTags  string
	process  string
	read     string
}

func (*clipCmd) Name() string {
	return "clip"
}

func (*clipCmd) Synopsis() string {
	return "save a message as a mail page"
}

func (*clipCmd) Usage() string {
	return `clip [flags] <file>:
	extract a message from an .html DOM snapshot or .eml file and save it
`
}

func (c *clipCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.reason, "reason", "", "why this message is worth keeping")
	f.StringVar(&c.category, "category", "", "mail category")
	f.StringVar(&c.tags, "tags", "", "comma separated tags from the existing vocabulary")
	f.StringVar(&c.newTags, "new-tags", "", "comma separated tags to create")
	f.StringVar(&c.process, "process", "", "process status")
	f.StringVar(&c.read, "read", "", "read status")
}

func (c *clipCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		return usage("file required")
	}

	rec, err := loadRecord(ctx, path)
	if err != nil {
		return fatal("Couldn't read message", err)
	}

	tags := record.TagSelection{
		Confirmed:  splitList(c.tags),
		PendingNew: splitList(c.newTags),
	}
	sub := record.MailSubmission{
		EmailRecord:   rec,
		Reason:        c.reason,
		MailCategory:  c.category,
		TagCategories: tags.Merge(),
		ProcessStatus: c.process,
		ReadStatus:    c.read,
	}

	client, err := apiClient()
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	result, err := client.SaveMail(ctx, sub)
	if err != nil {
		return fatal("Save failed", err)
	}

	printResult(result)
	return subcommands.ExitSuccess
}

// loadRecord builds an EmailRecord from an .eml message or an .html DOM
// snapshot.  Extraction tuning comes from the environment.
func loadRecord(ctx context.Context, path string) (record.EmailRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return record.EmailRecord{}, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".eml") {
		return eml.Read(f)
	}

	conf, err := config.Process()
	if err != nil {
		return record.EmailRecord{}, err
	}
	doc, err := extract.Parse(f)
	if err != nil {
		return record.EmailRecord{}, err
	}
	return extract.New(extractorConfig(conf)).Record(ctx, doc), nil
}

// extractorConfig maps the extract section onto extractor settings.
func extractorConfig(conf *config.Root) extract.Config {
	return extract.Config{
		Host:               conf.Extract.Host,
		MinImageDim:        conf.Extract.MinImageDim,
		MaxImageFetchBytes: conf.Extract.MaxImageFetchBytes,
	}
}

func printResult(result *record.SaveResult) {
	fmt.Printf("page: %v\n", result.PageID)
	if result.URL != "" {
		fmt.Printf("url: %v\n", result.URL)
	}
	fmt.Printf("attachments: %v, images: %v\n", result.AttachmentCount, result.ImageCount)
	if result.Partial {
		fmt.Println("warning: some content failed to append")
	}
}
