package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/extension"
	"github.com/mailclip/mailclip/pkg/extension/event"
	"github.com/mailclip/mailclip/pkg/metric"
	"github.com/mailclip/mailclip/pkg/notion"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Direct saves pages by talking to the document database API itself.
type Direct struct {
	client  *notion.Client
	conf    config.Notion
	extHost *extension.Host
	logger  zerolog.Logger
}

var _ Dispatcher = &Direct{}

// NewDirect constructs a Direct dispatcher from the given settings.  Client
// options are passed through, primarily so tests can redirect the API.
func NewDirect(conf config.Notion, extHost *extension.Host, opts ...notion.Option) *Direct {
	opts = append([]notion.Option{notion.WithTimeout(conf.Timeout)}, opts...)
	return &Direct{
		client:  notion.NewClient(conf.Token, opts...),
		conf:    conf,
		extHost: extHost,
		logger:  log.With().Str("module", "dispatch").Str("mode", "direct").Logger(),
	}
}

// SaveMail persists a mail submission as a new page in the mail collection.
func (d *Direct) SaveMail(ctx context.Context, sub record.MailSubmission) (*record.SaveResult, error) {
	if err := d.checkConfig(d.conf.MailDatabaseID, "mail database ID"); err != nil {
		return nil, err
	}

	if rewritten := d.extHost.Events.BeforeMailSaved.Emit(&sub); rewritten != nil {
		sub = *rewritten
	}

	props := notion.MailProperties(sub)
	blocks, attachments, images := notion.MailBlocks(sub)

	return d.save(ctx, saveOp{
		target:      event.TargetMail,
		databaseID:  d.conf.MailDatabaseID,
		icon:        notion.MailIcon,
		subject:     sub.Subject,
		props:       props,
		blocks:      blocks,
		attachments: attachments,
		images:      images,
	})
}

// SaveBill persists a bill submission as a new page in the bill collection.
func (d *Direct) SaveBill(ctx context.Context, sub record.BillSubmission) (*record.SaveResult, error) {
	if err := d.checkConfig(d.conf.BillDatabaseID, "bill database ID"); err != nil {
		return nil, err
	}

	if rewritten := d.extHost.Events.BeforeBillSaved.Emit(&sub); rewritten != nil {
		sub = *rewritten
	}

	props := notion.BillProperties(sub)
	blocks, attachments, images := notion.BillBlocks(sub)

	return d.save(ctx, saveOp{
		target:      event.TargetBill,
		databaseID:  d.conf.BillDatabaseID,
		icon:        notion.BillIcon,
		subject:     sub.EmailSubject,
		props:       props,
		blocks:      blocks,
		attachments: attachments,
		images:      images,
	})
}

// MailOptions fetches the mail collection's select vocabulary.
func (d *Direct) MailOptions(ctx context.Context) record.OptionMap {
	return d.options(ctx, d.conf.MailDatabaseID)
}

// BillOptions fetches the bill collection's select vocabulary.
func (d *Direct) BillOptions(ctx context.Context) record.OptionMap {
	return d.options(ctx, d.conf.BillDatabaseID)
}

func (d *Direct) options(ctx context.Context, databaseID string) record.OptionMap {
	if d.conf.Token == "" || databaseID == "" {
		return record.OptionMap{}
	}
	return d.client.SelectOptions(ctx, databaseID)
}

// checkConfig rejects saves that cannot possibly succeed, before any network
// traffic.
func (d *Direct) checkConfig(databaseID, label string) error {
	var missing []string
	if d.conf.Token == "" {
		missing = append(missing, "API token")
	}
	if databaseID == "" {
		missing = append(missing, label)
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// saveOp carries the per-target inputs of one save.
type saveOp struct {
	target      string
	databaseID  string
	icon        string
	subject     string
	props       notion.Properties
	blocks      []notion.Block
	attachments int
	images      int
}

// save creates the page, appends its content in batches, then announces the
// outcome.  A page whose content only partially appended still counts as
// saved; Partial is set so the caller can tell.
func (d *Direct) save(ctx context.Context, op saveOp) (*record.SaveResult, error) {
	start := time.Now()

	page, err := d.client.CreatePage(ctx, op.databaseID, notion.EmojiIcon(op.icon), op.props)
	if err != nil {
		d.logger.Error().Str("target", op.target).Err(err).Msg("Failed to create page")
		metric.RecordSave(op.target, metric.SaveStatus(err, false), time.Since(start))
		return nil, err
	}

	failed := d.client.AppendAll(ctx, page.ID, op.blocks)
	metric.BlocksAppended.Add(float64(len(op.blocks)))

	result := &record.SaveResult{
		PageID:          page.ID,
		URL:             page.URL,
		AttachmentCount: op.attachments,
		ImageCount:      op.images,
		Partial:         failed > 0,
	}
	metric.RecordSave(op.target, metric.SaveStatus(nil, result.Partial), time.Since(start))
	d.logger.Info().Str("target", op.target).Str("pageId", page.ID).
		Bool("partial", result.Partial).Msg("Saved page")

	d.extHost.Events.AfterPageSaved.Emit(&event.SaveRecord{
		ID:              uuid.NewString(),
		Target:          op.target,
		PageID:          page.ID,
		URL:             page.URL,
		Subject:         op.subject,
		AttachmentCount: op.attachments,
		ImageCount:      op.images,
		Partial:         result.Partial,
		Date:            time.Now(),
	})

	return result, nil
}
