package notion

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jhillyerd/goldiff"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailPropertiesFull(t *testing.T) {
	sub := record.MailSubmission{
		EmailRecord: record.EmailRecord{
			Subject:      "發票通知",
			SenderEmail:  "billing@example.com",
			ReceivedDate: "2025-03-01",
		},
		Reason:        "報帳用",
		MailCategory:  "帳務",
		TagCategories: []string{"公司", "2025"},
		ProcessStatus: "待處理",
		ReadStatus:    "未讀",
	}
	props := MailProperties(sub)

	assert.Equal(t, Title("發票通知"), props[PropTitle])
	assert.Equal(t, Email("billing@example.com"), props[PropSenderEmail])
	assert.Equal(t, Date("2025-03-01"), props[PropReceivedDate])
	assert.Equal(t, Rich("報帳用"), props[PropReason])
	assert.Equal(t, Select("帳務"), props[PropMailCategory])
	assert.Equal(t, MultiSelect([]string{"公司", "2025"}), props[PropTagCategories])
	assert.Equal(t, Select("待處理"), props[PropProcessStatus])
	assert.Equal(t, Select("未讀"), props[PropReadStatus])
}

func TestMailPropertiesEmptyRecord(t *testing.T) {
	props := MailProperties(record.MailSubmission{})

	// The title falls back rather than going empty.
	assert.Equal(t, Title("無主旨"), props[PropTitle])

	// Email and date serialize as explicit null, reason as an empty span
	// list, and the select-kind properties disappear entirely.
	encoded, err := json.Marshal(props)
	require.NoError(t, err)
	s := string(encoded)
	assert.Contains(t, s, `"寄件人郵件":{"email":null}`)
	assert.Contains(t, s, `"收件日期":{"date":null}`)
	assert.Contains(t, s, `"為什麼要存？":{"rich_text":[]}`)
	assert.NotContains(t, s, PropMailCategory)
	assert.NotContains(t, s, PropTagCategories)
	assert.NotContains(t, s, PropProcessStatus)
	assert.NotContains(t, s, PropReadStatus)
}

func TestMailBlocksGolden(t *testing.T) {
	sub := record.MailSubmission{
		EmailRecord: record.EmailRecord{
			Subject:      "測試",
			SenderEmail:  "alice@example.com",
			ReceivedDate: "2025-03-01",
			Body:         "Hello",
			Attachments: []record.Attachment{
				{Name: "report.pdf", DownloadURL: "https://mail.google.com/dl?attid=1"},
			},
			InlineImages: []record.InlineImage{
				{Src: "https://img.example.com/a.png"},
			},
		},
		Reason: "值得留存",
	}
	blocks, attachments, images := MailBlocks(sub)
	assert.Equal(t, 1, attachments)
	assert.Equal(t, 1, images)

	got, err := json.MarshalIndent(blocks, "", "  ")
	require.NoError(t, err)
	goldiff.File(t, append(got, '\n'), "testdata", "mail_blocks.golden")
}

func TestMailBlocksEmptyBodySkipsSection(t *testing.T) {
	blocks, attachments, images := MailBlocks(record.MailSubmission{})
	assert.Zero(t, attachments)
	assert.Zero(t, images)

	// Summary callout plus divider only; no body heading, no empty
	// paragraph.
	require.Len(t, blocks, 2)
	assert.Equal(t, "callout", blocks[0].Type)
	assert.Equal(t, "divider", blocks[1].Type)
}

func TestMailBlocksLongBodyChunks(t *testing.T) {
	sub := record.MailSubmission{
		EmailRecord: record.EmailRecord{Body: strings.Repeat("字", 2500)},
	}
	blocks, _, _ := MailBlocks(sub)

	var paragraphs []Block
	for _, b := range blocks {
		if b.Type == "paragraph" {
			paragraphs = append(paragraphs, b)
		}
	}
	require.Len(t, paragraphs, 2)
	assert.Len(t, []rune(paragraphs[0].Paragraph.RichText[0].Text.Content), 2000)
	assert.Len(t, []rune(paragraphs[1].Paragraph.RichText[0].Text.Content), 500)
}

func TestMailBlocksSkipsDataURIImages(t *testing.T) {
	sub := record.MailSubmission{
		EmailRecord: record.EmailRecord{
			InlineImages: []record.InlineImage{
				{Src: "data:image/png;base64,AQID"},
				{Src: "https://img.example.com/b.png"},
			},
		},
	}
	blocks, _, images := MailBlocks(sub)
	assert.Equal(t, 1, images)
	for _, b := range blocks {
		if b.Type == "image" {
			assert.Equal(t, "https://img.example.com/b.png", b.Image.External.URL)
		}
	}
}

func TestBillPropertiesFull(t *testing.T) {
	amount := 1234.5
	sub := record.BillSubmission{
		EmailSubject:  "三月帳單",
		Amount:        &amount,
		BillMonth:     "2025-03",
		PaymentMethod: "信用卡",
		Note:          "已核對",
	}
	props := BillProperties(sub)

	assert.Equal(t, Title("三月帳單"), props[PropTitle])
	assert.Equal(t, Number(1234.5), props[PropBillAmount])
	assert.Equal(t, Date("2025-03-01"), props[PropBillMonth], "month normalizes to its first day")
	assert.Equal(t, Select("信用卡"), props[PropBillPaymentMethod])
	assert.Equal(t, Rich("已核對"), props[PropBillNote])
}

func TestBillPropertiesEmpty(t *testing.T) {
	props := BillProperties(record.BillSubmission{})
	assert.Equal(t, Title("帳單"), props[PropTitle])
	assert.Len(t, props, 1, "unset bill fields are omitted, not nulled")
}

func TestBillMonthWithDayPassesThrough(t *testing.T) {
	props := BillProperties(record.BillSubmission{BillMonth: "2025-03-15"})
	assert.Equal(t, Date("2025-03-15"), props[PropBillMonth])
}

func TestBillBlocks(t *testing.T) {
	sub := record.BillSubmission{
		Attachments: []record.Attachment{
			{Name: "invoice.pdf", DownloadURL: "https://mail.google.com/dl?attid=2"},
		},
		InlineImages: []record.InlineImage{
			{Src: "https://img.example.com/c.png"},
		},
	}
	blocks, attachments, images := BillBlocks(sub)
	assert.Equal(t, 1, attachments)
	assert.Equal(t, 1, images)

	types := make([]string, len(blocks))
	for i, b := range blocks {
		types[i] = b.Type
	}
	assert.Equal(t, []string{"image", "divider", "heading_2", "callout"}, types)
}

func TestBillBlocksAttachmentsOnly(t *testing.T) {
	sub := record.BillSubmission{
		Attachments: []record.Attachment{
			{Name: "invoice.pdf", DownloadURL: "https://mail.google.com/dl?attid=2"},
		},
	}
	blocks, _, _ := BillBlocks(sub)
	require.NotEmpty(t, blocks)
	assert.Equal(t, "heading_2", blocks[0].Type, "no divider without preceding images")
}

func TestEncodeAttachmentsRejectsUnusableURLs(t *testing.T) {
	blocks, count := encodeAttachments([]record.Attachment{
		{Name: "a.pdf", DownloadURL: ""},
		{Name: "b.pdf", DownloadURL: "/relative/path"},
	}, false)
	assert.Nil(t, blocks)
	assert.Zero(t, count)
}
