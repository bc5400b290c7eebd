package notion

import (
	"strings"

	"github.com/mailclip/mailclip/pkg/record"
)

// Property names of the mail collection schema.
const (
	PropTitle         = "名稱"
	PropSenderEmail   = "寄件人郵件"
	PropReceivedDate  = "收件日期"
	PropReason        = "為什麼要存？"
	PropMailCategory  = "郵件分類"
	PropTagCategories = "標籤分類"
	PropProcessStatus = "處理狀況"
	PropReadStatus    = "閱讀狀況"
)

// Property names of the bill collection schema.
const (
	PropBillAmount        = "月消費金額"
	PropBillMonth         = "帳單月份"
	PropBillPaymentMethod = "付款方式"
	PropBillNote          = "文字備註"
)

// Literals used when building page content.
const (
	fallbackSubject = "無主旨"
	fallbackBill    = "帳單"
	unknownValue    = "未知"
	summaryHeading  = "信件摘要"
	bodyHeading     = "📧 郵件內文"
	attachHeading   = "📎 附件"
	openLinkSuffix  = " ← 點擊開啟"

	MailIcon = "📧"
	BillIcon = "💳"
)

// MailProperties maps an annotated submission onto the mail collection's
// property schema.  Select-kind properties are left out entirely when unset;
// email and date send explicit null instead.
func MailProperties(sub record.MailSubmission) Properties {
	props := Properties{
		PropTitle:        Title(orElse(sub.Subject, fallbackSubject)),
		PropSenderEmail:  Email(sub.SenderEmail),
		PropReceivedDate: Date(sub.ReceivedDate),
		PropReason:       Rich(sub.Reason),
	}
	if sub.MailCategory != "" {
		props[PropMailCategory] = Select(sub.MailCategory)
	}
	if len(sub.TagCategories) > 0 {
		props[PropTagCategories] = MultiSelect(sub.TagCategories)
	}
	if sub.ProcessStatus != "" {
		props[PropProcessStatus] = Select(sub.ProcessStatus)
	}
	if sub.ReadStatus != "" {
		props[PropReadStatus] = Select(sub.ReadStatus)
	}
	return props
}

// MailBlocks builds the ordered page content for a mail submission: summary
// callout, optional reason, a divider, body paragraphs in 2000-character
// chunks, image references and attachment references.  The returned counts
// reflect exactly the encoded items.
func MailBlocks(sub record.MailSubmission) (blocks []Block, attachmentCount, imageCount int) {
	blocks = append(blocks, CalloutBlock(
		[]RichText{Text(summaryHeading)},
		EmojiIcon("📋"),
		"blue_background",
		Paragraph("📌 主旨："+orElse(sub.Subject, fallbackSubject)),
		Paragraph("✉️ 寄件人："+orElse(sub.SenderEmail, unknownValue)),
		Paragraph("📅 收件日期："+orElse(sub.ReceivedDate, unknownValue)),
	))

	if sub.Reason != "" {
		blocks = append(blocks, CalloutBlock(
			[]RichText{Text(sub.Reason)},
			EmojiIcon("💭"),
			"yellow_background",
		))
	}

	blocks = append(blocks, Divider())

	if sub.Body != "" {
		blocks = append(blocks, Heading2(bodyHeading))
		for _, chunk := range SplitText(sub.Body, MaxTextLength) {
			blocks = append(blocks, Paragraph(chunk))
		}
	}

	imageBlocks, imageCount := encodeImages(sub.InlineImages)
	blocks = append(blocks, imageBlocks...)

	attachBlocks, attachmentCount := encodeAttachments(sub.Attachments, true)
	blocks = append(blocks, attachBlocks...)

	return blocks, attachmentCount, imageCount
}

// BillProperties maps a bill submission onto the bill collection's schema.
// Every field except the title is omitted when unset.
func BillProperties(sub record.BillSubmission) Properties {
	props := Properties{
		PropTitle: Title(orElse(sub.EmailSubject, fallbackBill)),
	}
	if sub.Amount != nil {
		props[PropBillAmount] = Number(*sub.Amount)
	}
	if sub.BillMonth != "" {
		props[PropBillMonth] = Date(monthStart(sub.BillMonth))
	}
	if sub.PaymentMethod != "" {
		props[PropBillPaymentMethod] = Select(sub.PaymentMethod)
	}
	if sub.Note != "" {
		props[PropBillNote] = Rich(sub.Note)
	}
	return props
}

// BillBlocks builds bill page content: image references, then attachment
// references behind a divider when both are present.
func BillBlocks(sub record.BillSubmission) (blocks []Block, attachmentCount, imageCount int) {
	imageBlocks, imageCount := encodeImages(sub.InlineImages)
	blocks = append(blocks, imageBlocks...)

	attachBlocks, attachmentCount := encodeAttachments(sub.Attachments, imageCount > 0)
	blocks = append(blocks, attachBlocks...)

	return blocks, attachmentCount, imageCount
}

// encodeImages renders accepted inline images as external reference blocks.
// Only http(s) sources can be referenced; data URIs have no external home.
func encodeImages(images []record.InlineImage) (blocks []Block, count int) {
	for _, img := range images {
		if !strings.HasPrefix(img.Src, "http") {
			continue
		}
		blocks = append(blocks, ImageBlock(img.Src))
		count++
	}
	return blocks, count
}

// encodeAttachments renders attachments with a resolvable absolute download
// URL as linked callouts under a heading.  Extractor output is already
// filtered, but callers may pass unfiltered lists, so validity is re-checked
// here.
func encodeAttachments(attachments []record.Attachment, leadingDivider bool) (blocks []Block, count int) {
	var valid []record.Attachment
	for _, att := range attachments {
		if att.DownloadURL != "" && strings.HasPrefix(att.DownloadURL, "http") {
			valid = append(valid, att)
		}
	}
	if len(valid) == 0 {
		return nil, 0
	}

	if leadingDivider {
		blocks = append(blocks, Divider())
	}
	blocks = append(blocks, Heading2(attachHeading))
	for _, att := range valid {
		blocks = append(blocks, CalloutBlock(
			[]RichText{
				LinkedText(att.Name, att.DownloadURL),
				Text(openLinkSuffix),
			},
			EmojiIcon(record.FileIcon(att.Name)),
			"blue_background",
		))
		count++
	}
	return blocks, count
}

// monthStart normalizes a "2006-01" calendar month to its first day; inputs
// already carrying a day pass through unchanged.
func monthStart(month string) string {
	if len(month) == 7 {
		return month + "-01"
	}
	return month
}

func orElse(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
