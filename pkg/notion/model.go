package notion

// RichText is one styled text span.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        TextContent  `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// TextContent is the literal content of a span, optionally linked.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link wraps a URL for a linked text span.
type Link struct {
	URL string `json:"url"`
}

// Annotations holds the subset of text styling the encoder uses.
type Annotations struct {
	Bold bool `json:"bold,omitempty"`
}

// Icon decorates a page or callout block.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// EmojiIcon builds an emoji icon.
func EmojiIcon(emoji string) *Icon {
	return &Icon{Type: "emoji", Emoji: emoji}
}

// Properties maps property names to typed property values.  Optional
// properties are represented by leaving the key out entirely; the email and
// date kinds additionally accept an explicit null, which is distinct from
// omission.
type Properties map[string]any

// Property value shapes, one per remote property kind.
type (
	TitleValue struct {
		Title []RichText `json:"title"`
	}
	EmailValue struct {
		Email *string `json:"email"`
	}
	DateValue struct {
		Date *DateSpec `json:"date"`
	}
	DateSpec struct {
		Start string `json:"start"`
	}
	RichTextValue struct {
		RichText []RichText `json:"rich_text"`
	}
	SelectValue struct {
		Select OptionRef `json:"select"`
	}
	MultiSelectValue struct {
		MultiSelect []OptionRef `json:"multi_select"`
	}
	NumberValue struct {
		Number float64 `json:"number"`
	}
)

// OptionRef names a select or multi-select option.
type OptionRef struct {
	Name string `json:"name"`
}

// Text builds a plain text span.
func Text(content string) RichText {
	return RichText{Type: "text", Text: TextContent{Content: content}}
}

// LinkedText builds a bold text span linked to a URL.
func LinkedText(content, url string) RichText {
	return RichText{
		Type:        "text",
		Text:        TextContent{Content: content, Link: &Link{URL: url}},
		Annotations: &Annotations{Bold: true},
	}
}

// Title builds a title property value.
func Title(content string) TitleValue {
	return TitleValue{Title: []RichText{{Text: TextContent{Content: content}}}}
}

// Email builds an email property value; empty input yields explicit null.
func Email(addr string) EmailValue {
	if addr == "" {
		return EmailValue{}
	}
	return EmailValue{Email: &addr}
}

// Date builds a date property value; empty input yields explicit null.
func Date(start string) DateValue {
	if start == "" {
		return DateValue{}
	}
	return DateValue{Date: &DateSpec{Start: start}}
}

// Rich builds a rich text property value; empty input yields an empty span
// list, never null.
func Rich(content string) RichTextValue {
	if content == "" {
		return RichTextValue{RichText: []RichText{}}
	}
	return RichTextValue{RichText: []RichText{{Text: TextContent{Content: content}}}}
}

// Select builds a select property value.
func Select(name string) SelectValue {
	return SelectValue{Select: OptionRef{Name: name}}
}

// MultiSelect builds a multi-select property value.
func MultiSelect(names []string) MultiSelectValue {
	refs := make([]OptionRef, len(names))
	for i, n := range names {
		refs[i] = OptionRef{Name: n}
	}
	return MultiSelectValue{MultiSelect: refs}
}

// Number builds a number property value.
func Number(n float64) NumberValue {
	return NumberValue{Number: n}
}

// Block is one unit of page content.  Exactly one of the kind fields is set,
// matching Type.
type Block struct {
	Object    string         `json:"object"`
	Type      string         `json:"type"`
	Paragraph *RichTextBlock `json:"paragraph,omitempty"`
	Heading2  *RichTextBlock `json:"heading_2,omitempty"`
	Divider   *struct{}      `json:"divider,omitempty"`
	Callout   *Callout       `json:"callout,omitempty"`
	Image     *Image         `json:"image,omitempty"`
}

// RichTextBlock is the payload of paragraph and heading blocks.
type RichTextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// Callout is a decorated block, optionally with nested children.
type Callout struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    string     `json:"color,omitempty"`
	Children []Block    `json:"children,omitempty"`
}

// Image references an externally hosted image; the protocol has no binary
// upload path.
type Image struct {
	Type     string       `json:"type"`
	External ExternalFile `json:"external"`
}

// ExternalFile wraps an external file URL.
type ExternalFile struct {
	URL string `json:"url"`
}

// Paragraph builds a paragraph block.
func Paragraph(text string) Block {
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &RichTextBlock{RichText: []RichText{Text(text)}},
	}
}

// Heading2 builds a second-level heading block.
func Heading2(text string) Block {
	return Block{
		Object:   "block",
		Type:     "heading_2",
		Heading2: &RichTextBlock{RichText: []RichText{Text(text)}},
	}
}

// Divider builds a divider block.
func Divider() Block {
	return Block{Object: "block", Type: "divider", Divider: &struct{}{}}
}

// CalloutBlock builds a callout with the given spans, icon and color.
func CalloutBlock(spans []RichText, icon *Icon, color string, children ...Block) Block {
	return Block{
		Object: "block",
		Type:   "callout",
		Callout: &Callout{
			RichText: spans,
			Icon:     icon,
			Color:    color,
			Children: children,
		},
	}
}

// ImageBlock builds an external image reference block.
func ImageBlock(url string) Block {
	return Block{
		Object: "block",
		Type:   "image",
		Image:  &Image{Type: "external", External: ExternalFile{URL: url}},
	}
}
