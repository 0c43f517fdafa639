package line

import "encoding/json"

// maxAltTextRunes is the LINE limit on flex message alt text.
const maxAltTextRunes = 400

// TextMessage is a plain text reply or push message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextMessage creates a text message.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// FlexMessage is a flex reply or push message. Contents holds the
// bubble JSON.
type FlexMessage struct {
	Type     string          `json:"type"`
	AltText  string          `json:"altText"`
	Contents json.RawMessage `json:"contents"`
}

// flexText is a text component inside a bubble.
type flexText struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Weight  string `json:"weight,omitempty"`
	Size    string `json:"size,omitempty"`
	Color   string `json:"color,omitempty"`
	Wrap    bool   `json:"wrap,omitempty"`
	Margin  string `json:"margin,omitempty"`
	Flex    int    `json:"flex,omitempty"`
	Align   string `json:"align,omitempty"`
	MaxLine int    `json:"maxLines,omitempty"`
}

type flexIcon struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Size string `json:"size,omitempty"`
}

type flexBox struct {
	Type     string `json:"type"`
	Layout   string `json:"layout"`
	Contents []any  `json:"contents"`
	Spacing  string `json:"spacing,omitempty"`
	Margin   string `json:"margin,omitempty"`
	PaddingA string `json:"paddingAll,omitempty"`
}

type flexBubble struct {
	Type string   `json:"type"`
	Body *flexBox `json:"body"`
}

// NewCardMessage builds a flex bubble with a header (icon plus title)
// and a wrapped body text. The alt text shown in chat previews and
// unsupported clients is derived from the body, truncated to the
// platform limit.
func NewCardMessage(title, body, iconURL string) FlexMessage {
	header := []any{}
	if iconURL != "" {
		header = append(header, flexIcon{Type: "icon", URL: iconURL, Size: "md"})
	}
	header = append(header, flexText{
		Type:   "text",
		Text:   title,
		Weight: "bold",
		Size:   "md",
		Color:  "#1DB446",
		Flex:   1,
	})

	bubble := flexBubble{
		Type: "bubble",
		Body: &flexBox{
			Type:   "box",
			Layout: "vertical",
			Contents: []any{
				flexBox{Type: "box", Layout: "baseline", Contents: header, Spacing: "sm"},
				flexText{Type: "text", Text: body, Wrap: true, Size: "sm", Margin: "md"},
			},
		},
	}

	contents, _ := json.Marshal(bubble)
	return FlexMessage{
		Type:     "flex",
		AltText:  TruncateAltText(body),
		Contents: contents,
	}
}

// TruncateAltText enforces the alt text length limit, cutting on rune
// boundaries and appending an ellipsis when truncated.
func TruncateAltText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxAltTextRunes {
		return text
	}
	return string(runes[:maxAltTextRunes-3]) + "..."
}
