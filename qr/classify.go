package qr

import "strings"

// Kind classifies decoded text for presentation only.
type Kind int

const (
	KindText Kind = iota
	KindLink
	KindWiFi
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindWiFi:
		return "wifi"
	default:
		return "text"
	}
}

// Classify applies the prefix/substring rules in priority order:
// "http" prefix is a link, a case-insensitive "WIFI:" anywhere is a WiFi config.
func Classify(text string) Kind {
	switch {
	case strings.HasPrefix(text, "http"):
		return KindLink
	case strings.Contains(strings.ToUpper(text), "WIFI:"):
		return KindWiFi
	default:
		return KindText
	}
}

// FormatResult renders decoded text with a label matching its Kind.
func FormatResult(text string) string {
	switch Classify(text) {
	case KindLink:
		return "🔗 Link: " + text
	case KindWiFi:
		return "📶 WiFi Config: " + text
	default:
		return "📝 Text: " + text
	}
}
