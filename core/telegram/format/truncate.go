// Package format holds text helpers shared by Telegram replies.
package format

// Ellipsis marks text cut by Truncate.
const Ellipsis = "..."

// Truncate keeps the first n runes of text and appends Ellipsis when anything was cut.
func Truncate(text string, n int) string {
	if n <= 0 {
		if text == "" {
			return ""
		}
		return Ellipsis
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i] + Ellipsis
		}
		count++
	}
	return text
}
