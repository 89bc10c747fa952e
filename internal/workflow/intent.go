package workflow

import "strings"

// Intent is the closed set of recognized inbound text intents. Text resolves
// to an intent once at the boundary; handlers switch on the tag and never
// re-match substrings.
type Intent int

const (
	IntentNone Intent = iota
	IntentStart
	IntentBuy
	IntentSupport
	IntentDownloads
)

// Menu buttons arrive as their full labels, so matching is on the stable
// phrase inside each label rather than the decorated text.
const (
	phraseBuy       = "خرید کانفیگ"
	phraseSupport   = "پشتیبانی"
	phraseDownloads = "دانلود نرم افزارها"
)

// ResolveIntent maps inbound message text to an Intent.
func ResolveIntent(text string) Intent {
	switch {
	case text == "/start":
		return IntentStart
	case strings.Contains(text, phraseBuy):
		return IntentBuy
	case strings.Contains(text, phraseSupport):
		return IntentSupport
	case strings.Contains(text, phraseDownloads):
		return IntentDownloads
	default:
		return IntentNone
	}
}
