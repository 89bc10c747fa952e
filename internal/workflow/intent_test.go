package workflow

import "testing"

func TestResolveIntent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want Intent
	}{
		{"/start", IntentStart},
		{"💵 خرید کانفیگ", IntentBuy},
		{"خرید کانفیگ", IntentBuy},
		{"🎉 خرید کانفیگ جشنواره", IntentBuy}, // promotional label variant
		{"👨‍💻 پشتیبانی", IntentSupport},
		{"📩 دانلود نرم افزارها", IntentDownloads},
		{"", IntentNone},
		{"/start extra", IntentNone},
		{"random chatter", IntentNone},
	}
	for _, tc := range cases {
		if got := ResolveIntent(tc.text); got != tc.want {
			t.Fatalf("ResolveIntent(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
