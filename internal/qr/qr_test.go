package qr

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRender(t *testing.T) {
	t.Parallel()
	png, err := Render("vless://uuid@example.com:443?security=none#plan")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestRender_EmptyLink(t *testing.T) {
	t.Parallel()
	if _, err := Render(""); err == nil {
		t.Fatalf("empty link must fail")
	}
}
