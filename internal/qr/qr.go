// Package qr renders credential links as QR code images for delivery.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const pngSize = 512

// Render encodes link into a PNG QR image at medium error correction,
// matching what the delivered clients expect to scan.
func Render(link string) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, pngSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
