package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const imageSize = 300

// Renderer produces QR images for invitation codes.
type Renderer struct{}

func New() Renderer {
	return Renderer{}
}

// Render encodes data as a 300px PNG QR code and returns it base64-encoded,
// ready for the gateway's data-URL image upload.
func (Renderer) Render(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
