package gateway

import "github.com/rafidainsoft/mahrajan/pkg/logger"

// Dev logs outbound messages instead of sending them. Selected automatically
// when UltraMsg credentials are not configured.
type Dev struct{}

func NewDev() Dev {
	return Dev{}
}

func (Dev) SendText(phone, body string) error {
	logger.Info("[DEV WHATSAPP] text message",
		"to", FormatIntlNoPlus(phone),
		"body", body,
	)
	return nil
}

func (Dev) SendImage(phone, imageBase64, caption string) error {
	logger.Info("[DEV WHATSAPP] image message",
		"to", FormatIntlNoPlus(phone),
		"image_bytes", len(imageBase64),
		"caption", caption,
	)
	return nil
}
