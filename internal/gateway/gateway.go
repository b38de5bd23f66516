package gateway

// Messenger is the outbound WhatsApp channel. Phone numbers are accepted in
// the national 07XXXXXXXXX form; implementations convert to whatever their
// upstream expects.
type Messenger interface {
	SendText(phone, body string) error
	SendImage(phone, imageBase64, caption string) error
}
