package service_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/service"
)

func TestOTPSend_Success(t *testing.T) {
	msgr := &mockMessenger{}
	svc := service.NewOTPService(msgr)

	otp, err := svc.Send("07901234567")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if !regexp.MustCompile(`^\d{6}$`).MatchString(otp) {
		t.Fatalf("OTP %q is not 6 digits", otp)
	}
	if len(msgr.texts) != 1 {
		t.Fatalf("expected 1 send, got %d", len(msgr.texts))
	}
	if !strings.Contains(msgr.texts[0].body, otp) {
		t.Fatalf("message %q does not contain the OTP", msgr.texts[0].body)
	}
}

func TestOTPSend_GatewayFailure(t *testing.T) {
	svc := service.NewOTPService(&mockMessenger{failAll: true})
	if _, err := svc.Send("07901234567"); err == nil {
		t.Fatal("expected error when the gateway is down")
	}
}

func TestOTPSend_EmptyPhone(t *testing.T) {
	svc := service.NewOTPService(&mockMessenger{})
	if _, err := svc.Send(" "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
