package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/gateway"
)

// OTPService generates phone verification codes and delivers them over
// WhatsApp. The code is returned to the caller, which checks the user's
// input against it.
type OTPService struct {
	messenger gateway.Messenger
}

func NewOTPService(messenger gateway.Messenger) *OTPService {
	return &OTPService{messenger: messenger}
}

func (s *OTPService) Send(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", domain.Invalid("رقم الهاتف مطلوب")
	}

	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	message := "رمز التاكيد الخاص بك هو: " + otp + "\n\nاستخدم هذا الرمز لإكمال عملية التسجيل."
	if err := s.messenger.SendText(phone, message); err != nil {
		return "", fmt.Errorf("failed to send OTP: %w", err)
	}

	return otp, nil
}

// generateOTP returns a uniform 6-digit code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
