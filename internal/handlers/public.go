package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// Register handles the public registration form submission.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	reg, err := h.registrations.Register(r.Context(), &req)
	if err != nil {
		if err == domain.ErrDuplicatePhone {
			writeError(w, http.StatusConflict, "رقم الهاتف مسجل مسبقاً")
			return
		}
		h.respondServiceError(w, r, err, "التسجيل غير موجود", "حدث خطأ أثناء التسجيل. يرجى المحاولة مجدداً")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      reg.ID,
	})
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// SendOTP generates a verification code and sends it to the given phone over
// WhatsApp. The code is returned so the registration form can check the
// user's input against it.
func (h *Handlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	phone := domain.SanitizePhone(req.PhoneNumber)
	if !domain.ValidPhone(phone) {
		writeError(w, http.StatusBadRequest, "رقم الهاتف غير صحيح")
		return
	}

	otp, err := h.otp.Send(phone)
	if err != nil {
		if domain.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "Failed to send OTP", "error", err)
		writeError(w, http.StatusInternalServerError, "فشل إرسال رمز التحقق. يرجى المحاولة مجدداً")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"otp":     otp,
	})
}
