package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/service"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	token, admin, err := h.adminAuth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case err == service.ErrInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "البريد الإلكتروني أو كلمة المرور غير صحيحة")
		case err == service.ErrAdminInactive:
			writeError(w, http.StatusForbidden, "الحساب غير مفعل")
		default:
			logger.ErrorContext(r.Context(), "Admin login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "حدث خطأ في الخادم")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"admin":   admin,
	})
}

func (h *Handlers) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, total, err := h.registrations.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list registrations", "error", err)
		writeError(w, http.StatusInternalServerError, "حدث خطأ في الخادم")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": regs,
		"total":         total,
	})
}

type updateRegistrationRequest struct {
	ID string `json:"id"`
	domain.RegistrationPatch
}

func (h *Handlers) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	var req updateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "معرف التسجيل مطلوب")
		return
	}

	reg, err := h.registrations.Update(r.Context(), req.ID, req.RegistrationPatch)
	if err != nil {
		h.respondServiceError(w, r, err, "التسجيل غير موجود", "حدث خطأ في الخادم")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"registration": reg,
	})
}

type sendInvitationRequest struct {
	RegistrationIDs []string `json:"registrationIds"`
}

func (h *Handlers) SendInvitation(w http.ResponseWriter, r *http.Request) {
	var req sendInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	report, err := h.invitations.SendInvitations(r.Context(), req.RegistrationIDs)
	if err != nil {
		h.respondServiceError(w, r, err, "لم يتم العثور على التسجيلات المحددة", "حدث خطأ أثناء إرسال الدعوات")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": report,
	})
}

type verifyQRRequest struct {
	QRCode string `json:"qrCode"`
}

func (h *Handlers) VerifyQR(w http.ResponseWriter, r *http.Request) {
	var req verifyQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	result, err := h.verification.Verify(r.Context(), req.QRCode)
	if err != nil {
		if err == domain.ErrNotFound {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"error": "رمز QR Code غير صحيح",
				"valid": false,
			})
			return
		}
		h.respondServiceError(w, r, err, "رمز QR Code غير صحيح", "حدث خطأ في الخادم")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"valid":          result.Valid,
		"alreadyScanned": result.AlreadyScanned,
		"scannedAt":      result.ScannedAt,
		"registration":   result.Registration,
	})
}

type sendBulkMessageRequest struct {
	Message      string   `json:"message"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

func (h *Handlers) SendBulkMessage(w http.ResponseWriter, r *http.Request) {
	var req sendBulkMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	report, err := h.broadcast.SendBulk(r.Context(), req.Message, req.PhoneNumbers)
	if err != nil {
		h.respondServiceError(w, r, err, "لا توجد تسجيلات", "حدث خطأ أثناء إرسال الرسائل")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": report,
	})
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "حدث خطأ في الخادم")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "بيانات غير صالحة")
		return
	}

	settings, err := h.settings.Update(r.Context(), patch)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to update settings", "error", err)
		writeError(w, http.StatusInternalServerError, "حدث خطأ في الخادم")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}
