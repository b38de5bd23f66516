package domain

import "time"

// Registration is one row per person who filled the public form. Form fields
// are immutable after creation; the admin-controlled flags and the invitation
// lifecycle fields are the only mutable parts.
type Registration struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	PhoneNumber      string     `json:"phoneNumber"`
	City             string     `json:"city"`
	Message          *string    `json:"message,omitempty"`
	FirstPersonName  *string    `json:"firstPersonName,omitempty"`
	SecondPersonName *string    `json:"secondPersonName,omitempty"`
	OTPCode          *string    `json:"otpCode,omitempty"`
	InvitationCode   *string    `json:"invitationCode,omitempty"`
	InvitationSent   bool       `json:"invitationSent"`
	QRCodeScanned    bool       `json:"qrCodeScanned"`
	QRCodeScannedAt  *time.Time `json:"qrCodeScannedAt,omitempty"`
	Attended         bool       `json:"attended"`
	FamilyAccepted   bool       `json:"familyAccepted"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type CreateRegistrationRequest struct {
	Name             string  `json:"name"`
	PhoneNumber      string  `json:"phoneNumber"`
	City             string  `json:"city"`
	Message          string  `json:"message"`
	FirstPersonName  *string `json:"firstPersonName,omitempty"`
	SecondPersonName *string `json:"secondPersonName,omitempty"`
	OTPCode          *string `json:"otpCode,omitempty"`
}

// RegistrationPatch carries the admin-editable fields. Nil means "leave as is".
type RegistrationPatch struct {
	InvitationSent *bool   `json:"invitationSent,omitempty"`
	FamilyAccepted *bool   `json:"familyAccepted,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	Attended       *bool   `json:"attended,omitempty"`
}

// RegistrationIdentity is the snapshot returned to the gate scanner.
type RegistrationIdentity struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	City             string  `json:"city"`
	FirstPersonName  *string `json:"firstPersonName,omitempty"`
	SecondPersonName *string `json:"secondPersonName,omitempty"`
}

func (r *Registration) Identity() RegistrationIdentity {
	return RegistrationIdentity{
		ID:               r.ID,
		Name:             r.Name,
		City:             r.City,
		FirstPersonName:  r.FirstPersonName,
		SecondPersonName: r.SecondPersonName,
	}
}

type VerificationResult struct {
	Valid          bool                 `json:"valid"`
	AlreadyScanned bool                 `json:"alreadyScanned"`
	ScannedAt      *time.Time           `json:"scannedAt,omitempty"`
	Registration   RegistrationIdentity `json:"registration"`
}

// SendError is one failed item inside a batch send.
type SendError struct {
	ID    string `json:"id,omitempty"`
	Phone string `json:"phone,omitempty"`
	Error string `json:"error"`
}

// SendReport is the per-item accounting of a bulk workflow. Sent+Failed always
// equals Total and len(Errors) always equals Failed.
type SendReport struct {
	Total  int         `json:"total"`
	Sent   int         `json:"sent"`
	Failed int         `json:"failed"`
	Errors []SendError `json:"errors"`
}

func NewSendReport(total int) *SendReport {
	return &SendReport{Total: total, Errors: []SendError{}}
}

func (r *SendReport) RecordSent() {
	r.Sent++
}

func (r *SendReport) RecordFailure(e SendError) {
	r.Failed++
	r.Errors = append(r.Errors, e)
}

type Settings struct {
	ID                         string `json:"id"`
	RegistrationSuccessMessage string `json:"registrationSuccessMessage"`
	InvitationMessage          string `json:"invitationMessage"`
}

type SettingsPatch struct {
	RegistrationSuccessMessage *string `json:"registrationSuccessMessage,omitempty"`
	InvitationMessage          *string `json:"invitationMessage,omitempty"`
}

type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}
