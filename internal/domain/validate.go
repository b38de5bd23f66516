package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// IraqiCities is the closed list the registration form offers.
var IraqiCities = []string{
	"بغداد", "البصرة", "الموصل", "أربيل", "السليمانية", "كركوك",
	"الناصرية", "النجف", "كربلاء", "الحلة", "بعقوبة", "الديوانية",
	"رمادي", "سامراء", "تكريت", "الكوت", "علي الغربي", "الحي",
	"الفلوجة", "هيت", "حديثة", "الأنبار", "زاخو", "دهوك",
	"سنجار", "تلعفر", "الحضر", "كرخانة", "شيروان", "خانقين",
	"مندلي", "بلد", "الشرقاط", "الشامية", "الكاظمية", "الرصافة",
	"الكرخ", "الراشدية", "أبو غريب", "المدائن",
}

var (
	namePattern     = regexp.MustCompile(`^[\x{0600}-\x{06FF}\s\w]+$`)
	jsProtocol      = regexp.MustCompile(`(?i)javascript:`)
	eventAttributes = regexp.MustCompile(`(?i)on\w+=`)
)

func ValidCity(city string) bool {
	for _, c := range IraqiCities {
		if c == city {
			return true
		}
	}
	return false
}

// SanitizeText strips angle brackets, javascript: protocols and inline event
// handlers from free-form registrant input.
func SanitizeText(input string) string {
	s := strings.NewReplacer("<", "", ">", "").Replace(input)
	s = jsProtocol.ReplaceAllString(s, "")
	s = eventAttributes.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Validate checks a registration request against the form rules. It returns a
// *ValidationError with an Arabic user-facing message on the first violation.
func (r *CreateRegistrationRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	switch {
	case utf8.RuneCountInString(name) < 2:
		return Invalid("الاسم يجب أن يكون على الأقل حرفين")
	case utf8.RuneCountInString(name) > 100:
		return Invalid("الاسم طويل جداً")
	case !namePattern.MatchString(name):
		return Invalid("الاسم يجب أن يحتوي على أحرف عربية أو إنجليزية فقط")
	}

	if !ValidPhone(r.PhoneNumber) {
		return Invalid("رقم الهاتف غير صحيح. يجب أن يكون رقم عراقي (مثال: 07901234567 أو +9647901234567)")
	}

	if !ValidCity(strings.TrimSpace(r.City)) {
		return Invalid("يرجى اختيار مدينة صحيحة من القائمة")
	}

	if utf8.RuneCountInString(r.Message) > 1000 {
		return Invalid("الرسالة طويلة جداً (الحد الأقصى 1000 حرف)")
	}

	return nil
}

// Sanitize normalizes and scrubs the request in place. Call after Validate.
func (r *CreateRegistrationRequest) Sanitize() {
	r.Name = SanitizeText(r.Name)
	r.PhoneNumber = SanitizePhone(r.PhoneNumber)
	r.City = SanitizeText(r.City)
	r.Message = SanitizeText(r.Message)
	if r.FirstPersonName != nil {
		v := SanitizeText(*r.FirstPersonName)
		r.FirstPersonName = &v
	}
	if r.SecondPersonName != nil {
		v := SanitizeText(*r.SecondPersonName)
		r.SecondPersonName = &v
	}
	if r.OTPCode != nil {
		v := strings.TrimSpace(*r.OTPCode)
		r.OTPCode = &v
	}
}
