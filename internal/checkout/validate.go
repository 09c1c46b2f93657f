package checkout

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	cardRe   = regexp.MustCompile(`^\d{16}$`)
	expiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// Form is the shipping and payment form. Card fields are format-checked
// only; nothing is ever charged.
type Form struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// FieldErrors maps field name to message so the caller can surface errors
// per field. It implements error for the propagation path.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Validate returns nil when the form is acceptable.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	if !emailRe.MatchString(f.Email) {
		errs["email"] = "invalid email"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "city is required"
	}
	if !cardRe.MatchString(f.CardNumber) {
		errs["card_number"] = "card number must be 16 digits"
	}
	if !expiryRe.MatchString(f.Expiry) {
		errs["expiry"] = "expiry must be MM/YY"
	}
	if !cvvRe.MatchString(f.CVV) {
		errs["cvv"] = "CVV must be 3 or 4 digits"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
