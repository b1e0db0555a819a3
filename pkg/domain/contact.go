package domain

import (
	"log/slog"
	"strings"
)

// Preferred contact channels.
const (
	ContactEmail    = "email"
	ContactPhone    = "phone"
	ContactWhatsApp = "whatsapp"
)

// ContactMethods lists the accepted PreferredContact values.
var ContactMethods = []string{ContactEmail, ContactPhone, ContactWhatsApp}

// GroupSizes lists the accepted GroupSize values.
var GroupSizes = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "10+"}

// ContactDetails is the traveller's contact form.
type ContactDetails struct {
	Name             string `json:"name" yaml:"name"`
	Email            string `json:"email" yaml:"email"`
	Phone            string `json:"phone" yaml:"phone"`
	Nationality      string `json:"nationality" yaml:"nationality"`
	PreferredContact string `json:"preferred_contact" yaml:"preferred_contact"`
	GroupSize        string `json:"group_size" yaml:"group_size"`

	ArrivalDetails      string `json:"arrival_details,omitempty" yaml:"arrival_details,omitempty"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty" yaml:"dietary_restrictions,omitempty"`
	SpecialRequests     string `json:"special_requests,omitempty" yaml:"special_requests,omitempty"`
}

// RequiredField pairs a required form field with its label.
type RequiredField struct {
	Name  string
	Label string
	Value string
}

// RequiredFields returns the required fields in form order.
func (c ContactDetails) RequiredFields() []RequiredField {
	return []RequiredField{
		{Name: "name", Label: "full name", Value: c.Name},
		{Name: "email", Label: "email address", Value: c.Email},
		{Name: "phone", Label: "phone number", Value: c.Phone},
		{Name: "nationality", Label: "nationality", Value: c.Nationality},
		{Name: "preferred_contact", Label: "preferred contact method", Value: c.PreferredContact},
		{Name: "group_size", Label: "number of travelers", Value: c.GroupSize},
	}
}

// LogValue masks personal data so contact details can be logged safely.
func (c ContactDetails) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", c.Name),
		slog.String("email", maskEmail(c.Email)),
		slog.String("phone", maskTail(c.Phone, 2)),
		slog.String("nationality", c.Nationality),
		slog.String("preferred_contact", c.PreferredContact),
		slog.String("group_size", c.GroupSize),
	)
}

func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return maskTail(email, 0)
	}
	return email[:1] + "***" + email[at:]
}

func maskTail(s string, keep int) string {
	if s == "" {
		return ""
	}
	if len(s) <= keep {
		return "***"
	}
	return "***" + s[len(s)-keep:]
}

// DefaultContact returns a blank form with the preselected choices.
func DefaultContact() ContactDetails {
	return ContactDetails{PreferredContact: ContactEmail, GroupSize: "1"}
}
