package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"

	"github.com/ravikhokle/oddostock/internal/core/apperror"
)

// Partner is the counterparty block embedded in receipts (supplier) and deliveries (customer).
// Stored as a JSONB column.
type Partner struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Normalize trims all fields.
func (p *Partner) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Contact = strings.TrimSpace(p.Contact)
	p.Email = strings.TrimSpace(p.Email)
	p.Address = strings.TrimSpace(p.Address)
}

// ValidatePartner checks a required partner block; field names the JSON field for error details.
func (p *Partner) ValidatePartner(field string) error {
	p.Normalize()
	if p.Name == "" {
		return apperror.NewValidation(field+" name is required").
			WithDetail("field", field+".name")
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return apperror.NewValidation("invalid email").
				WithDetail("field", field+".email").
				WithDetail("value", p.Email)
		}
	}
	return nil
}

// Value implements driver.Valuer for the JSONB column.
func (p Partner) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for the JSONB column.
func (p *Partner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Partner{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("partner: unsupported source type %T", src)
}
