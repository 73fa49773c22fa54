package fieldservice

import (
	"strings"
	"time"
)

type Client struct {
	ID        int64         `json:"id"`
	Name      string        `json:"nome" validate:"required,max=120"`
	Email     string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string        `json:"telefone,omitempty"`
	TaxID     string        `json:"nif,omitempty" validate:"omitempty,len=9,numeric"`
	Address   string        `json:"morada,omitempty"`
	Consent   ConsentStatus `json:"consentimento" validate:"required,known"`
	CreatedAt time.Time     `json:"criadoEm"`
}

func (c Client) EntityID() int64 { return c.ID }

func (c Client) WithID(id int64) Client {
	c.ID = id
	return c
}

// Normalize trims input and fills the defaults of a new record.
func (c Client) Normalize() Client {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.TaxID = strings.TrimSpace(c.TaxID)
	c.Address = strings.TrimSpace(c.Address)
	if c.Consent == "" {
		c.Consent = ConsentPending
	}
	return c
}
