package fieldservice

import "strings"

type TeamMember struct {
	ID     int64  `json:"id"`
	Name   string `json:"nome" validate:"required,min=2,max=100"`
	Role   string `json:"funcao,omitempty"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  string `json:"telefone,omitempty" validate:"omitempty,ptphone"`
	Active bool   `json:"ativo"`
}

func (m TeamMember) EntityID() int64 { return m.ID }

func (m TeamMember) WithID(id int64) TeamMember {
	m.ID = id
	return m
}

func (m TeamMember) Normalize() TeamMember {
	m.Name = strings.TrimSpace(m.Name)
	m.Role = strings.TrimSpace(m.Role)
	m.Email = strings.TrimSpace(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	return m
}
