package fieldservice

import (
	"strings"
	"time"
)

type Equipment struct {
	ID           int64           `json:"id"`
	Name         string          `json:"nome" validate:"required,min=2,max=120"`
	Kind         string          `json:"tipo,omitempty"`
	SerialNumber string          `json:"numeroSerie,omitempty"`
	Status       EquipmentStatus `json:"estado" validate:"required,known"`
	CreatedAt    time.Time       `json:"criadoEm"`
}

func (e Equipment) EntityID() int64 { return e.ID }

func (e Equipment) WithID(id int64) Equipment {
	e.ID = id
	return e
}

func (e Equipment) Normalize() Equipment {
	e.Name = strings.TrimSpace(e.Name)
	e.Kind = strings.TrimSpace(e.Kind)
	e.SerialNumber = strings.TrimSpace(e.SerialNumber)
	if e.Status == "" {
		e.Status = EquipmentAvailable
	}
	return e
}

// CheckUniqueSerial rejects a serial number already used by another item,
// ignoring case.
func CheckUniqueSerial(e Equipment, all []Equipment) error {
	if e.SerialNumber == "" {
		return nil
	}
	for _, other := range all {
		if other.ID != e.ID && strings.EqualFold(other.SerialNumber, e.SerialNumber) {
			return &ValidationError{Fields: map[string]string{"numeroSerie": "Número de série já existente."}}
		}
	}
	return nil
}
