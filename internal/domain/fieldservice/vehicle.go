package fieldservice

import (
	"strings"
	"time"
)

const MinModelYear = 1980

type Vehicle struct {
	ID        int64         `json:"id"`
	Plate     string        `json:"matricula" validate:"required,ptplate"`
	Make      string        `json:"marca,omitempty"`
	Model     string        `json:"modelo,omitempty"`
	Year      int           `json:"ano,omitempty" validate:"omitempty,modelyear"`
	Status    VehicleStatus `json:"estado" validate:"required,known"`
	Notes     string        `json:"notas,omitempty" validate:"max=1000"`
	CreatedAt time.Time     `json:"criadoEm"`
}

func (v Vehicle) EntityID() int64 { return v.ID }

func (v Vehicle) WithID(id int64) Vehicle {
	v.ID = id
	return v
}

func (v Vehicle) Normalize() Vehicle {
	v.Plate = FormatPlate(v.Plate)
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	v.Notes = strings.TrimSpace(v.Notes)
	if v.Status == "" {
		v.Status = VehicleActive
	}
	return v
}
