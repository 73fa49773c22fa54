package fieldservice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Intervention struct {
	ID              int64              `json:"id"`
	Title           string             `json:"titulo" validate:"required,min=2,max=80"`
	Description     string             `json:"descricao,omitempty" validate:"max=1000"`
	Status          InterventionStatus `json:"estado" validate:"required,known"`
	Start           time.Time          `json:"inicio" validate:"required"`
	End             time.Time          `json:"fim" validate:"required,gtfield=Start"`
	VehiclePlate    string             `json:"viatura"`
	ResponsibleName string             `json:"responsavel"`
	Address         string             `json:"morada,omitempty"`
	Budget          *decimal.Decimal   `json:"valorOrcamento,omitempty"`
	VehicleID       *int64             `json:"viaturaId,omitempty"`
	ResponsibleID   *int64             `json:"responsavelId,omitempty"`
	HelperID        *int64             `json:"ajudanteId,omitempty"`
	ClientID        *int64             `json:"clienteId,omitempty"`
	EquipmentIDs    []int64            `json:"equipamentos,omitempty"`
}

func (i Intervention) EntityID() int64 { return i.ID }

func (i Intervention) WithID(id int64) Intervention {
	i.ID = id
	return i
}

func (i Intervention) Normalize() Intervention {
	i.Title = strings.TrimSpace(i.Title)
	i.Description = strings.TrimSpace(i.Description)
	i.Address = strings.TrimSpace(i.Address)
	if i.Status == "" {
		i.Status = StatusOpen
	}
	return i
}

// Denormalize copies the plate and responsible name shown in listings from
// the referenced vehicle and team member. Unknown references clear them.
func (i Intervention) Denormalize(vehicles []Vehicle, team []TeamMember) Intervention {
	i.VehiclePlate = ""
	if i.VehicleID != nil {
		for _, v := range vehicles {
			if v.ID == *i.VehicleID {
				i.VehiclePlate = v.Plate
				break
			}
		}
	}

	i.ResponsibleName = ""
	if i.ResponsibleID != nil {
		for _, m := range team {
			if m.ID == *i.ResponsibleID {
				i.ResponsibleName = m.Name
				break
			}
		}
	}
	return i
}

func (i Intervention) usesEquipment(id int64) bool {
	for _, eq := range i.EquipmentIDs {
		if eq == id {
			return true
		}
	}
	return false
}

// InterventionFilter narrows interventions by status and by a date window
// that overlaps [Start, End].
type InterventionFilter struct {
	Status InterventionStatus
	From   time.Time
	To     time.Time
}

func (f InterventionFilter) Match(i Intervention) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if !f.From.IsZero() {
		from := time.Date(f.From.Year(), f.From.Month(), f.From.Day(), 0, 0, 0, 0, f.From.Location())
		if i.End.Before(from) {
			return false
		}
	}
	if !f.To.IsZero() {
		to := time.Date(f.To.Year(), f.To.Month(), f.To.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), f.To.Location())
		if i.Start.After(to) {
			return false
		}
	}
	return true
}
