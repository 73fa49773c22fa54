package fieldservice

import "github.com/geritapp/gerit/internal/fold"

type InterventionStatus string

const (
	StatusOpen    InterventionStatus = "Aberto"
	StatusPending InterventionStatus = "Pendente"
	StatusClosed  InterventionStatus = "Fechado"
)

var InterventionStatuses = []InterventionStatus{StatusOpen, StatusPending, StatusClosed}

func (s InterventionStatus) Valid() bool { return contains(InterventionStatuses, s) }

// Active reports whether the intervention still holds its vehicle, people
// and equipment.
func (s InterventionStatus) Active() bool {
	return s == StatusOpen || s == StatusPending
}

type ConsentStatus string

const (
	ConsentPending ConsentStatus = "Pendente"
	ConsentGiven   ConsentStatus = "Dado"
	ConsentRevoked ConsentStatus = "Revogado"
)

var ConsentStatuses = []ConsentStatus{ConsentPending, ConsentGiven, ConsentRevoked}

func (s ConsentStatus) Valid() bool { return contains(ConsentStatuses, s) }

type EquipmentStatus string

const (
	EquipmentAvailable     EquipmentStatus = "Disponível"
	EquipmentInUse         EquipmentStatus = "Em uso"
	EquipmentInMaintenance EquipmentStatus = "Em manutenção"
)

var EquipmentStatuses = []EquipmentStatus{EquipmentAvailable, EquipmentInUse, EquipmentInMaintenance}

func (s EquipmentStatus) Valid() bool { return contains(EquipmentStatuses, s) }

type VehicleStatus string

const (
	VehicleActive        VehicleStatus = "Ativo"
	VehicleInMaintenance VehicleStatus = "Em manutenção"
	VehicleInactive      VehicleStatus = "Inativo"
)

var VehicleStatuses = []VehicleStatus{VehicleActive, VehicleInMaintenance, VehicleInactive}

func (s VehicleStatus) Valid() bool { return contains(VehicleStatuses, s) }

// ParseStatus matches s against values ignoring case and accents, so
// spreadsheet input like "em manutencao" resolves to "Em manutenção".
func ParseStatus[S ~string](s string, values []S) (S, bool) {
	for _, v := range values {
		if fold.Equal(s, string(v)) {
			return v, true
		}
	}
	var zero S
	return zero, false
}

func contains[S ~string](values []S, s S) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
