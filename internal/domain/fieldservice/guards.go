package fieldservice

// CheckVehicleDeletable refuses to delete a vehicle under maintenance or
// assigned to an open or pending intervention.
func CheckVehicleDeletable(v Vehicle, interventions []Intervention) error {
	if v.Status == VehicleInMaintenance {
		return &GuardError{Reason: "Não é possível eliminar enquanto a viatura estiver ‘Em manutenção’."}
	}
	for _, i := range interventions {
		if i.Status.Active() && i.VehicleID != nil && *i.VehicleID == v.ID {
			return &GuardError{Reason: "Esta viatura está associada a intervenções ativas. Remova a associação antes de eliminar."}
		}
	}
	return nil
}

func CheckEquipmentDeletable(e Equipment, interventions []Intervention) error {
	if e.Status == EquipmentInUse {
		return &GuardError{Reason: "Não é possível eliminar enquanto o equipamento estiver ‘Em uso’. Altere o estado ou desassocie-o primeiro."}
	}
	for _, i := range interventions {
		if i.Status.Active() && i.usesEquipment(e.ID) {
			return &GuardError{Reason: "Este equipamento está associado a intervenções ativas. Remova a associação antes de eliminar."}
		}
	}
	return nil
}

// CheckTeamMemberDeletable refuses while the member is responsible for, or
// helping on, any intervention, closed ones included.
func CheckTeamMemberDeletable(m TeamMember, interventions []Intervention) error {
	for _, i := range interventions {
		if (i.ResponsibleID != nil && *i.ResponsibleID == m.ID) || (i.HelperID != nil && *i.HelperID == m.ID) {
			return &GuardError{Reason: "Não é possível eliminar este membro da equipa pois tem intervenções associadas."}
		}
	}
	return nil
}
