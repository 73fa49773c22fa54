package fieldservice

import (
	"strconv"
	"strings"
	"time"

	"github.com/geritapp/gerit/internal/application/catalog"
	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
	"github.com/geritapp/gerit/internal/export"
	"github.com/geritapp/gerit/internal/liststate"
)

const (
	EntityClients       = "clients"
	EntityTeam          = "team"
	EntityVehicles      = "vehicles"
	EntityEquipment     = "equipment"
	EntityInterventions = "interventions"
)

func text(s string) (any, bool) { return s, s != "" }

func moment(t time.Time) (any, bool) { return t, !t.IsZero() }

func idText(id int64) string { return strconv.FormatInt(id, 10) }

// matchStatus treats an empty or "Todos" filter as no filter.
func matchStatus[S ~string](filter string, status S, values []S) bool {
	if filter == "" || strings.EqualFold(filter, "todos") {
		return true
	}
	want, ok := domain.ParseStatus(filter, values)
	return ok && want == status
}

func (c *Console) clientDefinition() catalog.Definition[domain.Client] {
	return catalog.Definition[domain.Client]{
		Name:  EntityClients,
		Title: "Clientes",
		Fields: []liststate.Field[domain.Client]{
			{Key: "nome", Value: func(x domain.Client) (any, bool) { return text(x.Name) }},
			{Key: "email", Value: func(x domain.Client) (any, bool) { return text(x.Email) }},
			{Key: "telefone", Value: func(x domain.Client) (any, bool) { return text(x.Phone) }},
			{Key: "nif", Value: func(x domain.Client) (any, bool) { return text(x.TaxID) }},
			{Key: "morada", Value: func(x domain.Client) (any, bool) { return text(x.Address) }},
			{Key: "consentimento", Value: func(x domain.Client) (any, bool) { return text(string(x.Consent)) }},
			{Key: "criadoEm", Value: func(x domain.Client) (any, bool) { return moment(x.CreatedAt) }},
		},
		SearchKeys:  []string{"nome", "email"},
		DefaultSort: liststate.Sort{Key: "nome", Direction: liststate.Asc},
		Import:      c.clientSchema(),
		Export: []export.Column[domain.Client]{
			{Header: "ID", Value: func(x domain.Client) string { return idText(x.ID) }},
			{Header: "Nome", Value: func(x domain.Client) string { return x.Name }},
			{Header: "Email", Value: func(x domain.Client) string { return x.Email }},
			{Header: "Telefone", Value: func(x domain.Client) string { return x.Phone }},
			{Header: "NIF", Value: func(x domain.Client) string { return x.TaxID }},
			{Header: "Morada", Value: func(x domain.Client) string { return x.Address }},
			{Header: "Consentimento", Value: func(x domain.Client) string { return string(x.Consent) }},
			{Header: "Criado Em", Value: func(x domain.Client) string { return formatDate(x.CreatedAt) }},
		},
		Prepare: domain.Client.Normalize,
		Stamp: func(x domain.Client, now time.Time) domain.Client {
			x.CreatedAt = now
			return x
		},
		Keep: func(stored, updated domain.Client) domain.Client {
			updated.CreatedAt = stored.CreatedAt
			return updated
		},
		Validate: func(x domain.Client, _ []domain.Client) error { return domain.Validate(x) },
		Narrow: func(x domain.Client, q catalog.Query) bool {
			return matchStatus(q.Status, x.Consent, domain.ConsentStatuses)
		},
		Remote: c.remoteClient(),
	}
}

func (c *Console) teamDefinition() catalog.Definition[domain.TeamMember] {
	return catalog.Definition[domain.TeamMember]{
		Name:  EntityTeam,
		Title: "Equipa",
		Fields: []liststate.Field[domain.TeamMember]{
			{Key: "nome", Value: func(x domain.TeamMember) (any, bool) { return text(x.Name) }},
			{Key: "funcao", Value: func(x domain.TeamMember) (any, bool) { return text(x.Role) }},
			{Key: "telefone", Value: func(x domain.TeamMember) (any, bool) { return text(x.Phone) }},
			{Key: "email", Value: func(x domain.TeamMember) (any, bool) { return text(x.Email) }},
			{Key: "ativo", Value: func(x domain.TeamMember) (any, bool) { return x.Active, true }},
		},
		SearchKeys:  []string{"nome", "funcao", "email", "telefone"},
		DefaultSort: liststate.Sort{Key: "nome", Direction: liststate.Asc},
		Import:      c.teamSchema(),
		Export: []export.Column[domain.TeamMember]{
			{Header: "ID", Value: func(x domain.TeamMember) string { return idText(x.ID) }},
			{Header: "Nome", Value: func(x domain.TeamMember) string { return x.Name }},
			{Header: "Função", Value: func(x domain.TeamMember) string { return x.Role }},
			{Header: "Telefone", Value: func(x domain.TeamMember) string { return x.Phone }},
			{Header: "Email", Value: func(x domain.TeamMember) string { return x.Email }},
			{Header: "Ativo", Value: func(x domain.TeamMember) string { return yesNo(x.Active) }},
		},
		Prepare:  domain.TeamMember.Normalize,
		Validate: func(x domain.TeamMember, _ []domain.TeamMember) error { return domain.Validate(x) },
		Guard: func(x domain.TeamMember) error {
			return domain.CheckTeamMemberDeletable(x, c.Interventions.Snapshot())
		},
		Narrow: func(x domain.TeamMember, q catalog.Query) bool {
			switch strings.ToLower(q.Status) {
			case "ativo", "true":
				return x.Active
			case "inativo", "false":
				return !x.Active
			default:
				return true
			}
		},
	}
}

func (c *Console) vehicleDefinition() catalog.Definition[domain.Vehicle] {
	return catalog.Definition[domain.Vehicle]{
		Name:  EntityVehicles,
		Title: "Viaturas",
		Fields: []liststate.Field[domain.Vehicle]{
			{Key: "matricula", Value: func(x domain.Vehicle) (any, bool) { return text(x.Plate) }},
			{Key: "marca", Value: func(x domain.Vehicle) (any, bool) { return text(x.Make) }},
			{Key: "modelo", Value: func(x domain.Vehicle) (any, bool) { return text(x.Model) }},
			{Key: "ano", Value: func(x domain.Vehicle) (any, bool) { return x.Year, x.Year != 0 }},
			{Key: "estado", Value: func(x domain.Vehicle) (any, bool) { return text(string(x.Status)) }},
			{Key: "criadoEm", Value: func(x domain.Vehicle) (any, bool) { return moment(x.CreatedAt) }},
		},
		SearchKeys:  []string{"matricula", "marca", "modelo"},
		DefaultSort: liststate.Sort{Key: "matricula", Direction: liststate.Asc},
		Import:      c.vehicleSchema(),
		Export: []export.Column[domain.Vehicle]{
			{Header: "ID", Value: func(x domain.Vehicle) string { return idText(x.ID) }},
			{Header: "Matrícula", Value: func(x domain.Vehicle) string { return x.Plate }},
			{Header: "Marca", Value: func(x domain.Vehicle) string { return x.Make }},
			{Header: "Modelo", Value: func(x domain.Vehicle) string { return x.Model }},
			{Header: "Ano", Value: func(x domain.Vehicle) string { return formatYear(x.Year) }},
			{Header: "Estado", Value: func(x domain.Vehicle) string { return string(x.Status) }},
			{Header: "Notas", Value: func(x domain.Vehicle) string { return x.Notes }},
			{Header: "Criado Em", Value: func(x domain.Vehicle) string { return formatDate(x.CreatedAt) }},
		},
		Prepare: domain.Vehicle.Normalize,
		Stamp: func(x domain.Vehicle, now time.Time) domain.Vehicle {
			x.CreatedAt = now
			return x
		},
		Keep: func(stored, updated domain.Vehicle) domain.Vehicle {
			updated.CreatedAt = stored.CreatedAt
			return updated
		},
		Validate: func(x domain.Vehicle, _ []domain.Vehicle) error { return domain.Validate(x) },
		Guard: func(x domain.Vehicle) error {
			return domain.CheckVehicleDeletable(x, c.Interventions.Snapshot())
		},
		Narrow: func(x domain.Vehicle, q catalog.Query) bool {
			return matchStatus(q.Status, x.Status, domain.VehicleStatuses)
		},
	}
}

func (c *Console) equipmentDefinition() catalog.Definition[domain.Equipment] {
	return catalog.Definition[domain.Equipment]{
		Name:  EntityEquipment,
		Title: "Equipamento",
		Fields: []liststate.Field[domain.Equipment]{
			{Key: "nome", Value: func(x domain.Equipment) (any, bool) { return text(x.Name) }},
			{Key: "tipo", Value: func(x domain.Equipment) (any, bool) { return text(x.Kind) }},
			{Key: "numeroSerie", Value: func(x domain.Equipment) (any, bool) { return text(x.SerialNumber) }},
			{Key: "estado", Value: func(x domain.Equipment) (any, bool) { return text(string(x.Status)) }},
			{Key: "criadoEm", Value: func(x domain.Equipment) (any, bool) { return moment(x.CreatedAt) }},
		},
		SearchKeys:  []string{"nome", "tipo", "numeroSerie"},
		DefaultSort: liststate.Sort{Key: "nome", Direction: liststate.Asc},
		Import:      c.equipmentSchema(),
		Export: []export.Column[domain.Equipment]{
			{Header: "ID", Value: func(x domain.Equipment) string { return idText(x.ID) }},
			{Header: "Nome", Value: func(x domain.Equipment) string { return x.Name }},
			{Header: "Tipo", Value: func(x domain.Equipment) string { return x.Kind }},
			{Header: "Nº de Série", Value: func(x domain.Equipment) string { return x.SerialNumber }},
			{Header: "Estado", Value: func(x domain.Equipment) string { return string(x.Status) }},
			{Header: "Criado Em", Value: func(x domain.Equipment) string { return formatDate(x.CreatedAt) }},
		},
		Prepare: domain.Equipment.Normalize,
		Stamp: func(x domain.Equipment, now time.Time) domain.Equipment {
			x.CreatedAt = now
			return x
		},
		Keep: func(stored, updated domain.Equipment) domain.Equipment {
			updated.CreatedAt = stored.CreatedAt
			return updated
		},
		Validate: func(x domain.Equipment, all []domain.Equipment) error {
			if err := domain.Validate(x); err != nil {
				return err
			}
			return domain.CheckUniqueSerial(x, all)
		},
		Guard: func(x domain.Equipment) error {
			return domain.CheckEquipmentDeletable(x, c.Interventions.Snapshot())
		},
		Narrow: func(x domain.Equipment, q catalog.Query) bool {
			return matchStatus(q.Status, x.Status, domain.EquipmentStatuses)
		},
	}
}

func (c *Console) interventionDefinition() catalog.Definition[domain.Intervention] {
	return catalog.Definition[domain.Intervention]{
		Name:  EntityInterventions,
		Title: "Intervenções",
		Fields: []liststate.Field[domain.Intervention]{
			{Key: "titulo", Value: func(x domain.Intervention) (any, bool) { return text(x.Title) }},
			{Key: "estado", Value: func(x domain.Intervention) (any, bool) { return text(string(x.Status)) }},
			{Key: "inicio", Value: func(x domain.Intervention) (any, bool) { return moment(x.Start) }},
			{Key: "fim", Value: func(x domain.Intervention) (any, bool) { return moment(x.End) }},
			{Key: "viatura", Value: func(x domain.Intervention) (any, bool) { return text(x.VehiclePlate) }},
			{Key: "responsavel", Value: func(x domain.Intervention) (any, bool) { return text(x.ResponsibleName) }},
		},
		SearchKeys:  []string{"titulo", "responsavel"},
		DefaultSort: liststate.Sort{Key: "inicio", Direction: liststate.Asc},
		Import:      c.interventionSchema(),
		Export:      c.interventionColumns(),
		Prepare: func(x domain.Intervention) domain.Intervention {
			return x.Normalize().Denormalize(c.Vehicles.Snapshot(), c.Team.Snapshot())
		},
		Validate: func(x domain.Intervention, _ []domain.Intervention) error { return domain.Validate(x) },
		Narrow: func(x domain.Intervention, q catalog.Query) bool {
			filter := domain.InterventionFilter{From: q.From, To: q.To}
			if !matchStatus(q.Status, x.Status, domain.InterventionStatuses) {
				return false
			}
			return filter.Match(x)
		},
	}
}

// interventionColumns resolve helper, client and equipment names at export
// time.
func (c *Console) interventionColumns() []export.Column[domain.Intervention] {
	memberName := func(id *int64) string {
		if id == nil {
			return ""
		}
		m, _ := c.Team.Lookup(*id)
		return m.Name
	}
	clientName := func(id *int64) string {
		if id == nil {
			return ""
		}
		cl, _ := c.Clients.Lookup(*id)
		return cl.Name
	}
	equipmentNames := func(ids []int64) string {
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if eq, ok := c.Equipment.Lookup(id); ok {
				names = append(names, eq.Name)
			}
		}
		return strings.Join(names, ", ")
	}

	return []export.Column[domain.Intervention]{
		{Header: "ID", Value: func(x domain.Intervention) string { return idText(x.ID) }},
		{Header: "Título", Value: func(x domain.Intervention) string { return x.Title }},
		{Header: "Descrição", Value: func(x domain.Intervention) string { return x.Description }},
		{Header: "Estado", Value: func(x domain.Intervention) string { return string(x.Status) }},
		{Header: "Início", Value: func(x domain.Intervention) string { return formatDateTime(x.Start) }},
		{Header: "Fim", Value: func(x domain.Intervention) string { return formatDateTime(x.End) }},
		{Header: "Viatura", Value: func(x domain.Intervention) string { return x.VehiclePlate }},
		{Header: "Responsável", Value: func(x domain.Intervention) string { return x.ResponsibleName }},
		{Header: "Ajudante", Value: func(x domain.Intervention) string { return memberName(x.HelperID) }},
		{Header: "Cliente", Value: func(x domain.Intervention) string { return clientName(x.ClientID) }},
		{Header: "Morada", Value: func(x domain.Intervention) string { return x.Address }},
		{Header: "Valor Orçamento", Value: func(x domain.Intervention) string { return formatEuro(x.Budget) }},
		{Header: "Equipamentos", Value: func(x domain.Intervention) string { return equipmentNames(x.EquipmentIDs) }},
	}
}
