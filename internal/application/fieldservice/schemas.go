package fieldservice

import (
	"errors"
	"strings"

	"github.com/geritapp/gerit/internal/csvimport"
	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
)

// Import schemas skip a row only when a required value is missing or, for
// vehicles, the plate is malformed. Optional values that cannot be read are
// left unset.

var errInvalidPlate = errors.New("matrícula inválida")

func emailKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (c *Console) clientSchema() csvimport.Schema[domain.Client] {
	apply := func(x domain.Client, r csvimport.Record) (domain.Client, error) {
		if r.Has("nome") {
			x.Name = r["nome"]
		}
		if r.Has("email") {
			x.Email = r["email"]
		}
		if r.Has("telefone") {
			x.Phone = r["telefone"]
		}
		if r.Has("nif") {
			x.TaxID = r["nif"]
		}
		if r.Has("morada") {
			x.Address = r["morada"]
		}
		if consent, err := parseStatus(r["consentimento"], domain.ConsentStatuses); r.Has("consentimento") && err == nil {
			x.Consent = consent
		}
		return x, nil
	}

	return csvimport.Schema[domain.Client]{
		Entity: EntityClients,
		Columns: []csvimport.Column{
			{Field: "nome", Label: "Nome", Required: true},
			{Field: "email", Label: "Email", Required: true},
			{Field: "telefone", Label: "Telefone"},
			{Field: "nif", Label: "NIF"},
			{Field: "morada", Label: "Morada"},
			{Field: "consentimento", Label: "Consentimento"},
		},
		UniqueKey:    "email",
		KeyOf:        func(x domain.Client) string { return x.Email },
		NormalizeKey: emailKey,
		Build:        func(r csvimport.Record) (domain.Client, error) { return apply(domain.Client{}, r) },
		Merge:        apply,
	}
}

func (c *Console) teamSchema() csvimport.Schema[domain.TeamMember] {
	apply := func(x domain.TeamMember, r csvimport.Record) (domain.TeamMember, error) {
		if r.Has("nome") {
			x.Name = r["nome"]
		}
		if r.Has("funcao") {
			x.Role = r["funcao"]
		}
		if r.Has("email") {
			x.Email = r["email"]
		}
		if r.Has("telefone") {
			x.Phone = r["telefone"]
		}
		if active, err := parseBool(r["ativo"]); r.Has("ativo") && err == nil {
			x.Active = active
		}
		return x, nil
	}

	return csvimport.Schema[domain.TeamMember]{
		Entity: EntityTeam,
		Columns: []csvimport.Column{
			{Field: "nome", Label: "Nome", Required: true},
			{Field: "funcao", Label: "Função"},
			{Field: "email", Label: "Email", Required: true},
			{Field: "telefone", Label: "Telefone"},
			{Field: "ativo", Label: "Ativo (true/false)"},
		},
		UniqueKey:    "email",
		KeyOf:        func(x domain.TeamMember) string { return x.Email },
		NormalizeKey: emailKey,
		// New members are active unless the file says otherwise.
		Build: func(r csvimport.Record) (domain.TeamMember, error) { return apply(domain.TeamMember{Active: true}, r) },
		Merge: apply,
	}
}

func (c *Console) vehicleSchema() csvimport.Schema[domain.Vehicle] {
	apply := func(x domain.Vehicle, r csvimport.Record) (domain.Vehicle, error) {
		if r.Has("matricula") {
			x.Plate = r["matricula"]
		}
		if r.Has("marca") {
			x.Make = r["marca"]
		}
		if r.Has("modelo") {
			x.Model = r["modelo"]
		}
		if year, err := parseYear(r["ano"]); r.Has("ano") && err == nil {
			x.Year = year
		}
		if status, err := parseStatus(r["estado"], domain.VehicleStatuses); r.Has("estado") && err == nil {
			x.Status = status
		}
		if r.Has("notas") {
			x.Notes = r["notas"]
		}
		return x, nil
	}

	return csvimport.Schema[domain.Vehicle]{
		Entity: EntityVehicles,
		Columns: []csvimport.Column{
			{Field: "matricula", Label: "Matrícula", Required: true},
			{Field: "marca", Label: "Marca"},
			{Field: "modelo", Label: "Modelo"},
			{Field: "ano", Label: "Ano"},
			{Field: "estado", Label: "Estado"},
			{Field: "notas", Label: "Notas"},
		},
		UniqueKey:    "matricula",
		KeyOf:        func(x domain.Vehicle) string { return x.Plate },
		NormalizeKey: domain.PlateKey,
		Check: func(r csvimport.Record) error {
			if !domain.ValidPlate(r["matricula"]) {
				return errInvalidPlate
			}
			return nil
		},
		Build: func(r csvimport.Record) (domain.Vehicle, error) { return apply(domain.Vehicle{}, r) },
		Merge: apply,
	}
}

func (c *Console) equipmentSchema() csvimport.Schema[domain.Equipment] {
	apply := func(x domain.Equipment, r csvimport.Record) (domain.Equipment, error) {
		if r.Has("nome") {
			x.Name = r["nome"]
		}
		if r.Has("tipo") {
			x.Kind = r["tipo"]
		}
		if r.Has("numeroSerie") {
			x.SerialNumber = r["numeroSerie"]
		}
		if status, err := parseStatus(r["estado"], domain.EquipmentStatuses); r.Has("estado") && err == nil {
			x.Status = status
		}
		return x, nil
	}

	return csvimport.Schema[domain.Equipment]{
		Entity: EntityEquipment,
		Columns: []csvimport.Column{
			{Field: "nome", Label: "Nome", Required: true},
			{Field: "tipo", Label: "Tipo"},
			{Field: "numeroSerie", Label: "Nº de Série"},
			{Field: "estado", Label: "Estado"},
		},
		UniqueKey: "numeroSerie",
		KeyOf:     func(x domain.Equipment) string { return x.SerialNumber },
		Build:     func(r csvimport.Record) (domain.Equipment, error) { return apply(domain.Equipment{}, r) },
		Merge:     apply,
	}
}

// interventionSchema only creates: rows carry no key that identifies an
// existing intervention.
func (c *Console) interventionSchema() csvimport.Schema[domain.Intervention] {
	build := func(r csvimport.Record) (domain.Intervention, error) {
		x := domain.Intervention{
			Title:       r["titulo"],
			Description: r["descricao"],
			Address:     r["morada"],
		}

		// Both dates are required, so one that cannot be read counts as
		// missing and skips the row.
		var err error
		if x.Start, err = parseTime(r["inicio"], c.loc); err != nil {
			return x, err
		}
		if x.End, err = parseTime(r["fim"], c.loc); err != nil {
			return x, err
		}

		if status, err := parseStatus(r["estado"], domain.InterventionStatuses); r.Has("estado") && err == nil {
			x.Status = status
		}
		x.VehicleID, _ = parseID(r["viaturaId"])
		x.ResponsibleID, _ = parseID(r["responsavelId"])
		x.HelperID, _ = parseID(r["ajudanteId"])
		x.ClientID, _ = parseID(r["clienteId"])
		if amount, err := parseAmount(r["valorOrcamento"]); r.Has("valorOrcamento") && err == nil {
			x.Budget = &amount
		}
		return x, nil
	}

	return csvimport.Schema[domain.Intervention]{
		Entity: EntityInterventions,
		Columns: []csvimport.Column{
			{Field: "titulo", Label: "Título", Required: true},
			{Field: "descricao", Label: "Descrição"},
			{Field: "estado", Label: "Estado"},
			{Field: "inicio", Label: "Início", Required: true},
			{Field: "fim", Label: "Fim", Required: true},
			{Field: "viaturaId", Label: "ID Viatura"},
			{Field: "responsavelId", Label: "ID Responsável"},
			{Field: "ajudanteId", Label: "ID Ajudante"},
			{Field: "clienteId", Label: "ID Cliente"},
			{Field: "morada", Label: "Morada"},
			{Field: "valorOrcamento", Label: "Valor Orçamento"},
		},
		Build: build,
	}
}
