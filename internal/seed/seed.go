// Package seed holds the demo data a fresh installation starts with.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/domain/auth"
	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
	"github.com/geritapp/gerit/internal/domain/review"
)

// Credential is a login known at startup. Passwords are hashed before they
// reach the account table.
type Credential struct {
	User     auth.User
	Password string
}

func Credentials() []Credential {
	return []Credential{
		{
			User:     auth.User{ID: 1, Email: "admin@geritapp.com", Name: "Administrador Gerit", Initials: "AG"},
			Password: "admin123",
		},
		{
			User:     auth.User{ID: 2, Email: "joao.silva@geritapp.com", Name: "João Silva", Initials: "JS"},
			Password: "tecnico123",
		},
	}
}

func ptr[T any](v T) *T { return &v }

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func local(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func euros(s string) *decimal.Decimal {
	return ptr(decimal.RequireFromString(s))
}

func FieldService() fieldservice.Seed {
	return fieldservice.Seed{
		Clients:       Clients(),
		Team:          Team(),
		Vehicles:      Vehicles(),
		Equipment:     Equipment(),
		Interventions: Interventions(),
	}
}

func Clients() []domain.Client {
	return []domain.Client{
		{ID: 1, Name: "Empresa ABC, Lda", Email: "geral@abc.pt", Phone: "210123456", TaxID: "500123456", Address: "Av. da Liberdade 110, Lisboa", Consent: domain.ConsentGiven, CreatedAt: at("2023-01-15T10:30:00Z")},
		{ID: 2, Name: "Condomínio Sol", Email: "condominio.sol@mail.com", Phone: "912345678", TaxID: "999876543", Address: "Rua do Sol 45, Faro", Consent: domain.ConsentPending, CreatedAt: at("2023-03-22T14:00:00Z")},
		{ID: 3, Name: "Restaurante Sabor", Email: "restaurante.sabor@email.com", Phone: "223456789", TaxID: "501987654", Address: "Praça do Comércio 5, Lisboa", Consent: domain.ConsentRevoked, CreatedAt: at("2023-05-10T09:15:00Z")},
		{ID: 4, Name: "Particular - Ana Santos", Email: "ana.santos@email.com", Phone: "961234567", TaxID: "234567890", Address: "Rua das Flores 12, Porto", Consent: domain.ConsentGiven, CreatedAt: at("2023-06-01T11:20:00Z")},
	}
}

func Team() []domain.TeamMember {
	return []domain.TeamMember{
		{ID: 1, Name: "João Silva", Role: "Técnico Sénior", Email: "joao.silva@geritapp.com", Phone: "910000001", Active: true},
		{ID: 2, Name: "Maria Costa", Role: "Técnica Especialista", Email: "maria.costa@geritapp.com", Phone: "910000002", Active: true},
		{ID: 3, Name: "Carlos Santos", Role: "Ajudante", Email: "carlos.santos@geritapp.com", Phone: "910000003", Active: true},
		{ID: 4, Name: "Ana Pereira", Role: "Gestora Operacional", Email: "ana.pereira@geritapp.com", Phone: "910000004", Active: true},
	}
}

func Vehicles() []domain.Vehicle {
	return []domain.Vehicle{
		{ID: 1, Plate: "AB-12-CD", Make: "Renault", Model: "Kangoo", Year: 2019, Status: domain.VehicleActive, CreatedAt: at("2023-01-10T10:00:00Z")},
		{ID: 2, Plate: "EF-34-GH", Make: "Peugeot", Model: "Partner", Year: 2021, Status: domain.VehicleActive, CreatedAt: at("2023-02-15T10:00:00Z")},
		{ID: 3, Plate: "IJ-56-KL", Make: "Ford", Model: "Transit", Year: 2018, Status: domain.VehicleInMaintenance, Notes: "Revisão agendada", CreatedAt: at("2023-01-10T10:00:00Z")},
		{ID: 4, Plate: "MN-78-OP", Make: "Citroën", Model: "Berlingo", Year: 2020, Status: domain.VehicleActive, CreatedAt: at("2023-05-20T10:00:00Z")},
	}
}

func Equipment() []domain.Equipment {
	return []domain.Equipment{
		{ID: 1, Name: "Berbequim Percutor", Kind: "Ferramenta Elétrica", SerialNumber: "BP-12345", Status: domain.EquipmentAvailable, CreatedAt: at("2023-01-05T09:00:00Z")},
		{ID: 2, Name: "Rebarbadora", Kind: "Ferramenta Elétrica", SerialNumber: "RB-67890", Status: domain.EquipmentInUse, CreatedAt: at("2023-01-05T09:00:00Z")},
		{ID: 3, Name: "Jogo de Chaves Inglesas", Kind: "Ferramenta Manual", SerialNumber: "JCI-001", Status: domain.EquipmentAvailable, CreatedAt: at("2023-01-05T09:00:00Z")},
		{ID: 4, Name: "Multímetro Digital", Kind: "Medição", SerialNumber: "MD-555", Status: domain.EquipmentInMaintenance, CreatedAt: at("2023-03-12T09:00:00Z")},
	}
}

func Interventions() []domain.Intervention {
	return []domain.Intervention{
		{
			ID: 1, Title: "Reparação de Fuga de Água na Cozinha Principal",
			Description: "Fuga identificada debaixo do lava-loiças. Necessário substituir o sifão.",
			Status:      domain.StatusOpen, Start: local("2024-07-28T09:00"), End: local("2024-07-28T11:00"),
			VehiclePlate: "AB-12-CD", ResponsibleName: "João Silva",
			VehicleID: ptr[int64](1), ResponsibleID: ptr[int64](1), ClientID: ptr[int64](3), EquipmentIDs: []int64{1, 3},
			Address: "Praça do Comércio 5, Lisboa", Budget: euros("85.50"),
		},
		{
			ID: 2, Title: "Manutenção Preventiva Ar Condicionado",
			Description: "Limpeza de filtros e verificação de gás no escritório do 2º andar.",
			Status:      domain.StatusPending, Start: local("2024-07-29T14:00"), End: local("2024-07-29T16:00"),
			VehiclePlate: "EF-34-GH", ResponsibleName: "Maria Costa",
			VehicleID: ptr[int64](2), ResponsibleID: ptr[int64](2), ClientID: ptr[int64](1),
			Address: "Av. da Liberdade 110, Lisboa", Budget: euros("120.00"),
		},
		{
			ID: 3, Title: "Instalação de Sistema de Videovigilância",
			Description: "Instalação de 4 câmaras no exterior do condomínio.",
			Status:      domain.StatusClosed, Start: local("2024-07-15T09:00"), End: local("2024-07-16T17:00"),
			VehiclePlate: "AB-12-CD", ResponsibleName: "João Silva",
			VehicleID: ptr[int64](1), ResponsibleID: ptr[int64](1), ClientID: ptr[int64](2), HelperID: ptr[int64](3), EquipmentIDs: []int64{4},
			Address: "Rua do Sol 45, Faro", Budget: euros("850.00"),
		},
		{
			ID: 4, Title: "Orçamento para Remodelação de Canalização",
			Description: "Avaliação do estado da canalização da casa de banho social.",
			Status:      domain.StatusOpen, Start: local("2024-08-01T10:00"), End: local("2024-08-01T12:00"),
			VehiclePlate: "IJ-56-KL", ResponsibleName: "Carlos Santos",
			VehicleID: ptr[int64](3), ResponsibleID: ptr[int64](3), ClientID: ptr[int64](4),
			Address: "Rua das Flores 12, Porto", Budget: euros("45.00"),
		},
		{
			ID: 5, Title: "Substituição de Caldeira Mural",
			Description: "Remover caldeira antiga e instalar novo modelo XPTO.",
			Status:      domain.StatusPending, Start: local("2024-08-05T09:00"), End: local("2024-08-05T15:00"),
			VehiclePlate: "EF-34-GH", ResponsibleName: "Maria Costa",
			VehicleID: ptr[int64](2), ResponsibleID: ptr[int64](2), HelperID: ptr[int64](3), EquipmentIDs: []int64{2, 3},
			Address: "Av. da República 20, Lisboa", Budget: euros("450.00"),
		},
		{
			ID: 6, Title: "Inspeção Elétrica Periódica",
			Description: "Verificação do quadro elétrico e tomadas.",
			Status:      domain.StatusClosed, Start: local("2024-07-10T11:00"), End: local("2024-07-10T13:00"),
			VehiclePlate: "MN-78-OP", ResponsibleName: "Ana Pereira",
			VehicleID: ptr[int64](4), ResponsibleID: ptr[int64](4), ClientID: ptr[int64](1),
			Address: "Av. da Liberdade 110, Lisboa", Budget: euros("90.00"),
		},
		{
			ID: 7, Title: "Desentupimento Urgente de Esgoto",
			Description: "Entupimento na caixa de saneamento principal do prédio.",
			Status:      domain.StatusOpen, Start: local("2024-07-27T18:00"), End: local("2024-07-27T20:00"),
			VehiclePlate: "AB-12-CD", ResponsibleName: "João Silva",
			VehicleID: ptr[int64](1), ResponsibleID: ptr[int64](1), ClientID: ptr[int64](2),
			Address: "Rua do Sol 45, Faro", Budget: euros("150.00"),
		},
	}
}

const reviewPanelAfter = "const ReviewPanel = ({ analysis }) => <div className='p-4'>{analysis}</div>;"

const geminiServiceSource = "import { GoogleGenAI } from \"@google/genai\";\n\n" +
	"const ai = new GoogleGenAI({ apiKey: process.env.API_KEY });\n\n" +
	"export const analyzeCode = async (code: string) => {\n" +
	"  const response = await ai.models.generateContent({\n" +
	"    model: 'gemini-3-pro-preview',\n" +
	"    contents: `Review this code: ${code}`\n" +
	"  });\n" +
	"  return response.text;\n" +
	"};"

func Changes() []review.ChangeList {
	return []review.ChangeList{
		{
			ID: "I45a2b3c", Project: "gerit-front", Branch: "main",
			Subject: "feat: implement Gemini-powered code analysis",
			Status:  review.ChangeNew, Owner: "alex_dev", Updated: "2024-05-20 14:30",
			Insertions: 245, Deletions: 12,
			Files: []review.FileChange{
				{Path: "services/geminiService.ts", Status: review.FileAdded, Content: geminiServiceSource},
				{
					Path: "components/ReviewPanel.tsx", Status: review.FileModified,
					OldContent: "const ReviewPanel = () => <div>No Review</div>;",
					Content:    reviewPanelAfter,
				},
			},
		},
		{
			ID: "I98d7e6f", Project: "kernel-core", Branch: "stable",
			Subject: "fix: memory leak in thread scheduler",
			Status:  review.ChangeNew, Owner: "sarah_eng", Updated: "2024-05-20 12:15",
			Insertions: 15, Deletions: 45,
			Files: []review.FileChange{
				{
					Path: "kernel/sched.c", Status: review.FileModified,
					Content:    "// Fixed scheduler leak logic here...",
					OldContent: "// Buggy scheduler leak logic here...",
				},
			},
		},
		{
			ID: "I11f22g3", Project: "web-ui-kit", Branch: "v2-alpha",
			Subject: "docs: update design tokens for dark mode support",
			Status:  review.ChangeMerged, Owner: "design_system_bot", Updated: "2024-05-19 09:00",
			Insertions: 500, Deletions: 0,
			Files: []review.FileChange{},
		},
	}
}
