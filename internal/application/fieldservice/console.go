// Package fieldservice assembles the field-service catalogs: clients, team,
// vehicles, equipment and interventions.
package fieldservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/csvimport"
	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
)

var ErrUnknownEntity = errors.New("unknown entity")

// Entity is the part of a catalog that does not depend on its item type.
type Entity interface {
	Name() string
	Title() string
	ImportColumns() []csvimport.Column
	ResolveMapping(headers []string, overrides csvimport.Mapping) (csvimport.Mapping, error)
	PreviewImport(ctx context.Context, req catalog.ImportRequest) (catalog.ImportPreview, error)
	Import(ctx context.Context, req catalog.ImportRequest) (catalog.ImportOutcome, error)
	WriteExport(ctx context.Context, q catalog.Query, format catalog.Format, w io.Writer) (string, error)
}

// ClientsAPI is the remote clients service. When configured, clients are
// listed from it at startup and created through it.
type ClientsAPI interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateClient(ctx context.Context, c domain.Client) (domain.Client, error)
}

type Stores struct {
	Clients       catalog.Store[domain.Client]
	Team          catalog.Store[domain.TeamMember]
	Vehicles      catalog.Store[domain.Vehicle]
	Equipment     catalog.Store[domain.Equipment]
	Interventions catalog.Store[domain.Intervention]
}

type Seed struct {
	Clients       []domain.Client
	Team          []domain.TeamMember
	Vehicles      []domain.Vehicle
	Equipment     []domain.Equipment
	Interventions []domain.Intervention
}

type Options struct {
	Recorder   catalog.ImportRecorder
	Observer   catalog.ImportObserver
	ClientsAPI ClientsAPI
	Clock      clockwork.Clock
	Logger     *logrus.Logger
	// Location is used for imported dates without a zone.
	Location *time.Location
}

type Console struct {
	Clients       *catalog.Catalog[domain.Client]
	Team          *catalog.Catalog[domain.TeamMember]
	Vehicles      *catalog.Catalog[domain.Vehicle]
	Equipment     *catalog.Catalog[domain.Equipment]
	Interventions *catalog.Catalog[domain.Intervention]

	clients ClientsAPI
	loc     *time.Location
	log     *logrus.Entry
}

func NewConsole(stores Stores, opts Options) *Console {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	c := &Console{
		clients: opts.ClientsAPI,
		loc:     opts.Location,
		log:     opts.Logger.WithField("component", "console"),
	}

	catalogOpts := []catalog.Option{
		catalog.WithClock(opts.Clock),
		catalog.WithLogger(opts.Logger),
	}
	if opts.Recorder != nil {
		catalogOpts = append(catalogOpts, catalog.WithImportRecorder(opts.Recorder))
	}
	if opts.Observer != nil {
		catalogOpts = append(catalogOpts, catalog.WithImportObserver(opts.Observer))
	}

	c.Clients = catalog.New(c.clientDefinition(), stores.Clients, catalogOpts...)
	c.Team = catalog.New(c.teamDefinition(), stores.Team, catalogOpts...)
	c.Vehicles = catalog.New(c.vehicleDefinition(), stores.Vehicles, catalogOpts...)
	c.Equipment = catalog.New(c.equipmentDefinition(), stores.Equipment, catalogOpts...)
	c.Interventions = catalog.New(c.interventionDefinition(), stores.Interventions, catalogOpts...)

	return c
}

// Load fills every catalog from its store, falling back to seed for empty
// stores. Interventions load last since they reference the others.
func (c *Console) Load(ctx context.Context, seed Seed) error {
	clients := seed.Clients
	if c.clients != nil {
		remote, err := c.clients.ListClients(ctx)
		if err != nil {
			c.log.WithError(err).Warn("clients api unavailable, using local clients")
		} else {
			clients = remote
		}
	}

	steps := []func() error{
		func() error { return c.Clients.Load(ctx, clients) },
		func() error { return c.Team.Load(ctx, seed.Team) },
		func() error { return c.Vehicles.Load(ctx, seed.Vehicles) },
		func() error { return c.Equipment.Load(ctx, seed.Equipment) },
		func() error { return c.Interventions.Load(ctx, seed.Interventions) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) remoteClient() func(context.Context, domain.Client) (domain.Client, error) {
	if c.clients == nil {
		return nil
	}
	return c.clients.CreateClient
}

func (c *Console) Entities() []Entity {
	return []Entity{c.Clients, c.Team, c.Vehicles, c.Equipment, c.Interventions}
}

func (c *Console) Entity(name string) (Entity, error) {
	for _, e := range c.Entities() {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
}

// Stats counts interventions per status for the dashboard.
func (c *Console) Stats() domain.Stats {
	return domain.ComputeStats(c.Interventions.Snapshot())
}

// SetInterventionStatus changes only the status of an intervention.
func (c *Console) SetInterventionStatus(ctx context.Context, id int64, status string) (domain.Intervention, error) {
	parsed, ok := domain.ParseStatus(status, domain.InterventionStatuses)
	if !ok {
		return domain.Intervention{}, &domain.ValidationError{Fields: map[string]string{"estado": "Valor inválido."}}
	}
	return c.Interventions.Modify(ctx, id, func(i domain.Intervention) (domain.Intervention, error) {
		i.Status = parsed
		return i, nil
	})
}

// Import runs a parsed file through the named catalog. It is what the
// background import worker calls.
func (c *Console) Import(ctx context.Context, entity string, req catalog.ImportRequest) (catalog.ImportOutcome, error) {
	e, err := c.Entity(entity)
	if err != nil {
		return catalog.ImportOutcome{}, err
	}
	return e.Import(ctx, req)
}
