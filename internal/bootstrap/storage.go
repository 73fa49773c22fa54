package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/config"
	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
	"github.com/geritapp/gerit/internal/domain/importjob"
	"github.com/geritapp/gerit/internal/infrastructure/db"
	"github.com/geritapp/gerit/internal/infrastructure/repository"
)

// Storage is where catalogs and import jobs live: Postgres when
// DATABASE_URL is set, process memory otherwise.
type Storage struct {
	Stores fieldservice.Stores
	Jobs   importjob.Repository
	close  func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

func OpenStorage(ctx context.Context, cfg *config.Configuration, logger *logrus.Logger) (*Storage, error) {
	if !cfg.Database.Enabled() {
		logger.Warn("DATABASE_URL not set, keeping data in memory")
		return &Storage{
			Stores: fieldservice.Stores{
				Clients:       repository.NewMemoryStore[domain.Client](),
				Team:          repository.NewMemoryStore[domain.TeamMember](),
				Vehicles:      repository.NewMemoryStore[domain.Vehicle](),
				Equipment:     repository.NewMemoryStore[domain.Equipment](),
				Interventions: repository.NewMemoryStore[domain.Intervention](),
			},
			Jobs: repository.NewMemoryImportJobs(clockwork.NewRealClock()),
		}, nil
	}

	gdb, pool, err := db.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, logger)
	if err != nil {
		return nil, err
	}
	closeAll := func() {
		pool.Close()
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := db.Migrate(gdb); err != nil {
		closeAll()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Storage{
		Stores: fieldservice.Stores{
			Clients:       repository.NewEntityStore[domain.Client](gdb, fieldservice.EntityClients),
			Team:          repository.NewEntityStore[domain.TeamMember](gdb, fieldservice.EntityTeam),
			Vehicles:      repository.NewEntityStore[domain.Vehicle](gdb, fieldservice.EntityVehicles),
			Equipment:     repository.NewEntityStore[domain.Equipment](gdb, fieldservice.EntityEquipment),
			Interventions: repository.NewEntityStore[domain.Intervention](gdb, fieldservice.EntityInterventions),
		},
		Jobs:  repository.NewImportJobRepository(gdb, repository.NewImportFailureRepository(pool)),
		close: closeAll,
	}, nil
}
