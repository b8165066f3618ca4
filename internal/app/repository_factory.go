package app

import (
	"fmt"

	gamificationDomain "github.com/felixgeelhaar/workday/internal/gamification/domain"
	gamificationPersistence "github.com/felixgeelhaar/workday/internal/gamification/infrastructure/persistence"
	schedulingDomain "github.com/felixgeelhaar/workday/internal/scheduling/domain"
	schedulingPersistence "github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/snapshot"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates repositories over one connection. The SQL is
// rebound per driver, so every repository works on both backends.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory rejects connections for drivers the migrations do
// not cover.
func NewRepositoryFactory(conn database.Connection) (*RepositoryFactory, error) {
	driver := conn.Driver()
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	return &RepositoryFactory{conn: conn, driver: driver}, nil
}

func (f *RepositoryFactory) ScheduleRepository() schedulingDomain.ScheduleRepository {
	return schedulingPersistence.NewScheduleRepository(f.conn)
}

func (f *RepositoryFactory) TemplateRepository() schedulingDomain.TemplateRepository {
	return schedulingPersistence.NewTemplateRepository(f.conn)
}

func (f *RepositoryFactory) ProfileRepository() gamificationDomain.ProfileRepository {
	return gamificationPersistence.NewProfileRepository(f.conn)
}

func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

func (f *RepositoryFactory) UnitOfWork() sharedApplication.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}

// SnapshotBackend keeps snapshots in the same database.
func (f *RepositoryFactory) SnapshotBackend() *snapshot.SQLBackend {
	return snapshot.NewSQLBackend(f.conn)
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
