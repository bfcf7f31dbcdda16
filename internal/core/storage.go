package core

import (
	"fmt"
	"os"

	"viewcore/internal/infra/persistence/memory"
	"viewcore/internal/infra/persistence/postgres"
	"viewcore/internal/infra/persistence/sqlite"
	"viewcore/pkg/record"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenStore selects a backend using environment variables. Defaults to
// sqlite when unset. The initial state seeds the store when the backend
// holds no snapshot yet.
//
//	VIEWCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	VIEWCORE_SQLITE_PATH: path to sqlite file (default ./viewcore.db)
//	VIEWCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenStore(initial record.State) (Store, error) {
	driver := os.Getenv("VIEWCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(initial), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("VIEWCORE_SQLITE_PATH"), initial)
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("VIEWCORE_POSTGRES_DSN"), initial)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
