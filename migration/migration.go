package migration

import (
	"context"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
)

// Migrators maps a version name to its migrator. The "auto" migrator creates
// the schema with the latest version and is what fresh deployments run.
var Migrators = map[string]func(context.Context) error{
	"auto": AutoMigrate,
	"0001": migrate0001,
}

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
