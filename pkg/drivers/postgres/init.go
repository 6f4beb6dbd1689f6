package postgres

import (
	"log/slog"

	"github.com/TankHQ/tank/pkg/driver"
)

// Importing this package with a blank identifier registers the driver:
//
//	import _ "github.com/TankHQ/tank/pkg/drivers/postgres"
func init() {
	driver.Register("postgres", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
