package sqlite

import (
	"log/slog"

	"github.com/TankHQ/tank/pkg/driver"
)

// Importing this package with a blank identifier registers the driver:
//
//	import _ "github.com/TankHQ/tank/pkg/drivers/sqlite"
func init() {
	driver.Register("sqlite", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
