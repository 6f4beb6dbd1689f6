package mongodb

import (
	"log/slog"

	"github.com/TankHQ/tank/pkg/driver"
)

// Importing this package with a blank identifier registers the driver:
//
//	import _ "github.com/TankHQ/tank/pkg/drivers/mongodb"
func init() {
	driver.Register("mongodb", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
