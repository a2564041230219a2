//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/quadview"
)

// slogger returns the shared quadview logger.
// All logging in this package goes through this function.
func slogger() *slog.Logger { return quadview.Logger() }
