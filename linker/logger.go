package linker

import (
	"sync"

	"go.uber.org/zap"
)

var (
	pkgLogger *zap.Logger
	initOnce  sync.Once
)

// Logger returns the logger the resolution pass writes to. Unless SetLogger
// has installed one, transforms run silently against zap.NewNop.
func Logger() *zap.Logger {
	initOnce.Do(func() {
		if pkgLogger == nil {
			pkgLogger = zap.NewNop()
		}
	})
	return pkgLogger
}

// SetLogger installs a logger for the package. Call it before the first
// Transform; it is not synchronized against concurrent use.
func SetLogger(l *zap.Logger) {
	pkgLogger = l
}
