package blob

import (
	"context"
	"fmt"
)

// Config selects and parameterizes a driver.
type Config struct {
	Driver Driver
	Dir    string // DriverFilesystem root
	S3     S3Config
}

// Open returns the Store described by cfg. An empty driver means memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("blob: unknown driver %q", cfg.Driver)
	}
}
