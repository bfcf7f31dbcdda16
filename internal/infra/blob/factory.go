// Package blob selects an object store driver for log archival.
package blob

import (
	"context"
	"fmt"
	"os"

	"viewcore/internal/infra/blob/core"
	"viewcore/internal/infra/blob/fs"
	"viewcore/internal/infra/blob/memory"
	"viewcore/internal/infra/blob/s3"
)

// Open selects a core.Store implementation using environment variables.
//
//	VIEWCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	VIEWCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./segments)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (core.Store, error) {
	driver := os.Getenv("VIEWCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(core.DriverFilesystem)
	}
	switch core.Driver(driver) {
	case core.DriverFilesystem:
		return fs.New(os.Getenv("VIEWCORE_BLOB_FS_ROOT"))
	case core.DriverS3:
		return s3.OpenFromEnv(ctx)
	case core.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
