package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"mediascan/internal/catalog"
	"mediascan/internal/config"
)

// CheckFolder verifies that a library root exists, is a directory and can be
// listed and traversed.
func CheckFolder(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if path == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckCatalog opens the configured catalog, pings it and reports the number
// of stored records. It uses a 5-second timeout for the ping.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	store, err := catalog.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Catalog.Driver, err)}
	}
	defer store.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: ping: %v)", store.Driver(), err)}
	}

	counts, err := store.Count(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: count: %v)", store.Driver(), err)}
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	where := store.Driver()
	if store.Driver() == catalog.DriverSQLite {
		where = fmt.Sprintf("sqlite %s", store.Location())
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d records)", where, total)}
}
