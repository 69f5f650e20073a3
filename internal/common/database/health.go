// internal/common/database/health.go
package database

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pinger is a named dependency that can report its reachability.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every dependency concurrently and reports each outcome as
// "ok" or the error text.
func CheckAll(ctx context.Context, timeout time.Duration, deps ...Pinger) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]string, len(deps))
	var g errgroup.Group
	for i, dep := range deps {
		g.Go(func() error {
			if err := dep.Ping(ctx); err != nil {
				results[i] = err.Error()
				return nil
			}
			results[i] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	status := make(map[string]string, len(deps))
	healthy := true
	for i, dep := range deps {
		status[dep.Name()] = results[i]
		if results[i] != "ok" {
			healthy = false
		}
	}
	return status, healthy
}
