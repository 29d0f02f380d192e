package utils

import (
	"context"
	"log"
	"runtime/debug"

	"river-portfolio/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one bad worker cannot
// take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic in goroutine: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still live, logging when it
// is not. Used inside worker loops to bail out early on cancellation.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
