package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/five82/logsieve/internal/eventlog"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles the interval for each consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// StartPoller launches a background goroutine that reloads the event files
// matching patterns. Files are checked every interval and immediately when a
// watched file changes; unchanged files are not reloaded. Failed loads back
// off exponentially.
//
// Each load is delivered on the returned channel, which is closed once ctx is
// done. The caller owns applying batches to the store.
func StartPoller(ctx context.Context, patterns []string, maxRecords int, interval time.Duration) <-chan eventlog.Batch {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	out := make(chan eventlog.Batch, 1)

	go func() {
		defer close(out)

		var (
			failures  int
			loaded    bool
			lastPrint string
			watched   []string
			changes   <-chan struct{}
			stopWatch = func() {}
		)
		defer func() { stopWatch() }()

		for {
			batch, fp, changed := refresh(patterns, maxRecords, lastPrint)
			changed = changed || !loaded
			if batch.Err != nil {
				failures++
				loaded = false
				log.Printf("event load failed: %v", batch.Err)
			} else {
				failures = 0
				loaded = true
				lastPrint = fp
				if changed && !slices.Equal(watched, batch.Paths) {
					stopWatch()
					watched = batch.Paths
					changes, stopWatch = startWatcher(ctx, watched)
				}
			}

			if changed || batch.Err != nil {
				select {
				case out <- batch:
				case <-ctx.Done():
					return
				}
			}

			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case _, ok := <-changes:
				timer.Stop()
				if !ok {
					changes = nil
				}
			}
		}
	}()

	return out
}

// refresh loads the event files unless their fingerprint matches lastPrint.
func refresh(patterns []string, maxRecords int, lastPrint string) (eventlog.Batch, string, bool) {
	paths, err := eventlog.ExpandGlobs(patterns)
	if err != nil {
		return eventlog.Batch{Err: err}, "", true
	}
	fp := fingerprint(paths)
	if fp == lastPrint {
		return eventlog.Batch{Paths: paths}, fp, false
	}

	records, paths, err := eventlog.LoadFiles(paths, maxRecords)
	return eventlog.Batch{Records: records, Paths: paths, Err: err}, fp, true
}

// fingerprint summarizes the identity of a file set by name, size and
// modification time.
func fingerprint(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(&b, "%s|-\n", p)
			continue
		}
		fmt.Fprintf(&b, "%s|%d|%d\n", p, info.Size(), info.ModTime().UnixNano())
	}
	return b.String()
}

func startWatcher(ctx context.Context, paths []string) (<-chan struct{}, func()) {
	if len(paths) == 0 {
		return nil, func() {}
	}
	w, err := eventlog.NewWatcher(paths)
	if err != nil {
		log.Printf("file watching disabled: %v", err)
		return nil, func() {}
	}
	watchCtx, cancel := context.WithCancel(ctx)
	go w.Run(watchCtx)
	return w.Changes, cancel
}
