package gen

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-optarg/optarg"
)

// Watch calls fn with the path of each watched document that is written or
// recreated, until ctx is done. Events within the Debounce window are coalesced
// and fn runs on the caller's goroutine.
//
// Accepted arguments: Debounce, Log.
func Watch(ctx context.Context, paths []string, fn func(path string), args ...any) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create file watcher").
			WithTextCode("WATCH_FAILED")
	}
	defer w.Close()

	l := resolveLogger(args...)
	delay := optarg.ResolveDefault[Debounce](args...)

	// directories are watched so editors that replace files are still seen
	watched := make(map[string]string, len(paths))
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "failed to resolve watch path").
				WithTextCode("WATCH_FAILED").
				WithMetadata(map[string]any{"path": p})
		}
		watched[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to watch directory").
				WithTextCode("WATCH_FAILED").
				WithMetadata(map[string]any{"dir": dir})
		}
		l.Debug("watching %s", dir)
	}

	pending := map[string]bool{}
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	flush := func() {
		names := make([]string, 0, len(pending))
		for p := range pending {
			names = append(names, p)
		}
		sort.Strings(names)
		clear(pending)
		for _, p := range names {
			fn(p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			p, ok := watched[abs]
			if !ok {
				continue
			}
			l.Debug("%s changed (%s)", p, event.Op)
			pending[p] = true
			if delay <= 0 {
				flush()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			flush()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error: %v", err)
		}
	}
}
