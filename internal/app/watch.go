package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/testforge/internal/adapters/watcher"
	"go.trai.ch/testforge/internal/ui/style"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Overrides
	// Debounce is the quiet period after the last change before a rerun.
	Debounce time.Duration
}

// Watch runs the pipeline once and again whenever the sources change, until
// ctx is canceled. Failed runs are reported and do not stop the watch.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	s, err := a.open(ctx, opts.Overrides)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	window := opts.Debounce
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}

	if err := a.watcher.Start(ctx, s.rc.SourceDir); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	rerun := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(window, func(_ []string) {
		select {
		case rerun <- struct{}{}:
		default:
		}
	})

	var last string
	first := true
	cycle := func(ctx context.Context) {
		corpus, err := a.reader.Read(ctx, s.rc.SourceDir, s.cfg.SourceFilter())
		if err == nil {
			fp := watcher.Fingerprint(corpus)
			if fp == last {
				a.logger.Info("sources unchanged, skipping run")
				return
			}
			last = fp
		}

		if !first {
			if err := s.begin(a.newID()); err != nil {
				a.logger.Error(err)
				return
			}
		}
		first = false

		s.collector.Reset()
		report, runErr := s.pipeline(a).Run(ctx)
		if err := a.finish(s, report, runErr); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
		a.logger.Info(fmt.Sprintf("watching %s for changes...", s.rc.SourceDir))
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		filter := s.cfg.SourceFilter()
		for event := range a.watcher.Events() {
			if event.Affects(filter) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		cycle(ctx)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-rerun:
				a.logger.Info("\n" + style.Banner("sources changed"))
				cycle(ctx)
			}
		}
	})

	return g.Wait()
}
