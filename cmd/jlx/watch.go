package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/julia"
)

func (a *app) watchCommand() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a file each time it changes",
		Long: "Check a file, then check it again on each change until interrupted.\n" +
			"A pass still running when the file changes is cancelled.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&opts.strict, "strict", false, "validate tree invariants, treat warnings as errors")
	fs.BoolVar(&opts.style, "style", false, "check layout style")
	return cmd
}

// watch runs until ctx is done. Directory events are watched so that editors replacing
// the file by rename are followed.
func (a *app) watch(ctx context.Context, w io.Writer, name string, opts checkOptions) error {
	lang, e := a.language()
	if e != nil {
		return e
	}

	path, e := filepath.Abs(name)
	if e != nil {
		return e
	}

	watcher, e := fsnotify.NewWatcher()
	if e != nil {
		return e
	}

	defer watcher.Close()

	if e := watcher.Add(filepath.Dir(path)); e != nil {
		return e
	}

	var (
		wg     sync.WaitGroup
		out    sync.Mutex
		cancel context.CancelFunc = func() {}
	)
	defer func() {
		cancel()
		wg.Wait()
	}()

	start := func() {
		cancel()
		var passCtx context.Context
		passCtx, cancel = context.WithCancel(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.pass(passCtx, lang, &out, w, name, opts)
		}()
	}

	a.log.Info().Str("file", path).Msg("watching")
	start()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.log.Debug().Str("file", path).Str("op", ev.Op.String()).Msg("changed")
			start()

		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn().Err(e).Msg("watcher error")
		}
	}
}

// pass checks the current file content, results of a cancelled pass are dropped.
func (a *app) pass(ctx context.Context, lang *julia.Language, out *sync.Mutex, w io.Writer, name string, opts checkOptions) {
	content, e := loadFile(name, nil)
	if e != nil {
		a.log.Warn().Err(e).Msg("cannot read file")
		return
	}

	snap, e := snapshot(name, content)
	if e != nil {
		a.log.Warn().Err(e).Msg("cannot create snapshot")
		return
	}

	res, e := lang.Parse(ctx, snap)
	if errors.Is(e, jlx.ErrCancelled) || ctx.Err() != nil {
		a.log.Debug().Str("version", snap.Version).Msg("stale pass dropped")
		return
	}
	if e != nil {
		a.log.Warn().Err(e).Msg("parse failed")
		return
	}

	out.Lock()
	defer out.Unlock()

	fmt.Fprintf(w, "--- %s (%s)\n", snap.Name, snap.Version)
	if _, e := a.report(w, res, opts); e != nil {
		fmt.Fprintln(w, a.colors.failure(e.Error()))
	}
}
