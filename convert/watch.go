package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bidicss/archive"
	"bidicss/state"
)

const debounce = 100 * time.Millisecond

// Watch is "watch" command action. It processes source and then keeps
// reprocessing stylesheets as they change until interrupted.
func Watch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("watch")

	if cmd.Args().Len() < 2 {
		return errors.New("both source and destination must be specified")
	}
	src, dst, err := arguments(cmd, log)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, env, log); err != nil {
		return err
	}
	// results are regenerated on every change
	env.Overwrite = true

	return newConverter(env, log, os.Stdout).watch(ctx, src, dst)
}

// watch monitors either a single stylesheet or a directory tree.
func (c *converter) watch(ctx context.Context, src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("unable to watch source: %w", err)
	}

	root, single := src, ""
	switch {
	case fi.IsDir():
		if src == dst {
			return errors.New("destination must differ from watched directory")
		}
	case fi.Mode().IsRegular():
		if isZip, err := archive.IsZip(src); err != nil || isZip {
			return fmt.Errorf("only stylesheets and directories could be watched (%s)", src)
		}
		if !isStylesheet(src) {
			return fmt.Errorf("input was not recognized as stylesheet (%s)", src)
		}
		root, single = filepath.Dir(src), src
	default:
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer w.Close()

	// destination inside watched tree produces events of its own
	exclude := ""
	if single == "" && inside(dst, root) {
		exclude = dst
	}

	if single != "" {
		err = w.Add(root)
	} else {
		err = c.addTree(w, root, exclude)
	}
	if err != nil {
		return fmt.Errorf("unable to watch %s: %w", root, err)
	}

	c.report(c.process(ctx, src, dst))
	c.log.Info("Watching for changes", zap.String("source", src), zap.String("destination", dst))

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Watching stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if len(exclude) > 0 && inside(event.Name, exclude) {
				continue
			}
			if single == "" && event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					c.report(c.addTree(w, event.Name, exclude))
					continue
				}
			}
			if (single != "" && event.Name != single) || !isStylesheet(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("Watcher error", zap.Error(err))

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) < debounce {
					continue
				}
				delete(pending, file)
				c.reprocess(ctx, root, file, dst)
			}
		}
	}
}

func (c *converter) reprocess(ctx context.Context, root, file, dst string) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	if _, err := os.Stat(file); err != nil {
		// removed before we got to it
		return
	}
	err = c.processFile(ctx, file, rel, dst)
	if err == nil && len(c.env.KeyframesMap) > 0 {
		err = c.writeKeyframesMap(c.env.KeyframesMap)
	}
	c.report(err)
}

// addTree watches dir and all its subdirectories except excluded one.
func (c *converter) addTree(w *fsnotify.Watcher, dir, exclude string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if len(exclude) > 0 && inside(path, exclude) {
			return filepath.SkipDir
		}
		c.log.Debug("Watching directory", zap.String("dir", path))
		return w.Add(path)
	})
}

// report logs every aggregated error, watching continues regardless.
func (c *converter) report(err error) {
	for _, e := range multierr.Errors(err) {
		c.log.Error("Processing failed", zap.Error(e))
	}
}

func inside(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
