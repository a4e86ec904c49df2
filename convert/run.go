package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"bidicss/archive"
	"bidicss/common"
	"bidicss/rtl"
	"bidicss/state"
)

// converter keeps state of a single command invocation.
type converter struct {
	env  *state.LocalEnv
	log  *zap.Logger
	proc *rtl.Processor
	// diff output
	out io.Writer
	// keyframes renamed in all processed stylesheets
	names rtl.KeyframesMap
}

func newConverter(env *state.LocalEnv, log *zap.Logger, out io.Writer) *converter {
	return &converter{
		env:   env,
		log:   log,
		proc:  env.NewProcessor(),
		out:   out,
		names: make(rtl.KeyframesMap),
	}
}

// Run is "process" command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("process")

	src, dst, err := arguments(cmd, log)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, env, log); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("direction", env.Cfg.Processing.Source))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	c := newConverter(env, log, os.Stdout)
	err = c.process(ctx, src, dst)
	if len(env.KeyframesMap) > 0 {
		err = multierr.Append(err, c.writeKeyframesMap(env.KeyframesMap))
	}
	return summarize(err, log)
}

// arguments returns absolute source and destination, destination defaults to
// current directory.
func arguments(cmd *cli.Command, log *zap.Logger) (src, dst string, err error) {
	src = cmd.Args().Get(0)
	if len(src) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return "", "", err
	}

	dst = cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", "", err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	return src, dst, nil
}

// applyFlags overwrites configuration with command line flags.
func applyFlags(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) error {
	p := &env.Cfg.Processing
	if cmd.IsSet("source") {
		dir, err := common.ParseDirection(cmd.String("source"))
		if err != nil {
			return fmt.Errorf("bad source direction: %w", err)
		}
		p.Source = dir
	}
	if cmd.Bool("no-keyframes") {
		p.ProcessKeyframes = false
	}
	if cmd.Bool("process-urls") {
		p.ProcessURLs = true
	}
	if cmd.Bool("use-calc") {
		p.UseCalc = true
	}

	env.NoDirs, env.Overwrite, env.Diff = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("diff")
	env.KeyframesMap = cmd.String("keyframes-map")

	// stylesheets without BOM and archive entries without UTF-8 flag may
	// need archaic code page
	if cp := cmd.String("input-cp"); len(cp) > 0 {
		if err := env.SetInputCodePage(cp); err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		} else {
			log.Debug("Converting all non UTF-8 input", zap.String("charset", cp))
		}
	}
	return nil
}

// summarize logs every aggregated error and returns short one.
func summarize(err error, log *zap.Logger) error {
	errs := multierr.Errors(err)
	if len(errs) <= 1 {
		return err
	}
	for _, e := range errs {
		log.Error("Processing failed", zap.Error(e))
	}
	return fmt.Errorf("processing failed for %d items", len(errs))
}

func isStylesheet(name string) bool {
	return strings.EqualFold(filepath.Ext(name), outputExt)
}

// process determines the input type (directory, archive, or single file) and
// processes it accordingly. Errors of individual stylesheets are aggregated.
func (c *converter) process(ctx context.Context, src, dst string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return c.processDir(ctx, head, dst)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isZip, err := archive.IsZip(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isZip {
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			return c.processArchive(ctx, head, tail, "", dst)
		}

		if len(tail) == 0 && isStylesheet(head) {
			return c.processFile(ctx, head, filepath.Base(head), dst)
		}
		return fmt.Errorf("input was not recognized as stylesheet (%s)", head)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir walks directory tree finding stylesheets and archives and
// processes them in natural order. Destination subtree is skipped.
func (c *converter) processDir(ctx context.Context, dir, dst string) error {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			c.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.IsDir() && path != dir && path == dst {
			c.log.Debug("Skipping destination directory", zap.String("dir", path))
			return filepath.SkipDir
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortFunc(files, naturalOrder)

	var errs error
	count := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isZip, err := archive.IsZip(path)
		if err != nil {
			c.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isZip {
			count++
			errs = multierr.Append(errs, c.processArchive(ctx, path, "", filepath.Dir(rel), dst))
			continue
		}
		if !isStylesheet(path) {
			c.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			continue
		}
		count++
		errs = multierr.Append(errs, c.processFile(ctx, path, rel, dst))
	}
	if count == 0 {
		c.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return errs
}

// processArchive processes all stylesheets inside archive under "pathIn".
// Archives inside archives are not supported.
func (c *converter) processArchive(ctx context.Context, path, pathIn, pathOut, dst string) error {
	var errs error
	count := 0
	err := archive.Walk(path, pathIn, c.env.CodePage, func(arc, name string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isStylesheet(name) {
			c.log.Debug("Skipping file, not recognized as stylesheet", zap.String("archive", arc), zap.String("file", name))
			return nil
		}
		count++

		data, err := readEntry(f)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to read %s from archive %s: %w", name, arc, err))
			return nil
		}
		if err := c.processStylesheet(data, "", filepath.Join(pathOut, filepath.FromSlash(name)), dst); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s in archive %s: %w", name, arc, err))
		}
		return nil
	})
	if err != nil {
		return multierr.Append(errs, fmt.Errorf("unable to process archive %s: %w", path, err))
	}
	if count == 0 {
		c.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return errs
}

func readEntry(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (c *converter) processFile(ctx context.Context, path, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}
	if err := c.processStylesheet(data, path, src, dst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// processStylesheet processes single stylesheet. "origin" is path to the
// source file, empty for archive entries. "src" is part of the source path
// (always including file name) relative to the original path. "dst" is the
// destination directory.
func (c *converter) processStylesheet(data []byte, origin, src, dst string) (rerr error) {
	env := c.env

	var outputName string

	c.log.Info("Stylesheet processing starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			c.log.Error("Stylesheet processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		} else if rerr == nil {
			c.log.Info("Stylesheet processing completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	env.Rpt.StoreData(filepath.ToSlash(filepath.Join("source", src)), data)

	text, err := env.Decode(data)
	if err != nil {
		return err
	}
	result, res, err := c.proc.ProcessBytes(text, src)
	if err != nil {
		return err
	}

	outputName = buildOutputPath(src, dst, env)
	if err := c.prepareOutput(origin, outputName); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, result, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	maps.Copy(c.names, res.Names)
	env.Rpt.StoreData(filepath.ToSlash(filepath.Join("result", src)), result)

	if env.Diff {
		if err := printDiff(c.out, src, text, result); err != nil {
			return fmt.Errorf("unable to print diff: %w", err)
		}
	}
	return nil
}

// prepareOutput makes sure output file could be written.
func (c *converter) prepareOutput(origin, outputName string) error {
	fi, err := os.Stat(outputName)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if len(origin) > 0 {
		if ofi, err := os.Stat(origin); err == nil && os.SameFile(fi, ofi) {
			return fmt.Errorf("output file would replace source: %s", outputName)
		}
	}
	if !c.env.Overwrite {
		return fmt.Errorf("output file already exists: %s", outputName)
	}
	c.log.Warn("Overwriting existing file", zap.String("file", outputName))
	return nil
}

// writeKeyframesMap saves names of all renamed keyframes as YAML.
func (c *converter) writeKeyframesMap(path string) error {
	data, err := yaml.Marshal(c.names)
	if err != nil {
		return fmt.Errorf("unable to marshal keyframes map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create keyframes map directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write keyframes map: %w", err)
	}
	c.env.Rpt.StoreData("keyframes-map.yaml", data)
	c.log.Debug("Keyframes map written", zap.String("file", path), zap.Int("names", len(c.names)))
	return nil
}

func naturalOrder(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}
