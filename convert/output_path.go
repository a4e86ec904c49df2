package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"bidicss/config"
	"bidicss/state"
)

const outputExt = ".css"

// buildOutputPath returns output file path for stylesheet. "src" is source
// path relative to processed directory or archive (base name for single
// file). Name is either the source one or produced by user-defined template
// which may add subdirectories. Source directory structure is kept unless
// NoDirs is requested. Every segment is cleaned and transliterated if
// requested.
func buildOutputPath(src, dst string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, env)

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(src, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, expandedName, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func baseName(src string) string {
	return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	return cleanPathSegment(baseName(src), env) + outputExt
}

func expandOutputNameTemplate(src string, env *state.LocalEnv) string {
	values := Values{
		Name:      baseName(src),
		Source:    filepath.ToSlash(src),
		Direction: env.Cfg.Processing.Source.String(),
	}
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Output.NameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	pathSegments := splitPath(expandedName)
	if len(pathSegments) == 0 {
		return filepath.Join(outDir, cleanPathSegment("", env)+outputExt)
	}

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}

	fileName := pathSegments[len(pathSegments)-1]
	if strings.EqualFold(filepath.Ext(fileName), outputExt) {
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	dirParts = append(dirParts, cleanPathSegment(fileName, env)+outputExt)
	return filepath.Join(dirParts...)
}

// splitPath returns non-empty path segments, ".." segments are dropped so
// template could not escape destination directory.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for _, s := range strings.Split(path, string(os.PathSeparator)) {
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
