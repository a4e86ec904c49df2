package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"bidicss/common"
	"bidicss/flip"
	"bidicss/rtl"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ProcessingConfig struct {
		Source           common.Direction `yaml:"source"`
		ProcessURLs      bool             `yaml:"process_urls"`
		UseCalc          bool             `yaml:"use_calc"`
		ProcessKeyframes bool             `yaml:"process_keyframes"`
		StripDirectives  bool             `yaml:"strip_directives"`
		LTRPrefix        string           `yaml:"ltr_prefix" validate:"required"`
		RTLPrefix        string           `yaml:"rtl_prefix" validate:"required"`
		StringMap        []flip.StringMap `yaml:"string_map" validate:"dive"`
	}

	OutputConfig struct {
		NameTemplate          string `yaml:"name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Processing ProcessingConfig `yaml:"processing"`
		Output     OutputConfig     `yaml:"output"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// Options converts processing configuration to processor options.
func (conf *ProcessingConfig) Options() rtl.Options {
	return rtl.Options{
		Source:           conf.Source,
		ProcessURLs:      conf.ProcessURLs,
		UseCalc:          conf.UseCalc,
		ProcessKeyframes: conf.ProcessKeyframes,
		StripDirectives:  conf.StripDirectives,
		LTRPrefix:        conf.LTRPrefix,
		RTLPrefix:        conf.RTLPrefix,
		StringMap:        conf.StringMap,
	}
}

// checkConfig is a struct level validation for things tags cannot express.
func checkConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	p := cfg.Processing
	if p.LTRPrefix == p.RTLPrefix {
		sl.ReportError(p.RTLPrefix, "rtl_prefix", "RTLPrefix", "nefield", "ltr_prefix")
	}
	for i, m := range p.StringMap {
		if len(m.Search) != len(m.Replace) {
			sl.ReportError(m.Replace, fmt.Sprintf("string_map[%d].replace", i), "Replace", "len", fmt.Sprint(len(m.Search)))
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
