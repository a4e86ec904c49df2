// Package rtl turns a stylesheet into a direction-aware one: rules with
// directional declarations are split into LTR and RTL variants and keyframes
// are duplicated under direction-specific names.
package rtl

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"bidicss/common"
	"bidicss/css"
	"bidicss/directive"
	"bidicss/flip"
)

// mirror is implemented by *flip.Engine.
type mirror interface {
	Flip(text string) (string, error)
	Declaration(property, value string) (string, string)
}

// Processor applies Options to parsed stylesheets. It keeps no state between
// calls and could be reused.
type Processor struct {
	opts   Options
	parser *css.Parser
	engine mirror
	log    *zap.Logger
}

// Result describes keyframes handled during a single run.
type Result struct {
	Keyframes []Keyframes
	Names     KeyframesMap
	// Pattern matches original keyframes names as whole tokens, nil when
	// nothing was renamed.
	Pattern *regexp.Regexp
}

// NewProcessor creates processor, nil log disables logging.
func NewProcessor(opts Options, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		opts:   opts,
		parser: css.NewParser(log),
		engine: flip.New(opts.flip(), log),
		log:    log.Named("rtl"),
	}
}

// run holds state of a single Process call.
type run struct {
	p   *Processor
	log *zap.Logger

	keyframes []Keyframes
	names     KeyframesMap
	pattern   *regexp.Regexp

	// nodes inserted during this run, never processed again
	generated map[css.Node]struct{}
}

// Process modifies root in place. Processing the same tree twice is not
// supported: keyframes would be renamed again.
func (p *Processor) Process(root *css.Root) (*Result, error) {
	r := &run{
		p:         p,
		log:       p.log,
		generated: make(map[css.Node]struct{}),
	}

	if p.opts.ProcessKeyframes {
		if err := r.parseKeyframes(root); err != nil {
			return nil, err
		}
		r.names = NewKeyframesMap(r.keyframes)
		r.pattern = KeyframesPattern(r.names)
	}

	r.splitRules(root, common.Direction(0), false)
	r.parseAtRules(root)

	if p.opts.StripDirectives {
		stripDirectives(root)
	}

	p.log.Debug("Stylesheet processed",
		zap.Int("keyframes", len(r.keyframes)),
		zap.Int("generated", len(r.generated)))
	if ce := p.log.Check(zap.DebugLevel, "Resulting tree"); ce != nil {
		ce.Write(zap.String("tree", css.Dump(root)))
	}

	return &Result{Keyframes: r.keyframes, Names: r.names, Pattern: r.pattern}, nil
}

// ProcessBytes parses data, processes it and returns resulting CSS text.
func (p *Processor) ProcessBytes(data []byte, source string) ([]byte, *Result, error) {
	root, err := p.parser.Parse(data, source)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse %s: %w", source, err)
	}
	res, err := p.Process(root)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to process %s: %w", source, err)
	}
	return []byte(root.String()), res, nil
}

// source resolves direction for a node given at-rule level override and
// directives currently in force.
func (r *run) source(set *directive.Set, override common.Direction, forced bool) common.Direction {
	if dir, ok := set.Override(); ok {
		return dir
	}
	if forced {
		return override
	}
	return r.p.opts.Source
}

// stripDirectives removes directive comments from every container of the
// tree, important ("!") directives stay.
func stripDirectives(c css.Container) {
	var drop []css.Node
	for _, n := range c.Nodes() {
		switch n := n.(type) {
		case *css.Comment:
			if d, ok := directive.Recognize(n.Text); ok && !d.Important {
				drop = append(drop, n)
			}
		case css.Container:
			stripDirectives(n)
		}
	}
	for _, n := range drop {
		c.Remove(n)
	}
}
