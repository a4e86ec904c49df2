package rtl

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"bidicss/css"
	"bidicss/directive"
)

// Keyframes is a renamed keyframes at-rule and its mirrored copy.
type Keyframes struct {
	// Params is the original animation name.
	Params  string
	AtRule  *css.AtRule
	Flipped *css.AtRule
}

// KeyframesName holds new names of an animation: Name is for the direction
// keyframes were written for, NameFlipped for the opposite one.
type KeyframesName struct {
	Name        string `yaml:"name"`
	NameFlipped string `yaml:"name-flipped"`
}

// KeyframesMap maps original animation names to new ones.
type KeyframesMap map[string]KeyframesName

// NewKeyframesMap builds names map, later entries win for duplicate names.
func NewKeyframesMap(keyframes []Keyframes) KeyframesMap {
	m := make(KeyframesMap, len(keyframes))
	for _, k := range keyframes {
		m[k.Params] = KeyframesName{Name: k.AtRule.Params, NameFlipped: k.Flipped.Params}
	}
	return m
}

// KeyframesPattern returns expression matching any name from m as a whole
// token. Submatch 2 is the name itself, submatches 1 and 3 are surrounding
// boundaries. Nil is returned for empty map.
func KeyframesPattern(m KeyframesMap) *regexp.Regexp {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, regexp.QuoteMeta(name))
	}
	// longest first, so alternation prefers "spinner" over "spin"
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return regexp.MustCompile(`(^|[^\w-])(` + strings.Join(names, "|") + `)([^\w-]|$)`)
}

// rename replaces original animation names in value with new ones.
func rename(pattern *regexp.Regexp, names KeyframesMap, value string, flipped bool) string {
	if pattern == nil {
		return value
	}
	var sb strings.Builder
	rest := value
	for {
		loc := pattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		sb.WriteString(rest[:loc[4]])
		n := names[rest[loc[4]:loc[5]]]
		if flipped {
			sb.WriteString(n.NameFlipped)
		} else {
			sb.WriteString(n.Name)
		}
		// trailing boundary could start next match
		rest = rest[loc[5]:]
	}
	sb.WriteString(rest)
	return sb.String()
}

// parseKeyframes walks c looking for keyframes at-rules, nested at-rules are
// searched with their own directive scope.
func (r *run) parseKeyframes(c css.Container) error {
	var err error
	set := directive.NewSet()
	directive.Walk(c, set, []css.NodeType{css.NodeAtRule, css.NodeRule}, set.OnComment, func(n css.Node) {
		if err != nil || set.Active(directive.KindIgnore) {
			return
		}
		a, ok := n.(*css.AtRule)
		if !ok || !a.HasBlock {
			return
		}
		if _, ok := r.generated[a]; ok {
			return
		}
		if !css.IsKeyframes(a) {
			err = r.parseKeyframes(a)
			return
		}
		err = r.flipKeyframes(c, a, set)
	})
	return err
}

func (r *run) flipKeyframes(c css.Container, a *css.AtRule, set *directive.Set) error {
	text := a.String()
	flipped, err := r.p.engine.Flip(text)
	if err != nil {
		return fmt.Errorf("unable to flip keyframes %q: %w", a.Params, err)
	}
	if flipped == text {
		r.log.Debug("Keyframes are direction neutral", zap.String("name", a.Params))
		return nil
	}

	root, err := r.p.parser.Parse([]byte(flipped))
	if err != nil {
		return fmt.Errorf("unable to parse flipped keyframes %q: %w", a.Params, err)
	}
	if root.Len() == 0 {
		return fmt.Errorf("flipped keyframes %q produced empty stylesheet", a.Params)
	}
	clone, ok := root.At(0).(*css.AtRule)
	if !ok {
		return fmt.Errorf("flipped keyframes %q produced %s instead of at-rule", a.Params, root.At(0).Type())
	}

	src := r.source(set, 0, false)
	params := a.Params
	a.Params = params + src.Suffix()
	clone.Params = params + src.Opposite().Suffix()

	c.InsertAfter(a, clone)
	r.generated[clone] = struct{}{}
	r.keyframes = append(r.keyframes, Keyframes{Params: params, AtRule: a, Flipped: clone})

	r.log.Debug("Keyframes renamed",
		zap.String("name", params),
		zap.String("source", a.Params),
		zap.String("flipped", clone.Params))
	return nil
}
