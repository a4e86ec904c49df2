package directive

import (
	"bidicss/common"
	"bidicss/css"
)

// Set holds directives in force during a single walk over one container.
// Every walk gets its own Set, directives never leak into nested containers.
//
// Per kind there is at most one directive in force: a next-scoped directive
// arriving while a block of the same kind is open shadows the block for one
// node, after which the block is in force again.
type Set struct {
	next  map[Kind]Directive
	block map[Kind]Directive
}

// NewSet returns empty directive set.
func NewSet() *Set {
	return &Set{
		next:  make(map[Kind]Directive),
		block: make(map[Kind]Directive),
	}
}

// Observe installs directive d. It returns false when d is dropped: an
// ignore directive inside an open ignore block, or a block end without
// matching begin.
func (s *Set) Observe(d Directive) bool {
	if d.Kind == KindIgnore && d.Scope != ScopeEnd {
		if _, open := s.block[KindIgnore]; open {
			return false
		}
	}

	switch d.Scope {
	case ScopeNext:
		s.next[d.Kind] = d
	case ScopeBegin:
		s.block[d.Kind] = d
	case ScopeEnd:
		if _, open := s.block[d.Kind]; !open {
			return false
		}
		delete(s.block, d.Kind)
	}
	return true
}

// OnComment is a walk comment callback feeding directives into the set.
func (s *Set) OnComment(_ *css.Comment, d Directive) {
	s.Observe(d)
}

// Active reports whether a directive of the kind is in force.
func (s *Set) Active(kind Kind) bool {
	if _, ok := s.next[kind]; ok {
		return true
	}
	_, ok := s.block[kind]
	return ok
}

// Override returns source direction forced by a source directive in force.
func (s *Set) Override() (common.Direction, bool) {
	d, ok := s.next[KindSource]
	if !ok {
		d, ok = s.block[KindSource]
	}
	if !ok || !d.HasValue {
		return common.DirectionLtr, false
	}
	return d.Value, true
}

// Expire drops next-scoped directives. It is called after every non comment
// node whether or not the node was acted upon.
func (s *Set) Expire() {
	clear(s.next)
}
