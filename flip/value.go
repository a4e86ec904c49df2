package flip

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

const (
	cssIdent      = css.IdentToken
	cssDelim      = css.DelimToken
	cssURL        = css.URLToken
	cssFunction   = css.FunctionToken
	cssRightParen = css.RightParenthesisToken
)

type tok struct {
	tt   css.TokenType
	data string
}

func lex(value string) []tok {
	l := css.NewLexer(parse.NewInput(bytes.NewReader([]byte(value))))
	var toks []tok
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return toks
		}
		toks = append(toks, tok{tt: tt, data: string(data)})
	}
}

// split breaks value into parts at top level separators, separators are
// dropped. Whitespace splits when sep is css.WhitespaceToken, otherwise
// whitespace is kept inside parts and trimmed at their ends.
func split(value string, sep css.TokenType, delim string) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" || sep != css.WhitespaceToken {
			parts = append(parts, s)
		}
		cur.Reset()
	}
	for _, t := range lex(value) {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 && (delim == "" || t.data == delim) {
				flush()
				continue
			}
		}
		cur.WriteString(t.data)
	}
	flush()
	return parts
}

func components(value string) []string {
	return split(value, css.WhitespaceToken, "")
}

func groups(value string) []string {
	return split(value, css.CommaToken, "")
}

// single returns the only meaningful token of s.
func single(s string) (tok, bool) {
	var found tok
	n := 0
	for _, t := range lex(s) {
		if t.tt == css.WhitespaceToken || t.tt == css.CommentToken {
			continue
		}
		found = t
		n++
	}
	return found, n == 1
}

func isNumeric(s string) bool {
	t, ok := single(s)
	if !ok {
		return false
	}
	switch t.tt {
	case css.NumberToken, css.DimensionToken, css.PercentageToken:
		return true
	}
	return false
}

// number splits numeric token text into value and unit.
func number(s string) (float64, string, bool) {
	i := 0
	for i < len(s) && strings.IndexByte("+-.0123456789eE", s[i]) >= 0 {
		// exponent only counts when followed by digit or sign
		if (s[i] == 'e' || s[i] == 'E') && (i+1 >= len(s) || strings.IndexByte("+-0123456789", s[i+1]) < 0) {
			break
		}
		i++
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return v, s[i:], true
}

// negate returns s with opposite sign, s is a number, dimension, percentage
// or function producing one.
func negate(s string) string {
	s = strings.TrimSpace(s)
	if isNumeric(s) {
		if v, _, ok := number(s); ok && v == 0 {
			return s
		}
		switch s[0] {
		case '-':
			return s[1:]
		case '+':
			return "-" + s[1:]
		}
		return "-" + s
	}
	if open := strings.IndexByte(s, '('); open > 0 && strings.EqualFold(s[:open], "calc") {
		return "calc(-1 * " + s[open:] + ")"
	}
	return "calc(-1 * " + s + ")"
}

// function splits "name(a, b)" into name and top level arguments.
func function(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	return s[:open], groups(s[open+1 : len(s)-1]), true
}

func isFunction(s, name string) bool {
	open := strings.IndexByte(s, '(')
	return open > 0 && strings.EqualFold(s[:open], name)
}
