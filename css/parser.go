package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into a node tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	data string
	line int
}

// Parse parses CSS text into a Root. Comments are kept on every nesting level.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*Root, error) {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	toks, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize css: %w", err)
	}

	b := &builder{toks: toks, log: p.log}
	root := &Root{}
	if err := b.parseList(root, 0); err != nil {
		return nil, err
	}
	return root, nil
}

func tokenize(data []byte) ([]token, error) {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))
	toks := make([]token, 0, len(data)/4)
	line := 1
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, data: string(text), line: line})
		line += bytes.Count(text, []byte{'\n'})
	}
}

// builder is a recursive descent tree builder working on lexer tokens.
type builder struct {
	toks []token
	pos  int
	log  *zap.Logger
}

// parseList fills container c until the closing brace of the block opened at
// line "opened" (0 for the stylesheet itself) or end of input.
func (b *builder) parseList(c Container, opened int) error {
	for b.pos < len(b.toks) {
		t := b.toks[b.pos]
		switch t.tt {
		case css.WhitespaceToken, css.CDOToken, css.CDCToken, css.SemicolonToken:
			b.pos++
		case css.CommentToken:
			c.Append(&Comment{Text: commentText(t.data)})
			b.pos++
		case css.RightBraceToken:
			if opened == 0 {
				return fmt.Errorf("unexpected '}' at line %d", t.line)
			}
			b.pos++
			return nil
		case css.AtKeywordToken:
			if err := b.parseAtRule(c); err != nil {
				return err
			}
		default:
			if err := b.parseStatement(c, opened > 0); err != nil {
				return err
			}
		}
	}
	if opened > 0 {
		return fmt.Errorf("unclosed block opened at line %d", opened)
	}
	return nil
}

// prelude collects tokens up to (not including) '{', ';' or '}' outside of
// any parentheses or brackets. It returns collected tokens and the terminator
// (css.ErrorToken on end of input).
func (b *builder) prelude() ([]token, css.TokenType) {
	start, depth := b.pos, 0
	for ; b.pos < len(b.toks); b.pos++ {
		switch tt := b.toks[b.pos].tt; tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				return b.toks[start:b.pos], tt
			}
		}
	}
	return b.toks[start:], css.ErrorToken
}

func (b *builder) parseAtRule(c Container) error {
	t := b.toks[b.pos]
	b.pos++

	toks, end := b.prelude()
	a := &AtRule{Name: strings.TrimPrefix(t.data, "@"), Params: joinTokens(toks)}
	c.Append(a)

	switch end {
	case css.LeftBraceToken:
		b.pos++
		a.HasBlock = true
		return b.parseList(a, t.line)
	case css.SemicolonToken:
		b.pos++
	}
	return nil
}

func (b *builder) parseStatement(c Container, nested bool) error {
	line := b.toks[b.pos].line
	toks, end := b.prelude()

	if end == css.LeftBraceToken {
		b.pos++
		r := &Rule{Selector: joinTokens(toks)}
		c.Append(r)
		return b.parseList(r, line)
	}
	if end == css.SemicolonToken {
		b.pos++
	}

	if d, ok := declaration(toks); ok && nested {
		c.Append(d)
		return nil
	}
	b.log.Debug("Skipping malformed statement", zap.Int("line", line), zap.String("text", joinTokens(toks)))
	return nil
}

// declaration interprets tokens as "name: value [!important]".
func declaration(toks []token) (*Declaration, bool) {
	toks = trimSpace(toks)
	if len(toks) < 2 {
		return nil, false
	}
	switch toks[0].tt {
	case css.IdentToken, css.CustomPropertyNameToken:
	default:
		return nil, false
	}
	rest := trimSpace(toks[1:])
	if len(rest) == 0 || rest[0].tt != css.ColonToken {
		return nil, false
	}
	d := &Declaration{Property: toks[0].data}
	value := trimSpace(rest[1:])

	// !important
	if n := len(value); n >= 2 && value[n-1].tt == css.IdentToken && strings.EqualFold(value[n-1].data, "important") {
		head := trimSpace(value[:n-1])
		if k := len(head); k > 0 && head[k-1].tt == css.DelimToken && head[k-1].data == "!" {
			d.Important = true
			value = head[:k-1]
		}
	}
	d.Value = joinTokens(value)
	return d, true
}

func isSpace(t token) bool {
	return t.tt == css.WhitespaceToken || t.tt == css.CommentToken
}

func trimSpace(toks []token) []token {
	for len(toks) > 0 && isSpace(toks[0]) {
		toks = toks[1:]
	}
	for len(toks) > 0 && isSpace(toks[len(toks)-1]) {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// joinTokens rebuilds source text from tokens collapsing whitespace and
// dropping comments.
func joinTokens(toks []token) string {
	var sb strings.Builder
	space := false
	for _, t := range trimSpace(toks) {
		if isSpace(t) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteString(t.data)
	}
	return sb.String()
}

func commentText(data string) string {
	data = strings.TrimPrefix(data, "/*")
	return strings.TrimSuffix(data, "*/")
}
