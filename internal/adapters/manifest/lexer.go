// Package manifest implements ports.ManifestLoader: a lexer and
// recursive-descent parser that turns nova manifest text into a
// domain.Graph, per the EBNF sketch in spec.md §6.
package manifest

import (
	"strings"

	"go.trai.ch/zerr"
)

// logicalLine is one statement after `$`-newline continuations have
// been joined and leading indentation has been measured.
type logicalLine struct {
	indent int
	text   string
	lineNo int
}

// lexer splits manifest source into logical lines.
type lexer struct {
	lines []logicalLine
	pos   int
}

func newLexer(src string) *lexer {
	return &lexer{lines: splitLogicalLines(src)}
}

func (l *lexer) peek() (logicalLine, bool) {
	if l.pos >= len(l.lines) {
		return logicalLine{}, false
	}
	return l.lines[l.pos], true
}

func (l *lexer) next() (logicalLine, bool) {
	ln, ok := l.peek()
	if ok {
		l.pos++
	}
	return ln, ok
}

// splitLogicalLines joins `$`-newline continuations, strips comments,
// measures each remaining line's leading-space indentation, and drops
// blank lines. Line numbers refer to the original, unjoined source so
// error messages stay useful.
func splitLogicalLines(src string) []logicalLine {
	raw := strings.Split(src, "\n")

	var out []logicalLine
	var buf strings.Builder

	flush := func(endLine int) {
		if buf.Len() == 0 {
			return
		}
		text := buf.String()
		buf.Reset()
		indent := 0
		for indent < len(text) && text[indent] == ' ' {
			indent++
		}
		trimmed := strings.TrimRight(text[indent:], " \t")
		if trimmed != "" {
			out = append(out, logicalLine{indent: indent, text: trimmed, lineNo: endLine})
		}
	}

	for i, r := range raw {
		lineNo := i + 1
		line := stripComment(r)

		if strings.HasSuffix(line, "$") && !strings.HasSuffix(line, "$$") {
			buf.WriteString(strings.TrimSuffix(line, "$"))
			continue
		}

		buf.WriteString(line)
		flush(lineNo)
	}
	flush(len(raw))

	return out
}

// stripComment removes a `#`-introduced trailing comment, respecting
// that `$#` is not a comment marker.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '#' && (i == 0 || line[i-1] != '$') {
			return line[:i]
		}
	}
	return line
}

// tokenizeEvalString splits raw manifest value text into an
// EvalString's literal/var-ref token stream, handling `$name`,
// `${name}`, `$$`, and `$<space>`.
func tokenizeEvalString(raw string) (literalsAndRefs []evalToken, err error) {
	var toks []evalToken
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, evalToken{text: lit.String(), isVar: false})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '$' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			return nil, zerr.New("manifest: trailing '$' with nothing escaped")
		}
		next := raw[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i++
		case next == ' ':
			lit.WriteByte(' ')
			i++
		case next == ':':
			lit.WriteByte(':')
			i++
		case next == '{':
			end := strings.IndexByte(raw[i+2:], '}')
			if end < 0 {
				return nil, zerr.New("manifest: unterminated '${' variable reference")
			}
			flush()
			toks = append(toks, evalToken{text: raw[i+2 : i+2+end], isVar: true})
			i += 2 + end
		default:
			j := i + 1
			for j < len(raw) && isNameByte(raw[j]) {
				j++
			}
			if j == i+1 {
				return nil, zerr.New("manifest: '$' not followed by a variable name")
			}
			flush()
			toks = append(toks, evalToken{text: raw[i+1 : j], isVar: true})
			i = j - 1
		}
	}
	flush()
	return toks, nil
}

type evalToken struct {
	text  string
	isVar bool
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
