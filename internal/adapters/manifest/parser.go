package manifest

import (
	"strings"

	"go.novabuild.dev/nova/internal/domain"
	"go.trai.ch/zerr"
)

// parser turns a lexer's logical-line stream into a domain.Graph,
// resolving include/subninja statements relative to dir via load.
type parser struct {
	lex   *lexer
	graph *domain.Graph
	dir   string
	load  func(dir, path string) error
}

func newParser(src, dir string, graph *domain.Graph, load func(dir, path string) error) *parser {
	return &parser{lex: newLexer(src), graph: graph, dir: dir, load: load}
}

// parse consumes every top-level statement in this file's token
// stream against env, the scope statements in this file bind into.
func (p *parser) parse(env *domain.BindingEnv) error {
	for {
		ln, ok := p.lex.next()
		if !ok {
			return nil
		}
		if ln.indent != 0 {
			return p.errAt(ln, "unexpected indentation")
		}

		word, rest := splitFirstWord(ln.text)
		switch word {
		case "pool":
			if err := p.parsePool(rest); err != nil {
				return err
			}
		case "rule":
			if err := p.parseRule(rest); err != nil {
				return err
			}
		case "build":
			if err := p.parseBuild(rest, env); err != nil {
				return err
			}
		case "default":
			if err := p.parseDefault(rest, env); err != nil {
				return err
			}
		case "include":
			if err := p.load(p.dir, strings.TrimSpace(rest)); err != nil {
				return err
			}
		case "subninja":
			if err := p.load(p.dir, strings.TrimSpace(rest)); err != nil {
				return err
			}
		default:
			if err := p.parseTopLevelBinding(ln.text, env); err != nil {
				return err
			}
		}
	}
}

func (p *parser) errAt(ln logicalLine, msg string) error {
	return zerr.With(domain.ErrManifestSyntax, "message", msg+" at line "+itoa(ln.lineNo))
}

func splitFirstWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i+1:], " \t")
}

// parseTopLevelBinding handles a bare `name = value` manifest variable
// declaration in the current scope.
func (p *parser) parseTopLevelBinding(text string, env *domain.BindingEnv) error {
	name, value, err := splitBinding(text)
	if err != nil {
		return err
	}
	es, err := evalStringFrom(value)
	if err != nil {
		return err
	}
	env.AddBinding(name, es)
	return nil
}

// parsePool consumes a `pool name\n  depth = N` block.
func (p *parser) parsePool(headerRest string) error {
	name := strings.TrimSpace(headerRest)
	if name == "" {
		return zerr.New("manifest: pool statement missing a name")
	}

	pool := domain.NewPool(name, 0)
	for {
		ln, ok := p.lex.peek()
		if !ok || ln.indent == 0 {
			break
		}
		p.lex.next()
		key, value, err := splitBinding(ln.text)
		if err != nil {
			return err
		}
		if key == "depth" {
			depth, ok := parseInt(strings.TrimSpace(value))
			if !ok {
				return zerr.New("manifest: pool '" + name + "' has non-integer depth")
			}
			pool.Depth = depth
		}
	}
	return p.graph.AddPool(pool)
}

// parseRule consumes a `rule name\n  key = value ...` block, rejecting
// reserved-binding reference cycles as each binding is added.
func (p *parser) parseRule(headerRest string) error {
	name := strings.TrimSpace(headerRest)
	if name == "" {
		return zerr.New("manifest: rule statement missing a name")
	}

	rule := domain.NewRule(name)
	cycles := domain.NewReservedBindingGraph()

	for {
		ln, ok := p.lex.peek()
		if !ok || ln.indent == 0 {
			break
		}
		p.lex.next()
		key, value, err := splitBinding(ln.text)
		if err != nil {
			return err
		}
		es, err := evalStringFrom(value)
		if err != nil {
			return err
		}
		if err := cycles.AddBinding(key, es); err != nil {
			return err
		}
		rule.AddBinding(key, es)
	}

	return p.graph.AddRule(rule)
}

// parseBuild consumes `build out1 [out2...] [| impout...]: rule in1
// [in2...] [| impin...] [|| orderonly...]` plus any indented
// edge-level bindings.
func (p *parser) parseBuild(headerRest string, env *domain.BindingEnv) error {
	colon := strings.IndexByte(headerRest, ':')
	if colon < 0 {
		return zerr.New("manifest: build statement missing ':'")
	}

	outputsPart := headerRest[:colon]
	rulePart := strings.TrimLeft(headerRest[colon+1:], " \t")

	outWords, outImplicitAt := splitPipeSegments(outputsPart, env)
	ruleName, ruleRest := splitFirstWord(rulePart)

	rule, ok := p.graph.Rule(ruleName)
	if !ok {
		return zerr.With(domain.ErrUnknownRule, "rule", ruleName)
	}

	edge := domain.NewEdge(rule, env)

	for i, w := range outWords {
		canon, bits := domain.CanonicalPath(w)
		n := p.graph.GetOrCreateNode(canon, bits)
		edge.AddOutput(n, i < outImplicitAt)
	}

	inWords, inImplicitAt, inOrderOnlyAt := splitInputSegments(ruleRest, env)
	for i, w := range inWords {
		canon, bits := domain.CanonicalPath(w)
		n := p.graph.GetOrCreateNode(canon, bits)
		kind := domain.InputExplicit
		switch {
		case i >= inOrderOnlyAt:
			kind = domain.InputOrderOnly
		case i >= inImplicitAt:
			kind = domain.InputImplicit
		}
		edge.AddInput(n, kind)
	}

	if rule.Binding("pool").Empty() {
		edge.Pool = nil
	} else {
		poolName := rule.Binding("pool").Evaluate(edge)
		if poolName != "" {
			pool, ok := p.graph.Pool(poolName)
			if !ok {
				return zerr.With(domain.ErrUnknownPool, "pool", poolName)
			}
			edge.Pool = pool
		}
	}

	for {
		ln, ok := p.lex.peek()
		if !ok || ln.indent == 0 {
			break
		}
		p.lex.next()
		key, value, err := splitBinding(ln.text)
		if err != nil {
			return err
		}
		es, err := evalStringFrom(value)
		if err != nil {
			return err
		}
		edge.Bindings.AddBinding(key, es)
		if key == "pool" {
			poolName := es.Evaluate(edge)
			pool, ok := p.graph.Pool(poolName)
			if !ok {
				return zerr.With(domain.ErrUnknownPool, "pool", poolName)
			}
			edge.Pool = pool
		}
	}

	if edge.Binding("deps") != "" && len(edge.ExplicitOutputNodes()) > 1 {
		return zerr.With(domain.ErrMultipleOutputsWithDeps, "edge", edge.ExplicitOutputNodes()[0].Path)
	}

	p.graph.AddEdge(edge)
	return nil
}

// parseDefault consumes `default target1 target2 ...`.
func (p *parser) parseDefault(rest string, env *domain.BindingEnv) error {
	for _, w := range splitWords(rest, env) {
		canon, _ := domain.CanonicalPath(w)
		n := p.graph.LookupNode(canon)
		if n == nil {
			n = p.graph.GetOrCreateNode(canon, 0)
		}
		p.graph.AddDefault(n)
	}
	return nil
}

func splitBinding(text string) (name, value string, err error) {
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return "", "", zerr.New("manifest: expected 'name = value' binding, got: " + text)
	}
	name = strings.TrimSpace(text[:eq])
	value = strings.TrimLeft(text[eq+1:], " \t")
	return name, value, nil
}

func evalStringFrom(raw string) (domain.EvalString, error) {
	toks, err := tokenizeEvalString(raw)
	if err != nil {
		return domain.EvalString{}, err
	}
	var es domain.EvalString
	for _, t := range toks {
		if t.isVar {
			es.AddVarRef(t.text)
		} else {
			es.AddText(t.text)
		}
	}
	return es, nil
}

// splitWords splits raw build-line text on unescaped whitespace,
// expanding `$name`/`${name}` against env eagerly (build-line paths
// are resolved at parse time, unlike command text which is late-bound
// per edge) and treating `$ ` as a literal space and `$$` as a literal
// `$`.
func splitWords(raw string, env domain.Env) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == ' ' || c == '\t':
			flush()
		case c == '$' && i+1 < len(raw):
			next := raw[i+1]
			switch {
			case next == '$':
				cur.WriteByte('$')
				i++
			case next == ' ':
				cur.WriteByte(' ')
				i++
			case next == ':':
				cur.WriteByte(':')
				i++
			case next == '{':
				end := strings.IndexByte(raw[i+2:], '}')
				if end >= 0 {
					name := raw[i+2 : i+2+end]
					if env != nil {
						cur.WriteString(env.Lookup(name))
					}
					i += 2 + end
				}
			default:
				j := i + 1
				for j < len(raw) && isNameByte(raw[j]) {
					j++
				}
				if j > i+1 {
					if env != nil {
						cur.WriteString(env.Lookup(raw[i+1 : j]))
					}
					i = j - 1
				} else {
					cur.WriteByte(c)
				}
			}
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return words
}

// splitPipeSegments splits a build statement's output list on a single
// `|` into explicit and implicit output words, returning the combined
// word list and the index implicit outputs start at.
func splitPipeSegments(raw string, env domain.Env) (words []string, implicitAt int) {
	parts := strings.SplitN(raw, "|", 2)
	explicit := splitWords(parts[0], env)
	words = append(words, explicit...)
	implicitAt = len(words)
	if len(parts) == 2 {
		words = append(words, splitWords(parts[1], env)...)
	}
	return words, implicitAt
}

// splitInputSegments splits a build statement's post-rule-name input
// list on `|` (implicit) and `||` (order-only) markers.
func splitInputSegments(raw string, env domain.Env) (words []string, implicitAt, orderOnlyAt int) {
	orderOnlySplit := strings.SplitN(raw, "||", 2)
	beforeOrderOnly := orderOnlySplit[0]

	implicitSplit := strings.SplitN(beforeOrderOnly, "|", 2)
	explicit := splitWords(implicitSplit[0], env)
	words = append(words, explicit...)
	implicitAt = len(words)

	if len(implicitSplit) == 2 {
		words = append(words, splitWords(implicitSplit[1], env)...)
	}
	orderOnlyAt = len(words)

	if len(orderOnlySplit) == 2 {
		words = append(words, splitWords(orderOnlySplit[1], env)...)
	}
	return words, implicitAt, orderOnlyAt
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
