// Package depsloader augments an edge's implicit inputs from a
// depfile or the deps log, per spec §4.3.
package depsloader

import (
	"strings"

	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
)

// Loader implements scan.DepsLoader against a concrete disk and deps
// log, synthesizing phony source edges for implicit deps that name a
// path with no existing producer.
type Loader struct {
	disk    ports.Disk
	depsLog ports.DepsLog
	graph   *domain.Graph
	logger  ports.Logger
}

// New returns a Loader. depsLog may be nil if the manifest uses no
// `deps = gcc|msvc` rules.
func New(disk ports.Disk, depsLog ports.DepsLog, graph *domain.Graph, logger ports.Logger) *Loader {
	return &Loader{disk: disk, depsLog: depsLog, graph: graph, logger: logger}
}

// LoadDeps augments edge.LoadedDeps from whichever of the depfile or
// deps-log attributes the edge's rule declares. missing=true means the
// edge must be treated as dirty so the next run regenerates the
// missing information; it is not a fatal error.
func (l *Loader) LoadDeps(edge *domain.Edge) (missing bool, err error) {
	if depfile := edge.Binding("depfile"); depfile != "" {
		return l.loadDepfile(edge, depfile)
	}
	if edge.Binding("deps") != "" {
		return l.loadDepsLog(edge)
	}
	return false, nil
}

func (l *Loader) loadDepfile(edge *domain.Edge, path string) (bool, error) {
	content, err := l.disk.ReadFile(path)
	if err != nil {
		if l.logger != nil {
			l.logger.Debug("depfile " + path + " not found; treating edge as dirty")
		}
		return true, nil
	}
	if len(content) == 0 {
		return true, nil
	}

	out, ins, err := ParseDepfile(string(content))
	if err != nil {
		return false, err
	}

	canonOut, _ := domain.CanonicalPath(out)
	if len(edge.ExplicitOutputNodes()) == 0 || canonOut != edge.ExplicitOutputNodes()[0].Path {
		want := ""
		if len(edge.ExplicitOutputNodes()) > 0 {
			want = edge.ExplicitOutputNodes()[0].Path
		}
		mismatch := zerr.With(domain.ErrDepfileMismatch, "message", "expected depfile '"+path+"' to mention '"+want+"'")
		return false, zerr.With(mismatch, "got", out)
	}

	l.attachImplicit(edge, ins)
	return false, nil
}

func (l *Loader) loadDepsLog(edge *domain.Edge) (bool, error) {
	if len(edge.ExplicitOutputNodes()) != 1 {
		return false, zerr.With(domain.ErrMultipleOutputsWithDeps, "edge", edge.ExplicitOutputNodes())
	}
	output := edge.ExplicitOutputNodes()[0]

	if l.depsLog == nil {
		return true, nil
	}

	paths, recordedMtime, ok := l.depsLog.GetDeps(output.Path)
	if !ok {
		return true, nil
	}
	if output.Mtime > recordedMtime {
		return true, nil
	}

	l.attachImplicit(edge, paths)
	return false, nil
}

// attachImplicit canonicalizes each implicit path, looks it up (or
// creates it, synthesizing a phony producing edge if it has none yet),
// and appends it to edge.LoadedDeps.
func (l *Loader) attachImplicit(edge *domain.Edge, paths []string) {
	for _, raw := range paths {
		canon, slashBits := domain.CanonicalPath(raw)
		n := l.graph.GetOrCreateNode(canon, slashBits)
		if n.InEdge == nil && !nodeHasOutputAnywhere(edge, n) {
			phony := domain.NewEdge(domain.PhonyRule, edge.Env)
			phony.AddOutput(n, true)
			phony.OutputsReady = true
			l.graph.AddEdge(phony)
		}
		edge.LoadedDeps = append(edge.LoadedDeps, n)
	}
}

func nodeHasOutputAnywhere(edge *domain.Edge, n *domain.Node) bool {
	for _, o := range edge.Outputs {
		if o == n {
			return true
		}
	}
	return false
}

// ParseDepfile parses a Make-rule depfile: a single `out: in1 in2 ...`
// rule with backslash-newline continuations and backslash-escaped
// spaces. Only the first rule is consumed, matching spec §6.
func ParseDepfile(content string) (out string, inputs []string, err error) {
	joined := joinContinuations(content)

	colon := strings.IndexByte(joined, ':')
	if colon < 0 {
		return "", nil, zerr.With(domain.ErrManifestSyntax, "reason", "depfile missing ':'")
	}

	outTokens := splitDepfileTokens(joined[:colon])
	if len(outTokens) != 1 {
		return "", nil, zerr.With(domain.ErrManifestSyntax, "reason", "depfile rule must have exactly one output")
	}

	rest := joined[colon+1:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}

	return outTokens[0], splitDepfileTokens(rest), nil
}

// joinContinuations removes a trailing backslash immediately followed
// by a newline, joining the two lines, so the tokenizer sees one long
// logical line per rule.
func joinContinuations(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
			b.WriteByte(' ')
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitDepfileTokens splits on whitespace, treating a backslash
// immediately before a space as an escaped literal space rather than a
// token separator.
func splitDepfileTokens(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == ' ':
			cur.WriteByte(' ')
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}
