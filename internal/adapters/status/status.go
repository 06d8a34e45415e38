// Package status implements ports.StatusPrinter and ports.Vertex on
// top of github.com/vito/progrock, the same terminal-vertex renderer
// the project's own telemetry adapter wraps for task spans.
package status

import (
	"context"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.novabuild.dev/nova/internal/ports"
)

// Printer renders one progrock vertex per edge the builder decides to
// run, and prints a final summary line once the build loop exits.
type Printer struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New returns a Printer backed by a fresh progrock tape writing to the
// process's own terminal.
func New() *Printer {
	tape := progrock.NewTape()
	return NewWith(tape)
}

// NewWith returns a Printer backed by an arbitrary progrock.Writer,
// letting tests substitute an in-memory writer.
func NewWith(w progrock.Writer) *Printer {
	return &Printer{w: w, rec: progrock.NewRecorder(w)}
}

// Vertex starts a new progrock vertex named name, digesting the name
// for a stable vertex id across runs of the same edge.
func (p *Printer) Vertex(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := p.rec.Vertex(d, name)
	return ctx, &Vertex{vertex: v}
}

// Summary prints the build's final counts.
func (p *Printer) Summary(built, cached, failed int) {
	fmt.Fprintf(p.rec.Vertex(digest.FromString("summary"), "summary").Stdout(),
		"%d built, %d cached, %d failed\n", built, cached, failed)
}

// Close flushes and closes the underlying progrock writer, if it
// supports closing.
func (p *Printer) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns the vertex's stdout stream.
func (v *Vertex) Stdout() io.Writer { return v.vertex.Stdout() }

// Stderr returns the vertex's stderr stream.
func (v *Vertex) Stderr() io.Writer { return v.vertex.Stderr() }

// Complete marks the vertex finished, err nil on success.
func (v *Vertex) Complete(err error) { v.vertex.Done(err) }

// Cached marks the vertex as skipped because its outputs were already
// up to date.
func (v *Vertex) Cached() { v.vertex.Cached() }
