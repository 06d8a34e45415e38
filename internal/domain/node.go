package domain

// MtimeUnknown marks a Node whose on-disk state has not yet been
// stat'd this build. MtimeMissing marks a Node confirmed absent from
// disk. Any other value is a Unix mtime in nanoseconds.
const (
	MtimeUnknown = -1
	MtimeMissing = 0
)

// Node is one file (source, intermediate, or final output) in the
// build graph. Nodes are deduplicated by canonical path: two manifest
// references to the same path on disk, however spelled, resolve to the
// same *Node via Graph.GetOrCreateNode.
type Node struct {
	// ID is a dense, build-local integer assigned in creation order.
	ID int

	Path      string
	SlashBits uint64

	Mtime int64

	// Dirty is set by the scanner during recompute_dirty and consumed
	// by the plan to decide whether this node's producing edge must
	// run.
	Dirty bool

	// InEdge is the edge that produces this node, or nil for a source
	// file with no producing rule.
	InEdge *Edge

	// OutEdges are edges that consume this node as an input.
	OutEdges []*Edge
}

// NewNode creates a node with unknown mtime.
func NewNode(id int, path string, slashBits uint64) *Node {
	return &Node{ID: id, Path: path, SlashBits: slashBits, Mtime: MtimeUnknown}
}

// Exists reports whether the node's last stat found it on disk. Valid
// only after the scanner has stat'd this node at least once.
func (n *Node) Exists() bool { return n.Mtime != MtimeMissing }

// StatDone reports whether this node has been stat'd yet this build.
func (n *Node) StatDone() bool { return n.Mtime != MtimeUnknown }

// AddOutEdge records that e consumes this node.
func (n *Node) AddOutEdge(e *Edge) { n.OutEdges = append(n.OutEdges, e) }

// IsSource reports whether this node has no producing edge, i.e. it
// must already exist on disk for the build to succeed.
func (n *Node) IsSource() bool { return n.InEdge == nil }
