// Package fsstat stats domain.Nodes against a ports.Disk, memoizing on
// the node's own mtime field for the scanner.
package fsstat

import (
	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/ports"
)

// Node stats n against disk unless it has already been stat'd this
// build (domain.Node.StatDone). A missing file is recorded as
// domain.MtimeMissing rather than surfaced as an error.
func Node(disk ports.Disk, n *domain.Node) error {
	if n.StatDone() {
		return nil
	}
	st, err := disk.Stat(n.Path)
	if err != nil {
		return err
	}
	if !st.Exists {
		n.Mtime = domain.MtimeMissing
		return nil
	}
	n.Mtime = st.Mtime.UnixNano()
	return nil
}
