package domain

import "github.com/cespare/xxhash/v2"

// HashCommand returns the 64-bit hash of cmd, used by the build log to
// detect whether an edge's expanded command line changed since the
// last run without needing to store the full command text in memory.
func HashCommand(cmd string) uint64 {
	return xxhash.Sum64String(cmd)
}
