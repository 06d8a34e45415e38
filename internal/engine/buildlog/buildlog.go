// Package buildlog implements the append-only, self-compacting journal
// of command hashes and timings the scanner reads and the builder
// writes, keyed by output path.
package buildlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
)

const (
	currentVersion = 4
	signaturePrefix = "# nova log v"
	maxLineSize     = 256 * 1024
)

// Log is the on-disk, tab-separated v4 build log. It is loaded fully
// into memory on open; Record both updates the in-memory map and
// appends a line to the open file handle.
type Log struct {
	path    string
	file    *os.File
	entries map[string]ports.BuildLogEntry

	totalEntries   int
	needsRecompact bool
}

// Load reads path tolerantly, returning a Log ready for Lookup and for
// OpenForWrite. A missing file loads as empty, not an error.
func Load(path string) (*Log, error) {
	l := &Log{path: path, entries: make(map[string]ports.BuildLogEntry)}

	f, err := os.Open(path) //nolint:gosec // path is operator-supplied build log location
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, zerr.Wrap(err, "failed to open build log")
	}
	defer f.Close()

	version, err := l.loadEntries(f)
	if err != nil {
		return nil, err
	}
	if version != currentVersion {
		l.needsRecompact = true
	}
	// A log that already exceeds the total/unique ratio from entries
	// written across prior process runs must be flagged here too, not
	// only on a corrupt line or version bump: OpenForWrite acts solely
	// on needsRecompact and never re-derives the ratio itself.
	if l.needsCompaction() {
		l.needsRecompact = true
	}
	return l, nil
}

func (l *Log) loadEntries(r io.Reader) (int, error) {
	br := bufio.NewReaderSize(r, maxLineSize)

	sigLine, _, eof := readLine(br)
	if eof && sigLine == "" {
		return 0, nil
	}
	version := parseSignature(sigLine)
	sep := "\t"
	if version < currentVersion {
		sep = " "
	}

	for {
		line, overlong, eof := readLine(br)
		switch {
		case overlong:
			l.needsRecompact = true
		case line != "":
			if entry, ok := parseEntryLine(line, sep, version); ok {
				l.entries[entry.Output] = entry
				l.totalEntries++
			} else {
				l.needsRecompact = true
			}
		}
		if eof {
			break
		}
	}
	return version, nil
}

// readLine reads one newline-terminated record from a fixed-capacity
// buffer (ReadSlice, not ReadString, so an overlong line cannot grow
// the buffer). A line longer than the buffer is reported via overlong;
// the reader discards bytes until it resyncs on the next newline so a
// single corrupt entry never derails the rest of the file. A missing
// trailing newline at end of file is tolerated, not an error.
func readLine(br *bufio.Reader) (line string, overlong, eof bool) {
	b, err := br.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		for err == bufio.ErrBufferFull {
			_, err = br.ReadSlice('\n')
		}
		return "", true, err == io.EOF
	}
	if err == io.EOF {
		return strings.TrimRight(string(b), "\r\n"), false, true
	}
	if err != nil {
		return "", false, true
	}
	return strings.TrimRight(string(b), "\r\n"), false, false
}

func parseSignature(line string) int {
	if !strings.HasPrefix(line, signaturePrefix) {
		// Tolerate the line being an entry already (a log with no
		// signature header) by treating it as the oldest version.
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(line, signaturePrefix))
	if err != nil {
		return 0
	}
	return n
}

func parseEntryLine(line, sep string, version int) (ports.BuildLogEntry, bool) {
	fields := strings.Split(line, sep)
	if len(fields) != 5 {
		return ports.BuildLogEntry{}, false
	}
	start, err1 := strconv.ParseInt(fields[0], 10, 64)
	end, err2 := strconv.ParseInt(fields[1], 10, 64)
	restat, err3 := strconv.ParseInt(fields[2], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return ports.BuildLogEntry{}, false
	}

	var hash uint64
	if version >= 4 {
		h, err := strconv.ParseUint(fields[4], 16, 64)
		if err != nil {
			return ports.BuildLogEntry{}, false
		}
		hash = h
	} else {
		hash = domain.HashCommand(fields[4])
	}

	return ports.BuildLogEntry{
		Output:      fields[3],
		CommandHash: hash,
		StartTime:   start,
		EndTime:     end,
		RestatMtime: restat,
	}, true
}

// OpenForWrite opens the log file for append, recompacting first if a
// prior Load flagged the file as needing it, and writing the version
// signature if the file starts out empty.
func (l *Log) OpenForWrite() error {
	if l.needsRecompact {
		if err := l.compactFile(); err != nil {
			return err
		}
		l.needsRecompact = false
	}

	// os.OpenFile already opens with O_CLOEXEC on this platform, so the
	// file handle is not inherited by edge subprocesses.
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // build log is not sensitive
	if err != nil {
		return zerr.Wrap(err, "failed to open build log for write")
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return zerr.Wrap(err, "failed to stat build log")
	}
	if info.Size() == 0 {
		if _, err := fmt.Fprintf(f, "%s%d\n", signaturePrefix, currentVersion); err != nil {
			f.Close()
			return zerr.Wrap(err, "failed to write build log signature")
		}
	}
	l.file = f
	return nil
}

// Lookup returns the most recently recorded entry for output, if any.
func (l *Log) Lookup(output string) (ports.BuildLogEntry, bool) {
	e, ok := l.entries[output]
	return e, ok
}

// Record upserts the in-memory entry for entry.Output and appends a
// line to the open log file.
func (l *Log) Record(entry ports.BuildLogEntry) error {
	l.entries[entry.Output] = entry
	l.totalEntries++

	if l.needsCompaction() {
		wasOpen := l.file != nil
		if err := l.compactFile(); err != nil {
			return err
		}
		// The compacted file already holds entry; reopen it so later
		// records keep appending.
		if wasOpen {
			return l.OpenForWrite()
		}
		return nil
	}

	if l.file == nil {
		return nil
	}
	_, err := fmt.Fprintf(l.file, "%d\t%d\t%d\t%s\t%016x\n",
		entry.StartTime, entry.EndTime, entry.RestatMtime, entry.Output, entry.CommandHash)
	if err != nil {
		return zerr.Wrap(err, "failed to append build log entry")
	}
	return nil
}

// needsCompaction applies the recompaction policy: more than 100 total
// entries ever written, and more than 3x as many as there are unique
// outputs.
func (l *Log) needsCompaction() bool {
	unique := len(l.entries)
	return l.totalEntries > 100 && l.totalEntries > 3*unique
}

// Compact rewrites the log file to contain exactly one entry per
// output, the latest recorded version.
func (l *Log) Compact() error {
	return l.compactFile()
}

func (l *Log) compactFile() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	tmpPath := l.path + ".recompact"
	f, err := os.Create(tmpPath) //nolint:gosec // sibling of an operator-supplied path
	if err != nil {
		return zerr.Wrap(err, "failed to create recompaction file")
	}

	if _, err := fmt.Fprintf(f, "%s%d\n", signaturePrefix, currentVersion); err != nil {
		f.Close()
		return zerr.Wrap(err, "failed to write recompaction signature")
	}
	for _, e := range l.entries {
		if _, err := fmt.Fprintf(f, "%d\t%d\t%d\t%s\t%016x\n",
			e.StartTime, e.EndTime, e.RestatMtime, e.Output, e.CommandHash); err != nil {
			f.Close()
			return zerr.Wrap(err, "failed to write recompacted entry")
		}
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, "failed to close recompaction file")
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		return zerr.Wrap(err, "failed to replace build log with recompacted file")
	}
	l.totalEntries = len(l.entries)
	return nil
}

// Close flushes and closes the underlying file handle, if open.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
