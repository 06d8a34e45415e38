// Package depslog implements ports.DepsLog as a small versioned binary
// file, the bespoke format SPEC_FULL.md §6.1 calls for: no ecosystem
// serialization library fits a single-purpose append log this shaped
// (see DESIGN.md).
package depslog

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"go.trai.ch/zerr"
)

const (
	magic          = "NOVADEPS\n"
	currentVersion = uint32(1)
)

type entry struct {
	mtime int64
	paths []string
}

// Log is the binary deps log: header, then a stream of
// length-prefixed records, later records for the same output
// superseding earlier ones. Load keeps only the latest record per
// output in memory.
type Log struct {
	path    string
	file    *os.File
	entries map[string]entry
}

// Load reads path, returning an empty Log if it does not exist yet.
func Load(path string) (*Log, error) {
	l := &Log{path: path, entries: make(map[string]entry)}

	f, err := os.Open(path) //nolint:gosec // path is operator-supplied deps log location
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, zerr.Wrap(err, "failed to open deps log")
	}
	defer f.Close()

	if err := l.loadEntries(f); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Log) loadEntries(r io.Reader) error {
	br := bufio.NewReader(r)

	header := make([]byte, len(magic))
	n, err := io.ReadFull(br, header)
	if err != nil {
		if n == 0 {
			return nil
		}
		return zerr.Wrap(err, "failed to read deps log header")
	}
	if string(header) != magic {
		return zerr.New("deps log has invalid header")
	}

	var version uint32
	if err := binary.Read(br, binary.BigEndian, &version); err != nil {
		if err == io.EOF {
			return nil
		}
		return zerr.Wrap(err, "failed to read deps log version")
	}

	for {
		output, mtime, paths, err := readRecord(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		l.entries[output] = entry{mtime: mtime, paths: paths}
	}
}

func readRecord(br *bufio.Reader) (output string, mtime int64, paths []string, err error) {
	output, err = readString(br)
	if err != nil {
		return "", 0, nil, err
	}
	if err := binary.Read(br, binary.BigEndian, &mtime); err != nil {
		return "", 0, nil, zerr.Wrap(err, "failed to read deps log record mtime")
	}
	var count uint32
	if err := binary.Read(br, binary.BigEndian, &count); err != nil {
		return "", 0, nil, zerr.Wrap(err, "failed to read deps log record count")
	}
	paths = make([]string, count)
	for i := range paths {
		p, err := readString(br)
		if err != nil {
			return "", 0, nil, err
		}
		paths[i] = p
	}
	return output, mtime, paths, nil
}

func readString(br *bufio.Reader) (string, error) {
	var length uint32
	if err := binary.Read(br, binary.BigEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", zerr.Wrap(err, "failed to read deps log string")
	}
	return string(buf), nil
}

// GetDeps returns the implicit dependency paths and mtime recorded the
// last time output's edge ran, or ok=false if no entry exists.
func (l *Log) GetDeps(output string) (paths []string, mtime int64, ok bool) {
	e, ok := l.entries[output]
	if !ok {
		return nil, 0, false
	}
	return e.paths, e.mtime, true
}

// RecordDeps appends a new entry for output, opening the file for
// append on first use and writing the header if the file is new.
func (l *Log) RecordDeps(output string, mtime int64, paths []string) error {
	l.entries[output] = entry{mtime: mtime, paths: paths}

	if l.file == nil {
		if err := l.openForWrite(); err != nil {
			return err
		}
	}
	return writeRecord(l.file, output, mtime, paths)
}

func (l *Log) openForWrite() error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // deps log is not sensitive
	if err != nil {
		return zerr.Wrap(err, "failed to open deps log for write")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return zerr.Wrap(err, "failed to stat deps log")
	}
	if info.Size() == 0 {
		if _, err := f.WriteString(magic); err != nil {
			f.Close()
			return zerr.Wrap(err, "failed to write deps log header")
		}
		if err := binary.Write(f, binary.BigEndian, currentVersion); err != nil {
			f.Close()
			return zerr.Wrap(err, "failed to write deps log version")
		}
	}
	l.file = f
	return nil
}

func writeRecord(w io.Writer, output string, mtime int64, paths []string) error {
	if err := writeString(w, output); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, mtime); err != nil {
		return zerr.Wrap(err, "failed to write deps log record mtime")
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(paths))); err != nil {
		return zerr.Wrap(err, "failed to write deps log record count")
	}
	for _, p := range paths {
		if err := writeString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return zerr.Wrap(err, "failed to write deps log string length")
	}
	if _, err := io.WriteString(w, s); err != nil {
		return zerr.Wrap(err, "failed to write deps log string")
	}
	return nil
}

// Compact rewrites the log file keeping only the latest entry per
// output.
func (l *Log) Compact() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	tmpPath := l.path + ".recompact"
	f, err := os.Create(tmpPath) //nolint:gosec // sibling of an operator-supplied path
	if err != nil {
		return zerr.Wrap(err, "failed to create deps log recompaction file")
	}
	if _, err := f.WriteString(magic); err != nil {
		f.Close()
		return zerr.Wrap(err, "failed to write deps log recompaction header")
	}
	if err := binary.Write(f, binary.BigEndian, currentVersion); err != nil {
		f.Close()
		return zerr.Wrap(err, "failed to write deps log recompaction version")
	}
	for output, e := range l.entries {
		if err := writeRecord(f, output, e.mtime, e.paths); err != nil {
			f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, "failed to close deps log recompaction file")
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		return zerr.Wrap(err, "failed to replace deps log with recompacted file")
	}
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
