package navigator

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
)

var (
	// ErrInvalidData marks a navigator index whose records cannot be
	// decoded. Callers can keep whatever partial tree was broadcast before
	// the failure; whether that is usable is their decision.
	ErrInvalidData = errors.New("invalid navigator index data")

	// ErrMissingRoot marks an index whose root record (ordinal 0) was
	// never found after a full read.
	ErrMissingRoot = errors.New("navigator index has no root record")
)

// maxRecordSize guards against reading a corrupted length prefix as a
// multi-gigabyte allocation. No legitimate page record approaches this.
const maxRecordSize = 1 << 26

// ReadFrom reads a navigator index atomically: the whole file is pulled
// into memory and decoded in a single pass.
func ReadFrom(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening navigator index %s: %w", path, err)
	}
	tree, err := decodeAll(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("reading navigator index %s: %w", path, err)
	}
	return tree, nil
}

// ReadFromFile reads an index through a file-handle cursor instead of a
// materialized buffer, keeping the memory footprint bounded by one record.
func ReadFromFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening navigator index %s: %w", path, err)
	}
	defer f.Close()

	tree, err := decodeAll(bufio.NewReader(f), nil)
	if err != nil {
		return nil, fmt.Errorf("reading navigator index %s: %w", path, err)
	}
	return tree, nil
}

// decodeAll drains r record by record, invoking onNode after each attach.
func decodeAll(r io.Reader, onNode func(*Node)) (*Tree, error) {
	dec := newDecoder(r)
	for {
		done, err := dec.step()
		if err != nil {
			return nil, err
		}
		if onNode != nil && dec.last != nil {
			onNode(dec.last)
		}
		if done {
			return dec.finish()
		}
	}
}

// decoder holds the shared per-record decode and attach logic used by every
// read mode. Records are ordered breadth-first on disk, so a record's parent
// has always been decoded before the record itself.
type decoder struct {
	r       io.Reader
	header  [recordHeaderSize]byte
	nodes   map[uint32]*Node
	root    *Node
	ordinal uint32
	last    *Node
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{r: r, nodes: map[uint32]*Node{}}
}

// step decodes one record. It returns done=true on clean end of input.
func (d *decoder) step() (done bool, err error) {
	d.last = nil
	if _, err := io.ReadFull(d.r, d.header[:]); err != nil {
		if err == io.EOF {
			return true, nil
		}
		return false, fmt.Errorf("%w: truncated record header: %v", ErrInvalidData, err)
	}
	parentID := binary.LittleEndian.Uint32(d.header[0:4])
	length := binary.LittleEndian.Uint32(d.header[4:8])
	if length > maxRecordSize {
		return false, fmt.Errorf("%w: record length %d exceeds limit", ErrInvalidData, length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return false, fmt.Errorf("%w: truncated record body: %v", ErrInvalidData, err)
	}
	item, err := ItemFromBytes(buf)
	if err != nil {
		return false, fmt.Errorf("%w: record %d: %v", ErrInvalidData, d.ordinal, err)
	}

	node := NewNode(item)
	node.ID = d.ordinal
	if d.ordinal == 0 {
		// The root is always the first record; its parentID field is a
		// placeholder zero, not a reference.
		d.root = node
	} else {
		parent, ok := d.nodes[parentID]
		if !ok {
			return false, fmt.Errorf("%w: record %d references unread parent %d", ErrInvalidData, d.ordinal, parentID)
		}
		parent.AddChild(node)
	}
	d.nodes[d.ordinal] = node
	d.ordinal++
	d.last = node
	return false, nil
}

func (d *decoder) finish() (*Tree, error) {
	if d.root == nil {
		return nil, ErrMissingRoot
	}
	tree := NewTreeWithRoot(d.root)
	tree.Nodes = d.nodes
	return tree, nil
}

// ReaderState tracks the incremental reader's lifecycle.
type ReaderState int

const (
	// ReaderIdle: constructed, no records consumed yet.
	ReaderIdle ReaderState = iota
	// ReaderYielded: a chunk was processed, more input remains, waiting to
	// be resumed.
	ReaderYielded
	// ReaderDone: the full tree is available via Tree.
	ReaderDone
	// ReaderFailed: decoding stopped on an error; partial nodes already
	// broadcast remain valid as far as they go.
	ReaderFailed
)

// IncrementalReader decodes a navigator index cooperatively. Each call to
// Resume processes records until the supplied deadline passes, then yields
// so a large index (hundreds of thousands of nodes) never stalls the
// caller's scheduler. Cancellation is implicit: stop calling Resume and
// Close the reader.
type IncrementalReader struct {
	path   string
	f      *os.File
	dec    *decoder
	state  ReaderState
	err    error
	OnNode func(*Node)
}

// NewIncrementalReader opens path for paced reading.
func NewIncrementalReader(path string) (*IncrementalReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening navigator index %s: %w", path, err)
	}
	return &IncrementalReader{
		path:  path,
		f:     f,
		dec:   newDecoder(bufio.NewReader(f)),
		state: ReaderIdle,
	}, nil
}

// State reports where the reader is in its lifecycle.
func (r *IncrementalReader) State() ReaderState { return r.state }

// NodesRead reports how many records have been decoded so far.
func (r *IncrementalReader) NodesRead() int { return len(r.dec.nodes) }

// Resume decodes records until deadline passes or input is exhausted.
// It returns done=true once the tree is complete; after an error the reader
// stays failed and every further Resume returns the same error.
func (r *IncrementalReader) Resume(deadline time.Time) (done bool, err error) {
	switch r.state {
	case ReaderDone:
		return true, nil
	case ReaderFailed:
		return false, r.err
	}

	for {
		stepDone, err := r.dec.step()
		if err != nil {
			r.fail(fmt.Errorf("reading navigator index %s: %w", r.path, err))
			return false, r.err
		}
		if r.OnNode != nil && r.dec.last != nil {
			r.OnNode(r.dec.last)
		}
		if stepDone {
			if r.dec.root == nil {
				r.fail(fmt.Errorf("reading navigator index %s: %w", r.path, ErrMissingRoot))
				return false, r.err
			}
			r.state = ReaderDone
			r.f.Close()
			r.f = nil
			return true, nil
		}
		if !time.Now().Before(deadline) {
			r.state = ReaderYielded
			return false, nil
		}
	}
}

func (r *IncrementalReader) fail(err error) {
	r.state = ReaderFailed
	r.err = err
	if r.f != nil {
		r.f.Close()
		r.f = nil
	}
}

// Tree returns the decoded tree once the reader is done.
func (r *IncrementalReader) Tree() (*Tree, error) {
	if r.state != ReaderDone {
		return nil, fmt.Errorf("reading navigator index %s: read not complete", r.path)
	}
	return r.dec.finish()
}

// Close releases the underlying file. Safe to call in any state.
func (r *IncrementalReader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// ReadPaced drives an IncrementalReader to completion in chunk-sized slices
// of work, yielding the processor between chunks. onChunk, when non-nil, is
// called after every yielded chunk with the running node count.
func ReadPaced(path string, chunk time.Duration, onChunk func(nodesRead int)) (*Tree, error) {
	r, err := NewIncrementalReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for {
		done, err := r.Resume(time.Now().Add(chunk))
		if err != nil {
			return nil, err
		}
		if done {
			return r.Tree()
		}
		if onChunk != nil {
			onChunk(r.NodesRead())
		}
		runtime.Gosched()
	}
}
