package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
)

const (
	// DefaultChunkSize is used when the line count is unknown.
	DefaultChunkSize = 500
	// MaxChunkSize caps chunks so large wordlists still spread evenly
	// across workers.
	MaxChunkSize = 500
)

// ErrExhausted is returned by NextChunk once the source has no more lines.
// It is terminal: every later call returns it too.
var ErrExhausted = errors.New("wordlist exhausted")

// Chunk is an ordered group of payloads taken from the wordlist in one step.
type Chunk []string

// Partitioner hands out disjoint chunks of a line-oriented wordlist to
// concurrent callers. Reading a chunk is the only critical section.
type Partitioner struct {
	mu        sync.Mutex
	file      *os.File
	reader    *bufio.Reader
	exhausted bool

	chunkSize int
	lines     int
}

// Open counts the lines in path, then opens it for chunked reading. The
// chunk size is derived from the line count and the number of workers.
func Open(path string, workers int) (*Partitioner, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding wordlist path %s: %w", path, err)
	}

	lines, err := Count(expanded)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist %s: %w", expanded, err)
	}

	return &Partitioner{
		file:      f,
		reader:    bufio.NewReader(f),
		chunkSize: ChunkSize(lines, workers),
		lines:     lines,
	}, nil
}

// ChunkSize splits lines evenly across workers, clamped to [1, MaxChunkSize].
// A non-positive line count or worker count yields DefaultChunkSize.
func ChunkSize(lines, workers int) int {
	if lines <= 0 || workers <= 0 {
		return DefaultChunkSize
	}
	size := lines / workers
	if size < 1 {
		size = 1
	}
	if size > MaxChunkSize {
		size = MaxChunkSize
	}
	return size
}

// NextChunk returns up to ChunkSize lines in source order, or ErrExhausted
// when nothing is left. A read error ends the source the same way EOF does.
func (p *Partitioner) NextChunk() (Chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.exhausted {
		return nil, ErrExhausted
	}

	chunk := make(Chunk, 0, p.chunkSize)
	for len(chunk) < p.chunkSize {
		line, err := readLine(p.reader)
		if err != nil {
			p.finish()
			break
		}
		chunk = append(chunk, line)
	}

	if len(chunk) == 0 {
		return nil, ErrExhausted
	}
	return chunk, nil
}

// Lines returns the number of lines counted when the wordlist was opened.
func (p *Partitioner) Lines() int { return p.lines }

// ChunkSize returns the number of lines handed out per NextChunk call.
func (p *Partitioner) ChunkSize() int { return p.chunkSize }

// Close releases the underlying file. It is safe to call more than once.
func (p *Partitioner) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finish()
}

// finish marks the source exhausted and closes the file. Caller holds mu.
func (p *Partitioner) finish() error {
	p.exhausted = true
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// Count returns the number of payload lines in path, using the same line
// rules as NextChunk.
func Count(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening wordlist %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	n := 0
	for {
		if _, err := readLine(r); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return 0, fmt.Errorf("reading wordlist %s: %w", path, err)
		}
		n++
	}
}

// readLine returns the next line without its terminator. A final line
// without a trailing newline is still returned; empty lines are kept.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
