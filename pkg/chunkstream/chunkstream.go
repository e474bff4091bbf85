package chunkstream

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ErrStreamClosed is returned by Next after the stream has been closed.
var ErrStreamClosed = errors.New("chunkstream: stream closed")

// DefaultChunkSize is the per-chunk read size used when none is specified.
const DefaultChunkSize = 32 * 1024

var (
	_ io.ReadCloser = (*Stream)(nil)
)

// Stream adapts a blocking reader into a lazily-produced sequence of owned
// byte chunks. The blocking reads run on a dedicated pump goroutine; Next
// and Read merely wait to be woken, so a consumer on a cooperative scheduler
// is never tied up inside the blocking call itself.
//
// A Stream is finite and not restartable: once the source reports io.EOF or
// any other error the sequence is exhausted. It supports exactly one
// consumer; Next and Read must not be mixed across goroutines.
type Stream struct {
	src       io.Reader
	chunkSize int

	ch   chan item
	done chan struct{}
	once sync.Once

	// Read-side state, owned by the single consumer.
	current []byte
	readErr error
}

type item struct {
	data []byte
	err  error
}

// New starts a Stream over src producing chunks of at most chunkSize bytes.
// When src is a conduit read half, chunkSize is normally the conduit
// capacity. A chunkSize <= 0 falls back to DefaultChunkSize.
func New(src io.Reader, chunkSize int) *Stream {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	s := &Stream{
		src:       src,
		chunkSize: chunkSize,
		ch:        make(chan item),
		done:      make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump performs the blocking reads and hands owned copies to the consumer.
func (s *Stream) pump() {
	defer close(s.ch)

	buf := make([]byte, s.chunkSize)
	for {
		n, err := s.src.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case s.ch <- item{data: data}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				select {
				case s.ch <- item{err: err}:
				case <-s.done:
				}
			}
			return
		}
	}
}

// Next returns the next chunk of the sequence. It reports io.EOF once the
// source has ended and all chunks were delivered; a source read error is
// delivered exactly once, after which the stream is exhausted. Next honors
// context cancellation while waiting.
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrStreamClosed
	case it, ok := <-s.ch:
		if !ok {
			return nil, io.EOF
		}
		if it.err != nil {
			return nil, it.err
		}
		return it.data, nil
	}
}

// Read implements io.Reader over the chunk sequence, serving each chunk
// before pulling the next. This is what lets a Stream act directly as an
// http.Request body: the transport reads chunks in order and frames them on
// the wire.
func (s *Stream) Read(p []byte) (int, error) {
	for len(s.current) == 0 {
		if s.readErr != nil {
			return 0, s.readErr
		}
		it, ok := <-s.ch
		if !ok {
			s.readErr = io.EOF
			return 0, io.EOF
		}
		if it.err != nil {
			s.readErr = it.err
			return 0, it.err
		}
		s.current = it.data
	}

	n := copy(p, s.current)
	s.current = s.current[n:]
	return n, nil
}

// Close tears down the stream. If the source is an io.Closer it is closed
// too, which releases a producer blocked on the far side of a conduit. Close
// is idempotent and safe to call while the pump is mid-read.
func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.done)
		if c, ok := s.src.(io.Closer); ok {
			_ = c.Close()
		}
	})
	return nil
}

// ChunkSize returns the maximum chunk size produced by this stream.
func (s *Stream) ChunkSize() int { return s.chunkSize }
