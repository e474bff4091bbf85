package conduit

import (
	"errors"
	"io"
	"sync"
)

// ErrReaderClosed is returned by writes after the read half has been closed.
var ErrReaderClosed = errors.New("conduit: reader closed")

// ErrWriterClosed is returned by writes after the write half itself was closed.
var ErrWriterClosed = errors.New("conduit: writer closed")

// DefaultCapacity is the buffer capacity used when none is specified.
const DefaultCapacity = 64 * 1024

var (
	_ io.ReadCloser  = (*Reader)(nil)
	_ io.WriteCloser = (*Writer)(nil)
)

// Stats holds counters describing traffic through a conduit.
type Stats struct {
	// BytesWritten is the total number of bytes accepted by the write half.
	BytesWritten int64

	// BytesRead is the total number of bytes delivered by the read half.
	BytesRead int64

	// BlockedWrites is the number of times a write had to wait for space.
	BlockedWrites int64

	// BlockedReads is the number of times a read had to wait for data.
	BlockedReads int64
}

// conduit is the ring buffer shared by both halves.
type conduit struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond

	buf  []byte // ring storage, len(buf) is the capacity
	head int    // index of the next byte to read
	size int    // bytes currently buffered

	readerClosed bool
	writerClosed bool
	readErr      error // reported to reads instead of io.EOF
	writeErr     error // reported to writes instead of ErrReaderClosed

	stats Stats
}

// New creates a conduit with the given buffer capacity and returns its two
// halves. The Reader and Writer are intended for exclusive use by a single
// consumer and a single producer respectively. A capacity <= 0 falls back to
// DefaultCapacity.
func New(capacity int) (*Reader, *Writer) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &conduit{buf: make([]byte, capacity)}
	c.notFull.L = &c.mu
	c.notEmpty.L = &c.mu
	return &Reader{c: c}, &Writer{c: c}
}

// write blocks until all of p has been accepted, the read half is closed, or
// the write half itself is closed. Bytes are never reordered.
func (c *conduit) write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for len(p) > 0 {
		if err := c.waitWritable(); err != nil {
			return n, err
		}
		w := c.copyIn(p)
		p = p[w:]
		n += w
		c.stats.BytesWritten += int64(w)
		c.notEmpty.Signal()
	}
	return n, nil
}

// read blocks until at least one byte is available or the write half has been
// closed with the buffer drained, in which case it reports io.EOF.
func (c *conduit) read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.waitReadable(); err != nil {
		return 0, err
	}
	n := c.copyOut(p)
	c.stats.BytesRead += int64(n)
	c.notFull.Signal()
	return n, nil
}

func (c *conduit) waitWritable() error {
	for {
		if c.readerClosed {
			if c.writeErr != nil {
				return c.writeErr
			}
			return ErrReaderClosed
		}
		if c.writerClosed {
			return ErrWriterClosed
		}
		if c.size < len(c.buf) {
			return nil
		}
		c.stats.BlockedWrites++
		c.notFull.Wait()
	}
}

func (c *conduit) waitReadable() error {
	for {
		if c.size > 0 {
			return nil
		}
		if c.readerClosed {
			return io.ErrClosedPipe
		}
		if c.writerClosed {
			if c.readErr != nil {
				return c.readErr
			}
			return io.EOF
		}
		c.stats.BlockedReads++
		c.notEmpty.Wait()
	}
}

// copyIn appends as much of p as fits into the ring and returns the amount.
func (c *conduit) copyIn(p []byte) int {
	n := len(c.buf) - c.size
	if n > len(p) {
		n = len(p)
	}

	tail := (c.head + c.size) % len(c.buf)
	m := copy(c.buf[tail:], p[:n])
	if m < n {
		copy(c.buf, p[m:n])
	}
	c.size += n
	return n
}

// copyOut removes up to len(p) buffered bytes from the ring and returns the
// amount.
func (c *conduit) copyOut(p []byte) int {
	n := c.size
	if n > len(p) {
		n = len(p)
	}

	end := c.head + n
	if end > len(c.buf) {
		end = len(c.buf)
	}
	m := copy(p, c.buf[c.head:end])
	if m < n {
		copy(p[m:], c.buf[:n-m])
	}
	c.head = (c.head + n) % len(c.buf)
	c.size -= n
	return n
}

// closeReader marks the read half closed. The first close wins; later calls
// are no-ops. Both sides are woken so nothing stays blocked forever.
func (c *conduit) closeReader(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readerClosed {
		return
	}
	c.readerClosed = true
	if err != nil && c.writeErr == nil {
		c.writeErr = err
	}
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// closeWriter marks the write half closed. Buffered bytes remain readable;
// once drained, reads observe io.EOF (or err, if one was supplied).
func (c *conduit) closeWriter(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writerClosed {
		return
	}
	c.writerClosed = true
	if err != nil && c.readErr == nil {
		c.readErr = err
	}
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

func (c *conduit) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *conduit) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Reader is the receive half of a conduit.
type Reader struct {
	c *conduit
}

// Read implements io.Reader. It blocks until data is available or the write
// half has been closed and all buffered bytes were drained, then returns
// io.EOF. The EOF result is stable across repeated calls.
func (r *Reader) Read(p []byte) (int, error) {
	return r.c.read(p)
}

// Close closes the read half. A producer blocked on Write is released with
// ErrReaderClosed. Close is idempotent.
func (r *Reader) Close() error {
	r.c.closeReader(nil)
	return nil
}

// CloseWithError closes the read half; err is reported to future writes in
// place of ErrReaderClosed.
func (r *Reader) CloseWithError(err error) error {
	r.c.closeReader(err)
	return nil
}

// Len returns the number of bytes currently buffered.
func (r *Reader) Len() int { return r.c.len() }

// Cap returns the buffer capacity.
func (r *Reader) Cap() int { return len(r.c.buf) }

// Stats returns a snapshot of traffic counters for the conduit.
func (r *Reader) Stats() Stats { return r.c.snapshot() }

// Writer is the send half of a conduit.
type Writer struct {
	c *conduit
}

// Write implements io.Writer. It blocks while the buffer is full and returns
// only once all of p has been accepted, or fails with ErrReaderClosed when
// the read half has gone away.
func (w *Writer) Write(p []byte) (int, error) {
	return w.c.write(p)
}

// Close closes the write half. Buffered bytes remain readable; the reader
// then observes io.EOF. Close is idempotent.
func (w *Writer) Close() error {
	w.c.closeWriter(nil)
	return nil
}

// CloseWithError closes the write half; err is reported to future reads in
// place of io.EOF.
func (w *Writer) CloseWithError(err error) error {
	w.c.closeWriter(err)
	return nil
}

// Len returns the number of bytes currently buffered.
func (w *Writer) Len() int { return w.c.len() }

// Cap returns the buffer capacity.
func (w *Writer) Cap() int { return len(w.c.buf) }

// Stats returns a snapshot of traffic counters for the conduit.
func (w *Writer) Stats() Stats { return w.c.snapshot() }
