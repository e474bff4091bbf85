package transfer

import (
	"context"
	"fmt"
	"io"
)

// WriteEndpoint is the producer-facing half of a conduit: a writer that can
// be closed normally or with an error once serialization finishes.
type WriteEndpoint interface {
	io.WriteCloser
	CloseWithError(err error) error
}

// Producer runs one serialization pass on its own goroutine, writing
// directly into a conduit write half. Its write calls block on buffer space,
// so it must never share a cooperative scheduler with the network consumer.
type Producer struct {
	done chan struct{}
	err  error
}

// StartProducer begins serializing into w on a new goroutine. The write half
// is always closed when serialization returns: normally on success, or with
// the encode error so the read side observes the failure instead of a clean
// end of stream.
func StartProducer(w WriteEndpoint, encode EncodeFunc) *Producer {
	p := &Producer{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		if err := encode(w); err != nil {
			p.err = fmt.Errorf("transfer: encode: %w", err)
			_ = w.CloseWithError(p.err)
			return
		}
		_ = w.Close()
	}()
	return p
}

// Wait blocks until serialization finishes and returns its outcome. The
// outcome is stable across repeated calls. Wait honors context cancellation,
// in which case the producer goroutine keeps running until its next write
// fails or completes.
func (p *Producer) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once serialization has finished.
func (p *Producer) Done() <-chan struct{} { return p.done }
