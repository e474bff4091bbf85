/*
Package conduit provides a bounded, blocking byte pipe for handing bytes from
a synchronous producer to a concurrent consumer.

A conduit is a fixed-capacity FIFO byte channel exposed through two
exclusively owned halves: a Writer for the producing goroutine and a Reader
for the consuming one. The bounded buffer is the backpressure mechanism: a
fast producer blocks once the buffer fills, so an arbitrarily large payload
can flow through without unbounded memory growth.

Semantics mirror io.Pipe with a cushion in between:

	r, w := conduit.New(64 * 1024)

	go func() {
		defer w.Close()
		json.NewEncoder(w).Encode(payload)
	}()

	io.Copy(dst, r) // sees bytes in exactly the order written

Closing the write half lets the reader drain remaining bytes and then observe
io.EOF. Closing the read half releases a blocked writer with ErrReaderClosed
instead of letting it hang, which is the cancellation propagation path when
the downstream consumer gives up mid-stream. Both halves also support
CloseWithError to substitute a specific error for the default close result.
*/
package conduit
