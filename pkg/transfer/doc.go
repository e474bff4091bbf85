/*
Package transfer orchestrates streaming one serialized payload into an
outbound HTTP request through a bounded conduit.

Two concurrently active tasks exist for the lifetime of one transfer: a
producer goroutine serializing directly into the conduit's write half, and
the transmitter driving the adapted chunk sequence over the network. They
are coupled only through the conduit; backpressure from the bounded buffer
keeps the producer from running arbitrarily far ahead of the socket.

	t, err := transfer.New(transfer.Config{
		URL:    "http://127.0.0.1:8787/ingest",
		Encode: transfer.JSON(payload),
	})
	if err != nil {
		return err
	}

	result, err := t.Run(ctx)

If the transmitter fails or the context is canceled, the read endpoint is
dropped and the producer's next write fails fast with
conduit.ErrReaderClosed. If serialization fails, the write half is closed
with the encode error so the transport observes the failure rather than a
clean end of stream. Either way the first failure is what Run returns.
*/
package transfer
