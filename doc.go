/*
Package streambridge provides building blocks for streaming serialized data
into outbound HTTP requests without materializing the full payload in memory.

A bounded byte conduit connects a synchronous producer to an asynchronous
network consumer:

  - conduit: fixed-capacity, single-producer/single-consumer byte pipe with
    blocking semantics and backpressure on both ends
  - chunkstream: adapts the conduit's read half into a lazily-produced,
    cancelable sequence of byte chunks suitable as a request body
  - transmit: issues a streaming HTTP request with chunked transfer encoding
  - transfer: orchestrates one producer/transmitter pair end to end

Example usage:

	import (
		"github.com/vnykmshr/streambridge/pkg/transfer"
	)

	t, _ := transfer.New(transfer.Config{
		URL:    "http://127.0.0.1:8787/ingest",
		Encode: transfer.JSON(records),
	})

	result, err := t.Run(ctx)
*/
package streambridge
