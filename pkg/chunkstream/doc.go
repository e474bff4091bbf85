/*
Package chunkstream adapts a blocking byte source into a lazily-produced
sequence of byte chunks consumable by an asynchronous network client.

The typical source is the read half of a conduit; each demanded item is one
bounded read, copied into an owned chunk:

	r, w := conduit.New(64)
	stream := chunkstream.New(r, 64)

	for {
		chunk, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		// forward chunk
	}

A Stream also implements io.ReadCloser so it can be attached directly as a
streaming http.Request body. Because the blocking read runs on a dedicated
pump goroutine and the consumer is woken through a channel, Next is a real
suspension point: it can be canceled through its context and never executes
the blocking read inline on the caller.
*/
package chunkstream
