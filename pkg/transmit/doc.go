/*
Package transmit issues HTTP requests with lazily-produced streaming bodies.

A request body of unknown length is framed by net/http with chunked transfer
encoding: each chunk is prefixed by its size in hexadecimal and the stream is
terminated by a zero-size chunk. The transmitter controls only chunk content
and ordering; the wire framing belongs entirely to the transport.

Timeout policy is the HTTP client's responsibility; configure it on
Config.Client. The transmitter performs no retries and surfaces exactly one
terminal outcome per request.
*/
package transmit
