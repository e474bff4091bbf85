package transfer

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/streambridge/pkg/chunkstream"
	"github.com/vnykmshr/streambridge/pkg/conduit"
	"github.com/vnykmshr/streambridge/pkg/transmit"
)

// ErrAlreadyRun is returned when Run is invoked more than once.
var ErrAlreadyRun = errors.New("transfer: already run")

// State identifies the lifecycle phase of a Transfer.
type State int32

const (
	// StateIdle means Run has not been invoked yet.
	StateIdle State = iota

	// StateStreaming means the producer and transmitter are active.
	StateStreaming

	// StateCompleted is terminal: both tasks have finished, successfully or not.
	StateCompleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Poster drives one streaming request to completion. *transmit.Transmitter
// and *transmit.MetricsTransmitter both satisfy it.
type Poster interface {
	Post(ctx context.Context, url string, body io.Reader) (*transmit.Result, error)
}

// Config holds configuration options for a Transfer.
type Config struct {
	// URL is the destination of the streaming POST. Required.
	URL string

	// Encode serializes the payload into the conduit. Required.
	Encode EncodeFunc

	// Capacity is the conduit buffer capacity in bytes. It bounds how far the
	// producer can run ahead of the network consumer.
	// Default: conduit.DefaultCapacity.
	Capacity int

	// ChunkSize is the maximum adapter chunk size. Default: Capacity.
	ChunkSize int

	// Transmitter performs the HTTP request. Default: transmit.New().
	Transmitter Poster

	// Logger receives transfer lifecycle events. Leave it at
	// DefaultConfig().Logger to discard them.
	Logger zerolog.Logger
}

// DefaultConfig returns a default configuration. URL and Encode must still
// be provided by the caller.
func DefaultConfig() Config {
	return Config{
		Capacity: conduit.DefaultCapacity,
		Logger:   zerolog.Nop(),
	}
}

// Transfer runs one payload through a conduit into a streaming HTTP request.
// It moves through three states exactly once: Idle -> Streaming ->
// Completed. Completed is reached only after the producer has been joined
// and the transmitter has returned.
type Transfer struct {
	config Config
	state  int32
}

// New creates a Transfer, validating and defaulting the configuration.
// Callers should start from DefaultConfig so the logger is initialized.
func New(config Config) (*Transfer, error) {
	if config.URL == "" {
		return nil, errors.New("transfer: url is required")
	}
	if config.Encode == nil {
		return nil, errors.New("transfer: encode func is required")
	}
	if config.Capacity <= 0 {
		config.Capacity = conduit.DefaultCapacity
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = config.Capacity
	}
	if config.Transmitter == nil {
		config.Transmitter = transmit.New()
	}
	return &Transfer{config: config}, nil
}

// State returns the current lifecycle state.
func (t *Transfer) State() State {
	return State(atomic.LoadInt32(&t.state))
}

// Run executes the transfer: it wires a fresh conduit between the producer
// and the transmitter, starts the producer on its own goroutine, streams the
// body, and joins both sides. The first failure from either side is
// returned; neither side's error is ever swallowed. Run may be called once.
func (t *Transfer) Run(ctx context.Context) (*transmit.Result, error) {
	if !atomic.CompareAndSwapInt32(&t.state, int32(StateIdle), int32(StateStreaming)) {
		return nil, ErrAlreadyRun
	}
	defer atomic.StoreInt32(&t.state, int32(StateCompleted))

	r, w := conduit.New(t.config.Capacity)
	stream := chunkstream.New(r, t.config.ChunkSize)
	defer func() { _ = stream.Close() }()

	t.config.Logger.Debug().
		Str("url", t.config.URL).
		Int("capacity", t.config.Capacity).
		Int("chunk_size", t.config.ChunkSize).
		Msg("transfer started")

	producer := StartProducer(w, t.config.Encode)

	var result *transmit.Result
	var g errgroup.Group
	g.Go(func() error {
		res, err := t.config.Transmitter.Post(ctx, t.config.URL, stream)
		if err != nil {
			// Drop the read endpoint so a producer blocked on a full buffer
			// fails fast instead of hanging.
			_ = stream.Close()
			return err
		}
		result = res
		return nil
	})
	g.Go(func() error {
		// Joining without the caller's context is safe: once the stream is
		// closed the producer's next write returns, so this always finishes.
		return producer.Wait(context.Background())
	})

	if err := g.Wait(); err != nil {
		t.config.Logger.Error().Err(err).Str("url", t.config.URL).Msg("transfer failed")
		return nil, err
	}

	t.config.Logger.Info().
		Str("url", t.config.URL).
		Int("status", result.StatusCode).
		Msg("transfer completed")
	return result, nil
}
