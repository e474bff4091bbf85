package chunkstream_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/vnykmshr/streambridge/internal/testutil"
	"github.com/vnykmshr/streambridge/pkg/chunkstream"
	"github.com/vnykmshr/streambridge/pkg/conduit"
)

// drain collects every chunk of s and returns their sizes and concatenation.
func drain(t *testing.T, s *chunkstream.Stream) ([]int, []byte) {
	t.Helper()
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	var sizes []int
	var all bytes.Buffer
	for {
		chunk, err := s.Next(ctx)
		if err == io.EOF {
			return sizes, all.Bytes()
		}
		testutil.AssertNoError(t, err)
		sizes = append(sizes, len(chunk))
		all.Write(chunk)
	}
}

func TestDeterministicChunking(t *testing.T) {
	// A bytes.Reader always fills the read buffer, so a 200-byte payload over
	// a 64-byte chunk size must arrive as exactly 64, 64, 64, 8.
	payload := bytes.Repeat([]byte("s"), 200)
	s := chunkstream.New(bytes.NewReader(payload), 64)

	sizes, got := drain(t, s)

	testutil.AssertEqual(t, len(sizes), 4)
	for i, want := range []int{64, 64, 64, 8} {
		testutil.AssertEqual(t, sizes[i], want)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("reassembled payload differs")
	}
}

func TestTotalityAcrossCapacities(t *testing.T) {
	// Payload smaller than, equal to, and larger than one chunk.
	for _, size := range []int{10, 64, 200} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i)
		}

		r, w := conduit.New(64)
		s := chunkstream.New(r, 64)

		go func() {
			defer func() { _ = w.Close() }()
			_, _ = w.Write(payload)
		}()

		sizes, got := drain(t, s)
		if !bytes.Equal(got, payload) {
			t.Fatalf("size %d: reassembled payload differs", size)
		}
		for _, n := range sizes {
			if n < 1 || n > 64 {
				t.Fatalf("size %d: chunk of %d bytes outside (0, capacity]", size, n)
			}
		}
	}
}

func TestEmptySource(t *testing.T) {
	s := chunkstream.New(bytes.NewReader(nil), 64)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	_, err := s.Next(ctx)
	testutil.AssertEqual(t, err, io.EOF)

	// Exhaustion is stable.
	_, err = s.Next(ctx)
	testutil.AssertEqual(t, err, io.EOF)
}

func TestSourceErrorDeliveredOnce(t *testing.T) {
	errBoom := errors.New("boom")
	s := chunkstream.New(&testutil.FailingReader{Err: errBoom}, 64)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	_, err := s.Next(ctx)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	// After the error the sequence is exhausted.
	_, err = s.Next(ctx)
	testutil.AssertEqual(t, err, io.EOF)
}

func TestNextHonorsContext(t *testing.T) {
	r, w := conduit.New(64)
	defer func() { _ = w.Close() }()

	s := chunkstream.New(r, 64)
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	// Nothing is ever written, so Next must return on context expiry rather
	// than blocking with the pump.
	_, err := s.Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNextAfterClose(t *testing.T) {
	r, _ := conduit.New(64)
	s := chunkstream.New(r, 64)

	testutil.AssertNoError(t, s.Close())

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	_, err := s.Next(ctx)
	if !errors.Is(err, chunkstream.ErrStreamClosed) && !errors.Is(err, io.EOF) {
		t.Fatalf("expected closed stream, got %v", err)
	}
}

func TestCloseReleasesBlockedProducer(t *testing.T) {
	r, w := conduit.New(4)
	s := chunkstream.New(r, 4)

	done := make(chan error, 1)
	go func() {
		// Larger than capacity with no consumer demand: blocks.
		_, err := w.Write(bytes.Repeat([]byte("p"), 64))
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	testutil.AssertNoError(t, s.Close())

	select {
	case err := <-done:
		if !errors.Is(err, conduit.ErrReaderClosed) {
			t.Fatalf("expected ErrReaderClosed, got %v", err)
		}
	case <-time.After(testutil.TestTimeout):
		t.Fatal("producer still blocked after stream close")
	}
}

func TestReadServesChunksInOrder(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	s := chunkstream.New(bytes.NewReader(payload), 8)

	got, err := io.ReadAll(s)
	testutil.AssertNoError(t, err)
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected %q, got %q", payload, got)
	}
}

func TestReadReportsSourceError(t *testing.T) {
	errBoom := errors.New("boom")
	s := chunkstream.New(&testutil.FailingReader{Err: errBoom}, 8)

	_, err := io.ReadAll(s)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestChunksAreOwned(t *testing.T) {
	r, w := conduit.New(8)
	s := chunkstream.New(r, 8)

	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.Write([]byte("first"))
		_, _ = w.Write([]byte("second"))
	}()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	first, err := s.Next(ctx)
	testutil.AssertNoError(t, err)
	snapshot := string(first)

	// Later demand must not mutate previously yielded chunks.
	if _, _, err := drainRest(ctx, s); err != nil {
		t.Fatalf("drain: %v", err)
	}
	testutil.AssertEqual(t, string(first), snapshot)
}

func drainRest(ctx context.Context, s *chunkstream.Stream) (int, int, error) {
	var chunks, total int
	for {
		chunk, err := s.Next(ctx)
		if err == io.EOF {
			return chunks, total, nil
		}
		if err != nil {
			return chunks, total, err
		}
		chunks++
		total += len(chunk)
	}
}
