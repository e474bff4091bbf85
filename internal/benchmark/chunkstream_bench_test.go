package benchmark

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/vnykmshr/streambridge/pkg/chunkstream"
)

// BenchmarkChunkStreamNext measures per-chunk delivery cost over an
// in-memory source.
func BenchmarkChunkStreamNext(b *testing.B) {
	payload := bytes.Repeat([]byte("x"), 1<<20)
	ctx := context.Background()

	b.SetBytes(int64(len(payload)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := chunkstream.New(bytes.NewReader(payload), 32*1024)
		for {
			_, err := s.Next(ctx)
			if err == io.EOF {
				break
			}
		}
	}
}
