package benchmark

import (
	"io"
	"strconv"
	"testing"

	"github.com/vnykmshr/streambridge/pkg/conduit"
)

// BenchmarkConduitThroughput measures write-to-read throughput across
// capacities.
func BenchmarkConduitThroughput(b *testing.B) {
	capacities := []int{64, 4096, 64 * 1024}

	for _, capacity := range capacities {
		b.Run(sizeLabel(capacity), func(b *testing.B) {
			r, w := conduit.New(capacity)

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = io.Copy(io.Discard, r)
			}()

			chunk := make([]byte, 1024)
			b.SetBytes(int64(len(chunk)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = w.Write(chunk)
			}
			b.StopTimer()

			_ = w.Close()
			<-done
			_ = r.Close()
		})
	}
}

// BenchmarkConduitVsIOPipe compares the buffered conduit against the
// unbuffered io.Pipe rendezvous.
func BenchmarkConduitVsIOPipe(b *testing.B) {
	chunk := make([]byte, 1024)

	b.Run("conduit", func(b *testing.B) {
		r, w := conduit.New(64 * 1024)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = io.Copy(io.Discard, r)
		}()

		b.SetBytes(int64(len(chunk)))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = w.Write(chunk)
		}
		b.StopTimer()
		_ = w.Close()
		<-done
	})

	b.Run("io.Pipe", func(b *testing.B) {
		r, w := io.Pipe()
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = io.Copy(io.Discard, r)
		}()

		b.SetBytes(int64(len(chunk)))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = w.Write(chunk)
		}
		b.StopTimer()
		_ = w.Close()
		<-done
	})
}

func sizeLabel(n int) string {
	return "capacity-" + strconv.Itoa(n)
}
