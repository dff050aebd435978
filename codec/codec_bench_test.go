package codec

import (
	"fmt"
	"testing"
)

type benchComposition struct {
	Kind    string   `json:"kind"`
	Metrics []string `json:"metrics"`
}

type benchProfile struct {
	Version      int                `json:"version"`
	Compositions []benchComposition `json:"compositions"`
	Bounds       []bounds           `json:"bounds"`
}

func newBenchProfile() benchProfile {
	p := benchProfile{Version: 1}
	for i := range 34 {
		name := fmt.Sprintf("metric_%02d", i)
		p.Bounds = append(p.Bounds, bounds{Metric: name, Min: float64(i) * 0.125, Max: float64(i) * 3.5})
		if i%2 == 1 {
			p.Compositions = append(p.Compositions, benchComposition{
				Kind:    "product2",
				Metrics: []string{fmt.Sprintf("metric_%02d", i-1), name},
			})
		}
	}
	return p
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func BenchmarkCodec_Marshal_Profile(b *testing.B) {
	p := newBenchProfile()

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, p) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, p) })
}

func BenchmarkCodec_Unmarshal_Profile(b *testing.B) {
	jsonData := MustMarshal(JSON{}, newBenchProfile())

	b.Run("stdlib", func(b *testing.B) {
		var sink benchProfile
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchProfile
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}

func BenchmarkCompress_Profile(b *testing.B) {
	data := MustMarshal(nil, newBenchProfile())

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		b.Run(c.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := Compress(data, c); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
