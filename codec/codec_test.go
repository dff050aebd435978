package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bounds struct {
	Metric string  `json:"metric"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
	assert.Equal(t, "go-json", Default.Name())
}

func TestCodecs_Compatible(t *testing.T) {
	in := []bounds{{"euclidean", 0.5, 12.25}, {"pearson", -1, 1}}

	std := MustMarshal(JSON{}, in)
	fast := MustMarshal(nil, in)
	assert.JSONEq(t, string(std), string(fast))

	var out []bounds
	require.NoError(t, GoJSON{}.Unmarshal(std, &out))
	assert.Equal(t, in, out)

	indented, err := GoJSON{}.MarshalIndent(in)
	require.NoError(t, err)
	assert.Contains(t, string(indented), "\n  ")
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want Compression
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"LZ4", CompressionLZ4},
		{"zstd", CompressionZSTD},
		{"zst", CompressionZSTD},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrUnknownCompression)

	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, "Compression(9)", Compression(9).String())
}

func TestCompressionFromPath(t *testing.T) {
	assert.Equal(t, CompressionZSTD, CompressionFromPath("profile.json.zst"))
	assert.Equal(t, CompressionZSTD, CompressionFromPath("/tmp/p.ZSTD"))
	assert.Equal(t, CompressionLZ4, CompressionFromPath("profile.json.lz4"))
	assert.Equal(t, CompressionNone, CompressionFromPath("profile.json"))
	assert.Equal(t, CompressionNone, CompressionFromPath("profile"))
}

func TestCompress_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":        {},
		"short":        []byte(`{"v":1}`),
		"compressible": []byte(strings.Repeat(`{"metric":"euclidean","min":0,"max":1},`, 200)),
	}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for name, data := range inputs {
			t.Run(c.String()+"/"+name, func(t *testing.T) {
				packed, err := Compress(data, c)
				require.NoError(t, err)

				out, err := Decompress(packed, c)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(data, out))
			})
		}
	}
}

func TestCompress_Shrinks(t *testing.T) {
	data := []byte(strings.Repeat("ACGT", 4096))
	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		packed, err := Compress(data, c)
		require.NoError(t, err)
		assert.Less(t, len(packed), len(data)/4, c.String())
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	data := []byte(strings.Repeat("kmer", 512))

	_, err := Decompress([]byte{1, 2}, CompressionZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		packed, err := Compress(data, c)
		require.NoError(t, err)

		_, err = Decompress(packed[:len(packed)-1], c)
		assert.ErrorIs(t, err, ErrCorrupt, c.String())
	}

	_, err = Compress(data, Compression(7))
	assert.ErrorIs(t, err, ErrUnknownCompression)
	_, err = Decompress(data, Compression(7))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
