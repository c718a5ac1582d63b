package gozl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/gozl/endian"
)

func TestDecompressor_InvalidInput(t *testing.T) {
	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	tests := []struct {
		name string
		src  []byte
	}{
		{"empty", nil},
		{"garbage", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"short garbage", []byte{0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decompress(tt.src)
			require.Error(t, err)

			var zlErr *Error
			require.ErrorAs(t, err, &zlErr)
			assert.NotEmpty(t, zlErr.Msg)
		})
	}
}

func TestDecompressor_TruncatedFrame(t *testing.T) {
	c, err := NewCompressor(GraphZstd)
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress(testPayload(4096))
	require.NoError(t, err)
	require.Greater(t, len(compressed), 2)

	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Decompress(compressed[:len(compressed)/2])
	require.Error(t, err, "a truncated frame must not decode")
}

func TestDecompressor_DecompressInto(t *testing.T) {
	c, err := NewCompressor(GraphZstd)
	require.NoError(t, err)
	defer c.Close()

	src := testPayload(4096)
	compressed, err := c.Compress(src)
	require.NoError(t, err)

	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	dst := make([]byte, len(src))
	n, err := d.DecompressInto(dst, compressed)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	assert.Equal(t, src, dst[:n])

	// A destination smaller than the decompressed size must fail.
	short := make([]byte, len(src)/2)
	_, err = d.DecompressInto(short, compressed)
	require.Error(t, err)

	var zlErr *Error
	require.ErrorAs(t, err, &zlErr)
	assert.Equal(t, "decompress", zlErr.Op)
}

func TestDecompressor_DecompressNumericRaw(t *testing.T) {
	// Build the raw payload in host byte order, the layout the numeric
	// pipeline stores elements in.
	engine := endian.GetNativeEngine()
	payload := make([]byte, 0, 256*4)
	for i := 0; i < 256; i++ {
		payload = engine.AppendUint32(payload, uint32(i*3))
	}

	c, err := NewCompressor(GraphNumeric)
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.CompressNumeric(payload, 4, 256)
	require.NoError(t, err)

	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	decompressed, err := d.DecompressNumeric(compressed, 4)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}

func TestDecompressor_ElementWidthMismatch(t *testing.T) {
	// A valid int32 frame read back at a wider element width must be
	// rejected, not silently padded from whatever the decode buffers held.
	c, err := NewCompressor(GraphNumeric)
	require.NoError(t, err)
	defer c.Close()

	data := make([]int32, 1000)
	for i := range data {
		data[i] = int32(i)
	}

	compressed, err := c.CompressInt32s(data)
	require.NoError(t, err)

	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	_, err = d.DecompressInt64s(compressed)
	require.ErrorIs(t, err, ErrElemSizeMismatch)

	_, err = d.DecompressFloat64s(compressed)
	require.ErrorIs(t, err, ErrElemSizeMismatch)

	_, err = d.DecompressNumeric(compressed, 8)
	require.ErrorIs(t, err, ErrElemSizeMismatch)

	// The matching width still decodes.
	decompressed, err := d.DecompressInt32s(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestDecompressor_DecompressNumericBadElemSize(t *testing.T) {
	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	_, err = d.DecompressNumeric([]byte{1, 2, 3, 4}, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = d.DecompressNumeric([]byte{1, 2, 3, 4}, -8)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestDecompressor_Closed(t *testing.T) {
	d, err := NewDecompressor()
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "double close is a no-op")

	_, err = d.Decompress([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.DecompressInto(make([]byte, 16), []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.DecompressNumeric([]byte{1, 2, 3}, 4)
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.DecompressInt32s([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.DecompressInt64s([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.DecompressFloat32s([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.DecompressFloat64s([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrClosed)
}

func TestDecompressor_SequentialReuse(t *testing.T) {
	// One session must handle many frames back to back.
	c, err := NewCompressor(GraphZstd)
	require.NoError(t, err)
	defer c.Close()

	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	for _, size := range []int{16, 1024, 16, 65536, 1} {
		src := testPayload(size)

		compressed, err := c.Compress(src)
		require.NoError(t, err)

		decompressed, err := d.Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, src, decompressed, "size %d", size)
	}
}
