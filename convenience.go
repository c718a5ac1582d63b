package gozl

import "sync"

// One-shot helpers over pooled default handles. Each call borrows a handle
// configured with the zstd fallback graph, so concurrent callers never
// share a native session.

var (
	compressorPool   sync.Pool // *Compressor, GraphZstd
	decompressorPool sync.Pool // *Decompressor
)

func getPooledCompressor() (*Compressor, error) {
	if v := compressorPool.Get(); v != nil {
		return v.(*Compressor), nil
	}

	return NewCompressor(GraphZstd)
}

func putPooledCompressor(c *Compressor) {
	compressorPool.Put(c)
}

func getPooledDecompressor() (*Decompressor, error) {
	if v := decompressorPool.Get(); v != nil {
		return v.(*Decompressor), nil
	}

	return NewDecompressor()
}

func putPooledDecompressor(d *Decompressor) {
	decompressorPool.Put(d)
}

// Compress compresses src as an opaque byte stream using a pooled default
// compressor. Safe for concurrent use.
func Compress(src []byte) ([]byte, error) {
	c, err := getPooledCompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledCompressor(c)

	return c.Compress(src)
}

// Decompress decompresses a serial frame using a pooled decompressor.
// Safe for concurrent use.
func Decompress(src []byte) ([]byte, error) {
	d, err := getPooledDecompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledDecompressor(d)

	return d.Decompress(src)
}

// CompressInt32s compresses data through the numeric pipeline using a
// pooled default compressor.
func CompressInt32s(data []int32) ([]byte, error) {
	c, err := getPooledCompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledCompressor(c)

	return c.CompressInt32s(data)
}

// CompressInt64s compresses data through the numeric pipeline using a
// pooled default compressor.
func CompressInt64s(data []int64) ([]byte, error) {
	c, err := getPooledCompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledCompressor(c)

	return c.CompressInt64s(data)
}

// CompressFloat32s compresses data through the numeric pipeline using a
// pooled default compressor.
func CompressFloat32s(data []float32) ([]byte, error) {
	c, err := getPooledCompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledCompressor(c)

	return c.CompressFloat32s(data)
}

// CompressFloat64s compresses data through the numeric pipeline using a
// pooled default compressor.
func CompressFloat64s(data []float64) ([]byte, error) {
	c, err := getPooledCompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledCompressor(c)

	return c.CompressFloat64s(data)
}

// DecompressInt32s recovers the element sequence from a frame produced by
// CompressInt32s using a pooled decompressor.
func DecompressInt32s(src []byte) ([]int32, error) {
	d, err := getPooledDecompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledDecompressor(d)

	return d.DecompressInt32s(src)
}

// DecompressInt64s recovers the element sequence from a frame produced by
// CompressInt64s using a pooled decompressor.
func DecompressInt64s(src []byte) ([]int64, error) {
	d, err := getPooledDecompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledDecompressor(d)

	return d.DecompressInt64s(src)
}

// DecompressFloat32s recovers the element sequence from a frame produced by
// CompressFloat32s using a pooled decompressor.
func DecompressFloat32s(src []byte) ([]float32, error) {
	d, err := getPooledDecompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledDecompressor(d)

	return d.DecompressFloat32s(src)
}

// DecompressFloat64s recovers the element sequence from a frame produced by
// CompressFloat64s using a pooled decompressor.
func DecompressFloat64s(src []byte) ([]float64, error) {
	d, err := getPooledDecompressor()
	if err != nil {
		return nil, err
	}
	defer putPooledDecompressor(d)

	return d.DecompressFloat64s(src)
}
