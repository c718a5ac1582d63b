package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(ScratchBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	bytes := bb.Bytes()

	assert.Equal(t, []byte("hello"), bytes)
	// Should return the same underlying slice
	assert.True(t, &bb.B[0] == &bytes[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(ScratchBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_Len(t *testing.T) {
	bb := NewByteBuffer(ScratchBufferDefaultSize)

	assert.Equal(t, 0, bb.Len(), "empty buffer should have zero length")

	bb.B = append(bb.B, []byte("test")...)
	assert.Equal(t, 4, bb.Len(), "buffer length should match data")
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(64)

	require.True(t, bb.Extend(32), "Extend within capacity should succeed")
	assert.Equal(t, 32, bb.Len())

	require.False(t, bb.Extend(64), "Extend beyond capacity should fail")
	assert.Equal(t, 32, bb.Len(), "failed Extend should not change length")
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(16)

	bb.ExtendOrGrow(1024)

	assert.Equal(t, 1024, bb.Len(), "ExtendOrGrow should set the requested length")
	assert.GreaterOrEqual(t, bb.Cap(), 1024)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.B = append(bb.B, []byte("keep me")...)

	bb.Grow(ScratchBufferDefaultSize)

	assert.Equal(t, []byte("keep me"), bb.B, "Grow should preserve existing data")
	assert.GreaterOrEqual(t, bb.Cap()-bb.Len(), ScratchBufferDefaultSize)
}

// =============================================================================
// ByteBufferPool Tests
// =============================================================================

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(128, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "pooled buffer should start empty")

	bb.B = append(bb.B, []byte("data")...)
	p.Put(bb)

	bb2 := p.Get()
	require.NotNil(t, bb2)
	assert.Equal(t, 0, bb2.Len(), "buffer must be reset when returned to the pool")
}

func TestByteBufferPool_PutNil(t *testing.T) {
	p := NewByteBufferPool(128, 1024)

	// Must not panic.
	p.Put(nil)
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(128, 256)

	bb := p.Get()
	bb.ExtendOrGrow(1024)
	p.Put(bb)

	// The oversized buffer was discarded, so the pool hands back a reset one.
	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len())
}

func TestScratchBufferPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bb := GetScratchBuffer()
				bb.ExtendOrGrow(512)
				PutScratchBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
