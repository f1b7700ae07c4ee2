package pocketplus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBitBuffer(t *testing.T) {
	bb := NewBitBuffer()
	assert.Equal(t, 0, bb.NumBits())
	assert.Empty(t, bb.ToBytes())
}

func TestBitBufferAppendBit(t *testing.T) {
	bb := NewBitBuffer()
	for _, bit := range []int{1, 0, 1, 0, 1, 0, 1, 0} {
		bb.AppendBit(bit)
	}
	require.Equal(t, 8, bb.NumBits())
	result := bb.ToBytes()
	require.Len(t, result, 1)
	assert.Equal(t, byte(0xAA), result[0])
}

func TestBitBufferAppendBitMSBFirst(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendBit(1)
	for i := 0; i < 7; i++ {
		bb.AppendBit(0)
	}
	assert.Equal(t, byte(0x80), bb.ToBytes()[0])
}

func TestBitBufferAppendBits(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendBits([]byte{0xAB, 0xCD}, 16)
	require.Equal(t, 16, bb.NumBits())
	assert.Equal(t, []byte{0xAB, 0xCD}, bb.ToBytes())
}

func TestBitBufferAppendBitsPartial(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendBits([]byte{0xFF, 0xFF}, 12)
	require.Equal(t, 12, bb.NumBits())
	assert.Equal(t, []byte{0xFF, 0xF0}, bb.ToBytes())
}

func TestBitBufferAppendBitVector(t *testing.T) {
	bv, err := NewBitVector(16)
	require.NoError(t, err)
	bv.FromBytes([]byte{0x12, 0x34})

	bb := NewBitBuffer()
	bb.AppendBitVector(bv)

	require.Equal(t, 16, bb.NumBits())
	assert.Equal(t, []byte{0x12, 0x34}, bb.ToBytes())
}

func TestBitBufferAppendBitVectorPartial(t *testing.T) {
	bv, err := NewBitVector(12)
	require.NoError(t, err)
	bv.FromBytes([]byte{0xAB, 0xC0})

	bb := NewBitBuffer()
	bb.AppendBitVector(bv)

	require.Equal(t, 12, bb.NumBits())
	result := bb.ToBytes()
	assert.Equal(t, byte(0xAB), result[0])
	assert.Equal(t, byte(0xC0), result[1])
}

func TestBitBufferAppendBitVectorN(t *testing.T) {
	bv, err := NewBitVector(16)
	require.NoError(t, err)
	bv.FromBytes([]byte{0xFF, 0x00})

	bb := NewBitBuffer()
	bb.AppendBitVectorN(bv, 8)

	require.Equal(t, 8, bb.NumBits())
	assert.Equal(t, []byte{0xFF}, bb.ToBytes())
}

func TestBitBufferAppendValue(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendValue(5, 4)
	for i := 0; i < 4; i++ {
		bb.AppendBit(0)
	}
	assert.Equal(t, byte(0x50), bb.ToBytes()[0])
}

func TestBitBufferAppendValueLarge(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendValue(0xABCD, 16)
	assert.Equal(t, []byte{0xAB, 0xCD}, bb.ToBytes())
}

func TestBitBufferClear(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendBit(1)
	bb.AppendBit(1)
	bb.AppendBit(1)
	bb.AppendBit(1)

	bb.Clear()

	assert.Equal(t, 0, bb.NumBits())
	assert.Empty(t, bb.ToBytes())
}

func TestBitBufferMultipleAppends(t *testing.T) {
	bb := NewBitBuffer()
	bb.AppendBit(1)
	bb.AppendBit(0)
	bb.AppendBits([]byte{0xFF}, 4)
	bb.AppendValue(3, 2)

	require.Equal(t, 8, bb.NumBits())
	assert.Equal(t, byte(0xBF), bb.ToBytes()[0])
}

func TestBitBufferLargeData(t *testing.T) {
	bb := NewBitBuffer()

	data := make([]byte, 90)
	for i := range data {
		data[i] = byte(i)
	}
	bb.AppendBits(data, 720)

	require.Equal(t, 720, bb.NumBits())
	assert.Equal(t, data, bb.ToBytes())
}
