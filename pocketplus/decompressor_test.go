package pocketplus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecompressorInvalidConfig(t *testing.T) {
	_, err := NewDecompressor(DecompressorConfig{F: 0, R: 1})
	assert.Error(t, err)

	_, err = NewDecompressor(DecompressorConfig{F: 16, R: MaxRobustness + 1})
	assert.Error(t, err)
}

func TestDecompressPacketRejectsNilReader(t *testing.T) {
	decomp, err := NewDecompressor(DecompressorConfig{F: 16, R: 1})
	require.NoError(t, err)

	_, err = decomp.DecompressPacket(nil)
	assert.Error(t, err)
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	const F = 32
	comp, err := NewCompressor(CompressorConfig{F: F, R: 1, Lp: 4, Lf: 6, Lr: 8})
	require.NoError(t, err)
	decomp, err := NewDecompressor(DecompressorConfig{F: F, R: 1})
	require.NoError(t, err)

	packets := [][]byte{
		{0xAA, 0xBB, 0xCC, 0xDD},
		{0xAA, 0xBB, 0xCC, 0xDD},
		{0xAA, 0xBB, 0xCC, 0xDE},
		{0xAA, 0xBB, 0xCC, 0xDE},
		{0x00, 0x00, 0x00, 0x00},
	}

	stream := NewBitBuffer()
	for _, p := range packets {
		input, _ := NewBitVector(F)
		input.FromBytes(p)

		bits, err := comp.CompressPacket(input)
		require.NoError(t, err)
		stream.AppendBits(bits, len(bits)*8)
	}

	reader := NewBitReader(stream.ToBytes())
	for i, want := range packets {
		output, err := decomp.DecompressPacket(reader)
		require.NoErrorf(t, err, "packet %d", i)
		assert.Equalf(t, want, output.ToBytes(), "packet %d", i)
		reader.AlignByte()
	}
}

func TestNotifyPacketsLostRejectsNegative(t *testing.T) {
	decomp, err := NewDecompressor(DecompressorConfig{F: 16, R: 1})
	require.NoError(t, err)

	assert.Error(t, decomp.NotifyPacketsLost(-1))
}

func TestNotifyPacketsLostAdvancesCounter(t *testing.T) {
	decomp, err := NewDecompressor(DecompressorConfig{F: 16, R: 1})
	require.NoError(t, err)

	require.NoError(t, decomp.NotifyPacketsLost(5))
	assert.Equal(t, 5, decomp.t)
}

func TestDecompressPacketRejectsLiteralLengthMismatch(t *testing.T) {
	const F = 8
	decomp, err := NewDecompressor(DecompressorConfig{F: F, R: 0})
	require.NoError(t, err)

	bb := NewBitBuffer()
	zero, _ := NewBitVector(F)
	require.NoError(t, RLEEncode(bb, zero)) // Xt: all zero
	bb.AppendValue(0, 4)                    // Vt = 0
	bb.AppendBit(0)                         // dt = 0
	bb.AppendBit(0)                         // ft = 0
	bb.AppendBit(1)                         // rt = 1
	require.NoError(t, CountEncode(bb, F+1))
	bb.AppendValue(0, F)

	reader := NewBitReaderWithBits(bb.ToBytes(), bb.NumBits())
	_, err = decomp.DecompressPacket(reader)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedFlagCombination)
}

func TestDecompressorResetRestoresInitialState(t *testing.T) {
	decomp, err := NewDecompressor(DecompressorConfig{F: 16, R: 1})
	require.NoError(t, err)

	require.NoError(t, decomp.NotifyPacketsLost(3))
	decomp.Reset()

	assert.Equal(t, 0, decomp.t)
	assert.True(t, decomp.mask.Equals(decomp.initialMask))
}
