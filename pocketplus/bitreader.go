package pocketplus

import "github.com/pkg/errors"

// ErrEOF is returned by PeekBit and ReadBit when a read runs past the end
// of the available bits. ReadBits, Skip and the decoders built on them
// report that condition as ErrTruncatedInput, with ErrEOF's text in the
// message.
var ErrEOF = errors.New("pocketplus: no more bits to read")

// BitReader is a sequential, cursor-based bit reader.
//
// Bits are read MSB-first within each byte, mirroring BitBuffer's output
// order: the first bit read off a freshly constructed reader is bit 7 of
// data[0].
type BitReader struct {
	data      []byte
	totalBits int
	position  int
}

// NewBitReader wraps data for bit-at-a-time reading of every bit it holds.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data, totalBits: len(data) * 8}
}

// NewBitReaderWithBits wraps data but limits reading to its first numBits
// bits, for payloads whose last byte is only partially significant.
func NewBitReaderWithBits(data []byte, numBits int) *BitReader {
	maxBits := len(data) * 8
	if numBits > maxBits {
		numBits = maxBits
	}
	return &BitReader{data: data, totalBits: numBits}
}

// Remaining reports how many unread bits are left.
func (br *BitReader) Remaining() int { return br.totalBits - br.position }

// Position reports the current bit cursor.
func (br *BitReader) Position() int { return br.position }

// PeekBit returns the next bit without consuming it.
func (br *BitReader) PeekBit() (int, error) {
	if br.position >= br.totalBits {
		return 0, ErrEOF
	}
	byteIndex := br.position / 8
	bitIndex := br.position % 8
	bit := (br.data[byteIndex] >> uint(7-bitIndex)) & 1
	return int(bit), nil
}

// ReadBit consumes and returns the next bit.
func (br *BitReader) ReadBit() (int, error) {
	bit, err := br.PeekBit()
	if err != nil {
		return 0, err
	}
	br.position++
	return bit, nil
}

// ReadBits consumes the next numBits bits (at most 64) and returns them
// packed MSB-first into the low bits of the result.
func (br *BitReader) ReadBits(numBits int) (uint64, error) {
	if numBits == 0 {
		return 0, nil
	}
	if numBits > 64 {
		return 0, errors.Wrap(ErrInvalidParameter, "BitReader.ReadBits: cannot read more than 64 bits at once")
	}
	if br.position+numBits > br.totalBits {
		return 0, wrapTruncated(ErrEOF, "BitReader.ReadBits")
	}
	var result uint64
	for i := 0; i < numBits; i++ {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		result = (result << 1) | uint64(bit)
	}
	return result, nil
}

// AlignByte advances the cursor to the next byte boundary, a no-op if
// already aligned. Packets are byte-aligned on the wire (section 4.2).
func (br *BitReader) AlignByte() {
	if offset := br.position % 8; offset != 0 {
		br.position += 8 - offset
	}
}

// Skip advances the cursor by numBits without reading them.
func (br *BitReader) Skip(numBits int) error {
	if br.position+numBits > br.totalBits {
		return wrapTruncated(ErrEOF, "BitReader.Skip")
	}
	br.position += numBits
	return nil
}
