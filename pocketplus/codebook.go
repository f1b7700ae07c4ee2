package pocketplus

import (
	"math/bits"

	"github.com/pkg/errors"
)

// CountEncode implements CCSDS 124.0-B-1 section 5.2.2, table 5-1, equation
// 9: it encodes a positive integer 1 <= A <= 65535 as a prefix-free code.
//
//   - A == 1            -> '0'
//   - 2 <= A <= 33       -> '110' || BIT_5(A-2)
//   - A >= 34            -> '111' || BIT_E(A-2), E = 2*floor(log2(A-2)+1) - 6
func CountEncode(bb *BitBuffer, A int) error {
	if A < 1 || A > 65535 {
		return errors.Wrap(ErrInputTooLarge, "COUNT: A must be in range [1, 65535]")
	}

	switch {
	case A == 1:
		bb.AppendBit(0)
	case A <= 33:
		bb.AppendBit(1)
		bb.AppendBit(1)
		bb.AppendBit(0)
		bb.AppendValue(uint64(A-2), 5)
	default:
		value := A - 2
		e := (2 * bits.Len(uint(value))) - 6
		bb.AppendBit(1)
		bb.AppendBit(1)
		bb.AppendBit(1)
		bb.AppendValue(uint64(value), e)
	}
	return nil
}

// CountEncodeTerminator writes the RLE terminator code '10'.
func CountEncodeTerminator(bb *BitBuffer) {
	bb.AppendBit(1)
	bb.AppendBit(0)
}

// debruijnLookup maps a De Bruijn-multiplied isolated bit to its index,
// for O(1) least-significant-set-bit lookup in a 32-bit word.
var debruijnLookup = [32]int{
	1, 2, 29, 3, 30, 15, 25, 4, 31, 23, 21, 16,
	26, 18, 5, 9, 32, 28, 14, 24, 22, 20, 17, 8,
	27, 13, 19, 7, 12, 6, 11, 10,
}

// RLEEncode implements CCSDS 124.0-B-1 section 5.2.3, equation 10:
//
//	RLE(a) = COUNT(C_0) || COUNT(C_1) || ... || COUNT(C_{H(a)-1}) || '10'
//
// where C_i is 1 plus the run of '0' bits preceding the i-th '1' bit,
// scanning from the high end (position length-1) down to position 0.
// Trailing zeros below the lowest set bit are never encoded — the
// terminator and the vector's known length make them implicit.
func RLEEncode(bb *BitBuffer, input *BitVector) error {
	if input == nil {
		return errors.Wrap(ErrInvalidParameter, "RLE: input cannot be nil")
	}

	oldPos := input.length
	for w := len(input.words) - 1; w >= 0; w-- {
		word := input.words[w]
		for word != 0 {
			lsb := word & uint32(-int32(word))
			debruijnIdx := (lsb * 0x077CB531) >> 27
			posInWord := 32 - debruijnLookup[debruijnIdx]
			newPos := w*32 + posInWord

			if err := CountEncode(bb, oldPos-newPos); err != nil {
				return err
			}
			oldPos = newPos
			word ^= lsb
		}
	}

	CountEncodeTerminator(bb)
	return nil
}

// RLEDecode is the inverse of RLEEncode: it reads COUNT deltas from the
// stream, walking positions down from length, until the terminator (a
// decoded count of 0) appears.
func RLEDecode(br *BitReader, length int) (*BitVector, error) {
	result, err := NewBitVector(length)
	if err != nil {
		return nil, err
	}

	position := length
	for {
		count, err := CountDecode(br)
		if err != nil {
			return nil, errors.WithMessage(err, "RLE decode")
		}
		if count == 0 {
			break
		}
		position -= count
		if position < 0 {
			return nil, wrapMalformed("RLE", "COUNT delta overshoots vector length")
		}
		result.SetBit(position, 1)
	}
	return result, nil
}

// CountDecode is the inverse of CountEncode. It additionally recognizes
// the RLE terminator '10', returning 0 for it.
func CountDecode(br *BitReader) (int, error) {
	first, err := br.ReadBit()
	if err != nil {
		return 0, wrapTruncated(err, "COUNT: first bit")
	}
	if first == 0 {
		return 1, nil
	}

	second, err := br.ReadBit()
	if err != nil {
		return 0, wrapTruncated(err, "COUNT: second bit")
	}
	if second == 0 {
		return 0, nil
	}

	third, err := br.ReadBit()
	if err != nil {
		return 0, wrapTruncated(err, "COUNT: third bit")
	}
	if third == 0 {
		value, err := br.ReadBits(5)
		if err != nil {
			return 0, wrapTruncated(err, "COUNT: BIT_5")
		}
		return int(value) + 2, nil
	}

	// '111' prefix: E grows by 2 bits per doubling of the encoded range, so
	// the decoder reads 6 bits and keeps pulling 2 more until the value it
	// has is consistent with the E that value would have been encoded with.
	e := 6
	value, err := br.ReadBits(e)
	if err != nil {
		return 0, wrapTruncated(err, "COUNT: BIT_E")
	}
	for {
		expectedE := 0
		if value != 0 {
			expectedE = 2*bits.Len64(value) - 6
		}
		if expectedE == e {
			break
		}
		e += 2
		extra, err := br.ReadBits(2)
		if err != nil {
			return 0, wrapTruncated(err, "COUNT: BIT_E extra bits")
		}
		value = (value << 2) | extra
	}

	return int(value) + 2, nil
}

// BitExtract implements CCSDS 124.0-B-1 section 5.2.4, equation 11:
//
//	BE(a, b) = a_{g_{H(b)-1}} || ... || a_{g_1} || a_{g_0}
//
// where g_i is the position of the i-th set bit of mask b, enumerated from
// the highest position to the lowest. Used for ut.
func BitExtract(bb *BitBuffer, data, mask *BitVector) error {
	if data == nil || mask == nil {
		return errors.Wrap(ErrInvalidParameter, "BitExtract: data and mask cannot be nil")
	}
	if data.length != mask.length {
		return errors.Wrap(ErrInvalidParameter, "BitExtract: data and mask must have same length")
	}

	for w := len(mask.words) - 1; w >= 0; w-- {
		maskWord := mask.words[w]
		dataWord := data.words[w]
		for maskWord != 0 {
			lsb := maskWord & uint32(-int32(maskWord))
			bitPos := bits.TrailingZeros32(lsb)
			bb.AppendBit(int((dataWord >> uint(bitPos)) & 1))
			maskWord ^= lsb
		}
	}
	return nil
}

// BitExtractForward is BitExtract with positions enumerated from lowest to
// highest instead of highest to lowest. Used for kt.
func BitExtractForward(bb *BitBuffer, data, mask *BitVector) error {
	if data == nil || mask == nil {
		return errors.Wrap(ErrInvalidParameter, "BitExtractForward: data and mask cannot be nil")
	}
	if data.length != mask.length {
		return errors.Wrap(ErrInvalidParameter, "BitExtractForward: data and mask must have same length")
	}

	for w := 0; w < len(mask.words); w++ {
		maskWord := mask.words[w]
		dataWord := data.words[w]
		for maskWord != 0 {
			highBit := 31 - bits.LeadingZeros32(maskWord)
			bb.AppendBit(int((dataWord >> uint(highBit)) & 1))
			maskWord &^= uint32(1) << uint(highBit)
		}
	}
	return nil
}

// BitInsert is the inverse of BitExtract: it reads H(mask) bits from br,
// highest-position-to-lowest, writing each into data at the corresponding
// mask position.
func BitInsert(br *BitReader, data, mask *BitVector) error {
	if data == nil || mask == nil {
		return errors.Wrap(ErrInvalidParameter, "BitInsert: data and mask cannot be nil")
	}
	if data.length != mask.length {
		return errors.Wrap(ErrInvalidParameter, "BitInsert: data and mask must have same length")
	}

	for w := len(mask.words) - 1; w >= 0; w-- {
		maskWord := mask.words[w]
		for maskWord != 0 {
			lsb := maskWord & uint32(-int32(maskWord))
			bitPos := uint(bits.TrailingZeros32(lsb))
			bit, err := br.ReadBit()
			if err != nil {
				return wrapTruncated(err, "BitInsert")
			}
			if bit != 0 {
				data.words[w] |= uint32(1) << bitPos
			} else {
				data.words[w] &^= uint32(1) << bitPos
			}
			maskWord ^= lsb
		}
	}
	return nil
}

// BitInsertForward is the inverse of BitExtractForward.
func BitInsertForward(br *BitReader, data, mask *BitVector) error {
	if data == nil || mask == nil {
		return errors.Wrap(ErrInvalidParameter, "BitInsertForward: data and mask cannot be nil")
	}
	if data.length != mask.length {
		return errors.Wrap(ErrInvalidParameter, "BitInsertForward: data and mask must have same length")
	}

	for w := 0; w < len(mask.words); w++ {
		maskWord := mask.words[w]
		for maskWord != 0 {
			highBit := uint(31 - bits.LeadingZeros32(maskWord))
			bit, err := br.ReadBit()
			if err != nil {
				return wrapTruncated(err, "BitInsertForward")
			}
			if bit != 0 {
				data.words[w] |= uint32(1) << highBit
			} else {
				data.words[w] &^= uint32(1) << highBit
			}
			maskWord &^= uint32(1) << highBit
		}
	}
	return nil
}
