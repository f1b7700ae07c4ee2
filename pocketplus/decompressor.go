package pocketplus

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DecompressorOption configures a Decompressor at construction time.
type DecompressorOption func(*Decompressor)

// WithDecompressorLogger attaches a zerolog.Logger to a Decompressor.
// Without this option a Decompressor logs nothing.
func WithDecompressorLogger(logger zerolog.Logger) DecompressorOption {
	return func(decomp *Decompressor) {
		decomp.logger = logger
	}
}

// Decompressor maintains state for POCKET+ decompression across a
// sequence of packets produced by a matching Compressor. A single
// Decompressor is not safe for concurrent use.
type Decompressor struct {
	F          int // input vector length in bits
	robustness int // Rt: base robustness level (0-7)

	logger zerolog.Logger

	mask        *BitVector
	initialMask *BitVector
	prevOutput  *BitVector

	t int // cycle counter
}

// NewDecompressor builds a Decompressor from cfg, rejecting
// configurations that violate section 6.2's constraints before
// allocating any state.
func NewDecompressor(cfg DecompressorConfig, opts ...DecompressorOption) (*Decompressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decomp := &Decompressor{
		F:          cfg.F,
		robustness: cfg.R,
		logger:     nopLogger(),
	}

	var err error
	decomp.mask, err = NewBitVector(cfg.F)
	if err != nil {
		return nil, err
	}
	decomp.initialMask, _ = NewBitVector(cfg.F)
	decomp.prevOutput, _ = NewBitVector(cfg.F)

	if cfg.M0 != nil {
		decomp.initialMask.CopyFrom(cfg.M0)
		decomp.mask.CopyFrom(cfg.M0)
	}

	for _, opt := range opts {
		opt(decomp)
	}

	decomp.Reset()

	return decomp, nil
}

// Reset returns the decompressor to its just-constructed state.
func (decomp *Decompressor) Reset() {
	decomp.t = 0
	decomp.mask.CopyFrom(decomp.initialMask)
	decomp.prevOutput.Zero()
}

// NotifyPacketsLost advances the decompressor's cycle counter by n
// without consuming any bitstream, for a caller that has detected n
// missing packets out-of-band (e.g. a gap in a transport sequence
// number) and wants the Scheduler-derived state on the compressor side
// to stay interpretable across the gap. It does not touch the mask or
// prevOutput: those remain valid predictors once real packets resume,
// per property 7's packet-loss resilience requirement.
func (decomp *Decompressor) NotifyPacketsLost(n int) error {
	if n < 0 {
		return errors.Wrap(ErrInvalidParameter, "NotifyPacketsLost: n must be non-negative")
	}
	decomp.logger.Debug().Int("t", decomp.t).Int("lost", n).Msg("packets lost")
	decomp.t += n
	return nil
}

// DecompressPacket decompresses a single compressed packet read from
// reader, returning the reconstructed F-bit input vector.
func (decomp *Decompressor) DecompressPacket(reader *BitReader) (*BitVector, error) {
	if reader == nil {
		return nil, errors.Wrap(ErrInvalidParameter, "DecompressPacket: reader must not be nil")
	}

	output, _ := NewBitVector(decomp.F)
	output.CopyFrom(decomp.prevOutput)

	// Parse ht: RLE(Xt) || BIT4(Vt) || et || kt || ct || dt.

	Xt, err := RLEDecode(reader, decomp.F)
	if err != nil {
		return nil, errors.Wrap(err, "DecompressPacket: RLE(Xt)")
	}

	vtRaw, err := reader.ReadBits(4)
	if err != nil {
		return nil, wrapTruncated(err, "DecompressPacket: Vt")
	}
	Vt := int(vtRaw & 0x0F)

	ct := 0
	changeCount := Xt.HammingWeight()

	if Vt > 0 && changeCount > 0 {
		et, err := reader.ReadBit()
		if err != nil {
			return nil, wrapTruncated(err, "DecompressPacket: et")
		}

		if et == 1 {
			ktBits := make([]int, 0, changeCount)
			for i := 0; i < decomp.F; i++ {
				if Xt.GetBit(i) != 0 {
					bit, err := reader.ReadBit()
					if err != nil {
						return nil, wrapTruncated(err, "DecompressPacket: kt")
					}
					ktBits = append(ktBits, bit)
				}
			}

			ktIdx := 0
			for i := 0; i < decomp.F; i++ {
				if Xt.GetBit(i) != 0 {
					if ktBits[ktIdx] != 0 {
						decomp.mask.SetBit(i, 0)
					} else {
						decomp.mask.SetBit(i, 1)
					}
					ktIdx++
				}
			}

			ctBit, err := reader.ReadBit()
			if err != nil {
				return nil, wrapTruncated(err, "DecompressPacket: ct")
			}
			ct = ctBit
		} else {
			for i := 0; i < decomp.F; i++ {
				if Xt.GetBit(i) != 0 {
					decomp.mask.SetBit(i, 1)
				}
			}
		}
	} else if Vt == 0 && changeCount > 0 {
		for i := 0; i < decomp.F; i++ {
			if Xt.GetBit(i) != 0 {
				if decomp.mask.GetBit(i) == 0 {
					decomp.mask.SetBit(i, 1)
				} else {
					decomp.mask.SetBit(i, 0)
				}
			}
		}
	}

	dt, err := reader.ReadBit()
	if err != nil {
		return nil, wrapTruncated(err, "DecompressPacket: dt")
	}

	// Parse qt: optional full mask, suppressed entirely when dt=1.

	rt := 0

	if dt == 0 {
		ft, err := reader.ReadBit()
		if err != nil {
			return nil, wrapTruncated(err, "DecompressPacket: ft")
		}

		if ft == 1 {
			maskDiff, err := RLEDecode(reader, decomp.F)
			if err != nil {
				return nil, errors.Wrap(err, "DecompressPacket: RLE(qt)")
			}

			// Undo the horizontal XOR: HXOR[i] = M[i] XOR M[i+1],
			// HXOR[F-1] = M[F-1]. Reconstruct from the LSB inward.
			current := maskDiff.GetBit(decomp.F - 1)
			decomp.mask.SetBit(decomp.F-1, current)

			for i := decomp.F - 1; i > 0; i-- {
				pos := i - 1
				current = maskDiff.GetBit(pos) ^ current
				decomp.mask.SetBit(pos, current)
			}
		}

		rtBit, err := reader.ReadBit()
		if err != nil {
			return nil, wrapTruncated(err, "DecompressPacket: rt")
		}
		rt = rtBit
		if ft == 0 && rt == 0 {
			return nil, errors.Wrap(ErrUnexpectedFlagCombination,
				"DecompressPacket: dt=0 with neither ft nor rt set")
		}
	}

	// Parse ut: unpredictable bits, or the uncompressed packet.

	if rt == 1 {
		literalLen, err := CountDecode(reader)
		if err != nil {
			return nil, errors.Wrap(err, "DecompressPacket: COUNT(F)")
		}
		if literalLen != decomp.F {
			return nil, errors.Wrapf(ErrUnexpectedFlagCombination,
				"DecompressPacket: rt=1 literal length %d does not match packet length %d", literalLen, decomp.F)
		}

		for i := 0; i < decomp.F; i++ {
			bit, err := reader.ReadBit()
			if err != nil {
				return nil, wrapTruncated(err, "DecompressPacket: It")
			}
			output.SetBit(i, bit)
		}
	} else {
		var extractionMask *BitVector
		if ct == 1 && Vt > 0 {
			// Matches the encoder's extractMask = Mt OR reverse(Xt)
			// (compressor.go): the full decoded robustness window, not
			// just the subset of it that happened to be a positive
			// update this packet.
			extractionMask = decomp.mask.OR(Xt)
		} else {
			extractionMask = decomp.mask.Copy()
		}

		if err := BitInsert(reader, output, extractionMask); err != nil {
			return nil, errors.Wrap(err, "DecompressPacket: BE^-1")
		}
	}

	decomp.logger.Debug().
		Int("t", decomp.t).
		Int("vt", Vt).
		Int("dt", dt).
		Int("rt", rt).
		Msg("decompressed packet")

	decomp.prevOutput.CopyFrom(output)
	decomp.t++

	return output, nil
}
