package pocketplus

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Constants bounding the compressor's fixed-size history buffers.
const (
	MaxHistory    = 16 // history depth for change vectors
	MaxVtHistory  = 16 // history size for Vt calculation
	MaxRobustness = 7  // maximum robustness level
)

// CompressorOption configures a Compressor at construction time.
type CompressorOption func(*Compressor)

// WithLogger attaches a zerolog.Logger to a Compressor. Without this
// option a Compressor logs nothing.
func WithLogger(logger zerolog.Logger) CompressorOption {
	return func(comp *Compressor) {
		comp.logger = logger
	}
}

// Compressor maintains state for POCKET+ compression across a sequence
// of fixed-length packets. A single Compressor is not safe for
// concurrent use; callers needing to compress multiple independent
// streams should build one Compressor per stream.
type Compressor struct {
	F          int // input vector length in bits
	robustness int // Rt: base robustness level (0-7)

	scheduler *Scheduler
	logger    zerolog.Logger

	// State updated each cycle.
	mask        *BitVector
	prevMask    *BitVector
	build       *BitVector
	prevInput   *BitVector
	initialMask *BitVector

	// Change history, circular buffer.
	changeHistory [MaxHistory]*BitVector
	historyIndex  int

	// Flag history for ct calculation.
	newMaskFlagHistory [MaxVtHistory]int
	flagHistoryIndex   int

	t int // cycle counter

	// Pre-allocated working buffers, avoiding per-packet allocations.
	workChange      *BitVector
	workXt          *BitVector
	workCombined    *BitVector
	workInvMask     *BitVector
	workExtractMask *BitVector
	workMaskShifted *BitVector
	workMaskDiff    *BitVector
	workChanges     *BitVector
	workOutput      *BitBuffer
}

// NewCompressor builds a Compressor from cfg, rejecting configurations
// that violate section 6.2's constraints before allocating any state.
func NewCompressor(cfg CompressorConfig, opts ...CompressorOption) (*Compressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Compressor{
		F:          cfg.F,
		robustness: cfg.R,
		scheduler:  NewScheduler(cfg.R, cfg.Lp, cfg.Lf, cfg.Lr),
		logger:     nopLogger(),
	}

	var err error
	comp.mask, err = NewBitVector(cfg.F)
	if err != nil {
		return nil, err
	}
	comp.prevMask, _ = NewBitVector(cfg.F)
	comp.build, _ = NewBitVector(cfg.F)
	comp.prevInput, _ = NewBitVector(cfg.F)
	comp.initialMask, _ = NewBitVector(cfg.F)

	for i := 0; i < MaxHistory; i++ {
		comp.changeHistory[i], _ = NewBitVector(cfg.F)
	}

	comp.workChange, _ = NewBitVector(cfg.F)
	comp.workXt, _ = NewBitVector(cfg.F)
	comp.workCombined, _ = NewBitVector(cfg.F)
	comp.workInvMask, _ = NewBitVector(cfg.F)
	comp.workExtractMask, _ = NewBitVector(cfg.F)
	comp.workMaskShifted, _ = NewBitVector(cfg.F)
	comp.workMaskDiff, _ = NewBitVector(cfg.F)
	comp.workChanges, _ = NewBitVector(cfg.F)
	comp.workOutput = NewBitBuffer()

	if cfg.M0 != nil {
		comp.initialMask.CopyFrom(cfg.M0)
		comp.mask.CopyFrom(cfg.M0)
	}

	for _, opt := range opts {
		opt(comp)
	}

	comp.Reset()

	return comp, nil
}

// Reset returns the compressor to its just-constructed state: t goes
// back to 0, the mask resets to the configured seed, and every history
// buffer is cleared.
func (comp *Compressor) Reset() {
	comp.t = 0
	comp.historyIndex = 0

	comp.mask.CopyFrom(comp.initialMask)
	comp.prevMask.Zero()

	comp.build.Zero()
	comp.prevInput.Zero()

	for i := 0; i < MaxHistory; i++ {
		comp.changeHistory[i].Zero()
	}

	for i := 0; i < MaxVtHistory; i++ {
		comp.newMaskFlagHistory[i] = 0
	}
	comp.flagHistoryIndex = 0
}

// CompressPacket compresses a single F-bit input packet, returning the
// byte-padded bitstring ot = ht || qt || ut. The new_mask/send_mask/
// uncompressed flags for this packet are derived internally from the
// Compressor's Scheduler; callers never supply them directly.
func (comp *Compressor) CompressPacket(input *BitVector) ([]byte, error) {
	if input == nil || input.length != comp.F {
		return nil, errors.Wrap(ErrInvalidParameter, "CompressPacket: input must be non-nil and match F length")
	}

	newMaskFlag, sendMaskFlag, uncompressedFlag := comp.scheduler.Next(comp.t)

	comp.logger.Debug().
		Int("t", comp.t).
		Bool("new_mask", newMaskFlag).
		Bool("send_mask", sendMaskFlag).
		Bool("uncompressed", uncompressedFlag).
		Msg("scheduled packet flags")

	comp.workOutput.Clear()
	output := comp.workOutput

	// STEP 1: update mask and build vectors (CCSDS section 4).

	comp.prevMask.CopyFrom(comp.mask)
	prevMask := comp.prevMask

	comp.workCombined.CopyFrom(comp.build)
	prevBuild := comp.workCombined

	if comp.t > 0 {
		UpdateBuild(comp.build, input, comp.prevInput, comp.workChanges, newMaskFlag, comp.t)
		UpdateMask(comp.mask, input, comp.prevInput, prevBuild, comp.workChanges, newMaskFlag)
	}

	change := comp.workChange
	ComputeChange(change, comp.mask, prevMask, comp.t)

	comp.changeHistory[comp.historyIndex].CopyFrom(change)

	// STEP 2: encode ot = ht || qt || ut (CCSDS section 5.3).

	Xt := comp.computeRobustnessWindowInto(change, comp.workXt)
	Vt := comp.computeEffectiveRobustness()

	var dt int
	if !sendMaskFlag && !uncompressedFlag {
		dt = 1
	}

	// Component ht: RLE(Xt) || BIT4(Vt) || et || kt || ct || dt.

	if err := RLEEncode(output, Xt); err != nil {
		return nil, errors.Wrap(err, "CompressPacket: RLE(Xt)")
	}
	output.AppendValue(uint64(Vt), 4)

	if Vt > 0 && Xt.HammingWeight() > 0 {
		et := hasPositiveUpdates(Xt, comp.mask)
		output.AppendBit(et)

		if et != 0 {
			invertedMask := comp.workInvMask
			for j := 0; j < comp.mask.length; j++ {
				if comp.mask.GetBit(j) == 0 {
					invertedMask.SetBit(j, 1)
				} else {
					invertedMask.SetBit(j, 0)
				}
			}
			if err := BitExtractForward(output, invertedMask, Xt); err != nil {
				return nil, errors.Wrap(err, "CompressPacket: kt")
			}

			ct := comp.computeCtFlag(Vt, newMaskFlag)
			output.AppendBit(ct)
		}
	}

	output.AppendBit(dt)

	// Component qt: empty if dt=1, '1' || RLE(M XOR (M<<)) if sendMaskFlag, '0' otherwise.

	if dt == 0 {
		if sendMaskFlag {
			output.AppendBit(1)
			leftShiftInto(comp.workMaskShifted, comp.mask)
			comp.workMaskDiff.XORInto(comp.mask, comp.workMaskShifted)
			if err := RLEEncode(output, comp.workMaskDiff); err != nil {
				return nil, errors.Wrap(err, "CompressPacket: RLE(qt)")
			}
		} else {
			output.AppendBit(0)
		}
	}

	// Component ut: unpredictable bits, or the uncompressed packet.

	if uncompressedFlag {
		output.AppendBit(1)
		if err := CountEncode(output, comp.F); err != nil {
			return nil, errors.Wrap(err, "CompressPacket: COUNT(F)")
		}
		output.AppendBitVector(input)
	} else {
		if dt == 0 {
			output.AppendBit(0)
		}

		ct := comp.computeCtFlag(Vt, newMaskFlag)

		if ct != 0 && Vt > 0 {
			comp.workExtractMask.ORInto(comp.mask, Xt)
			if err := BitExtract(output, input, comp.workExtractMask); err != nil {
				return nil, errors.Wrap(err, "CompressPacket: BE(It, Xt|Mt)")
			}
		} else {
			if err := BitExtract(output, input, comp.mask); err != nil {
				return nil, errors.Wrap(err, "CompressPacket: BE(It, Mt)")
			}
		}
	}

	// STEP 3: advance state for the next cycle.

	comp.prevInput.CopyFrom(input)
	comp.prevMask.CopyFrom(comp.mask)

	if newMaskFlag {
		comp.newMaskFlagHistory[comp.flagHistoryIndex] = 1
	} else {
		comp.newMaskFlagHistory[comp.flagHistoryIndex] = 0
	}
	comp.flagHistoryIndex = (comp.flagHistoryIndex + 1) % MaxVtHistory

	comp.t++
	comp.historyIndex = (comp.historyIndex + 1) % MaxHistory

	return output.ToBytes(), nil
}

// computeRobustnessWindowInto computes Xt, the OR of the current change
// vector with up to robustness prior ones, into dst.
func (comp *Compressor) computeRobustnessWindowInto(currentChange, dst *BitVector) *BitVector {
	dst.CopyFrom(currentChange)

	if comp.robustness == 0 || comp.t == 0 {
		return dst
	}

	numChanges := comp.t
	if comp.robustness < numChanges {
		numChanges = comp.robustness
	}

	for i := 1; i <= numChanges; i++ {
		histIdx := (comp.historyIndex + MaxHistory - i) % MaxHistory
		hist := comp.changeHistory[histIdx]
		for w := 0; w < len(dst.words); w++ {
			dst.words[w] |= hist.words[w]
		}
	}

	return dst
}

// computeEffectiveRobustness computes Vt = Rt + Ct (section 5.3): Ct
// counts consecutive silent packets strictly after the robustness
// window, capped so Vt fits the 4-bit wire field.
func (comp *Compressor) computeEffectiveRobustness() int {
	Rt := comp.robustness
	Vt := Rt

	if comp.t > Rt {
		Ct := 0

		maxI := MaxHistory - 1
		if comp.t < maxI {
			maxI = comp.t
		}

		for i := Rt + 1; i <= maxI; i++ {
			histIdx := (comp.historyIndex + MaxHistory - i) % MaxHistory
			if comp.changeHistory[histIdx].HammingWeight() > 0 {
				break
			}
			Ct++
			if Ct >= 15-Rt {
				break
			}
		}

		Vt = Rt + Ct
		if Vt > 15 {
			Vt = 15
		}
	}

	return Vt
}

// computeCtFlag reports whether the new_mask flag was set two or more
// times across this packet and the Vt packets before it (fewer when t <
// Vt), signalling multiple mask updates within the effective robustness
// window.
func (comp *Compressor) computeCtFlag(Vt int, currentNewMaskFlag bool) int {
	if Vt == 0 {
		return 0
	}

	count := 0
	if currentNewMaskFlag {
		count++
	}

	iterationsToCheck := Vt
	if comp.t < iterationsToCheck {
		iterationsToCheck = comp.t
	}

	for i := 0; i < iterationsToCheck; i++ {
		histIdx := (comp.flagHistoryIndex + MaxVtHistory - 1 - i) % MaxVtHistory
		if comp.newMaskFlagHistory[histIdx] != 0 {
			count++
		}
	}

	if count >= 2 {
		return 1
	}
	return 0
}

// hasPositiveUpdates reports whether et should be set: any bit flagged
// in Xt that the mask currently predicts (mask bit 0) is a positive
// update.
func hasPositiveUpdates(Xt, mask *BitVector) int {
	for i := 0; i < Xt.length; i++ {
		if Xt.GetBit(i) != 0 && mask.GetBit(i) == 0 {
			return 1
		}
	}
	return 0
}
