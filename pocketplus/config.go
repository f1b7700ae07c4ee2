package pocketplus

import "github.com/pkg/errors"

// MaxPacketBits is the largest packet length (section 6.2: 1 <= F <=
// 65535) the wire format can represent: F itself is COUNT-encoded as
// the literal-packet length in the rt=1 path, and COUNT's value field
// tops out at 65535.
const MaxPacketBits = 65535

// CompressorConfig bundles the construction-time parameters of a
// Compressor: the packet length, the seed mask, the robustness window,
// and the three scheduling periods that drive its internal Scheduler.
type CompressorConfig struct {
	F  int        // packet length in bits
	M0 *BitVector // seed mask, must have length F; nil means all-zero
	R  int        // robustness window, 0-7

	Lp int // new_mask period, must be > 0
	Lf int // send_mask period, must be > 0
	Lr int // uncompressed period, must be > 0
}

// Validate checks a CompressorConfig against the constraints CCSDS
// 124.0-B-1 places on F, R, M0 and the scheduling periods before a
// Compressor is built from it. Section 6.2 requires each period to be
// > 0; section 7 lists "period <= 0" as a configuration error to reject
// at init, not a scheduling rule to interpret permissively.
func (c *CompressorConfig) Validate() error {
	if c.F <= 0 || c.F > MaxPacketBits {
		return errors.Wrapf(ErrInvalidParameter, "CompressorConfig: F must be between 1 and %d", MaxPacketBits)
	}
	if c.R < 0 || c.R > MaxRobustness {
		return errors.Wrapf(ErrInvalidParameter, "CompressorConfig: R must be between 0 and %d", MaxRobustness)
	}
	if c.M0 != nil && c.M0.length != c.F {
		return errors.Wrap(ErrInvalidParameter, "CompressorConfig: M0 length must equal F")
	}
	if c.Lp <= 0 {
		return errors.Wrap(ErrInvalidParameter, "CompressorConfig: Lp must be positive")
	}
	if c.Lf <= 0 {
		return errors.Wrap(ErrInvalidParameter, "CompressorConfig: Lf must be positive")
	}
	if c.Lr <= 0 {
		return errors.Wrap(ErrInvalidParameter, "CompressorConfig: Lr must be positive")
	}
	return nil
}

// DecompressorConfig bundles the construction-time parameters of a
// Decompressor. It mirrors CompressorConfig minus the scheduling
// periods, which the decompressor never needs: it only ever follows
// what the compressed stream tells it.
type DecompressorConfig struct {
	F  int
	M0 *BitVector
	R  int
}

// Validate checks a DecompressorConfig the same way CompressorConfig
// does.
func (c *DecompressorConfig) Validate() error {
	if c.F <= 0 || c.F > MaxPacketBits {
		return errors.Wrapf(ErrInvalidParameter, "DecompressorConfig: F must be between 1 and %d", MaxPacketBits)
	}
	if c.R < 0 || c.R > MaxRobustness {
		return errors.Wrapf(ErrInvalidParameter, "DecompressorConfig: R must be between 0 and %d", MaxRobustness)
	}
	if c.M0 != nil && c.M0.length != c.F {
		return errors.Wrap(ErrInvalidParameter, "DecompressorConfig: M0 length must equal F")
	}
	return nil
}
