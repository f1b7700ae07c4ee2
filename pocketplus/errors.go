package pocketplus

import "github.com/pkg/errors"

// Error kinds surfaced by this package (CCSDS 124.0-B-1 section 6.3).
//
// Every fatal condition the codec can hit is one of these sentinels,
// wrapped with github.com/pkg/errors to carry the call-site detail a
// caller needs for a log line without losing errors.Is compatibility.
var (
	// ErrInvalidParameter covers configuration errors rejected at init:
	// F or R out of range, len(M0) != F, a period <= 0.
	ErrInvalidParameter = errors.New("pocketplus: invalid parameter")

	// ErrInputTooLarge is returned by CountEncode for a value outside
	// [1, 65535], the range the COUNT code can represent.
	ErrInputTooLarge = errors.New("pocketplus: input too large")

	// ErrOutputOverflow is returned by Decompress when a decoded packet is
	// longer than the packet size the caller declared.
	ErrOutputOverflow = errors.New("pocketplus: output buffer overflow")

	// ErrTruncatedInput is returned when the bitstream ends before a field
	// the decoder expected has been fully read.
	ErrTruncatedInput = errors.New("pocketplus: truncated input")

	// ErrMalformedCode is returned when a self-describing field decodes to
	// an impossible value: an RLE COUNT delta that walks past the start of
	// the vector.
	ErrMalformedCode = errors.New("pocketplus: malformed code")

	// ErrUnexpectedFlagCombination is returned when the dt/ft/rt flags
	// decoded from the stream are mutually inconsistent, including a
	// literal-packet marker whose value doesn't match the configured
	// packet length.
	ErrUnexpectedFlagCombination = errors.New("pocketplus: unexpected flag combination")
)

// wrapTruncated reports a bitstream read failure as ErrTruncatedInput,
// with the underlying BitReader error (typically ErrEOF) included only in
// the message text: errors.Is matches ErrTruncatedInput, not that error.
func wrapTruncated(cause error, field string) error {
	return errors.Wrapf(ErrTruncatedInput, "%s: %v", field, cause)
}

// wrapMalformed reports a self-describing field that decoded to an
// impossible value.
func wrapMalformed(field string, detail string) error {
	return errors.Wrapf(ErrMalformedCode, "%s: %s", field, detail)
}
