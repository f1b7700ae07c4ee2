package pocketplus

import "github.com/pkg/errors"

// Version is the current version of this implementation.
const Version = "1.0.0"

// Compress drives a Compressor over data, a flat byte slice holding a
// whole number of fixed-length packets (packetSize bytes each, so F =
// packetSize*8 bits), and returns the concatenated, byte-aligned
// compressed stream (section 6.1: no stream-level header). pt, ft and
// rt are the Scheduler's new_mask/send_mask/uncompressed periods in
// packets; a seed mask of all zeros is used, matching the teacher CLI's
// behavior of never taking one from the caller.
func Compress(data []byte, packetSize, robustness, pt, ft, rt int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if packetSize <= 0 {
		return nil, errors.Wrap(ErrInvalidParameter, "Compress: packetSize must be positive")
	}
	if len(data)%packetSize != 0 {
		return nil, errors.Wrap(ErrInvalidParameter, "Compress: data length must be a multiple of packetSize")
	}

	cfg := CompressorConfig{F: packetSize * 8, R: robustness, Lp: pt, Lf: ft, Lr: rt}
	comp, err := NewCompressor(cfg)
	if err != nil {
		return nil, err
	}

	numPackets := len(data) / packetSize
	packet, err := NewBitVector(cfg.F)
	if err != nil {
		return nil, err
	}

	out := NewBitBuffer()
	for i := 0; i < numPackets; i++ {
		packet.FromBytes(data[i*packetSize : (i+1)*packetSize])

		bits, err := comp.CompressPacket(packet)
		if err != nil {
			return nil, errors.Wrapf(err, "Compress: packet %d", i)
		}

		out.AppendBits(bits, len(bits)*8)
	}

	return out.ToBytes(), nil
}

// Decompress drives a Decompressor over data, a POCKET+ compressed
// stream produced by Compress, and returns the reconstructed flat byte
// slice. packetSize and robustness must match the values Compress was
// called with.
func Decompress(data []byte, packetSize, robustness int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if packetSize <= 0 {
		return nil, errors.Wrap(ErrInvalidParameter, "Decompress: packetSize must be positive")
	}

	cfg := DecompressorConfig{F: packetSize * 8, R: robustness}
	decomp, err := NewDecompressor(cfg)
	if err != nil {
		return nil, err
	}

	reader := NewBitReader(data)
	out := make([]byte, 0, len(data))

	for reader.Remaining() > 0 {
		packet, err := decomp.DecompressPacket(reader)
		if err != nil {
			return nil, errors.Wrap(err, "Decompress")
		}

		packetBytes := packet.ToBytes()
		if len(packetBytes) > packetSize {
			return nil, errors.Wrapf(ErrOutputOverflow,
				"Decompress: decoded packet of %d bytes exceeds packetSize %d", len(packetBytes), packetSize)
		}
		if len(packetBytes) < packetSize {
			padded := make([]byte, packetSize)
			copy(padded, packetBytes)
			packetBytes = padded
		}
		out = append(out, packetBytes...)

		reader.AlignByte()
	}

	return out, nil
}
