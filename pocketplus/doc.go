// Package pocketplus implements the CCSDS 124.0-B-1 POCKET+ lossless
// compression algorithm for fixed-length spacecraft housekeeping data.
//
// Consecutive housekeeping packets typically differ in only a handful of
// bits: POCKET+ tracks which bit positions have stayed constant long
// enough to predict (the mask) and sends only the unpredictable
// remainder, with a periodic uncompressed packet so a decoder that joins
// mid-stream (or loses packets) can resynchronize.
//
// Compressor and Decompressor hold the per-stream state; the package
// also exposes a Compress/Decompress pair for the common case of driving
// one over an entire byte slice at once:
//
//	compressed, err := pocketplus.Compress(data, packetSize, robustness, pt, ft, rt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	original, err := pocketplus.Decompress(compressed, packetSize, robustness)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For the full algorithm, see CCSDS 124.0-B-1: https://ccsds.org/Pubs/124x0b1.pdf
package pocketplus
