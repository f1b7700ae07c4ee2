package pocketplus

// This file implements the mask/build/change state equations of CCSDS
// 124.0-B-1 section 5.3 (equations 6-8): the three update rules the
// Compressor runs once per packet on its hot path. Every function here
// is non-allocating (the caller supplies a scratch BitVector for the
// intermediate It XOR It-1 term) so Compressor.CompressPacket never
// allocates in steady state.

// UpdateBuild advances the build vector Bt (equation 6) in place.
//
//	Bt = 0                        if t == 0 or newMaskFlag
//	Bt = (It XOR It-1) OR Bt-1     otherwise
//
// workChanges is caller-owned scratch space for It XOR It-1.
func UpdateBuild(build, inputVec, prevInput, workChanges *BitVector, newMaskFlag bool, t int) {
	if t == 0 || newMaskFlag {
		build.Zero()
		return
	}
	workChanges.XORInto(inputVec, prevInput)
	build.ORInto(workChanges, build)
}

// UpdateMask advances the mask vector Mt (equation 7) in place.
//
//	Mt = (It XOR It-1) OR Bt-1     if newMaskFlag
//	Mt = (It XOR It-1) OR Mt-1     otherwise
//
// workChanges is caller-owned scratch space for It XOR It-1; it is
// recomputed here rather than reused from UpdateBuild because UpdateBuild
// is skipped entirely at t == 0.
func UpdateMask(mask, inputVec, prevInput, buildPrev, workChanges *BitVector, newMaskFlag bool) {
	workChanges.XORInto(inputVec, prevInput)

	if newMaskFlag {
		mask.ORInto(workChanges, buildPrev)
		return
	}
	for w := 0; w < len(mask.words); w++ {
		mask.words[w] = workChanges.words[w] | mask.words[w]
	}
}

// ComputeChange derives the change vector Dt (equation 8) in place, which
// the compressor RLE-encodes (after windowing into Xt) to tell the
// decompressor how the mask moved since the last packet.
//
//	Dt = Mt           if t == 0 (M-1 is implicitly all-zero)
//	Dt = Mt XOR Mt-1   otherwise
func ComputeChange(change, mask, prevMask *BitVector, t int) {
	if t == 0 {
		change.CopyFrom(mask)
		return
	}
	change.XORInto(mask, prevMask)
}
