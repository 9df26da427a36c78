package filesystem

// splitDevice decodes a raw device word: major in bits 24-31, minor in the
// low 24 bits
func splitDevice(rdev uint64) (major, minor uint32) {
	return uint32((rdev >> 24) & 0xff), uint32(rdev & 0xffffff)
}
