package utils

import "hash/fnv"

// U64ToBytes encodes u big-endian.
func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

// FingerprintString hashes s with FNV-1a.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Mix64 combines two fingerprints. Order matters.
func Mix64(a, b uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(U64ToBytes(a))
	_, _ = h.Write(U64ToBytes(b))
	return h.Sum64()
}

// Fingerprint folds parts, in order, into one value. Each part is hashed on its
// own so that ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...string) uint64 {
	var acc uint64
	for _, p := range parts {
		acc = Mix64(acc, FingerprintString(p))
	}
	return acc
}
