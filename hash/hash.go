// Package hash implements the fast modular hash used to bucket names and sample ids.
package hash

// Hash mixes n with the salt s and reduces the result into [0, max).
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mix the salt in by subtraction
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	m += s

	// Lemire's multiply shift reduction instead of a modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// String folds s four bytes at a time through Hash into a 32 bit state.
func String(s string, salt uint32) uint32 {
	var state = salt ^ uint32(len(s))
	var word uint32
	for i := 0; i < len(s); i++ {
		word = word<<8 | uint32(s[i])
		if i&3 == 3 {
			state = Hash(state^word, salt+uint32(i), 0xffffffff)
			word = 0
		}
	}
	return Hash(state^word, salt+uint32(len(s)), 0xffffffff)
}

// Bucket maps s into one of max buckets.
func Bucket(s string, salt uint32, max uint32) uint32 {
	return Hash(String(s, salt), salt, max)
}
