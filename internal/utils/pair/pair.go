package pair

// Canonicalize orders an unordered user pair as (low, high) by user ID.
// Match and Thread rows are always stored under this ordering, which is
// what guarantees at most one row per pair regardless of which side
// acted first.
func Canonicalize(x, y uint64) (a, b uint64) {
	if x > y {
		return y, x
	}
	return x, y
}

// IsA reports whether userID occupies the "a" (lower-ID) side of a
// canonical pair.
func IsA(userID, aID uint64) bool {
	return userID == aID
}
