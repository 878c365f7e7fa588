package ranking

// IndelDistance returns the minimum number of single-character insertions and deletions
// needed to turn a into b.
func IndelDistance(a, b string) int {
	if a == b {
		return 0
	}

	// Convert to runes for proper Unicode handling
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Longest common subsequence, two rows at a time
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for i := 1; i <= lenA; i++ {
		curr[0] = 0
		for j := 1; j <= lenB; j++ {
			if runesA[i-1] == runesB[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return lenA + lenB - 2*prev[lenB]
}

// Ratio returns the normalized indel similarity of a and b on a 0..100 scale.
func Ratio(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	return 100 * (1 - float64(IndelDistance(a, b))/float64(total))
}

// PartialRatio returns the best Ratio of the shorter string against every window of the
// longer string with the same length.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// NameSimilarity is the larger of Ratio and PartialRatio.
func NameSimilarity(a, b string) float64 {
	return max(Ratio(a, b), PartialRatio(a, b))
}
