package identity

import "strings"

// winklerPrefixScale is the standard Jaro-Winkler prefix scaling factor
const winklerPrefixScale = 0.1

// maxPrefixLength caps the common prefix considered by the Winkler adjustment
const maxPrefixLength = 4

// Ratio returns a case-insensitive Jaro-Winkler similarity in [0,1].
// This is a pure function with no side effects.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}

	jaro := jaroSimilarity(a, b)
	if jaro == 0 {
		return 0
	}

	// Winkler adjustment: boost strings sharing a common prefix
	prefix := 0
	runesA := []rune(a)
	runesB := []rune(b)
	for prefix < len(runesA) && prefix < len(runesB) && prefix < maxPrefixLength {
		if runesA[prefix] != runesB[prefix] {
			break
		}
		prefix++
	}

	return jaro + float64(prefix)*winklerPrefixScale*(1.0-jaro)
}

// jaroSimilarity computes the Jaro similarity of two strings
func jaroSimilarity(a, b string) float64 {
	// Convert to runes for proper Unicode handling
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 || lenB == 0 {
		return 0
	}

	matchWindow := max(lenA, lenB)/2 - 1
	if matchWindow < 0 {
		matchWindow = 0
	}

	matchedA := make([]bool, lenA)
	matchedB := make([]bool, lenB)

	matches := 0
	for i := 0; i < lenA; i++ {
		low := i - matchWindow
		if low < 0 {
			low = 0
		}
		high := i + matchWindow + 1
		if high > lenB {
			high = lenB
		}
		for j := low; j < high; j++ {
			if matchedB[j] || runesA[i] != runesB[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count transpositions between matched characters
	transpositions := 0
	j := 0
	for i := 0; i < lenA; i++ {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if runesA[i] != runesB[j] {
			transpositions++
		}
		j++
	}
	halfTranspositions := float64(transpositions) / 2.0

	m := float64(matches)
	return (m/float64(lenA) + m/float64(lenB) + (m-halfTranspositions)/m) / 3.0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
