// Package cipher implements the Caesar rotation used by the mission tool.
package cipher

const alphabetSize = 26

// Encrypt rotates alphabetic characters by shift, preserving case.
// Non-alphabetic runes pass through unchanged. Shift must be in [0, 25].
func Encrypt(text string, shift int) string {
	out := []rune(text)
	for i, r := range out {
		switch {
		case r >= 'A' && r <= 'Z':
			out[i] = 'A' + (r-'A'+rune(shift))%alphabetSize
		case r >= 'a' && r <= 'z':
			out[i] = 'a' + (r-'a'+rune(shift))%alphabetSize
		}
	}
	return string(out)
}

// Decrypt inverts Encrypt for the same shift.
func Decrypt(text string, shift int) string {
	return Encrypt(text, (alphabetSize-shift)%alphabetSize)
}

// Reverse returns the text with its runes in reverse order.
func Reverse(text string) string {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ValidShift reports whether shift is a usable rotation amount.
func ValidShift(shift int) bool {
	return shift >= 0 && shift < alphabetSize
}
