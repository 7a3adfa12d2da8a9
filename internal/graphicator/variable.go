package graphicator

import "strings"

// VariableSeed is the name of the first PGP node.
const VariableSeed = "t0"

const variableAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NextVariableName returns the variable following cur. The part after the
// leading letter counts in base 36 over 0-9a-z, carrying into a new digit
// when it overflows: t0, t1, ..., t9, ta, ..., tz, t10, t11.
func NextVariableName(cur string) string {
	if cur == "" {
		return VariableSeed
	}
	prefix, digits := cur[:1], []byte(cur[1:])

	i := len(digits) - 1
	for ; i >= 0; i-- {
		pos := strings.IndexByte(variableAlphabet, digits[i])
		if pos < 0 {
			pos = 0
		}
		if pos+1 < len(variableAlphabet) {
			digits[i] = variableAlphabet[pos+1]
			break
		}
		digits[i] = variableAlphabet[0]
	}
	if i < 0 {
		digits = append([]byte{variableAlphabet[1]}, digits...)
	}
	return prefix + string(digits)
}
