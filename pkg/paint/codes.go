// Package paint decodes slicer paint_color codes and turns per-triangle
// paint into per-vertex colors.
//
// The encoding is the one used by Bambu Studio, OrcaSlicer, Snapmaker
// Orca and compatible slicers: numbers read right-to-left in hex, where
// 0/4 mean extruder 1, 8 means extruder 2, and C paired with a digit
// means extruder 3 and up.
package paint

import "strings"

// codeMap maps known short paint codes to palette/extruder indices.
// Both nibble orders (0C and C0) are listed because vendors disagree on
// which way the pair is written.
var codeMap = map[string]int{
	"0":  0, // base / extruder 1
	"4":  0, // extruder 1
	"8":  1, // extruder 2
	"0C": 2, "C0": 2, // extruder 3
	"1C": 3, "C1": 3, // extruder 4
	"2C": 4, "C2": 4, // extruder 5
	"3C": 5, "C3": 5, // extruder 6
	"4C": 6, "C4": 6, // extruder 7
	"5C": 7, "C5": 7, // extruder 8
	"6C": 8, "C6": 8, // extruder 9
	"7C": 9, "C7": 9, // extruder 10
}

// DecodeCode decodes a paint_color attribute value to a palette index.
// It is total: unknown or empty input decodes to 0 (base color).
//
// Short codes ("8", "0C") resolve through the code table, with dC/Cd
// pairs generalized to index 2+d for any decimal digit d. Longer
// strings are sub-triangle paint digests; those are scanned for nibble
// pairs and single nibbles, each contributing one vote, and the most
// frequent non-base index wins. Tied non-base indices resolve to the
// smallest index so results are reproducible across runs.
func DecodeCode(code string) int {
	if code == "" {
		return 0
	}

	code = strings.ToUpper(strings.TrimSpace(code))

	if idx, ok := codeMap[code]; ok {
		return idx
	}
	if len(code) == 2 {
		if idx, ok := pairIndex(code); ok {
			return idx
		}
	}
	if len(code) <= 2 {
		// Unknown short code, default to base rather than guessing.
		return 0
	}

	return decodeDigest(code)
}

// DecodeCodes decodes one paint code per triangle. Missing paint is
// passed as the empty string.
func DecodeCodes(codes []string) []int {
	indices := make([]int, len(codes))
	for i, code := range codes {
		indices[i] = DecodeCode(code)
	}
	return indices
}

// pairIndex resolves a two-character code: the short-code table first,
// then the generalized digit/C pairing (9C and C9 both mean 2+9).
func pairIndex(pair string) (int, bool) {
	if idx, ok := codeMap[pair]; ok {
		return idx, true
	}
	if isDigit(pair[0]) && pair[1] == 'C' {
		return 2 + int(pair[0]-'0'), true
	}
	if pair[0] == 'C' && isDigit(pair[1]) {
		return 2 + int(pair[1]-'0'), true
	}
	return 0, false
}

// decodeDigest scans a long sub-triangle paint string and returns the
// dominant palette index.
func decodeDigest(code string) int {
	votes := make(map[int]int)

	i := 0
	for i < len(code) {
		if i+1 < len(code) {
			if idx, ok := pairIndex(code[i : i+2]); ok {
				votes[idx]++
				i += 2
				continue
			}
		}

		switch code[i] {
		case '0', '4':
			votes[0]++
		case '8':
			votes[1]++
		case '3':
			// '3' shows up inside combined nibbles but never as a
			// standalone color code; count it as base noise.
			votes[0]++
		}
		// Anything else, including a C without a digit neighbor,
		// contributes no vote.
		i++
	}

	return dominantIndex(votes)
}

// dominantIndex picks the most frequent non-zero index, ties going to
// the smallest index. Only-base or empty votes resolve to 0.
func dominantIndex(votes map[int]int) int {
	best, bestCount := 0, 0
	for idx, count := range votes {
		if idx == 0 {
			continue
		}
		if count > bestCount || (count == bestCount && idx < best) {
			best, bestCount = idx, count
		}
	}
	if bestCount == 0 {
		return 0
	}
	return best
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
