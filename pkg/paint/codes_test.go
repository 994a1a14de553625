package paint

import "testing"

func TestDecodeCode_ShortCodes(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"4", 0},
		{"8", 1},
		{"0C", 2},
		{"C0", 2},
		{"1C", 3},
		{"C1", 3},
		{"7C", 9},
		{"C7", 9},
		{"9C", 11}, // generalized digit/C pairing
		{"C9", 11},
		{"0c", 2}, // case-insensitive
		{"c3", 5},
		{" 8 ", 1}, // surrounding whitespace
		{"ZZ", 0},  // unknown short code defaults to base
		{"F", 0},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := DecodeCode(tt.code); got != tt.want {
				t.Errorf("DecodeCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestDecodeCode_NibblePairExtension(t *testing.T) {
	// 9C is not in the short-code table; inside a digest the pair votes
	// for index 2+9 in either nibble order.
	if got := DecodeCode("9C9C8"); got != 11 {
		t.Errorf("DecodeCode(9C9C8) = %d, want 11", got)
	}
	if got := DecodeCode("C9C98"); got != 11 {
		t.Errorf("DecodeCode(C9C98) = %d, want 11", got)
	}
	// One 9C vote against one 8 vote is a tie, which resolves to the
	// smaller index.
	if got := DecodeCode("9C8"); got != 1 {
		t.Errorf("DecodeCode(9C8) = %d, want 1", got)
	}
}

func TestDecodeCode_Digests(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"all extruder 2", "888", 1},
		{"base only", "000400", 0},
		{"noise threes count as base", "333", 0},
		{"mixed favors painted", "0008003880003880", 1},
		{"pair beats singles", "1C1C1C88", 3},
		{"standalone C skipped", "CZZ", 0},
		{"tie resolves to smallest index", "881C1C", 1},
		{"unknown characters skipped", "XYZ8!", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeCode(tt.code); got != tt.want {
				t.Errorf("DecodeCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestDecodeCodes(t *testing.T) {
	got := DecodeCodes([]string{"", "8", "0C", "4"})
	want := []int{0, 1, 2, 0}

	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}
