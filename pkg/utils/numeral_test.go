package utils

import "testing"

func TestNumeralVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no numerals",
			text: "休旅車有天窗嗎",
			want: []string{"休旅車有天窗嗎"},
		},
		{
			name: "ideographic to arabic",
			text: "五人座休旅車",
			want: []string{"五人座休旅車", "5人座休旅車"},
		},
		{
			name: "arabic to ideographic",
			text: "7人座",
			want: []string{"7人座", "七人座"},
		},
		{
			name: "ten expands both ways",
			text: "保固十年",
			want: []string{"保固十年", "保固10年"},
		},
		{
			name: "arabic ten",
			text: "10萬公里",
			want: []string{"10萬公里", "十萬公里"},
		},
		{
			name: "mixed forms produce both variants",
			text: "3年或五萬公里",
			want: []string{"3年或五萬公里", "3年或5萬公里", "三年或五萬公里"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NumeralVariants(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("NumeralVariants(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("variant[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNumeralVariantsRoundTripStable(t *testing.T) {
	// Re-normalizing an already-normalized variant must not invent new forms
	// beyond the two renderings.
	for _, v := range NumeralVariants("五人座") {
		again := NumeralVariants(v)
		if len(again) > 2 {
			t.Errorf("NumeralVariants(%q) produced %d variants: %v", v, len(again), again)
		}
	}
}
