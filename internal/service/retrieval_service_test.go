package service

import "testing"

func containsKeyword(keywords []string, want string) bool {
	for _, kw := range keywords {
		if kw == want {
			return true
		}
	}
	return false
}

func TestExtractKeywordsLiftsNumericUnitRuns(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "seats inside a sentence",
			query: "有7人座的嗎",
			want:  []string{"7人座"},
		},
		{
			name:  "ideographic seats normalize to both renderings",
			query: "請問有五人座的休旅車嗎",
			want:  []string{"5人座"},
		},
		{
			name:  "year and price",
			query: "2021年的車大概85萬嗎",
			want:  []string{"2021年", "85萬"},
		},
		{
			name:  "mileage",
			query: "里程40000公里算多嗎",
			want:  []string{"40000公里"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords := extractKeywords(tt.query)
			for _, want := range tt.want {
				if !containsKeyword(keywords, want) {
					t.Errorf("extractKeywords(%q) = %v, missing %q", tt.query, keywords, want)
				}
			}
		})
	}
}

func TestExtractKeywordsDeduplicatesAndKeepsFullQuery(t *testing.T) {
	keywords := extractKeywords("7人座 7人座")

	if !containsKeyword(keywords, "7人座") {
		t.Fatalf("token missing from %v", keywords)
	}
	count := 0
	for _, kw := range keywords {
		if kw == "7人座" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("keyword duplicated %d times in %v", count, keywords)
	}
}
