package recommend

import "testing"

func TestCuisineRelevance(t *testing.T) {
	cases := []struct {
		keyword string
		cuisine string
		want    float64
	}{
		{"beef patty burger", "Burgers", 1},
		{"spring roll", "Burgers", 0},
		{"spring roll", "Vietnamese", 1},
		{"BURGER DEAL", "burgers", 1},
		{"pepperoni pizza promo", "Pizza", 1},
		{"chicken rice", "Martian", 0},
		{"", "Burgers", 0},
	}

	for _, tc := range cases {
		if got := CuisineRelevance(tc.keyword, tc.cuisine); got != tc.want {
			t.Fatalf("CuisineRelevance(%q, %q) = %v, want %v", tc.keyword, tc.cuisine, got, tc.want)
		}
	}
}
