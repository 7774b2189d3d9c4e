package recommend

import "strings"

// cuisineMarkers is static configuration: one curated lexical marker set per
// supported cuisine category. A keyword is relevant to a cuisine when any
// marker appears as a case-insensitive substring of the keyword text.
var cuisineMarkers = map[string][]string{
	"burgers":    {"burger", "patty", "beef", "fries", "cheeseburger"},
	"pizza":      {"pizza", "pepperoni", "margherita", "crust", "calzone"},
	"japanese":   {"sushi", "ramen", "sashimi", "tempura", "udon", "bento"},
	"chinese":    {"noodle", "dumpling", "dim sum", "fried rice", "wonton", "congee"},
	"indian":     {"curry", "biryani", "tandoori", "masala", "naan", "dosa"},
	"thai":       {"pad thai", "tom yum", "thai", "green curry", "basil"},
	"mexican":    {"taco", "burrito", "quesadilla", "nacho", "salsa"},
	"italian":    {"pasta", "spaghetti", "lasagna", "risotto", "carbonara"},
	"korean":     {"kimchi", "bibimbap", "bulgogi", "korean", "tteokbokki"},
	"vietnamese": {"pho", "banh mi", "vietnamese", "spring roll", "vermicelli"},
	"chicken":    {"chicken", "wings", "nugget", "drumstick"},
	"seafood":    {"seafood", "fish", "shrimp", "prawn", "crab", "salmon"},
	"beverages":  {"tea", "coffee", "juice", "smoothie", "boba", "latte"},
	"desserts":   {"cake", "ice cream", "dessert", "pudding", "brownie", "waffle"},
}

// CuisineRelevance returns 1 when the keyword lexically matches the cuisine's
// marker set, 0 otherwise. Unknown cuisine categories always score 0.
func CuisineRelevance(keyword, cuisine string) float64 {
	markers, ok := cuisineMarkers[strings.ToLower(strings.TrimSpace(cuisine))]
	if !ok {
		return 0
	}
	lowered := strings.ToLower(keyword)
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return 1
		}
	}
	return 0
}
