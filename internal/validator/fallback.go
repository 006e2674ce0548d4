package validator

// fallbackAnswers covers the most common (category, letter) pairs with one
// canonical accepted answer each. Pairs present here are decided locally,
// keeping the hot path deterministic and oracle-free.
var fallbackAnswers = map[string]map[string]string{
	"Fruit":       {"A": "Apple", "B": "Banana", "C": "Cherry"},
	"Country":     {"A": "Australia", "B": "Brazil", "C": "Canada"},
	"Animal":      {"A": "Ant", "B": "Bear", "C": "Cat"},
	"City":        {"A": "Amsterdam", "B": "Boston", "C": "Cairo"},
	"Hat":         {"A": "Aviator", "B": "Baseball cap", "C": "Cap"},
	"TV Show":     {"A": "Avatar", "B": "Breaking Bad", "C": "Cheers"},
	"Toy":         {"A": "Action Figure", "B": "Blocks", "C": "Car"},
	"Electronics": {"A": "Amplifier", "B": "Bedside alarm", "C": "Calculator"},
	"Dance":       {"A": "Allemande", "B": "Break dance", "C": "Cha-cha"},
	"Director":    {"A": "Anderson", "B": "Burton", "C": "Coppola"},
	"Star":        {"A": "Altair", "B": "Betelgeuse", "C": "Canopus"},
	"Villain":     {"A": "Ares", "B": "Bane", "C": "Catwoman"},
	"Play":        {"A": "Antigone", "B": "Becket", "C": "Cyrano"},
}

// fallbackCanonical returns the canonical answer for a pair, if the table
// covers it.
func fallbackCanonical(category, letter string) (string, bool) {
	byLetter, ok := fallbackAnswers[category]
	if !ok {
		return "", false
	}
	canonical, ok := byLetter[letter]
	return canonical, ok
}
