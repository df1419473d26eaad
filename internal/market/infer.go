package market

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// categoryAliases maps localized category names onto the canonical
// category groups used by the inference rules.
var categoryAliases = map[string]string{
	"crypto":   "crypto",
	"kripto":   "crypto",
	"currency": "currency",
	"doviz":    "currency",
	"gold":     "gold",
	"altin":    "gold",
}

// CategoryGroup normalizes a free-text category ("Kripto", "döviz", ...)
// into its canonical group. Unknown categories pass through normalized.
func CategoryGroup(category string) string {
	normalized := normalizeText(category)
	if group, ok := categoryAliases[normalized]; ok {
		return group
	}
	return normalized
}

// inferInput carries the raw and normalized forms of the asset name and
// category through the rule chain.
type inferInput struct {
	rawName  string
	name     string
	category string
}

// inferRule is one step of the prioritized inference chain. Rules are
// evaluated in order; the first rule that returns ok wins.
type inferRule func(in inferInput) (Key, bool)

// inferRules is ordered by priority. Category-based matches come before
// generic token scanning so that, for example, a currency named
// "Altın Dolar" resolves to USD rather than gold.
var inferRules = []inferRule{
	matchCurrencyCategory,
	matchGoldCategory,
	matchSymbolToken,
	matchFullName,
}

// Infer maps a free-text asset name and category to a canonical
// instrument key, or KeyUnknown when nothing matches. The result is
// recomputed on every call and never stored.
func Infer(name, category string) Key {
	in := inferInput{
		rawName:  name,
		name:     normalizeText(name),
		category: CategoryGroup(category),
	}
	for _, rule := range inferRules {
		if key, ok := rule(in); ok {
			return key
		}
	}
	return KeyUnknown
}

func matchCurrencyCategory(in inferInput) (Key, bool) {
	if in.category != "currency" {
		return KeyUnknown, false
	}
	switch {
	case strings.Contains(in.name, "usd") || strings.Contains(in.name, "dolar"):
		return KeyUSD, true
	case strings.Contains(in.name, "eur") || strings.Contains(in.name, "euro"):
		return KeyEUR, true
	case strings.Contains(in.name, "gbp") || strings.Contains(in.name, "sterlin"):
		return KeyGBP, true
	}
	return KeyUnknown, false
}

func matchGoldCategory(in inferInput) (Key, bool) {
	if in.category != "gold" {
		return KeyUnknown, false
	}
	switch {
	case strings.Contains(in.name, "ceyrek"):
		return KeyXAUQuarter, true
	case strings.Contains(in.name, "ons"):
		return KeyXAUOunce, true
	}
	// Gold with no finer hint trades as gram gold here.
	return KeyXAUGram, true
}

// matchSymbolToken tokenizes the raw name on non-alphanumeric boundaries
// and checks each upper-cased token against the known symbol sets.
func matchSymbolToken(in inferInput) (Key, bool) {
	tokens := strings.FieldsFunc(strings.ToUpper(in.rawName), func(r rune) bool {
		return !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	for _, token := range tokens {
		key := Key(token)
		if IsCrypto(key) {
			return key, true
		}
		if token == "XAU" {
			return KeyXAUOunce, true
		}
		switch key {
		case KeyUSD, KeyEUR, KeyGBP:
			return key, true
		}
	}
	return KeyUnknown, false
}

// nameFallbacks is scanned in order against the normalized name when no
// category or symbol rule matched.
var nameFallbacks = []struct {
	substrings []string
	key        Key
}{
	{[]string{"bitcoin"}, KeyBTC},
	{[]string{"ethereum"}, KeyETH},
	{[]string{"binance"}, KeyBNB},
	{[]string{"ripple", "xrp"}, KeyXRP},
	{[]string{"cardano"}, KeyADA},
	{[]string{"solana"}, KeySOL},
	{[]string{"ons", "xau"}, KeyXAUOunce},
	{[]string{"ceyrek"}, KeyXAUQuarter},
	{[]string{"altin", "gold"}, KeyXAUGram},
}

func matchFullName(in inferInput) (Key, bool) {
	for _, fb := range nameFallbacks {
		for _, sub := range fb.substrings {
			if strings.Contains(in.name, sub) {
				return fb.key, true
			}
		}
	}
	return KeyUnknown, false
}

// normalizeText decomposes the string (NFKD), strips combining marks and
// lower-cases the result, so "Çeyrek" becomes "ceyrek". Note the Turkish
// dotless ı has no decomposition and survives as-is.
func normalizeText(value string) string {
	decomposed := norm.NFKD.String(value)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
