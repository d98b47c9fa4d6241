package search

// fillerWords holds English and Spanish words that carry no search value.
var fillerWords = toSet(
	// English
	"the", "be", "to", "is", "of", "and", "or", "a", "in", "it", "i", "you",
	"he", "she", "we", "they", "my", "your", "his", "her", "its", "our", "their",
	"mine", "yours", "hers", "ours", "theirs", "this", "that", "these", "those",
	"am", "are", "was", "were", "have", "has", "had", "do", "does", "did", "can",
	"could", "will", "would", "shall", "should", "may", "might", "must", "off",
	"by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "under", "over", "around",
	"throughout", "up", "down", "upon", "toward", "aboard", "along", "amid",
	"among", "beside", "beyond", "concerning", "considering", "despite",
	"except", "inside", "outside", "regarding", "respecting", "towards",
	"beneath", "betwixt", "past", "pending", "till", "via", "worth", "-",

	// Spanish
	"en", "el", "la", "las", "es", "de", "y", "o", "lo", "los", "yo", "tú", "él",
	"ella", "nosotros", "vosotros", "ellos", "ellas", "mi", "tu", "su", "nuestro",
	"vuestro", "suyo", "mío", "tuyo", "este", "ese", "aquel", "esta", "esa",
	"aquella", "estos", "esos", "aquellos", "estas", "esas", "aquellas", "soy",
	"eres", "somos", "sois", "son", "fui", "fuiste", "fue", "fuimos", "fuisteis",
	"fueron", "era", "eras", "éramos", "erais", "eran", "ha", "hemos", "habéis",
	"han", "hago", "haces", "hace", "hacemos", "hacéis", "hacen", "haré",
	"harás", "hará", "haremos", "haréis", "harán", "puedo", "puedes", "puede",
	"podemos", "podéis", "pueden", "podrás", "podrá", "podremos", "podréis",
	"podrán", "debo", "debes", "debe", "debemos", "debéis", "deben", "deberás",
	"deberá", "deberemos", "deberéis", "deberán", "podría", "podrías",
	"podríamos", "podríais", "podrían", "mis", "para", "un", "s",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
