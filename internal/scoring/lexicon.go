package scoring

import "strings"

// Lexicon holds the language-specific phrase lists the component scorers
// match against. Phrases are lowercase; multi-word phrases are matched with
// word boundaries on both ends.
type Lexicon struct {
	Language string

	// Vague phrases carry no information ("it was good").
	Vague []string
	// Template phrases look like review-site boilerplate rather than a
	// conversation.
	Template []string

	// Causal, Comparison, Consequence and Reflective mark depth: the
	// customer explains why, relates to past visits, or describes impact.
	Causal      []string
	Comparison  []string
	Consequence []string
	Reflective  []string

	// Suggestion marks actionable feedback, Measurable marks observations
	// of temperature, texture or duration, TimeWords and NumberWords mark
	// specific details.
	Suggestion  []string
	Measurable  []string
	TimeWords   []string
	NumberWords []string
}

var swedishLexicon = &Lexicon{
	Language: "sv",
	Vague: []string{
		"bra", "fint", "okej", "ok", "trevligt", "mysigt", "sådär",
		"inget speciellt", "som vanligt", "helt okej",
	},
	Template: []string{
		"bästa stället", "rekommenderar starkt", "fem stjärnor",
		"allt var perfekt", "världsklass", "kan inte klaga",
	},
	Causal: []string{
		"eftersom", "därför", "för att", "på grund av", "berodde på",
	},
	Comparison: []string{
		"jämfört med", "bättre än", "sämre än", "till skillnad från",
		"förra gången", "brukar vara",
	},
	Consequence: []string{
		"vilket gjorde", "ledde till", "resulterade i", "det gjorde att",
		"så jag slapp", "så jag fick",
	},
	Reflective: []string{
		"jag kände", "det kändes", "jag upplevde", "jag uppskattade",
		"jag tänkte", "betydde mycket",
	},
	Suggestion: []string{
		"borde", "skulle kunna", "föreslår", "önskar", "vore bra om",
		"kan förbättras", "behöver fler",
	},
	Measurable: []string{
		"kall", "kallt", "varm", "varmt", "ljummen", "ljummet", "seg",
		"segt", "torr", "torrt", "krispig", "färsk", "färskt", "gammal",
		"minut", "minuter", "sekunder", "grader", "timme", "halvtimme",
	},
	TimeWords: []string{
		"idag", "igår", "imorse", "lunchtid", "frukost", "morgonen",
		"eftermiddagen", "kvällen", "helgen", "måndag", "tisdag",
		"onsdag", "torsdag", "fredag", "lördag", "söndag",
	},
	NumberWords: []string{
		"två", "tre", "fyra", "fem", "sex", "sju", "åtta", "nio", "tio",
		"halv", "kvart", "dussin",
	},
}

var englishLexicon = &Lexicon{
	Language: "en",
	Vague: []string{
		"good", "nice", "fine", "okay", "ok", "great", "alright",
		"not bad", "as usual", "nothing special",
	},
	Template: []string{
		"best place ever", "highly recommend", "five stars",
		"everything was perfect", "world class", "can't complain",
	},
	Causal: []string{
		"because", "since", "due to", "the reason", "that's why",
	},
	Comparison: []string{
		"compared to", "better than", "worse than", "unlike",
		"last time", "usually",
	},
	Consequence: []string{
		"which made", "led to", "resulted in", "so that", "ended up",
	},
	Reflective: []string{
		"i felt", "it felt", "i noticed", "i appreciated", "i thought",
		"meant a lot",
	},
	Suggestion: []string{
		"should", "could", "suggest", "wish", "would be better",
		"recommend adding", "needs more",
	},
	Measurable: []string{
		"cold", "warm", "lukewarm", "hot", "chewy", "dry", "crispy",
		"fresh", "stale", "soggy", "minute", "minutes", "seconds",
		"degrees", "hour", "hours",
	},
	TimeWords: []string{
		"today", "yesterday", "this morning", "at lunch", "breakfast",
		"afternoon", "evening", "weekend", "monday", "tuesday",
		"wednesday", "thursday", "friday", "saturday", "sunday",
	},
	NumberWords: []string{
		"two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "half", "quarter", "dozen", "couple",
	},
}

// lexiconFor selects the lexicon for a business language tag. Unknown
// languages fall back to English.
func lexiconFor(language string) *Lexicon {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "sv", "sv-se", "swedish":
		return swedishLexicon
	default:
		return englishLexicon
	}
}
