package services

import (
	"strings"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// GazetteerEntry is one known term with its type, category, and the
// confidence assigned to dictionary hits.
type GazetteerEntry struct {
	Type       entities.MentionType
	Category   string
	Confidence float64
	Words      int
}

// Gazetteer holds the category lexicons used by dictionary-layer extraction,
// the tag taxonomy, the heuristic type cues, and the sentiment lexicons.
// All terms are indexed under their normalized form so lookups and surface
// text go through the same canonicalization.
type Gazetteer struct {
	terms    map[string]GazetteerEntry
	maxWords int
	tagTypes map[string]entities.MentionType
	cues     map[string]entities.MentionType
	positive map[string]struct{}
	negative map[string]struct{}
	resolver *Resolver
}

// NewGazetteer builds the gazetteer index using the given resolver for
// canonicalization.
func NewGazetteer(resolver *Resolver) *Gazetteer {
	g := &Gazetteer{
		terms:    make(map[string]GazetteerEntry),
		tagTypes: make(map[string]entities.MentionType),
		cues:     make(map[string]entities.MentionType),
		positive: make(map[string]struct{}),
		negative: make(map[string]struct{}),
		resolver: resolver,
	}

	g.addAll(countryTerms, entities.TypePlace, "country", 0.9)
	g.addAll(cityTerms, entities.TypePlace, "city", 0.9)
	g.addAll(landmarkTerms, entities.TypePlace, "landmark", 0.8)
	g.addAll(transportTerms, entities.TypeTransport, "transport", 0.85)
	g.addAll(foodTerms, entities.TypeFood, "food", 0.85)
	g.addAll(activityTerms, entities.TypeActivity, "activity", 0.8)
	g.addAll(culturalTerms, entities.TypeCultural, "culture", 0.8)
	g.addAll(eventTerms, entities.TypeEvent, "event", 0.85)
	g.addAll(organizationTerms, entities.TypeOrganization, "organization", 0.85)

	for tag, t := range tagTaxonomy {
		g.tagTypes[resolver.Normalize(tag)] = t
	}
	for cue, t := range contextCues {
		g.cues[resolver.Normalize(cue)] = t
	}
	for _, w := range positiveTerms {
		g.positive[resolver.Normalize(w)] = struct{}{}
	}
	for _, w := range negativeTerms {
		g.negative[resolver.Normalize(w)] = struct{}{}
	}

	return g
}

func (g *Gazetteer) addAll(terms []string, t entities.MentionType, category string, confidence float64) {
	for _, term := range terms {
		key := g.resolver.Normalize(term)
		if key == "" {
			continue
		}
		words := len(strings.Fields(key))
		if words > g.maxWords {
			g.maxWords = words
		}
		// First writer wins so more specific categories registered
		// earlier are not overwritten.
		if _, exists := g.terms[key]; !exists {
			g.terms[key] = GazetteerEntry{Type: t, Category: category, Confidence: confidence, Words: words}
		}
	}
}

// Lookup returns the entry for a normalized phrase.
func (g *Gazetteer) Lookup(normalized string) (GazetteerEntry, bool) {
	e, ok := g.terms[normalized]
	return e, ok
}

// MaxWords returns the longest phrase length in the index.
func (g *Gazetteer) MaxWords() int {
	if g.maxWords < 1 {
		return 1
	}
	return g.maxWords
}

// TagType infers a mention type for a declared document tag. Tags outside the
// taxonomy fall back to a gazetteer lookup, then to TypeThing.
func (g *Gazetteer) TagType(tag string) entities.MentionType {
	key := g.resolver.Normalize(tag)
	if t, ok := g.tagTypes[key]; ok {
		return t
	}
	if e, ok := g.terms[key]; ok {
		return e.Type
	}
	return entities.TypeThing
}

// CueType returns the mention type suggested by a nearby context word.
func (g *Gazetteer) CueType(normalized string) (entities.MentionType, bool) {
	t, ok := g.cues[normalized]
	return t, ok
}

// ScanSentiment classifies a context window with the positive/negative
// lexicons. Ties and empty windows are neutral.
func (g *Gazetteer) ScanSentiment(window string) entities.Sentiment {
	var pos, neg int
	for _, w := range strings.Fields(window) {
		key := g.resolver.Normalize(w)
		if _, ok := g.positive[key]; ok {
			pos++
		}
		if _, ok := g.negative[key]; ok {
			neg++
		}
	}
	switch {
	case pos > neg:
		return entities.SentimentPositive
	case neg > pos:
		return entities.SentimentNegative
	default:
		return entities.SentimentNeutral
	}
}

var countryTerms = []string{
	"japan", "france", "italy", "spain", "portugal", "greece", "thailand",
	"vietnam", "indonesia", "malaysia", "india", "nepal", "china", "korea",
	"south korea", "taiwan", "mexico", "peru", "brazil", "argentina", "chile",
	"colombia", "morocco", "egypt", "kenya", "tanzania", "south africa",
	"germany", "austria", "switzerland", "netherlands", "belgium", "norway",
	"sweden", "finland", "iceland", "ireland", "scotland", "england",
	"united kingdom", "united states", "canada", "australia", "new zealand",
	"turkey", "croatia", "czech republic", "hungary", "poland", "jordan",
}

var cityTerms = []string{
	"tokyo", "kyoto", "osaka", "shibuya", "shinjuku", "nara", "hiroshima",
	"sapporo", "hakone", "kanazawa", "paris", "lyon", "nice", "london",
	"edinburgh", "rome", "florence", "venice", "milan", "naples", "barcelona",
	"madrid", "seville", "granada", "lisbon", "porto", "athens", "santorini",
	"bangkok", "chiang mai", "phuket", "hanoi", "ho chi minh city", "hoi an",
	"bali", "ubud", "jakarta", "kuala lumpur", "singapore", "seoul", "busan",
	"taipei", "hong kong", "shanghai", "beijing", "delhi", "mumbai", "jaipur",
	"kathmandu", "marrakech", "fes", "cairo", "cape town", "nairobi",
	"mexico city", "oaxaca", "cusco", "lima", "rio de janeiro",
	"buenos aires", "santiago", "bogota", "new york", "san francisco",
	"los angeles", "chicago", "new orleans", "vancouver", "toronto",
	"montreal", "sydney", "melbourne", "auckland", "queenstown", "berlin",
	"munich", "vienna", "zurich", "amsterdam", "bruges", "copenhagen",
	"stockholm", "oslo", "helsinki", "reykjavik", "dublin", "prague",
	"budapest", "krakow", "istanbul", "dubrovnik", "split",
}

var landmarkTerms = []string{
	"temple", "shrine", "castle", "palace", "cathedral", "basilica", "mosque",
	"pagoda", "monastery", "fortress", "citadel", "tower", "bridge", "museum",
	"gallery", "market", "bazaar", "plaza", "square", "garden", "park",
	"beach", "island", "mountain", "volcano", "waterfall", "canyon", "valley",
	"lake", "river", "harbor", "lighthouse", "ruins", "amphitheater",
	"aqueduct", "observatory", "botanical garden", "national park",
	"eiffel tower", "louvre", "colosseum", "sagrada familia", "alhambra",
	"acropolis", "machu picchu", "angkor wat", "taj mahal", "great wall",
	"mount fuji", "fushimi inari", "senso-ji", "golden pavilion",
	"stonehenge", "big ben", "statue of liberty", "golden gate bridge",
	"christ the redeemer", "petra", "pyramids of giza",
}

var transportTerms = []string{
	"train", "shinkansen", "bullet train", "metro", "subway", "tram", "bus",
	"night bus", "ferry", "boat", "cruise", "taxi", "rickshaw", "tuk-tuk",
	"cable car", "funicular", "gondola", "bicycle", "scooter", "motorbike",
	"campervan", "flight", "airline", "airport", "rail pass", "sleeper train",
}

var foodTerms = []string{
	"sushi", "ramen", "udon", "soba", "tempura", "yakitori", "okonomiyaki",
	"takoyaki", "matcha", "mochi", "sake", "bento", "kaiseki", "tonkatsu",
	"gyoza", "onigiri", "pho", "banh mi", "pad thai", "tom yum", "satay",
	"nasi goreng", "rendang", "laksa", "dim sum", "dumplings", "hot pot",
	"peking duck", "bibimbap", "kimchi", "bulgogi", "curry", "naan", "dosa",
	"tagine", "couscous", "falafel", "hummus", "shawarma", "kebab", "paella",
	"tapas", "churros", "jamon", "gelato", "pasta", "pizza", "risotto",
	"croissant", "baguette", "crepe", "macaron", "fondue", "schnitzel",
	"pretzel", "goulash", "pierogi", "ceviche", "empanada", "taco",
	"street food", "food market", "izakaya",
}

var activityTerms = []string{
	"hiking", "trekking", "climbing", "cycling", "kayaking", "rafting",
	"surfing", "snorkeling", "diving", "scuba diving", "sailing", "fishing",
	"skiing", "snowboarding", "camping", "glamping", "safari", "birdwatching",
	"stargazing", "hot spring", "onsen", "spa", "yoga", "meditation",
	"cooking class", "wine tasting", "food tour", "walking tour",
	"road trip", "backpacking", "shopping", "photography", "paragliding",
	"bungee jumping", "zip lining", "horseback riding", "whale watching",
}

var culturalTerms = []string{
	"kabuki", "noh", "sumo", "geisha", "tea ceremony", "calligraphy",
	"ikebana", "origami", "flamenco", "tango", "opera", "ballet", "fado",
	"hanami", "folklore", "mythology", "handicraft", "pottery", "weaving",
	"batik", "henna", "samurai", "maori", "aboriginal art", "street art",
	"muay thai", "capoeira",
}

var eventTerms = []string{
	"oktoberfest", "carnival", "mardi gras", "songkran", "holi", "diwali",
	"day of the dead", "gion matsuri", "la tomatina", "running of the bulls",
	"chinese new year", "lantern festival", "cherry blossom festival",
	"edinburgh fringe", "burning man", "olympics",
}

var organizationTerms = []string{
	"unesco", "japan rail", "jr pass", "eurail", "interrail", "ryanair",
	"easyjet", "airbnb", "couchsurfing", "hostelworld", "lonely planet",
	"national geographic", "michelin",
}

// tagTaxonomy maps declared document tags to mention types.
var tagTaxonomy = map[string]entities.MentionType{
	"travel":      entities.TypeActivity,
	"adventure":   entities.TypeActivity,
	"hiking":      entities.TypeActivity,
	"backpacking": entities.TypeActivity,
	"food":        entities.TypeFood,
	"cuisine":     entities.TypeFood,
	"street food": entities.TypeFood,
	"restaurants": entities.TypeFood,
	"transport":   entities.TypeTransport,
	"trains":      entities.TypeTransport,
	"flights":     entities.TypeTransport,
	"culture":     entities.TypeCultural,
	"art":         entities.TypeCultural,
	"history":     entities.TypeCultural,
	"festival":    entities.TypeEvent,
	"festivals":   entities.TypeEvent,
	"city guide":  entities.TypePlace,
	"city-guide":  entities.TypePlace,
	"destination": entities.TypePlace,
	"nature":      entities.TypePlace,
	"people":      entities.TypePerson,
}

// contextCues disambiguate heuristic hits: a cue word near an unknown proper
// noun suggests its type.
var contextCues = map[string]entities.MentionType{
	"city":         entities.TypePlace,
	"town":         entities.TypePlace,
	"village":      entities.TypePlace,
	"island":       entities.TypePlace,
	"district":     entities.TypePlace,
	"neighborhood": entities.TypePlace,
	"region":       entities.TypePlace,
	"province":     entities.TypePlace,
	"coast":        entities.TypePlace,
	"museum":       entities.TypePlace,
	"temple":       entities.TypePlace,
	"mr":           entities.TypePerson,
	"mrs":          entities.TypePerson,
	"chef":         entities.TypePerson,
	"guide":        entities.TypePerson,
	"artist":       entities.TypePerson,
	"writer":       entities.TypePerson,
	"airline":      entities.TypeTransport,
	"railway":      entities.TypeTransport,
	"station":      entities.TypeTransport,
	"restaurant":   entities.TypeFood,
	"dish":         entities.TypeFood,
	"cafe":         entities.TypeFood,
	"bakery":       entities.TypeFood,
	"festival":     entities.TypeEvent,
	"ceremony":     entities.TypeCultural,
	"tradition":    entities.TypeCultural,
	"company":      entities.TypeOrganization,
	"agency":       entities.TypeOrganization,
}

var positiveTerms = []string{
	"amazing", "beautiful", "stunning", "delicious", "wonderful", "great",
	"lovely", "incredible", "favorite", "best", "charming", "vibrant",
	"peaceful", "friendly", "unforgettable", "breathtaking", "perfect",
	"magical", "cozy", "spectacular", "famous", "gorgeous",
}

var negativeTerms = []string{
	"crowded", "expensive", "dirty", "disappointing", "terrible", "worst",
	"awful", "overrated", "dangerous", "noisy", "rude", "bland", "touristy",
	"scam", "overpriced", "sketchy", "grim",
}
