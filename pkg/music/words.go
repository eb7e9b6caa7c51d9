package music

// GenreThemes maps genres to visual search phrases.
var GenreThemes = map[string]string{
	"rock":        "electric energy concert lights dramatic",
	"alternative": "grunge urban raw edgy",
	"jam band":    "psychedelic festival colorful abstract",
	"metal":       "dark stormy dramatic power industrial",
	"heavy metal": "fire lightning dark intense",

	"pop":       "colorful bright vibrant cheerful",
	"k-pop":     "neon lights vibrant energetic colorful",
	"dance pop": "party lights colorful energetic",

	"electronic":    "neon lights cyberpunk futuristic abstract",
	"edm":           "festival lights colorful energy",
	"techno":        "minimal geometric neon dark",
	"drum and bass": "urban neon fast energy",
	"dubstep":       "dark bass heavy intense",

	"hip-hop": "urban street graffiti city",
	"rap":     "urban concrete city night",
	"trap":    "dark urban moody atmospheric",

	"jazz":  "smoky club vintage noir elegant",
	"blues": "moody atmospheric vintage soulful",
	"soul":  "warm vintage golden emotional",
	"funk":  "groovy colorful retro vibrant",

	"classical":    "orchestra elegant timeless sophisticated",
	"piano":        "minimal elegant peaceful refined",
	"instrumental": "atmospheric cinematic elegant",

	"folk":       "forest acoustic nature organic earthy",
	"country":    "rural sunset countryside natural",
	"indie folk": "vintage nature atmospheric forest",

	"indie":      "vintage film grain atmospheric moody",
	"indie rock": "raw urban atmospheric vintage",

	"reggae": "tropical beach sunshine relaxed",
	"ska":    "vibrant energetic colorful fun",

	"ambient":  "minimal calm serene ethereal peaceful",
	"chillout": "calm sunset peaceful relaxing",
	"lounge":   "sophisticated calm elegant modern",

	"punk": "raw urban gritty rebellious",
	"emo":  "moody dark emotional atmospheric",

	"rnb": "smooth urban night moody",
	"r&b": "smooth urban night sophisticated",

	"latin": "colorful vibrant festive energetic",
	"salsa": "vibrant colorful dance energy",

	"unknown": "abstract colorful atmospheric",
}

type moodFamily struct {
	name     string
	keywords []string
	theme    string
}

// moodFamilies is ordered: the first family that matches wins.
var moodFamilies = []moodFamily{
	{"calm", []string{"calm", "peace", "quiet", "soft", "gentle", "lullaby", "sleep", "rest"}, "peaceful serene calm nature soft light"},
	{"energetic", []string{"energy", "power", "fast", "run", "dance", "party", "wild", "crazy"}, "dynamic colorful vibrant energy powerful"},
	{"dark", []string{"dark", "black", "night", "shadow", "devil", "hell", "death", "pain"}, "dark moody dramatic stormy night"},
	{"bright", []string{"bright", "light", "sun", "shine", "day", "gold", "yellow", "white"}, "bright sunny golden light cheerful"},
	{"sad", []string{"sad", "cry", "tear", "hurt", "pain", "lost", "alone", "empty"}, "moody atmospheric gray rain melancholic"},
	{"happy", []string{"happy", "joy", "smile", "laugh", "fun", "celebrate", "love", "good"}, "colorful bright vibrant cheerful sunny"},
	{"nature", []string{"forest", "tree", "mountain", "river", "ocean", "sea", "sky", "earth"}, "forest mountains natural landscape organic"},
	{"urban", []string{"city", "street", "urban", "downtown", "concrete", "building", "lights"}, "city urban lights architecture modern"},
	{"romantic", []string{"love", "heart", "kiss", "romance", "forever", "together"}, "warm soft romantic sunset dreamy"},
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// commonWords are skipped when picking words out of titles and lyrics.
var commonWords = wordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "it", "my", "your", "our", "this", "that", "i", "you", "we", "me", "us",
	"am", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must", "can",
	"just", "only", "even", "also", "very", "too", "so", "no", "not", "yes",
	"feat", "ft", "featuring", "remix", "remaster", "remastered", "version", "edit", "mix",
	"from", "live", "acoustic", "demo", "original", "extended", "radio",
	"label", "record", "records", "released", "album", "copyright", "produced", "mixed", "mastered",
	"them", "about", "what", "here", "there", "when", "like", "they", "don", "ain", "man", "woman",
	"hit", "sold", "bought", "hard", "pack", "lately", "feel", "mine", "held", "arms", "one",
	"time", "lost", "same", "straight", "late", "found", "face", "down", "ditch", "booze", "hair",
	"blood", "lips", "picture", "holding", "pocket", "still", "know", "means", "long", "since",
	"seen", "felt", "part", "human", "race", "living", "out", "way", "needs", "something", "hold",
	"onto", "either", "things", "all", "said", "last", "now", "more", "think", "wish", "once",
	"look", "see", "come", "talk", "tell", "show", "try", "tried", "let", "get", "got",
)

// visualWords are promoted ahead of other words because they search well.
var visualWords = wordSet(
	// Nature
	"ocean", "sea", "river", "lake", "mountain", "mountains", "forest", "tree", "trees", "desert",
	"island", "beach", "shore", "valley", "canyon", "meadow", "field", "fields", "garden", "flower",
	"flowers", "rose", "roses", "jungle", "waterfall", "wave", "waves", "earth", "stone",
	// Sky and weather
	"sky", "skies", "sun", "sunshine", "sunset", "sunrise", "moon", "moonlight", "star", "stars",
	"cloud", "clouds", "rain", "storm", "thunder", "lightning", "snow", "winter", "summer",
	"autumn", "spring", "wind", "fog", "mist", "heaven",
	// Light and colour
	"light", "lights", "fire", "flame", "neon", "glow", "shadow", "shadows", "dark", "darkness",
	"blue", "red", "gold", "golden", "silver", "black", "white", "green", "purple", "crimson",
	// Places
	"city", "street", "streets", "highway", "road", "bridge", "tower", "castle", "paradise",
	"midnight", "night", "dawn", "dusk", "horizon", "space", "galaxy", "universe",
	// Emotional states
	"melancholy", "euphoria", "lonely", "loneliness", "desire", "longing", "fear", "hope",
	"regret", "ecstasy", "reverie",
)

func isCommon(word string) bool {
	_, ok := commonWords[word]
	return ok
}

func isVisual(word string) bool {
	_, ok := visualWords[word]
	return ok
}
