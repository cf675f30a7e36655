package entity

// spanishSample is seeded into an empty vocabulary the first time Spanish is
// selected.
var spanishSample = []Word{
	{ID: "es-hola", Word: "hola", Translation: "hello", Pronunciation: "OH-lah", PartOfSpeech: "interjection", Examples: []string{"¡Hola! ¿Cómo estás?"}, Mastery: 85, TimesCorrect: 9, TimesIncorrect: 1},
	{ID: "es-gracias", Word: "gracias", Translation: "thank you", Pronunciation: "GRAH-see-ahs", PartOfSpeech: "interjection", Examples: []string{"Muchas gracias por tu ayuda."}, Mastery: 90, TimesCorrect: 10, TimesIncorrect: 0},
	{ID: "es-agua", Word: "agua", Translation: "water", Pronunciation: "AH-gwah", PartOfSpeech: "noun", Examples: []string{"Quiero un vaso de agua."}, Mastery: 60, TimesCorrect: 6, TimesIncorrect: 2},
	{ID: "es-comer", Word: "comer", Translation: "to eat", Pronunciation: "koh-MEHR", PartOfSpeech: "verb", Examples: []string{"Vamos a comer juntos."}, Mastery: 45, TimesCorrect: 4, TimesIncorrect: 3},
	{ID: "es-casa", Word: "casa", Translation: "house", Pronunciation: "KAH-sah", PartOfSpeech: "noun", Examples: []string{"Mi casa es tu casa."}, Mastery: 80, TimesCorrect: 8, TimesIncorrect: 0},
	{ID: "es-amigo", Word: "amigo", Translation: "friend", Pronunciation: "ah-MEE-goh", PartOfSpeech: "noun", Examples: []string{"Él es mi mejor amigo."}, Mastery: 70, TimesCorrect: 7, TimesIncorrect: 1},
	{ID: "es-hablar", Word: "hablar", Translation: "to speak", Pronunciation: "ah-BLAHR", PartOfSpeech: "verb", Examples: []string{"¿Puedes hablar más despacio?"}, Mastery: 30, TimesCorrect: 3, TimesIncorrect: 3},
	{ID: "es-bonito", Word: "bonito", Translation: "pretty", Pronunciation: "boh-NEE-toh", PartOfSpeech: "adjective", Examples: []string{"Qué día tan bonito."}, Mastery: 20, TimesCorrect: 2, TimesIncorrect: 2},
	{ID: "es-manana", Word: "mañana", Translation: "tomorrow", Pronunciation: "mah-NYAH-nah", PartOfSpeech: "adverb", Examples: []string{"Nos vemos mañana."}, Mastery: 55, TimesCorrect: 5, TimesIncorrect: 2},
	{ID: "es-por-favor", Word: "por favor", Translation: "please", Pronunciation: "pohr fah-VOHR", PartOfSpeech: "phrase", Examples: []string{"Un café, por favor."}, Mastery: 95, TimesCorrect: 12, TimesIncorrect: 0},
}

var sampleVocabulary = map[string][]Word{
	"es": spanishSample,
}

// SampleVocabulary returns a copy of the bundled starter words for a
// language, or nil when none exist.
func SampleVocabulary(code string) []Word {
	sample, ok := sampleVocabulary[code]
	if !ok {
		return nil
	}
	out := make([]Word, len(sample))
	for i, w := range sample {
		out[i] = w.Clone()
	}
	return out
}
