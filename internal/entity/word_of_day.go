package entity

import "time"

// WordOfTheDay is a featured word rotated daily per language.
type WordOfTheDay struct {
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
	PartOfSpeech  string `json:"partOfSpeech"`
}

// WordOfTheDayXP is awarded for bookmarking the word of the day.
const WordOfTheDayXP = 10

var wordsOfTheDay = map[string][]WordOfTheDay{
	"es": {
		{Word: "mariposa", Translation: "butterfly", Pronunciation: "mah-ree-POH-sah", Example: "La mariposa es muy bonita.", PartOfSpeech: "noun"},
		{Word: "soñar", Translation: "to dream", Pronunciation: "soh-NYAR", Example: "Me gusta soñar con viajes.", PartOfSpeech: "verb"},
		{Word: "amanecer", Translation: "sunrise/dawn", Pronunciation: "ah-mah-neh-SEHR", Example: "El amanecer es hermoso.", PartOfSpeech: "noun"},
		{Word: "esperanza", Translation: "hope", Pronunciation: "es-peh-RAHN-sah", Example: "Tengo esperanza en el futuro.", PartOfSpeech: "noun"},
		{Word: "estrella", Translation: "star", Pronunciation: "es-TREH-yah", Example: "Mira esa estrella brillante.", PartOfSpeech: "noun"},
		{Word: "sonrisa", Translation: "smile", Pronunciation: "sohn-REE-sah", Example: "Tu sonrisa es contagiosa.", PartOfSpeech: "noun"},
		{Word: "corazón", Translation: "heart", Pronunciation: "koh-rah-SOHN", Example: "Mi corazón late rápido.", PartOfSpeech: "noun"},
	},
	"fr": {
		{Word: "papillon", Translation: "butterfly", Pronunciation: "pah-pee-YON", Example: "Le papillon est magnifique.", PartOfSpeech: "noun"},
		{Word: "rêver", Translation: "to dream", Pronunciation: "reh-VEY", Example: "J'aime rêver de voyages.", PartOfSpeech: "verb"},
		{Word: "soleil", Translation: "sun", Pronunciation: "soh-LEY", Example: "Le soleil brille.", PartOfSpeech: "noun"},
	},
	"de": {
		{Word: "Schmetterling", Translation: "butterfly", Pronunciation: "SHMET-ter-ling", Example: "Der Schmetterling ist schön.", PartOfSpeech: "noun"},
		{Word: "träumen", Translation: "to dream", Pronunciation: "TROY-men", Example: "Ich träume von Reisen.", PartOfSpeech: "verb"},
	},
	"it": {
		{Word: "farfalla", Translation: "butterfly", Pronunciation: "far-FAL-la", Example: "La farfalla è bellissima.", PartOfSpeech: "noun"},
		{Word: "sognare", Translation: "to dream", Pronunciation: "son-YAH-reh", Example: "Mi piace sognare.", PartOfSpeech: "verb"},
	},
}

// PickWordOfTheDay selects the featured word for a language on a given day.
// Languages without their own list fall back to Spanish.
func PickWordOfTheDay(code string, day time.Time) WordOfTheDay {
	words, ok := wordsOfTheDay[code]
	if !ok {
		words = wordsOfTheDay["es"]
	}
	return words[day.YearDay()%len(words)]
}

// ToWord converts the featured word into a vocabulary entry.
func (w WordOfTheDay) ToWord(code string, day time.Time) Word {
	return Word{
		ID:            "wotd-" + code + "-" + DayString(day),
		Word:          w.Word,
		Translation:   w.Translation,
		Pronunciation: w.Pronunciation,
		PartOfSpeech:  w.PartOfSpeech,
		Examples:      []string{w.Example},
	}
}
