package entity

// Difficulty grades a story mode.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// StoryMode is a named conversational scenario.
type StoryMode struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Difficulty      Difficulty `json:"difficulty"`
	Icon            string     `json:"icon"`
	Scenario        string     `json:"scenario"`
	Objectives      []string   `json:"objectives"`
	VocabularyFocus []string   `json:"vocabularyFocus"`
}

var storyModes = []StoryMode{
	{
		ID: "restaurant", Title: "Restaurant Order", Difficulty: DifficultyBeginner, Icon: "🍽️",
		Description:     "Learn to order food and drinks at a restaurant",
		Scenario:        "You walk into a cozy restaurant and the waiter approaches your table...",
		Objectives:      []string{"Greet the waiter", "Ask for a menu", "Order food and drinks", "Request the bill"},
		VocabularyFocus: []string{"food", "drinks", "numbers", "politeness"},
	},
	{
		ID: "shopping", Title: "Shopping Spree", Difficulty: DifficultyBeginner, Icon: "🛍️",
		Description:     "Navigate a clothing store and make purchases",
		Scenario:        "You enter a boutique looking for new clothes...",
		Objectives:      []string{"Ask for sizes", "Inquire about colors", "Ask for prices", "Complete a purchase"},
		VocabularyFocus: []string{"clothing", "colors", "sizes", "money"},
	},
	{
		ID: "directions", Title: "Finding Your Way", Difficulty: DifficultyIntermediate, Icon: "🗺️",
		Description:     "Ask for and give directions in a new city",
		Scenario:        "You're lost in a beautiful foreign city...",
		Objectives:      []string{"Ask where something is", "Understand directions", "Use location vocabulary", "Thank for help"},
		VocabularyFocus: []string{"directions", "places", "transportation", "questions"},
	},
	{
		ID: "hotel", Title: "Hotel Check-in", Difficulty: DifficultyIntermediate, Icon: "🏨",
		Description:     "Book a room and handle hotel interactions",
		Scenario:        "You arrive at your hotel after a long journey...",
		Objectives:      []string{"Check in to your room", "Ask about amenities", "Report a problem", "Request services"},
		VocabularyFocus: []string{"accommodation", "amenities", "problems", "requests"},
	},
	{
		ID: "doctor", Title: "Doctor Visit", Difficulty: DifficultyAdvanced, Icon: "🏥",
		Description:     "Describe symptoms and understand medical advice",
		Scenario:        "You're not feeling well and visit a local clinic...",
		Objectives:      []string{"Describe symptoms", "Understand diagnosis", "Get prescription info", "Schedule follow-up"},
		VocabularyFocus: []string{"body parts", "symptoms", "medicine", "health"},
	},
	{
		ID: "job-interview", Title: "Job Interview", Difficulty: DifficultyAdvanced, Icon: "💼",
		Description:     "Practice professional language for interviews",
		Scenario:        "You have an interview at your dream company...",
		Objectives:      []string{"Introduce yourself", "Discuss experience", "Ask about the role", "Negotiate terms"},
		VocabularyFocus: []string{"professional", "experience", "skills", "business"},
	},
	{
		ID: "cafe", Title: "Coffee Break", Difficulty: DifficultyBeginner, Icon: "☕",
		Description:     "Order coffee and have a casual chat",
		Scenario:        "You step into a charming local café...",
		Objectives:      []string{"Order a drink", "Small talk with barista", "Ask for Wi-Fi", "Pay and tip"},
		VocabularyFocus: []string{"beverages", "casual speech", "technology", "payment"},
	},
	{
		ID: "party", Title: "House Party", Difficulty: DifficultyIntermediate, Icon: "🎉",
		Description:     "Make friends and socialize at a party",
		Scenario:        "Your friend invited you to a local party...",
		Objectives:      []string{"Introduce yourself", "Ask about others", "Share interests", "Make plans"},
		VocabularyFocus: []string{"introductions", "hobbies", "opinions", "future plans"},
	},
}

// StoryModes returns the scenario catalog.
func StoryModes() []StoryMode {
	out := make([]StoryMode, len(storyModes))
	copy(out, storyModes)
	return out
}

// LookupStoryMode finds a scenario by id.
func LookupStoryMode(id string) (StoryMode, bool) {
	for _, mode := range storyModes {
		if mode.ID == id {
			return mode, true
		}
	}
	return StoryMode{}, false
}
