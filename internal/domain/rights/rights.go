// Package rights holds the legal-rights content served to users: the
// constitutional baseline, per-jurisdiction legal details, and the
// emergency phrases offered in each supported language.
package rights

import "github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"

// Guide is one rights card: what the right is and the script to say.
type Guide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Script  string `json:"script"`
}

// BasicRights is the constitutional baseline shown to every user, free or
// premium.
var BasicRights = []Guide{
	{
		Title:   "Right to Remain Silent",
		Content: "You have the right to remain silent. Anything you say can and will be used against you in a court of law.",
		Script:  "I am exercising my right to remain silent.",
	},
	{
		Title:   "Right to an Attorney",
		Content: "You have the right to an attorney. If you cannot afford an attorney, one will be provided for you.",
		Script:  "I want to speak to my attorney before answering any questions.",
	},
	{
		Title:   "Right to Refuse Searches",
		Content: "You have the right to refuse consent to searches of your person, vehicle, or home without a warrant.",
		Script:  "I do not consent to any searches.",
	},
	{
		Title:   "Right to Leave",
		Content: "If you are not under arrest, you have the right to leave. Ask clearly if you are free to go.",
		Script:  "Am I free to leave? Am I under arrest?",
	},
}

// Phrases are the emergency phrases for one language.
type Phrases struct {
	Recording string `json:"recording"`
	Silent    string `json:"silent"`
	Attorney  string `json:"attorney"`
	Search    string `json:"search"`
	Leave     string `json:"leave"`
	Medical   string `json:"medical"`
	Emergency string `json:"emergency"`
}

var emergencyPhrases = map[user.Language]Phrases{
	user.LanguageEnglish: {
		Recording: "I am recording this interaction for my safety and legal protection.",
		Silent:    "I am exercising my right to remain silent.",
		Attorney:  "I want to speak to my attorney.",
		Search:    "I do not consent to any searches.",
		Leave:     "Am I free to leave?",
		Medical:   "I need medical attention.",
		Emergency: "This is an emergency. Please send help to my location.",
	},
	user.LanguageSpanish: {
		Recording: "Estoy grabando esta interacción para mi seguridad y protección legal.",
		Silent:    "Estoy ejerciendo mi derecho a permanecer en silencio.",
		Attorney:  "Quiero hablar con mi abogado.",
		Search:    "No consiento a ningún registro.",
		Leave:     "¿Soy libre de irme?",
		Medical:   "Necesito atención médica.",
		Emergency: "Esta es una emergencia. Por favor envíen ayuda a mi ubicación.",
	},
}

// EmergencyPhrases returns the phrases for a language, falling back to
// English for anything unrecognized.
func EmergencyPhrases(lang user.Language) Phrases {
	if p, ok := emergencyPhrases[lang]; ok {
		return p
	}
	return emergencyPhrases[user.LanguageEnglish]
}
