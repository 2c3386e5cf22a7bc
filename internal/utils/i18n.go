package utils

// Server-side strings for the fixed page chrome. Flash messages and
// backend-provided text are not translated here.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":          "ok",
		"nav.home":           "Home",
		"nav.dashboard":      "Dashboard",
		"nav.assessment":     "Assessment",
		"nav.assistant":      "AI Assistant",
		"nav.admin":          "Admin",
		"nav.login":          "Login",
		"nav.register":       "Register",
		"nav.logout":         "Logout",
		"wizard.prev":        "Previous",
		"wizard.next":        "Next",
		"wizard.submit":      "Submit",
		"wizard.subject":     "Who is this assessment for?",
		"wizard.self":        "Myself",
		"wizard.child":       "My child",
		"wizard.age":         "Age",
		"wizard.language":    "Choose a language",
		"wizard.progress":    "Question %d of %d",
		"dashboard.count":    "Assessments taken",
		"dashboard.latest":   "Latest risk level",
		"dashboard.none":     "No assessments yet.",
		"assistant.send":     "Send",
		"assistant.thinking": "Thinking...",
		"loading":            "Loading...",
	},
	"hi": {
		"health.ok":          "ठीक है",
		"nav.home":           "होम",
		"nav.dashboard":      "डैशबोर्ड",
		"nav.assessment":     "मूल्यांकन",
		"nav.assistant":      "एआई सहायक",
		"nav.admin":          "एडमिन",
		"nav.login":          "लॉगिन",
		"nav.register":       "रजिस्टर",
		"nav.logout":         "लॉगआउट",
		"wizard.prev":        "पिछला",
		"wizard.next":        "अगला",
		"wizard.submit":      "जमा करें",
		"wizard.subject":     "यह मूल्यांकन किसके लिए है?",
		"wizard.self":        "स्वयं",
		"wizard.child":       "मेरा बच्चा",
		"wizard.age":         "आयु",
		"wizard.language":    "भाषा चुनें",
		"wizard.progress":    "प्रश्न %d / %d",
		"dashboard.count":    "किए गए मूल्यांकन",
		"dashboard.latest":   "नवीनतम जोखिम स्तर",
		"dashboard.none":     "अभी तक कोई मूल्यांकन नहीं।",
		"assistant.send":     "भेजें",
		"assistant.thinking": "सोच रहा है...",
		"loading":            "लोड हो रहा है...",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
