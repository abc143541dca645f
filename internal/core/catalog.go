package core

// Option is one entry a selector widget renders.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	NativeName  string `json:"native_name,omitempty"`
}

var TopicTypes = []Option{
	{ID: "definition", Label: "Definition", Icon: "📖"},
	{ID: "formulas", Label: "Formulas", Icon: "🔢"},
	{ID: "real-world", Label: "Real-world Applications", Icon: "🌍"},
	{ID: "derivation", Label: "Derivation", Icon: "📐"},
	{ID: "summary", Label: "Summary", Icon: "📝"},
	{ID: "diagram", Label: "Diagram Explanation", Icon: "📊"},
	{ID: "creative", Label: "Creative Explanation", Icon: "✨"},
}

var TeachingMethods = []Option{
	{ID: "visual", Label: "Visual Learning", Description: "Diagrams, charts, and visual explanations", Icon: "brain"},
	{ID: "interactive", Label: "Interactive Learning", Description: "Hands-on activities and demonstrations", Icon: "presentation"},
	{ID: "textual", Label: "Textual Learning", Description: "Reading and written explanations", Icon: "book-open"},
	{ID: "practical", Label: "Practical Learning", Description: "Real-world examples and applications", Icon: "target"},
	{ID: "conceptual", Label: "Conceptual Learning", Description: "Theory and fundamental concepts", Icon: "lightbulb"},
	{ID: "collaborative", Label: "Collaborative Learning", Description: "Group discussions and problem-solving", Icon: "users"},
}

var Languages = []Option{
	{ID: "english", Label: "English", NativeName: "English"},
	{ID: "hindi", Label: "Hindi", NativeName: "हिंदी"},
	{ID: "telugu", Label: "Telugu", NativeName: "తెలుగు"},
	{ID: "tamil", Label: "Tamil", NativeName: "தமிழ்"},
	{ID: "malayalam", Label: "Malayalam", NativeName: "മലയാളം"},
	{ID: "kannada", Label: "Kannada", NativeName: "ಕನ್ನಡ"},
	{ID: "gujarati", Label: "Gujarati", NativeName: "ગુજરાતી"},
	{ID: "marathi", Label: "Marathi", NativeName: "मराठी"},
	{ID: "bengali", Label: "Bengali", NativeName: "বাংলা"},
	{ID: "punjabi", Label: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	{ID: "urdu", Label: "Urdu", NativeName: "اردو"},
	{ID: "odia", Label: "Odia", NativeName: "ଓଡ଼ିଆ"},
	{ID: "assamese", Label: "Assamese", NativeName: "অসমীয়া"},
	{ID: "konkani", Label: "Konkani", NativeName: "कोंकणी"},
	{ID: "sindhi", Label: "Sindhi", NativeName: "سنڌي"},
	{ID: "sanskrit", Label: "Sanskrit", NativeName: "संस्कृत"},
	{ID: "manipuri", Label: "Manipuri", NativeName: "মৈতৈলোন্"},
	{ID: "kashmiri", Label: "Kashmiri", NativeName: "कॉशुर"},
	{ID: "nepali", Label: "Nepali", NativeName: "नेपाली"},
	{ID: "maithili", Label: "Maithili", NativeName: "मैथिली"},
	{ID: "santali", Label: "Santali", NativeName: "ᱥᱟᱱᱛᱟᱲᱤ"},
	{ID: "bodo", Label: "Bodo", NativeName: "बड़ो"},
	{ID: "dogri", Label: "Dogri", NativeName: "डोगरी"},
	{ID: "tulu", Label: "Tulu", NativeName: "ತುಳು"},
	{ID: "rajasthani", Label: "Rajasthani", NativeName: "राजस्थानी"},
	{ID: "bhojpuri", Label: "Bhojpuri", NativeName: "भोजपुरी"},
	{ID: "chhattisgarhi", Label: "Chhattisgarhi", NativeName: "छत्तीसगढ़ी"},
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func FindTopicType(id string) (Option, bool)      { return findOption(TopicTypes, id) }
func FindTeachingMethod(id string) (Option, bool) { return findOption(TeachingMethods, id) }
func FindLanguage(id string) (Option, bool)       { return findOption(Languages, id) }

// OptionsFor returns the list the selector for step should render, or nil when
// the step shows no selector.
func OptionsFor(step Step) []Option {
	switch step {
	case StepTopicTypes:
		return TopicTypes
	case StepTeachingMethods:
		return TeachingMethods
	case StepLanguageSelection:
		return Languages
	}
	return nil
}
