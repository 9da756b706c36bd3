package llm

// geminiOpenAICompatBaseURL is Google's OpenAI-compatible endpoint for
// the Gemini API, used so NewGeminiClient can share OpenAIClient's
// transport instead of hand-rolling a separate Gemini wire format.
const geminiOpenAICompatBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// NewGeminiClient builds a Gemini transport on top of OpenAIClient via
// Gemini's OpenAI-compatibility layer, overridable with a custom baseURL
// (e.g. for a regional endpoint or a test double).
func NewGeminiClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = geminiOpenAICompatBaseURL
	}
	return NewOpenAIClient("Gemini", apiKey, model, baseURL)
}
