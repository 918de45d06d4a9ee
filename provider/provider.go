package provider

// Provider identifies a completion provider backend.
type Provider string

const (
	OpenAI     Provider = "openai"
	Anthropic  Provider = "anthropic"
	Google     Provider = "google"
	OpenRouter Provider = "openrouter"
)

// Priority is the order in which a user's connected providers are tried when
// no explicit provider is requested.
var Priority = []Provider{OpenAI, Anthropic, Google, OpenRouter}

// baseURLs holds the OpenAI-compatible chat completions endpoint per
// provider. Every listed provider exposes such an endpoint, so a single
// client stack covers all of them; the native Anthropic adapter is preferred
// for Anthropic when available.
var baseURLs = map[Provider]string{
	OpenAI:     "https://api.openai.com/v1/",
	Anthropic:  "https://api.anthropic.com/v1/",
	Google:     "https://generativelanguage.googleapis.com/v1beta/openai/",
	OpenRouter: "https://openrouter.ai/api/v1/",
}

// ModelInfo describes a model available from a provider.
type ModelInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Provider Provider `json:"provider"`
}

// defaultModels is used when the stored credentials carry no model ID.
var defaultModels = map[Provider]ModelInfo{
	OpenAI:     {ID: "gpt-4o", Name: "GPT-4o", Provider: OpenAI},
	Anthropic:  {ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Provider: Anthropic},
	Google:     {ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: Google},
	OpenRouter: {ID: "openai/gpt-4o", Name: "GPT-4o (via OpenRouter)", Provider: OpenRouter},
}

// availableModels lists the well-known models per provider.
var availableModels = map[Provider][]ModelInfo{
	OpenAI: {
		{ID: "gpt-4o", Name: "GPT-4o", Provider: OpenAI},
		{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Provider: OpenAI},
		{ID: "gpt-4.1", Name: "GPT-4.1", Provider: OpenAI},
		{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Provider: OpenAI},
		{ID: "o3-mini", Name: "o3-mini", Provider: OpenAI},
	},
	Anthropic: {
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Provider: Anthropic},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Provider: Anthropic},
	},
	Google: {
		{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: Google},
		{ID: "gemini-2.5-pro-preview-06-05", Name: "Gemini 2.5 Pro", Provider: Google},
		{ID: "gemini-2.5-flash-preview-05-20", Name: "Gemini 2.5 Flash", Provider: Google},
	},
	OpenRouter: {
		{ID: "openai/gpt-4o", Name: "GPT-4o (OR)", Provider: OpenRouter},
		{ID: "anthropic/claude-sonnet-4-20250514", Name: "Claude Sonnet 4 (OR)", Provider: OpenRouter},
		{ID: "google/gemini-2.0-flash-001", Name: "Gemini 2.0 Flash (OR)", Provider: OpenRouter},
	},
}

// Known reports whether p is a supported provider.
func Known(p Provider) bool {
	_, ok := baseURLs[p]
	return ok
}

// BaseURL returns the OpenAI-compatible endpoint for p.
func BaseURL(p Provider) (string, bool) {
	u, ok := baseURLs[p]
	return u, ok
}

// DefaultModel returns the fallback model for p.
func DefaultModel(p Provider) (ModelInfo, bool) {
	m, ok := defaultModels[p]
	return m, ok
}

// Models returns the well-known models offered by p.
func Models(p Provider) []ModelInfo {
	return availableModels[p]
}
