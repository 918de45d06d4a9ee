package provider

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/reportmesh/model"
	anthropicmodel "github.com/hupe1980/reportmesh/model/anthropic"
	openaimodel "github.com/hupe1980/reportmesh/model/openai"
)

// NewModel builds a completion model from resolved credentials. Anthropic
// gets its native adapter; every other provider goes through the
// OpenAI-compatible adapter pointed at the provider's base URL.
func NewModel(creds *Credentials) (model.Model, error) {
	modelID := creds.ModelID
	if modelID == "" {
		info, ok := DefaultModel(creds.Provider)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", creds.Provider)
		}
		modelID = info.ID
	}

	if creds.Provider == Anthropic {
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.Model = anthropicsdk.Model(modelID)
			o.APIKey = creds.APIKey
		}), nil
	}

	baseURL, ok := BaseURL(creds.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", creds.Provider)
	}

	return openaimodel.NewModel(func(o *openaimodel.Options) {
		o.Model = modelID
		o.APIKey = creds.APIKey
		o.BaseURL = baseURL
		o.Provider = string(creds.Provider)
	}), nil
}
