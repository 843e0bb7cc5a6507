package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Sent with every OpenRouter request so usage shows up under this app in
// the OpenRouter dashboard.
const (
	openRouterReferer = "https://github.com/abhisek/pastpapers"
	openRouterTitle   = "Past Papers"
)

// Short names for the models the question and marking prompts are tuned
// against. Any other "vendor/model" ID is passed through.
var openRouterModels = map[string]string{
	"gpt-4o-mini":     "openai/gpt-4o-mini",
	"gpt-4.1-mini":    "openai/gpt-4.1-mini",
	"claude-haiku":    "anthropic/claude-haiku-4.5",
	"claude-sonnet":   "anthropic/claude-sonnet-4.5",
	"gemini-flash":    "google/gemini-2.5-flash",
	"gemini-pro":      "google/gemini-2.5-pro",
	"deepseek-chat":   "deepseek/deepseek-chat",
	"llama-3.3-70b":   "meta-llama/llama-3.3-70b-instruct",
	"qwen-2.5-72b":    "qwen/qwen-2.5-72b-instruct",
	"mistral-small-3": "mistralai/mistral-small-3.1-24b-instruct",
}

// OpenRouterProvider is the OpenAI client pointed at OpenRouter, with
// model aliases and app attribution headers.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}

	conf := openai.DefaultConfig(cfg.APIKey)
	conf.BaseURL = cfg.BaseURL
	if conf.BaseURL == "" {
		conf.BaseURL = defaultOpenRouterBaseURL
	}
	conf.HTTPClient = &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}

	return &OpenRouterProvider{newOpenAIClient(conf, resolveModel(cfg.Model, openRouterModels))}, nil
}

// attributionTransport adds OpenRouter's HTTP-Referer and X-Title headers.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", openRouterReferer)
	req.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(req)
}
