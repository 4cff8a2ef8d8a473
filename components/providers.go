package components

import (
	"context"
	"errors"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/porterchild/self-prompting/schema"
)

// ErrEmptyCompletion reports a well-formed provider response that carried no
// generated text. It is not a transport error and is never retried.
var ErrEmptyCompletion = errors.New("completion response contains no choices")

type providerConfig struct {
	temperature float32
	maxTokens   int
}

// ProviderOption configures a concrete provider
type ProviderOption = func(*providerConfig)

// WithTemperature sets response generation temperature, typically 0 to 1.
func WithTemperature(temperature float32) ProviderOption {
	return func(c *providerConfig) {
		c.temperature = temperature
	}
}

// WithMaxTokens sets the maximum number of tokens allowed in the response.
func WithMaxTokens(maxTokens int) ProviderOption {
	return func(c *providerConfig) {
		c.maxTokens = maxTokens
	}
}

// OpenAIProvider issues completions against OpenAI or any OpenAI compatible
// endpoint (local Ollama-style servers included).
type OpenAIProvider struct {
	clt   *openai.Client
	model string
	providerConfig
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider returns a Provider backed by the given openai client.
func NewOpenAIProvider(clt *openai.Client, model string, options ...ProviderOption) *OpenAIProvider {
	ret := &OpenAIProvider{
		clt:   clt,
		model: model,
	}
	for _, opt := range options {
		opt(&ret.providerConfig)
	}
	return ret
}

func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message, resp *ApiResponse) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Temperature:         p.temperature,
		MaxCompletionTokens: p.maxTokens,
	}
	for _, msg := range messages {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	res, err := p.clt.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromOpenAI(&res)
	}
	if len(res.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return res.Choices[0].Message.Content, nil
}

// AnthropicProvider issues completions against the Anthropic messages API.
type AnthropicProvider struct {
	clt   *anthropic.Client
	model string
	providerConfig
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider returns a Provider backed by the given anthropic client.
func NewAnthropicProvider(clt *anthropic.Client, model string, options ...ProviderOption) *AnthropicProvider {
	ret := &AnthropicProvider{
		clt:   clt,
		model: model,
		providerConfig: providerConfig{
			// the messages API requires a positive token limit
			maxTokens: 4096,
		},
	}
	for _, opt := range options {
		opt(&ret.providerConfig)
	}
	return ret
}

func (p *AnthropicProvider) Complete(ctx context.Context, messages []Message, resp *ApiResponse) (string, error) {
	chatReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(p.model),
		Temperature: &p.temperature,
		MaxTokens:   p.maxTokens,
	}
	for _, msg := range messages {
		// the messages API carries the system instruction out of band
		if msg.Role() == SystemRole {
			chatReq.System = schema.Stringify(msg.Content())
			continue
		}
		v := new(anthropic.Message)
		msg.ToAnthropic(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	res, err := p.clt.CreateMessages(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromAnthropic(&res)
	}
	text := res.GetFirstContentText()
	if text == "" && len(res.Content) == 0 {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// CohereProvider issues completions against the Cohere chat API.
type CohereProvider struct {
	clt   *cohereclient.Client
	model string
	providerConfig
}

var _ Provider = (*CohereProvider)(nil)

// NewCohereProvider returns a Provider backed by the given cohere client.
func NewCohereProvider(clt *cohereclient.Client, model string, options ...ProviderOption) *CohereProvider {
	ret := &CohereProvider{
		clt:   clt,
		model: model,
	}
	for _, opt := range options {
		opt(&ret.providerConfig)
	}
	return ret
}

func (p *CohereProvider) Complete(ctx context.Context, messages []Message, resp *ApiResponse) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyCompletion
	}
	lastIdx := len(messages) - 1
	temperature := float64(p.temperature)
	chatReq := cohere.ChatRequest{
		Model:       &p.model,
		Temperature: &temperature,
		Message:     schema.Stringify(messages[lastIdx].Content()),
	}
	if p.maxTokens > 0 {
		chatReq.MaxTokens = &p.maxTokens
	}
	for _, msg := range messages[:lastIdx] {
		v := new(cohere.Message)
		msg.ToCohere(v)
		chatReq.ChatHistory = append(chatReq.ChatHistory, v)
	}
	res, err := p.clt.Chat(ctx, &chatReq)
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromCohere(res)
	}
	return res.Text, nil
}
