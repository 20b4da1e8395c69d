package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"devninja-chat/internal/models"
)

const (
	DefaultAPIURL        = "https://api.openai.com/v1"
	DefaultModel         = "gpt-3.5-turbo"
	DefaultHistoryWindow = 10
)

// Responder produces an assistant reply for userMessage given the prior
// conversation. It does not modify history.
type Responder interface {
	Complete(ctx context.Context, history []models.Message, userMessage string) (string, error)
}

type credentialSource interface {
	Get(ctx context.Context) (string, error)
}

// CompletionSettings are fixed for the lifetime of the process.
type CompletionSettings struct {
	APIURL           string
	Model            string
	MaxTokens        int
	Temperature      float64
	PresencePenalty  float64
	FrequencyPenalty float64
	HistoryWindow    int
	SystemPrompt     string
}

// DefaultCompletionSettings mirrors what the site widget always sent.
func DefaultCompletionSettings() CompletionSettings {
	return CompletionSettings{
		APIURL:           DefaultAPIURL,
		Model:            DefaultModel,
		MaxTokens:        500,
		Temperature:      0.7,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
		HistoryWindow:    DefaultHistoryWindow,
		SystemPrompt:     defaultSystemPrompt,
	}
}

// BuildOutbound assembles [system] + last window of history + [user].
func BuildOutbound(systemPrompt string, history []models.Message, window int, userMessage string) []models.Message {
	recent := lastN(history, window)
	out := make([]models.Message, 0, len(recent)+2)
	out = append(out, models.Message{Role: models.RoleSystem, Content: systemPrompt})
	out = append(out, recent...)
	out = append(out, models.Message{Role: models.RoleUser, Content: userMessage})
	return out
}

// OpenAIResponder calls an OpenAI-compatible chat completions endpoint.
// Each call makes exactly one attempt and reads the credential fresh.
type OpenAIResponder struct {
	creds      credentialSource
	settings   CompletionSettings
	httpClient *http.Client
	log        zerolog.Logger
}

// NewOpenAIResponder uses http.DefaultClient when httpClient is nil. No
// request timeout is applied here.
func NewOpenAIResponder(creds credentialSource, settings CompletionSettings, httpClient *http.Client, log zerolog.Logger) *OpenAIResponder {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(settings.APIURL) == "" {
		settings.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(settings.Model) == "" {
		settings.Model = DefaultModel
	}
	if settings.SystemPrompt == "" {
		settings.SystemPrompt = defaultSystemPrompt
	}
	return &OpenAIResponder{
		creds:      creds,
		settings:   settings,
		httpClient: httpClient,
		log:        log,
	}
}

func (r *OpenAIResponder) Complete(ctx context.Context, history []models.Message, userMessage string) (string, error) {
	apiKey, err := r.creds.Get(ctx)
	if err != nil {
		return "", err
	}

	outbound := BuildOutbound(r.settings.SystemPrompt, history, r.settings.HistoryWindow, userMessage)
	params, err := r.buildParams(outbound)
	if err != nil {
		return "", err
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(r.settings.APIURL),
		option.WithHTTPClient(r.httpClient),
		option.WithMaxRetries(0),
	)

	r.log.Debug().
		Str("model", r.settings.Model).
		Int("message_count", len(outbound)).
		Msg("chat_completion_request")

	var httpResp *http.Response
	resp, err := client.Chat.Completions.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		return "", classifyOpenAIError(err, httpResp)
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Reason: "no choices in response"}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &UpstreamError{Reason: "empty completion content"}
	}
	return content, nil
}

func (r *OpenAIResponder) buildParams(messages []models.Message) (openai.ChatCompletionNewParams, error) {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		param, err := toChatMessageParam(msg)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		converted = append(converted, param)
	}

	return openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(r.settings.Model),
		Messages:         converted,
		MaxTokens:        openai.Int(int64(r.settings.MaxTokens)),
		Temperature:      openai.Float(r.settings.Temperature),
		PresencePenalty:  openai.Float(r.settings.PresencePenalty),
		FrequencyPenalty: openai.Float(r.settings.FrequencyPenalty),
	}, nil
}

func toChatMessageParam(msg models.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case models.RoleSystem:
		return openai.SystemMessage(msg.Content), nil
	case models.RoleUser:
		return openai.UserMessage(msg.Content), nil
	case models.RoleAssistant:
		return openai.AssistantMessage(msg.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role: %s", msg.Role)
	}
}

// classifyOpenAIError sorts a failed call into the status, parse and
// transport buckets. httpResp is whatever the client captured, possibly nil.
func classifyOpenAIError(err error, httpResp *http.Response) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{StatusCode: apiErr.StatusCode, Reason: upstreamReasonStatus, Err: err}
	}
	if httpResp != nil {
		if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
			return &UpstreamError{StatusCode: httpResp.StatusCode, Reason: upstreamReasonStatus, Err: err}
		}
		return &UpstreamError{Reason: "malformed body", Err: err}
	}
	return &TransportError{Err: err}
}

var _ Responder = (*OpenAIResponder)(nil)
