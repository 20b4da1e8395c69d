package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"devninja-chat/internal/models"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiResponder answers through the Gemini API using the same stored
// credential, outbound window and error taxonomy as OpenAIResponder.
type GeminiResponder struct {
	creds    credentialSource
	settings CompletionSettings
	opts     []option.ClientOption
	log      zerolog.Logger
}

// NewGeminiResponder passes opts to every client after the API key, so an
// endpoint or transport override takes effect.
func NewGeminiResponder(creds credentialSource, settings CompletionSettings, log zerolog.Logger, opts ...option.ClientOption) *GeminiResponder {
	if strings.TrimSpace(settings.Model) == "" || settings.Model == DefaultModel {
		settings.Model = DefaultGeminiModel
	}
	if settings.SystemPrompt == "" {
		settings.SystemPrompt = defaultSystemPrompt
	}
	return &GeminiResponder{creds: creds, settings: settings, opts: opts, log: log}
}

func (g *GeminiResponder) Complete(ctx context.Context, history []models.Message, userMessage string) (string, error) {
	apiKey, err := g.creds.Get(ctx)
	if err != nil {
		return "", err
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, g.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to create Gemini client: %w", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(g.settings.Model)
	model.SetTemperature(float32(g.settings.Temperature))
	model.SetMaxOutputTokens(int32(g.settings.MaxTokens))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(g.settings.SystemPrompt)}}

	cs := model.StartChat()
	cs.History = toGeminiHistory(lastN(history, g.settings.HistoryWindow))

	resp, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			g.log.Warn().Int("candidate", i).Str("finish_reason", cand.FinishReason.String()).Msg("gemini stopped early")
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Reason: "empty completion content"}
	}
	return text, nil
}

// toGeminiHistory maps chat roles onto Gemini's user/model roles. System
// entries are carried by SystemInstruction instead.
func toGeminiHistory(messages []models.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case models.RoleUser:
			role = "user"
		case models.RoleAssistant:
			role = "model"
		default:
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}
	return out
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	// Only the first candidate is used, like choices[0] on the OpenAI path.
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}

func classifyGeminiError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.HTTPCode()
		if code < 0 {
			code = 0
		}
		return &UpstreamError{StatusCode: code, Reason: upstreamReasonStatus, Err: err}
	}
	// Blocked prompts and responses come back as typed errors with a body.
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &UpstreamError{Reason: "blocked", Err: err}
	}
	return &TransportError{Err: err}
}

var _ Responder = (*GeminiResponder)(nil)
