// Package tutor implements the conversation tutor on top of an
// OpenAI-compatible chat completion endpoint.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const (
	defaultModel       = "google/gemini-2.5-flash"
	defaultTemperature = 0.7
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

var _ usecase.Tutor = (*OpenAITutor)(nil)

// OpenAITutor asks a chat model for the next tutor turn.
type OpenAITutor struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *logrus.Logger
}

// NewOpenAITutor builds a tutor from config. Extra request options are
// appended after the configured ones.
func NewOpenAITutor(cfg *config.Config, logger *logrus.Logger, extra ...option.RequestOption) *OpenAITutor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.Tutor.APIKey)}
	if base := strings.TrimSpace(cfg.Tutor.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	opts = append(opts, extra...)

	model := cfg.Tutor.Model
	if model == "" {
		model = defaultModel
	}
	temperature := cfg.Tutor.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &OpenAITutor{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Reply sends the transcript with the tutor instructions and parses the
// structured answer. A reply that is not JSON is returned as plain text.
func (t *OpenAITutor) Reply(ctx context.Context, req entity.TutorRequest) (*entity.TutorReply, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+1)
	messages = append(messages, openai.SystemMessage(SystemPrompt(req.Language, req.Scenario)))
	for _, m := range req.History {
		switch m.Role {
		case entity.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case entity.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}

	completion, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       t.model,
		Messages:    messages,
		Temperature: openai.Float(t.temperature),
	})
	if err != nil {
		return nil, translateError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", entity.ErrTutorUnavailable)
	}

	content := completion.Choices[0].Message.Content
	t.logger.WithFields(logrus.Fields{
		"language": req.Language,
		"history":  len(req.History),
	}).Debug("tutor reply received")
	return ParseReply(content), nil
}

// ParseReply extracts the first JSON object from content, which models
// often wrap in a markdown fence.
func ParseReply(content string) *entity.TutorReply {
	if match := jsonObject.FindString(content); match != "" {
		var reply entity.TutorReply
		if err := json.Unmarshal([]byte(match), &reply); err == nil {
			return &reply
		}
	}
	return &entity.TutorReply{Text: content}
}

func translateError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return entity.ErrTutorRateLimited
		case http.StatusPaymentRequired:
			return entity.ErrTutorCreditsExhausted
		}
		return fmt.Errorf("%w: gateway status %d", entity.ErrTutorUnavailable, apiErr.StatusCode)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", entity.ErrTutorUnavailable, err)
}

// SystemPrompt is the instruction block sent ahead of the transcript.
func SystemPrompt(language, scenario string) string {
	if language == "" {
		language = entity.DefaultTutorLanguage.Name
	}
	setting := "Have a free-flowing conversation."
	if scenario != "" {
		setting = fmt.Sprintf("SCENARIO: %s. Stay in character for this roleplay scenario.", scenario)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a friendly language learning assistant named Lingo. You help users learn %s through natural conversation.\n\n", language)
	b.WriteString("IMPORTANT RULES:\n")
	fmt.Fprintf(&b, "1. Respond primarily in %s with English translations below\n", language)
	b.WriteString("2. Keep responses conversational and natural - 1-3 sentences max\n")
	b.WriteString("3. Use vocabulary appropriate for language learners\n")
	b.WriteString("4. Be encouraging and helpful\n")
	b.WriteString("5. If the user makes mistakes, gently correct them\n")
	b.WriteString("6. Adapt to the conversation topic naturally\n\n")
	b.WriteString(setting)
	b.WriteString("\n\nRESPONSE FORMAT (ALWAYS follow this exact JSON format):\n")
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  \"text\": \"Your response in %s\",\n", language)
	b.WriteString("  \"translation\": \"English translation of your response\",\n")
	b.WriteString("  \"words\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"word\": \"word in target language\",\n")
	b.WriteString("      \"translation\": \"English meaning\",\n")
	b.WriteString("      \"pronunciation\": \"phonetic pronunciation\",\n")
	b.WriteString("      \"partOfSpeech\": \"noun/verb/adjective/etc\",\n")
	b.WriteString("      \"isNew\": true or false (mark vocabulary that might be new to learners)\n")
	b.WriteString("    }\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")
	b.WriteString("Include 3-6 key vocabulary words from your response in the words array. Focus on useful/interesting words.")
	return b.String()
}
