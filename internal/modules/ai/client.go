package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appcfg "github.com/ntkr/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
)

// TaskKind identifies which pipeline step a call belongs to. Each kind can be
// pinned to its own provider/model pair in config.
type TaskKind string

const (
	TaskTranscription TaskKind = "transcription"
	TaskAnalysis      TaskKind = "analysis"
	TaskMood          TaskKind = "mood"
	TaskDailySummary  TaskKind = "daily_summary"
	TaskWeeklySummary TaskKind = "weekly_summary"
)

// Client is the inference boundary the pipeline and summary services depend
// on. GenerateObject asks the model for a single JSON object and decodes it
// into out; TranscribeAudio converts a stored recording into text.
type Client interface {
	GenerateObject(ctx context.Context, task TaskKind, systemPrompt, prompt string, out interface{}) error
	TranscribeAudio(ctx context.Context, audioURL, filename string) (string, error)
}

var (
	ErrNoProvider    = errors.New("no enabled AI provider")
	ErrEmptyResponse = errors.New("empty response from AI")
)

const (
	generateMaxOutputTokens = 1500
	defaultWhisperModel     = "whisper-1"
)

// Service implements Client against the configured hosted providers.
type Service struct {
	cfg  appcfg.AIConfig
	http *http.Client
}

func NewService(cfg appcfg.AIConfig) *Service {
	return &Service{
		cfg:  cfg,
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

// GenerateObject runs one structured-output call and decodes the JSON the
// model returns. Markdown fences around the JSON are tolerated.
func (s *Service) GenerateObject(ctx context.Context, task TaskKind, systemPrompt, prompt string, out interface{}) error {
	provider := s.selectProvider(task)
	if provider == nil {
		return ErrNoProvider
	}

	var raw string
	var err error
	if isOpenAICompatibleProviderType(provider.Type) {
		raw, err = callOpenAICompatibleChatCompletions(s.http, provider, systemPrompt, prompt)
	} else {
		raw, err = callLanguageModel(ctx, provider, systemPrompt, prompt)
	}
	if err != nil {
		return err
	}
	return unmarshalAIJSON(raw, out)
}

// TranscribeAudio downloads the recording from the blob store and runs it
// through the speech-to-text model of the transcription provider.
func (s *Service) TranscribeAudio(ctx context.Context, audioURL, filename string) (string, error) {
	provider := s.selectProvider(TaskTranscription)
	if provider == nil {
		return "", ErrNoProvider
	}
	if isAnthropicProviderType(provider.Type) {
		// Anthropic has no speech-to-text endpoint; fall back to the first
		// enabled non-Anthropic provider.
		provider = s.firstSpeechCapableProvider()
		if provider == nil {
			return "", fmt.Errorf("transcription needs an openai-compatible provider: %w", ErrNoProvider)
		}
	}

	audio, contentType, err := s.fetchAudio(ctx, audioURL)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = "recording.webm"
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		openaioption.WithMaxRetries(1),
	}
	if normalized := normalizeOpenAIBaseURL(provider.Endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)

	model := strings.TrimSpace(s.cfg.TranscriptionModel)
	if model == "" {
		model = defaultWhisperModel
	}

	resp, err := client.Audio.Transcriptions.New(ctx, openaiclient.AudioTranscriptionNewParams{
		Model: openaiclient.AudioModel(model),
		File:  openaiclient.File(bytes.NewReader(audio), filename, contentType),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (s *Service) fetchAudio(ctx context.Context, audioURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", fmt.Errorf("fetch audio: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, "", fmt.Errorf("fetch audio: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("fetch audio: empty body")
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/webm"
	}
	return data, contentType, nil
}

// selectProvider resolves the provider for a task, honoring the per-task
// assignment (optionally overriding the model) and falling back to the first
// enabled provider.
func (s *Service) selectProvider(task TaskKind) *appcfg.AIProvider {
	var assignment *appcfg.AIModelAssignment
	switch task {
	case TaskTranscription:
		assignment = s.cfg.Transcription
	case TaskAnalysis:
		assignment = s.cfg.Analysis
	case TaskMood:
		assignment = s.cfg.Mood
	case TaskDailySummary:
		assignment = s.cfg.DailySummary
	case TaskWeeklySummary:
		assignment = s.cfg.WeeklySummary
	}

	var providerID, overrideModel string
	if assignment != nil {
		providerID = strings.TrimSpace(assignment.ProviderID)
		overrideModel = strings.TrimSpace(assignment.Model)
	}

	pick := func(provider appcfg.AIProvider) *appcfg.AIProvider {
		selected := provider
		if overrideModel != "" {
			selected.DefaultModel = overrideModel
		}
		return &selected
	}

	if providerID != "" {
		for _, provider := range s.cfg.Providers {
			if !provider.Enabled {
				continue
			}
			if strings.TrimSpace(provider.ID) != providerID {
				continue
			}
			return pick(provider)
		}
	}

	for _, provider := range s.cfg.Providers {
		if !provider.Enabled {
			continue
		}
		return pick(provider)
	}
	return nil
}

func (s *Service) firstSpeechCapableProvider() *appcfg.AIProvider {
	for _, provider := range s.cfg.Providers {
		if !provider.Enabled || isAnthropicProviderType(provider.Type) {
			continue
		}
		selected := provider
		return &selected
	}
	return nil
}

func callLanguageModel(ctx context.Context, provider *appcfg.AIProvider, systemPrompt, prompt string) (string, error) {
	model, err := buildLanguageModel(provider)
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildAIPromptMessages(systemPrompt, prompt),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(generateMaxOutputTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromAIResponse(resp)
}
