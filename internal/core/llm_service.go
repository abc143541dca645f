package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"learnwithai.app/learning-server/internal/store"
)

const (
	defaultTranscriptModelName = "gemini-1.5-flash-latest"

	transcriptSystemInstruction = "You are the narrator of a short educational video. " +
		"Write a plain-text narration script split into titled sections, each heading in capitals followed by its time range in parentheses. " +
		"Do not use markdown. Keep the tone friendly and clear."
)

// LLMService writes transcripts with Gemini. It is only wired in when an API key is configured.
type LLMService struct {
	client *genai.Client
}

func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client: client,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func transcriptPrompt(session store.LearningSession, durationSeconds int) string {
	return fmt.Sprintf(
		"Write the narration for a %d-minute video (total length %s) about \"%s\". "+
			"Content type: %s. Teaching method: %s. Write it in %s. "+
			"Start with an introduction at 0:00 and end with a summary that finishes at %s.",
		durationSeconds/60, FormatDuration(durationSeconds), session.Topic,
		session.SelectedType, session.SelectedMethod, session.SelectedLanguage,
		FormatDuration(durationSeconds))
}

func (s *LLMService) WriteTranscript(ctx context.Context, session store.LearningSession, durationSeconds int) (string, error) {
	model := s.client.GenerativeModel(defaultTranscriptModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(transcriptSystemInstruction)},
	}

	temp := float32(0.7)
	maxTokens := int32(2048)

	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(transcriptPrompt(session, durationSeconds)))
	if err != nil {
		return "", fmt.Errorf("gemini transcript request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("LLM did not generate a transcript (empty response)")
	}

	var transcript strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			transcript.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if transcript.Len() == 0 {
		return "", fmt.Errorf("LLM generated an empty transcript")
	}

	return strings.TrimSpace(transcript.String()), nil
}
