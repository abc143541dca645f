package core

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"learnwithai.app/learning-server/internal/store"
)

type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusProcessing StepStatus = "processing"
	StatusComplete   StepStatus = "complete"
)

const (
	mockVideoURL  = "https://example.com/generated-video.mp4"
	mockThumbnail = "https://images.unsplash.com/photo-1516534775068-ba3e7458af70?w=800&q=80"

	minVideoSeconds   = 900
	videoSecondsRange = 180
)

type GenerationStep struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
}

type VideoResult struct {
	VideoURL        string `json:"video_url"`
	Thumbnail       string `json:"thumbnail"`
	Transcript      string `json:"transcript"`
	DurationSeconds int    `json:"duration_seconds"`
}

// NewGenerationSteps returns the seven-step sequence with the first step already processing.
func NewGenerationSteps(language string) []GenerationStep {
	labels := []string{
		"Analyzing topic content",
		"Generating script and structure",
		"Creating visual animations",
		"Generating treemap visualization",
		fmt.Sprintf("Creating AI voiceover in %s", language),
		"Adding subtitles",
		"Rendering final video",
	}
	steps := make([]GenerationStep, len(labels))
	for i, label := range labels {
		steps[i] = GenerationStep{ID: strconv.Itoa(i + 1), Label: label, Status: StatusPending}
	}
	steps[0].Status = StatusProcessing
	return steps
}

// AdvanceSteps completes the processing step and starts the next one. It
// reports whether every step is complete.
func AdvanceSteps(steps []GenerationStep) bool {
	for i := range steps {
		if steps[i].Status == StatusComplete {
			continue
		}
		steps[i].Status = StatusComplete
		if i+1 < len(steps) {
			steps[i+1].Status = StatusProcessing
		}
		return i+1 == len(steps)
	}
	return true
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Generator fakes video production: it walks the step list at a fixed cadence
// and then asks for a transcript. No media is produced.
type Generator struct {
	interval time.Duration
	writer   TranscriptWriter
	fallback TranscriptWriter
	duration func() int
}

func NewGenerator(interval time.Duration, writer TranscriptWriter) *Generator {
	fallback := TemplateTranscriptWriter{}
	if writer == nil {
		writer = fallback
	}
	return &Generator{
		interval: interval,
		writer:   writer,
		fallback: fallback,
		duration: func() int { return minVideoSeconds + rand.Intn(videoSecondsRange) },
	}
}

// Run blocks until every step is complete or ctx is done. onStep receives a
// copy of the step list after each change.
func (g *Generator) Run(ctx context.Context, session store.LearningSession, onStep func([]GenerationStep)) (VideoResult, error) {
	steps := NewGenerationSteps(session.SelectedLanguage)
	notify := func() {
		if onStep != nil {
			onStep(append([]GenerationStep(nil), steps...))
		}
	}
	notify()

	if g.interval > 0 {
		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for done := false; !done; {
			select {
			case <-ctx.Done():
				return VideoResult{}, ctx.Err()
			case <-ticker.C:
				done = AdvanceSteps(steps)
				notify()
			}
		}
	} else {
		for !AdvanceSteps(steps) {
			notify()
		}
		notify()
	}

	duration := g.duration()
	transcript, err := g.writer.WriteTranscript(ctx, session, duration)
	if err != nil {
		if ctx.Err() != nil {
			return VideoResult{}, ctx.Err()
		}
		log.Printf("Transcript writer failed for topic %q, using template: %v", session.Topic, err)
		transcript, err = g.fallback.WriteTranscript(ctx, session, duration)
		if err != nil {
			return VideoResult{}, fmt.Errorf("failed to write transcript: %w", err)
		}
	}

	return VideoResult{
		VideoURL:        mockVideoURL,
		Thumbnail:       mockThumbnail,
		Transcript:      transcript,
		DurationSeconds: duration,
	}, nil
}
