package core

import (
	"context"
	"fmt"
	"strings"

	"learnwithai.app/learning-server/internal/store"
)

// TranscriptWriter produces the narration text for a generated video.
type TranscriptWriter interface {
	WriteTranscript(ctx context.Context, session store.LearningSession, durationSeconds int) (string, error)
}

// TemplateTranscriptWriter fills the built-in eight-section script.
type TemplateTranscriptWriter struct{}

func (TemplateTranscriptWriter) WriteTranscript(_ context.Context, s store.LearningSession, durationSeconds int) (string, error) {
	topic := s.Topic
	var b strings.Builder

	fmt.Fprintf(&b, "Welcome to this comprehensive exploration of %s.\n\n", topic)
	fmt.Fprintf(&b, "In this %d-minute video, we will thoroughly examine %s related to %s.\n\n", durationSeconds/60, s.SelectedType, topic)

	fmt.Fprintf(&b, "INTRODUCTION (0:00 - 1:00)\n")
	fmt.Fprintf(&b, "Welcome! Today we embark on an educational journey to understand %s in depth. This video is designed to provide you with a complete understanding, from foundational concepts to advanced applications.\n\n", topic)

	fmt.Fprintf(&b, "DEFINITION & CORE CONCEPTS (1:00 - 3:00)\n")
	fmt.Fprintf(&b, "Let's begin by defining %s. At its core, %s represents a fundamental concept that plays a crucial role in its field. We'll explore its origins, evolution, and why it matters in today's context.\n\n", topic, topic)

	fmt.Fprintf(&b, "KEY FUNDAMENTALS (3:00 - 6:00)\n")
	fmt.Fprintf(&b, "Now we dive deeper into the essential principles. Understanding these fundamentals is critical for building a strong foundation. We'll examine the theoretical framework, key terminology, and underlying mechanisms that make %s work.\n\n", topic)

	fmt.Fprintf(&b, "VISUAL EXPLANATION (6:00 - 9:00)\n")
	fmt.Fprintf(&b, "Here's where we use visual aids to enhance understanding. Our treemap visualization illustrates the hierarchical relationships and interconnections within %s. Notice how different components relate to each other and contribute to the whole.\n\n", topic)

	fmt.Fprintf(&b, "DETAILED ANALYSIS (9:00 - 12:00)\n")
	fmt.Fprintf(&b, "Let's break down each component systematically. We'll analyze the structure, examine individual elements, and understand how they integrate to form a cohesive system. Pay attention to the relationships and dependencies between different parts.\n\n")

	fmt.Fprintf(&b, "REAL-WORLD APPLICATIONS (12:00 - 14:00)\n")
	fmt.Fprintf(&b, "Theory meets practice! Discover how %s manifests in real-world scenarios. From industry applications to everyday situations, we'll explore concrete examples that demonstrate practical relevance.\n\n", topic)

	fmt.Fprintf(&b, "EXAMPLES & CASE STUDIES (14:00 - 16:00)\n")
	fmt.Fprintf(&b, "Through detailed case studies, we'll see %s in action. These examples provide context and help solidify your understanding by showing practical implementation.\n\n", topic)

	fmt.Fprintf(&b, "SUMMARY & CONCLUSION (16:00 - %s)\n", FormatDuration(durationSeconds))
	fmt.Fprintf(&b, "Let's recap the key points we've covered. Remember the fundamental principles, understand the applications, and appreciate the significance of %s. You now have a comprehensive understanding to build upon.\n\n", topic)

	b.WriteString("Thank you for watching! Continue your learning journey by exploring related topics and applying these concepts in your own context.")
	return b.String(), nil
}

// TranscriptFilename is the download name for a topic's transcript.
func TranscriptFilename(topic string) string {
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(strings.TrimSpace(topic))
	if name == "" {
		name = "video"
	}
	return name + "-transcript.txt"
}
