package core

import "fmt"

type NoteSection struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

type Notes struct {
	Introduction      string        `json:"introduction"`
	KeyPoints         []string      `json:"key_points"`
	DetailedBreakdown []NoteSection `json:"detailed_breakdown"`
	Summary           string        `json:"summary"`
}

// BuildNotes returns the study notes shown under a finished video.
func BuildNotes(topic, contentType, language string, durationSeconds int) Notes {
	return Notes{
		Introduction: fmt.Sprintf("This comprehensive %d-minute video provides an in-depth exploration of %s, focusing specifically on %s.",
			durationSeconds/60, topic, contentType),
		KeyPoints: []string{
			fmt.Sprintf("Understanding the fundamental principles of %s", topic),
			"Exploring the theoretical framework and core concepts",
			"Examining real-world applications and practical examples",
			"Analyzing case studies and implementation strategies",
			"Discussing common challenges and solutions",
			"Reviewing best practices and expert recommendations",
		},
		DetailedBreakdown: []NoteSection{
			{"Introduction (0:00 - 1:00)", fmt.Sprintf("Overview of %s and what will be covered in this comprehensive lesson.", topic)},
			{"Definition & Core Concepts (1:00 - 3:00)", fmt.Sprintf("Detailed explanation of what %s means, its origins, and fundamental principles.", topic)},
			{"Key Fundamentals (3:00 - 6:00)", fmt.Sprintf("Deep dive into the essential concepts, theories, and frameworks that underpin %s.", topic)},
			{"Visual Explanation (6:00 - 9:00)", "Treemap visualization and graphical representations to illustrate complex relationships."},
			{"Detailed Analysis (9:00 - 12:00)", "Component-by-component breakdown with examples and detailed explanations."},
			{"Real-World Applications (12:00 - 14:00)", fmt.Sprintf("Practical applications of %s in industry, research, and everyday scenarios.", topic)},
			{"Examples & Case Studies (14:00 - 16:00)", fmt.Sprintf("Concrete examples demonstrating how %s is applied in various contexts.", topic)},
			{fmt.Sprintf("Summary & Conclusion (16:00 - %s)", FormatDuration(durationSeconds)), "Recap of key takeaways, important points to remember, and next steps for further learning."},
		},
		Summary: fmt.Sprintf("This video provides a complete understanding of %s in %s, covering everything from basic definitions to advanced applications. The content is structured to ensure progressive learning, with visual aids, practical examples, and comprehensive explanations throughout.",
			topic, language),
	}
}

// Chapter is a labelled time range used for player navigation.
type Chapter struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Start     int    `json:"start"`
	Duration  int    `json:"duration"`
	Completed bool   `json:"completed"`
}

func Chapters() []Chapter {
	spans := []struct {
		title    string
		duration int
	}{
		{"Introduction", 60},
		{"Core Concepts", 120},
		{"Key Fundamentals", 180},
		{"Visual Explanation", 180},
		{"Detailed Analysis", 180},
		{"Real-World Applications", 120},
		{"Examples & Case Studies", 120},
		{"Summary & Conclusion", 136},
	}
	chapters := make([]Chapter, len(spans))
	start := 0
	for i, s := range spans {
		chapters[i] = Chapter{ID: i + 1, Title: s.title, Timestamp: FormatDuration(start), Start: start, Duration: s.duration}
		start += s.duration
	}
	return chapters
}

// ChapterAt returns the index of the chapter playing at seconds. Positions past
// the end map to the last chapter.
func ChapterAt(chapters []Chapter, seconds int) int {
	if len(chapters) == 0 {
		return -1
	}
	for i, c := range chapters {
		if seconds < c.Start+c.Duration {
			return i
		}
	}
	return len(chapters) - 1
}

type Playback struct {
	Position       int       `json:"position"`
	CurrentChapter int       `json:"current_chapter"`
	Chapters       []Chapter `json:"chapters"`
}

// PlaybackState marks every chapter before the one at seconds as completed.
func PlaybackState(seconds int) Playback {
	if seconds < 0 {
		seconds = 0
	}
	chapters := Chapters()
	current := ChapterAt(chapters, seconds)
	for i := range chapters {
		chapters[i].Completed = i < current
	}
	return Playback{Position: seconds, CurrentChapter: current, Chapters: chapters}
}

type StepExplanation struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Diagram     string `json:"diagram"`
}

type FlowNodeType string

const (
	FlowStart    FlowNodeType = "start"
	FlowProcess  FlowNodeType = "process"
	FlowDecision FlowNodeType = "decision"
	FlowEnd      FlowNodeType = "end"
)

type FlowChartNode struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Type  FlowNodeType `json:"type"`
}

// Guide backs the player's step-by-step and flow chart tabs.
type Guide struct {
	Steps []StepExplanation `json:"steps"`
	Flow  []FlowChartNode   `json:"flow"`
}

func StepExplanations(topic string) []StepExplanation {
	return []StepExplanation{
		{1, "Understanding the Foundation",
			fmt.Sprintf("Begin with the fundamental principles of %s. This foundational knowledge establishes the framework for deeper understanding.", topic),
			"https://images.unsplash.com/photo-1516534775068-ba3e7458af70?w=400&q=80"},
		{2, "Breaking Down Components",
			fmt.Sprintf("Analyze the individual components that make up %s. Each element plays a crucial role in the overall system.", topic),
			"https://images.unsplash.com/photo-1509228627152-72ae9ae6848d?w=400&q=80"},
		{3, "Connecting the Dots",
			"Understand how different components interact and influence each other. These relationships are key to mastering the concept.",
			"https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=400&q=80"},
		{4, "Practical Application",
			fmt.Sprintf("Learn how to apply %s in real-world scenarios. Theory becomes valuable when put into practice.", topic),
			"https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=400&q=80"},
		{5, "Advanced Concepts",
			"Explore advanced aspects and edge cases. This deepens your expertise and prepares you for complex situations.",
			"https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=400&q=80"},
	}
}

func FlowChart() []FlowChartNode {
	return []FlowChartNode{
		{"1", "Start Learning", FlowStart},
		{"2", "Understand Basics", FlowProcess},
		{"3", "Concepts Clear?", FlowDecision},
		{"4", "Deep Dive", FlowProcess},
		{"5", "Practice Applications", FlowProcess},
		{"6", "Master the Topic", FlowEnd},
	}
}

func BuildGuide(topic string) Guide {
	return Guide{Steps: StepExplanations(topic), Flow: FlowChart()}
}
