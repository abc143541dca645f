package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"learnwithai.app/learning-server/internal/store"
)

type Step string

const (
	StepInitial           Step = "initial"
	StepTopicTypes        Step = "topic-types"
	StepTeachingMethods   Step = "teaching-methods"
	StepLanguageSelection Step = "language-selection"
	StepVideoConfirmation Step = "video-confirmation"
	StepGeneratingVideo   Step = "generating-video"
	StepVideoComplete     Step = "video-complete"
)

var (
	ErrInvalidStep   = errors.New("action not allowed in the current step")
	ErrUnknownOption = errors.New("unknown option")
	ErrEmptyMessage  = errors.New("message content cannot be empty")
)

const (
	confirmMessage = "YES - Generate Video"
	declineMessage = "NO - Go Back"
	declineReply   = "No problem! What else would you like to learn?"
	startNewReply  = "What would you like to learn next?"

	generationFailedReply = "Sorry, I couldn't finish that video. Would you like me to try again?"
)

// Conversation is the linear learning flow for one user. Every method either
// applies a whole transition or leaves the conversation untouched.
type Conversation struct {
	Step     Step
	Messages []store.Message
	Session  store.LearningSession
}

func NewConversation(userName string) *Conversation {
	c := &Conversation{Step: StepInitial}
	c.addMessage(store.RoleAssistant, fmt.Sprintf(
		"Hello %s! 👋 I'm your AI learning assistant. I can help you learn any topic in your preferred language with engaging video content. What would you like to learn today?",
		userName))
	return c
}

func (c *Conversation) clone() *Conversation {
	cp := *c
	cp.Messages = append([]store.Message(nil), c.Messages...)
	return &cp
}

func (c *Conversation) addMessage(role, content string) {
	c.Messages = append(c.Messages, store.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

func (c *Conversation) reset() {
	c.Step = StepInitial
	c.Session = store.LearningSession{}
}

func (c *Conversation) expect(step Step) error {
	if c.Step != step {
		return fmt.Errorf("%w: in %s", ErrInvalidStep, c.Step)
	}
	return nil
}

// AcceptsInput reports whether the free-text topic box is shown.
func (c *Conversation) AcceptsInput() bool {
	return c.Step == StepInitial || c.Step == StepVideoComplete
}

// SubmitTopic starts a session from free text. Submitting from the finished
// result view begins a new session with the given topic.
func (c *Conversation) SubmitTopic(text string) error {
	topic := strings.TrimSpace(text)
	if topic == "" {
		return ErrEmptyMessage
	}
	if !c.AcceptsInput() {
		return fmt.Errorf("%w: in %s", ErrInvalidStep, c.Step)
	}

	c.reset()
	c.addMessage(store.RoleUser, topic)
	c.Session.Topic = topic
	c.addMessage(store.RoleAssistant, fmt.Sprintf(
		"Great! Let's explore \"%s\". I can help you learn this topic in different ways. Please select which type of content you'd like:", topic))
	c.Step = StepTopicTypes
	return nil
}

func (c *Conversation) SelectTopicType(id string) error {
	if err := c.expect(StepTopicTypes); err != nil {
		return err
	}
	opt, ok := FindTopicType(id)
	if !ok {
		return fmt.Errorf("%w: topic type %q", ErrUnknownOption, id)
	}

	c.addMessage(store.RoleUser, opt.Label)
	c.Session.SelectedType = opt.Label
	c.addMessage(store.RoleAssistant, fmt.Sprintf(
		"Perfect! Now, which teaching method would you prefer for learning about %s?", c.Session.Topic))
	c.Step = StepTeachingMethods
	return nil
}

func (c *Conversation) SelectTeachingMethod(id string) error {
	if err := c.expect(StepTeachingMethods); err != nil {
		return err
	}
	opt, ok := FindTeachingMethod(id)
	if !ok {
		return fmt.Errorf("%w: teaching method %q", ErrUnknownOption, id)
	}

	c.addMessage(store.RoleUser, opt.Label)
	c.Session.SelectedMethod = opt.Label
	c.addMessage(store.RoleAssistant, fmt.Sprintf(
		"Excellent choice! Now, which language would you prefer for learning about %s?", c.Session.Topic))
	c.Step = StepLanguageSelection
	return nil
}

func (c *Conversation) SelectLanguage(id string) error {
	if err := c.expect(StepLanguageSelection); err != nil {
		return err
	}
	opt, ok := FindLanguage(id)
	if !ok {
		return fmt.Errorf("%w: language %q", ErrUnknownOption, id)
	}

	c.addMessage(store.RoleUser, opt.Label)
	c.Session.SelectedLanguage = opt.Label
	c.addMessage(store.RoleAssistant, fmt.Sprintf(
		"Excellent choice! I can generate a comprehensive video about %s (%s) in %s. Would you like me to generate the video?",
		c.Session.Topic, c.Session.SelectedType, opt.Label))
	c.Step = StepVideoConfirmation
	return nil
}

// ConfirmVideo is the single fork in the flow. Declining clears the session.
func (c *Conversation) ConfirmVideo(confirmed bool) error {
	if err := c.expect(StepVideoConfirmation); err != nil {
		return err
	}
	if confirmed {
		c.addMessage(store.RoleUser, confirmMessage)
		c.Step = StepGeneratingVideo
		return nil
	}

	c.addMessage(store.RoleUser, declineMessage)
	c.addMessage(store.RoleAssistant, declineReply)
	c.reset()
	return nil
}

func (c *Conversation) CompleteGeneration(result VideoResult) error {
	if err := c.expect(StepGeneratingVideo); err != nil {
		return err
	}
	c.Session.VideoURL = result.VideoURL
	c.Session.Thumbnail = result.Thumbnail
	c.Session.Transcript = result.Transcript
	c.Step = StepVideoComplete
	return nil
}

// failGeneration returns to the confirmation prompt so the user can retry.
func (c *Conversation) failGeneration() {
	if c.Step != StepGeneratingVideo {
		return
	}
	c.addMessage(store.RoleAssistant, generationFailedReply)
	c.Step = StepVideoConfirmation
}

// StartNew is the "learn another topic" action on the result view.
func (c *Conversation) StartNew() error {
	if err := c.expect(StepVideoComplete); err != nil {
		return err
	}
	c.addMessage(store.RoleAssistant, startNewReply)
	c.reset()
	return nil
}
