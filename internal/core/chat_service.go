package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"learnwithai.app/learning-server/internal/auth"
	"learnwithai.app/learning-server/internal/store"
)

type conversationState struct {
	mu        sync.Mutex
	conv      *Conversation
	pending   *store.Message
	progress  []GenerationStep
	duration  int
	cancelGen context.CancelFunc
}

// VideoGenerator produces the video for a confirmed session, reporting step
// progress through onStep.
type VideoGenerator interface {
	Run(ctx context.Context, session store.LearningSession, onStep func([]GenerationStep)) (VideoResult, error)
}

// ConversationView is what the chat page renders: the transcript so far plus
// whichever selector or progress list the current step shows.
type ConversationView struct {
	Step         Step                  `json:"step"`
	Messages     []store.Message       `json:"messages"`
	Session      store.LearningSession `json:"session"`
	Options      []Option              `json:"options,omitempty"`
	AcceptsInput bool                  `json:"accepts_input"`
	Typing       bool                  `json:"typing"`
	Progress     []GenerationStep      `json:"progress,omitempty"`
}

type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Badge int    `json:"badge,omitempty"`
}

type Layout struct {
	User  store.User `json:"user"`
	Items []MenuItem `json:"items"`
}

type ChatService struct {
	dbStore    *store.MemoryStore
	generator  VideoGenerator
	replyDelay time.Duration
	seedDemo   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	conversations map[string]*conversationState
}

func NewChatService(db *store.MemoryStore, generator VideoGenerator, replyDelay time.Duration, seedDemo bool) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		dbStore:       db,
		generator:     generator,
		replyDelay:    replyDelay,
		seedDemo:      seedDemo,
		ctx:           ctx,
		cancel:        cancel,
		conversations: make(map[string]*conversationState),
	}
}

// Close cancels every in-flight generation and waits for them to stop.
func (s *ChatService) Close() {
	s.cancel()
	s.wg.Wait()
}

// Login fabricates a user from the form. Signup only differs in requiring a name.
func (s *ChatService) Login(creds auth.Credentials, signup bool) (*store.User, error) {
	if err := auth.ValidateCredentials(creds, signup); err != nil {
		return nil, err
	}

	user, err := s.dbStore.CreateUser(auth.DisplayName(creds), strings.TrimSpace(creds.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if s.seedDemo {
		if err := s.dbStore.SeedDemoData(user.ID, time.Now()); err != nil {
			log.Printf("Failed to seed demo data for user %s: %v", user.ID, err)
		}
	}

	s.mu.Lock()
	s.conversations[user.ID] = &conversationState{conv: NewConversation(user.Name)}
	s.mu.Unlock()

	log.Printf("User %s logged in as %q", user.ID, user.Name)
	return user, nil
}

// Logout destroys the user and everything they own, stopping any generation.
func (s *ChatService) Logout(userID string) error {
	s.mu.Lock()
	st, ok := s.conversations[userID]
	delete(s.conversations, userID)
	s.mu.Unlock()

	if ok {
		st.mu.Lock()
		if st.cancelGen != nil {
			st.cancelGen()
		}
		st.mu.Unlock()
	}
	return s.dbStore.DeleteUser(userID)
}

func (s *ChatService) GetUser(userID string) (*store.User, error) {
	return s.dbStore.GetUser(userID)
}

func (s *ChatService) state(userID string) (*conversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.conversations[userID]
	if !ok {
		return nil, fmt.Errorf("conversation for user %s: %w", userID, store.ErrNotFound)
	}
	return st, nil
}

func (st *conversationState) view() *ConversationView {
	c := st.conv
	v := &ConversationView{
		Step:         c.Step,
		Messages:     append([]store.Message(nil), c.Messages...),
		Session:      c.Session,
		Options:      OptionsFor(c.Step),
		AcceptsInput: c.AcceptsInput(),
	}
	if st.pending != nil {
		// The user's message is shown while the assistant is still replying.
		v.Messages = append(v.Messages, *st.pending)
		v.Options = nil
		v.AcceptsInput = false
		v.Typing = true
	}
	if c.Step == StepGeneratingVideo {
		v.Progress = append([]GenerationStep(nil), st.progress...)
	}
	return v
}

func (s *ChatService) Conversation(userID string) (*ConversationView, error) {
	st, err := s.state(userID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.view(), nil
}

// think stands in for assistant latency. A cancelled request applies nothing
// and withdraws the pending user message.
func (s *ChatService) think(ctx context.Context) error {
	if s.replyDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.replyDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var errReplyPending = fmt.Errorf("%w: assistant is still replying", ErrInvalidStep)

// preview runs apply against a copy of the conversation. On success the user
// message it would add becomes pending, so it is visible during the reply delay.
func (st *conversationState) preview(apply func(*Conversation) error) (*store.Message, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.pending != nil {
		return nil, errReplyPending
	}
	trial := st.conv.clone()
	n := len(trial.Messages)
	if err := apply(trial); err != nil {
		return nil, err
	}
	for _, m := range trial.Messages[n:] {
		if m.Role == store.RoleUser {
			msg := m
			st.pending = &msg
			return st.pending, nil
		}
	}
	return nil, nil
}

func (s *ChatService) act(ctx context.Context, userID string, delayed bool, apply func(*Conversation) error) (*ConversationView, error) {
	st, err := s.state(userID)
	if err != nil {
		return nil, err
	}

	var pending *store.Message
	if delayed {
		if pending, err = st.preview(apply); err != nil {
			return nil, err
		}
		if err := s.think(ctx); err != nil {
			st.mu.Lock()
			st.pending = nil
			st.mu.Unlock()
			return nil, err
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.pending != pending {
		return nil, errReplyPending
	}
	st.pending = nil

	n := len(st.conv.Messages)
	if err := apply(st.conv); err != nil {
		return nil, err
	}
	if pending != nil && len(st.conv.Messages) > n && st.conv.Messages[n].Role == store.RoleUser {
		st.conv.Messages[n].ID = pending.ID
		st.conv.Messages[n].Timestamp = pending.Timestamp
	}
	if st.conv.Step == StepGeneratingVideo && st.cancelGen == nil {
		s.startGeneration(userID, st)
	}
	return st.view(), nil
}

func (s *ChatService) SendMessage(ctx context.Context, userID, content string) (*ConversationView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	return s.act(ctx, userID, true, func(c *Conversation) error { return c.SubmitTopic(content) })
}

func (s *ChatService) SelectTopicType(ctx context.Context, userID, typeID string) (*ConversationView, error) {
	return s.act(ctx, userID, true, func(c *Conversation) error { return c.SelectTopicType(typeID) })
}

func (s *ChatService) SelectTeachingMethod(ctx context.Context, userID, methodID string) (*ConversationView, error) {
	return s.act(ctx, userID, true, func(c *Conversation) error { return c.SelectTeachingMethod(methodID) })
}

func (s *ChatService) SelectLanguage(ctx context.Context, userID, languageID string) (*ConversationView, error) {
	return s.act(ctx, userID, true, func(c *Conversation) error { return c.SelectLanguage(languageID) })
}

func (s *ChatService) ConfirmVideo(ctx context.Context, userID string, confirmed bool) (*ConversationView, error) {
	return s.act(ctx, userID, false, func(c *Conversation) error { return c.ConfirmVideo(confirmed) })
}

func (s *ChatService) StartNew(ctx context.Context, userID string) (*ConversationView, error) {
	return s.act(ctx, userID, false, func(c *Conversation) error { return c.StartNew() })
}

// startGeneration must be called with st.mu held.
func (s *ChatService) startGeneration(userID string, st *conversationState) {
	genCtx, cancel := context.WithCancel(s.ctx)
	st.cancelGen = cancel
	st.progress = NewGenerationSteps(st.conv.Session.SelectedLanguage)
	session := st.conv.Session

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		result, err := s.generator.Run(genCtx, session, func(steps []GenerationStep) {
			st.mu.Lock()
			st.progress = steps
			st.mu.Unlock()
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Printf("Video generation for user %s cancelled", userID)
				return
			}
			log.Printf("Video generation for user %s failed: %v", userID, err)
			st.mu.Lock()
			st.cancelGen = nil
			st.conv.failGeneration()
			st.mu.Unlock()
			return
		}
		s.finishGeneration(genCtx, userID, st, result)
	}()
}

func (s *ChatService) finishGeneration(ctx context.Context, userID string, st *conversationState, result VideoResult) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cancelGen = nil

	if ctx.Err() != nil {
		return
	}
	if err := st.conv.CompleteGeneration(result); err != nil {
		log.Printf("Generation finished for user %s but conversation moved on: %v", userID, err)
		return
	}
	st.duration = result.DurationSeconds
	session := st.conv.Session

	video, err := s.dbStore.AddSavedVideo(userID, store.SavedVideo{
		Topic:      session.Topic,
		Type:       session.SelectedType,
		Method:     session.SelectedMethod,
		Language:   session.SelectedLanguage,
		Thumbnail:  result.Thumbnail,
		VideoURL:   result.VideoURL,
		Duration:   FormatDuration(result.DurationSeconds),
		Transcript: result.Transcript,
	})
	if err != nil {
		log.Printf("Failed to save generated video for user %s: %v", userID, err)
		return
	}

	_, err = s.dbStore.AddChatHistory(userID, store.ChatHistoryItem{
		Topic:        session.Topic,
		Type:         session.SelectedType,
		Language:     session.SelectedLanguage,
		MessageCount: len(st.conv.Messages),
	})
	if err != nil {
		log.Printf("Failed to record chat history for user %s: %v", userID, err)
		return
	}
	log.Printf("Generated video %s on %q for user %s", video.ID, session.Topic, userID)
}

func (s *ChatService) Progress(userID string) ([]GenerationStep, error) {
	st, err := s.state(userID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]GenerationStep(nil), st.progress...), nil
}

// Transcript returns the download name and text for the finished session.
func (s *ChatService) Transcript(userID string) (string, string, error) {
	st, err := s.state(userID)
	if err != nil {
		return "", "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.conv.expect(StepVideoComplete); err != nil {
		return "", "", err
	}
	return TranscriptFilename(st.conv.Session.Topic), st.conv.Session.Transcript, nil
}

func (s *ChatService) Notes(userID string) (*Notes, error) {
	st, err := s.state(userID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.conv.expect(StepVideoComplete); err != nil {
		return nil, err
	}
	sess := st.conv.Session
	notes := BuildNotes(sess.Topic, sess.SelectedType, sess.SelectedLanguage, st.duration)
	return &notes, nil
}

func (s *ChatService) Layout(userID string) (*Layout, error) {
	user, err := s.dbStore.GetUser(userID)
	if err != nil {
		return nil, err
	}
	history, err := s.dbStore.ListChatHistory(userID)
	if err != nil {
		return nil, err
	}
	videos, err := s.dbStore.ListSavedVideos(userID)
	if err != nil {
		return nil, err
	}
	return &Layout{
		User: *user,
		Items: []MenuItem{
			{ID: "chat", Label: "New Chat"},
			{ID: "history", Label: "Your Chats", Badge: len(history)},
			{ID: "saved", Label: "Saved Videos", Badge: len(videos)},
			{ID: "settings", Label: "Settings"},
		},
	}, nil
}

// History and saved videos
func (s *ChatService) ListHistory(userID string) ([]store.ChatHistoryItem, error) {
	return s.dbStore.ListChatHistory(userID)
}

func (s *ChatService) DeleteHistory(userID, chatID string) error {
	return s.dbStore.DeleteChatHistory(userID, chatID)
}

func (s *ChatService) ListVideos(userID string) ([]store.SavedVideo, error) {
	return s.dbStore.ListSavedVideos(userID)
}

func (s *ChatService) GetVideo(userID, videoID string) (*store.SavedVideo, error) {
	return s.dbStore.GetSavedVideo(userID, videoID)
}

func (s *ChatService) DeleteVideo(userID, videoID string) error {
	return s.dbStore.DeleteSavedVideo(userID, videoID)
}

// VideoTranscript serves a saved video's transcript. Demo videos carry none,
// so theirs is rendered from the template on demand.
func (s *ChatService) VideoTranscript(ctx context.Context, userID, videoID string) (string, string, error) {
	video, err := s.dbStore.GetSavedVideo(userID, videoID)
	if err != nil {
		return "", "", err
	}
	text := video.Transcript
	if text == "" {
		session := store.LearningSession{Topic: video.Topic, SelectedType: video.Type, SelectedLanguage: video.Language}
		text, err = TemplateTranscriptWriter{}.WriteTranscript(ctx, session, parseDuration(video.Duration))
		if err != nil {
			return "", "", err
		}
	}
	return TranscriptFilename(video.Topic), text, nil
}

func (s *ChatService) VideoChapters(userID, videoID string, at int) (*Playback, error) {
	video, err := s.dbStore.GetSavedVideo(userID, videoID)
	if err != nil {
		return nil, err
	}
	if total := parseDuration(video.Duration); total > 0 && at > total {
		at = total
	}
	playback := PlaybackState(at)
	return &playback, nil
}

// VideoGuide returns the step-by-step explanations and flow chart for a saved video.
func (s *ChatService) VideoGuide(userID, videoID string) (*Guide, error) {
	video, err := s.dbStore.GetSavedVideo(userID, videoID)
	if err != nil {
		return nil, err
	}
	guide := BuildGuide(video.Topic)
	return &guide, nil
}

// parseDuration reads m:ss, returning 0 for anything else.
func parseDuration(d string) int {
	mins, secs, ok := strings.Cut(d, ":")
	if !ok {
		return 0
	}
	m, err1 := strconv.Atoi(mins)
	sec, err2 := strconv.Atoi(secs)
	if err1 != nil || err2 != nil {
		return 0
	}
	return m*60 + sec
}

// Settings
func (s *ChatService) GetSettings(userID string) (*store.Settings, error) {
	return s.dbStore.GetSettings(userID)
}

func (s *ChatService) UpdateSettings(userID string, settings store.Settings) (*store.Settings, error) {
	if settings.Theme != "light" && settings.Theme != "dark" {
		return nil, &auth.ValidationError{Message: "Theme must be light or dark"}
	}
	if _, ok := FindLanguage(settings.DefaultLanguage); !ok {
		return nil, &auth.ValidationError{Message: "Unknown default language"}
	}
	if settings.Playback.Speed <= 0 || settings.Playback.Speed > 2 {
		return nil, &auth.ValidationError{Message: "Playback speed must be between 0 and 2"}
	}
	return s.dbStore.UpdateSettings(userID, settings)
}

func (s *ChatService) UpdateProfile(userID, name, email, phone string) (*store.User, error) {
	return s.dbStore.UpdateUser(userID, strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(phone))
}
