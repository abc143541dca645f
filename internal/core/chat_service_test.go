package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnwithai.app/learning-server/internal/auth"
	"learnwithai.app/learning-server/internal/store"
)

func newTestService(t *testing.T, interval time.Duration) (*ChatService, *store.MemoryStore) {
	t.Helper()
	db := store.NewMemoryStore()
	svc := NewChatService(db, NewGenerator(interval, nil), 0, true)
	t.Cleanup(svc.Close)
	return svc, db
}

func login(t *testing.T, svc *ChatService) *store.User {
	t.Helper()
	user, err := svc.Login(auth.Credentials{Email: "asha@example.com", Password: "secret1"}, false)
	require.NoError(t, err)
	return user
}

func driveToConfirmation(t *testing.T, svc *ChatService, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SendMessage(ctx, userID, "Photosynthesis")
	require.NoError(t, err)
	_, err = svc.SelectTopicType(ctx, userID, "definition")
	require.NoError(t, err)
	_, err = svc.SelectTeachingMethod(ctx, userID, "visual")
	require.NoError(t, err)
	view, err := svc.SelectLanguage(ctx, userID, "hindi")
	require.NoError(t, err)
	require.Equal(t, StepVideoConfirmation, view.Step)
}

func waitForStep(t *testing.T, svc *ChatService, userID string, step Step) {
	t.Helper()
	require.Eventually(t, func() bool {
		view, err := svc.Conversation(userID)
		return err == nil && view.Step == step
	}, 2*time.Second, 5*time.Millisecond)
}

func TestLogin_EmptyPasswordDoesNotAuthenticate(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)

	user, err := svc.Login(auth.Credentials{Email: "asha@example.com"}, false)

	assert.Nil(t, user)
	var vErr *auth.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Email and password are required", vErr.Message)
	assert.Empty(t, svc.conversations)
}

func TestLogin_FabricatesUserAndSeeds(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)

	assert.Equal(t, "asha", user.Name)

	layout, err := svc.Layout(user.ID)
	require.NoError(t, err)
	require.Len(t, layout.Items, 4)
	assert.Equal(t, 3, layout.Items[1].Badge)
	assert.Equal(t, 3, layout.Items[2].Badge)

	view, err := svc.Conversation(user.ID)
	require.NoError(t, err)
	assert.Equal(t, StepInitial, view.Step)
	require.Len(t, view.Messages, 1)
	assert.Contains(t, view.Messages[0].Content, "Hello asha!")
}

func TestSelectTopicType_AppendsOneUserAndOneAssistantMessage(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)
	ctx := context.Background()

	before, err := svc.SendMessage(ctx, user.ID, "Gravity")
	require.NoError(t, err)
	require.Equal(t, StepTopicTypes, before.Step)
	assert.Equal(t, TopicTypes, before.Options)

	after, err := svc.SelectTopicType(ctx, user.ID, "formulas")
	require.NoError(t, err)

	assert.Equal(t, StepTeachingMethods, after.Step)
	require.Len(t, after.Messages, len(before.Messages)+2)
	assert.Equal(t, store.RoleUser, after.Messages[len(before.Messages)].Role)
	assert.Equal(t, store.RoleAssistant, after.Messages[len(before.Messages)+1].Role)
	assert.Equal(t, TeachingMethods, after.Options)
}

func TestDecline_ReturnsToInitialEmptySession(t *testing.T) {
	svc, db := newTestService(t, time.Millisecond)
	user := login(t, svc)
	driveToConfirmation(t, svc, user.ID)

	view, err := svc.ConfirmVideo(context.Background(), user.ID, false)
	require.NoError(t, err)

	assert.Equal(t, StepInitial, view.Step)
	assert.Equal(t, store.LearningSession{}, view.Session)
	videos, _ := db.ListSavedVideos(user.ID)
	assert.Len(t, videos, 3)
}

func TestGeneration_AppendsOneVideoAndOneHistoryEntry(t *testing.T) {
	svc, db := newTestService(t, time.Millisecond)
	user := login(t, svc)
	driveToConfirmation(t, svc, user.ID)

	view, err := svc.ConfirmVideo(context.Background(), user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StepGeneratingVideo, view.Step)
	assert.Len(t, view.Progress, 7)

	waitForStep(t, svc, user.ID, StepVideoComplete)

	videos, err := db.ListSavedVideos(user.ID)
	require.NoError(t, err)
	require.Len(t, videos, 4)
	assert.Equal(t, "Photosynthesis", videos[0].Topic)
	assert.Equal(t, "Definition", videos[0].Type)
	assert.Equal(t, "Visual Learning", videos[0].Method)
	assert.Equal(t, "Hindi", videos[0].Language)
	assert.NotEmpty(t, videos[0].Transcript)

	history, err := db.ListChatHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "Photosynthesis", history[0].Topic)

	final, err := svc.Conversation(user.ID)
	require.NoError(t, err)
	assert.Equal(t, len(final.Messages), history[0].MessageCount)
	assert.NotEmpty(t, final.Session.VideoURL)

	steps, err := svc.Progress(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "xxxxxxx", statuses(steps))

	name, text, err := svc.Transcript(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis-transcript.txt", name)
	assert.Equal(t, videos[0].Transcript, text)

	notes, err := svc.Notes(user.ID)
	require.NoError(t, err)
	assert.Contains(t, notes.Summary, "Photosynthesis in Hindi")

	_, err = svc.StartNew(context.Background(), user.ID)
	require.NoError(t, err)
	history, _ = db.ListChatHistory(user.ID)
	assert.Len(t, history, 4)
}

func TestTranscript_BeforeCompletionIsInvalidStep(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)

	_, _, err := svc.Transcript(user.ID)
	assert.True(t, errors.Is(err, ErrInvalidStep))
	_, err = svc.Notes(user.ID)
	assert.True(t, errors.Is(err, ErrInvalidStep))
}

func TestLogout_CancelsGenerationAndDropsUser(t *testing.T) {
	svc, db := newTestService(t, time.Hour)
	user := login(t, svc)
	driveToConfirmation(t, svc, user.ID)

	_, err := svc.ConfirmVideo(context.Background(), user.ID, true)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(user.ID))

	_, err = svc.Conversation(user.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	_, err = db.GetUser(user.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	done := make(chan struct{})
	go func() {
		svc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("generation goroutine still running after logout")
	}
}

func TestSendMessage_CancelledContextAppliesNothing(t *testing.T) {
	db := store.NewMemoryStore()
	svc := NewChatService(db, NewGenerator(time.Millisecond, nil), time.Hour, false)
	t.Cleanup(svc.Close)
	user := login(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.SendMessage(ctx, user.ID, "Gravity")
	assert.True(t, errors.Is(err, context.Canceled))

	view, err := svc.Conversation(user.ID)
	require.NoError(t, err)
	assert.Equal(t, StepInitial, view.Step)
	assert.Len(t, view.Messages, 1)
	assert.False(t, view.Typing)
}

func TestSendMessage_UserMessageVisibleDuringReplyDelay(t *testing.T) {
	db := store.NewMemoryStore()
	svc := NewChatService(db, NewGenerator(time.Millisecond, nil), 500*time.Millisecond, false)
	t.Cleanup(svc.Close)
	user := login(t, svc)
	ctx := context.Background()

	type result struct {
		view *ConversationView
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := svc.SendMessage(ctx, user.ID, "Gravity")
		done <- result{view, err}
	}()

	require.Eventually(t, func() bool {
		view, err := svc.Conversation(user.ID)
		return err == nil && view.Typing
	}, time.Second, time.Millisecond)

	during, err := svc.Conversation(user.ID)
	require.NoError(t, err)
	assert.Equal(t, StepInitial, during.Step)
	assert.False(t, during.AcceptsInput)
	require.Len(t, during.Messages, 2)
	shown := during.Messages[1]
	assert.Equal(t, store.RoleUser, shown.Role)
	assert.Equal(t, "Gravity", shown.Content)

	_, err = svc.SelectTopicType(ctx, user.ID, "definition")
	assert.True(t, errors.Is(err, ErrInvalidStep))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, StepTopicTypes, res.view.Step)
	assert.False(t, res.view.Typing)
	require.Len(t, res.view.Messages, 3)
	assert.Equal(t, shown.ID, res.view.Messages[1].ID)
	assert.Equal(t, store.RoleAssistant, res.view.Messages[2].Role)
}

type failingGenerator struct {
	err error
}

func (g failingGenerator) Run(ctx context.Context, session store.LearningSession, onStep func([]GenerationStep)) (VideoResult, error) {
	onStep(NewGenerationSteps(session.SelectedLanguage))
	return VideoResult{}, g.err
}

func TestGenerationFailure_ReturnsToConfirmation(t *testing.T) {
	db := store.NewMemoryStore()
	svc := NewChatService(db, failingGenerator{err: errors.New("renderer unavailable")}, 0, true)
	t.Cleanup(svc.Close)
	user := login(t, svc)
	driveToConfirmation(t, svc, user.ID)
	ctx := context.Background()

	_, err := svc.ConfirmVideo(ctx, user.ID, true)
	require.NoError(t, err)
	waitForStep(t, svc, user.ID, StepVideoConfirmation)

	view, err := svc.Conversation(user.ID)
	require.NoError(t, err)
	last := view.Messages[len(view.Messages)-1]
	assert.Equal(t, store.RoleAssistant, last.Role)
	assert.Equal(t, generationFailedReply, last.Content)
	assert.Equal(t, "Photosynthesis", view.Session.Topic)
	assert.Equal(t, "Hindi", view.Session.SelectedLanguage)

	videos, _ := db.ListSavedVideos(user.ID)
	assert.Len(t, videos, 3)
	history, _ := db.ListChatHistory(user.ID)
	assert.Len(t, history, 3)

	// The user can retry straight away.
	retry, err := svc.ConfirmVideo(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StepGeneratingVideo, retry.Step)
	waitForStep(t, svc, user.ID, StepVideoConfirmation)
}

func TestDeleteHistoryAndVideo_RemoveExactlyThatEntry(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)

	chats, err := svc.ListHistory(user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteHistory(user.ID, chats[2].ID))
	remaining, _ := svc.ListHistory(user.ID)
	assert.Equal(t, chats[:2], remaining)

	videos, err := svc.ListVideos(user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteVideo(user.ID, videos[1].ID))
	left, _ := svc.ListVideos(user.ID)
	assert.Equal(t, []store.SavedVideo{videos[0], videos[2]}, left)

	assert.True(t, errors.Is(svc.DeleteVideo(user.ID, videos[1].ID), store.ErrNotFound))
}

func TestVideoTranscriptAndChapters_DemoVideo(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)
	videos, _ := svc.ListVideos(user.ID)

	name, text, err := svc.VideoTranscript(context.Background(), user.ID, videos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Quantum Mechanics Explained-transcript.txt", name)
	assert.Contains(t, text, "SUMMARY & CONCLUSION (16:00 - 16:23)")

	playback, err := svc.VideoChapters(user.ID, videos[0].ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, 983, playback.Position)
	assert.Equal(t, 7, playback.CurrentChapter)
}

func TestVideoGuide(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)
	videos, _ := svc.ListVideos(user.ID)

	guide, err := svc.VideoGuide(user.ID, videos[1].ID)
	require.NoError(t, err)
	require.Len(t, guide.Steps, 5)
	assert.Contains(t, guide.Steps[0].Description, videos[1].Topic)
	assert.Len(t, guide.Flow, 6)

	_, err = svc.VideoGuide(user.ID, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestUpdateSettingsAndProfile(t *testing.T) {
	svc, _ := newTestService(t, time.Millisecond)
	user := login(t, svc)

	settings, err := svc.GetSettings(user.ID)
	require.NoError(t, err)

	settings.Theme = "sepia"
	_, err = svc.UpdateSettings(user.ID, *settings)
	var vErr *auth.ValidationError
	assert.True(t, errors.As(err, &vErr))

	settings.Theme = "dark"
	settings.DefaultLanguage = "kannada"
	updated, err := svc.UpdateSettings(user.ID, *settings)
	require.NoError(t, err)
	assert.Equal(t, "kannada", updated.DefaultLanguage)

	profile, err := svc.UpdateProfile(user.ID, "Asha Rao", "asha.rao@example.com", "+91 9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", profile.Name)

	me, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha.rao@example.com", me.Email)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 983, parseDuration("16:23"))
	assert.Equal(t, 0, parseDuration("soon"))
	assert.Equal(t, 0, parseDuration("a:b"))
}
