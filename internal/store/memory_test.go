package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) (*MemoryStore, string) {
	t.Helper()
	s := NewMemoryStore()
	user, err := s.CreateUser("Asha", "asha@example.com")
	require.NoError(t, err)
	require.NoError(t, s.SeedDemoData(user.ID, time.Now()))
	return s, user.ID
}

func TestCreateUser_DefaultSettings(t *testing.T) {
	s := NewMemoryStore()
	user, err := s.CreateUser("Asha", "asha@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	settings, err := s.GetSettings(user.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *settings)

	_, err = s.CreateUser("x", "")
	assert.Error(t, err)
}

func TestDeleteChatHistory_RemovesOnlyThatEntry(t *testing.T) {
	s, userID := newSeededStore(t)

	before, err := s.ListChatHistory(userID)
	require.NoError(t, err)
	require.Len(t, before, 3)

	require.NoError(t, s.DeleteChatHistory(userID, before[1].ID))

	after, err := s.ListChatHistory(userID)
	require.NoError(t, err)
	assert.Equal(t, []ChatHistoryItem{before[0], before[2]}, after)

	err = s.DeleteChatHistory(userID, before[1].ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteSavedVideo_RemovesOnlyThatEntry(t *testing.T) {
	s, userID := newSeededStore(t)

	before, err := s.ListSavedVideos(userID)
	require.NoError(t, err)
	require.Len(t, before, 3)

	require.NoError(t, s.DeleteSavedVideo(userID, before[0].ID))

	after, err := s.ListSavedVideos(userID)
	require.NoError(t, err)
	assert.Equal(t, before[1:], after)

	_, err = s.GetSavedVideo(userID, before[0].ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAddEntries_PrependNewest(t *testing.T) {
	s, userID := newSeededStore(t)

	item, err := s.AddChatHistory(userID, ChatHistoryItem{Topic: "Gravity", Type: "Summary", Language: "Tamil", MessageCount: 9})
	require.NoError(t, err)
	video, err := s.AddSavedVideo(userID, SavedVideo{Topic: "Gravity", Duration: "16:23", Transcript: "text"})
	require.NoError(t, err)

	history, _ := s.ListChatHistory(userID)
	videos, _ := s.ListSavedVideos(userID)
	require.Len(t, history, 4)
	require.Len(t, videos, 4)
	assert.Equal(t, item.ID, history[0].ID)
	assert.Equal(t, video.ID, videos[0].ID)
	assert.False(t, history[0].Timestamp.IsZero())
	assert.Equal(t, "text", videos[0].Transcript)
}

func TestListReturnsCopies(t *testing.T) {
	s, userID := newSeededStore(t)

	history, _ := s.ListChatHistory(userID)
	history[0].Topic = "mutated"

	again, _ := s.ListChatHistory(userID)
	assert.NotEqual(t, "mutated", again[0].Topic)
}

func TestDeleteUser_DropsWorkspace(t *testing.T) {
	s, userID := newSeededStore(t)

	require.NoError(t, s.DeleteUser(userID))

	_, err := s.GetUser(userID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.ListSavedVideos(userID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteUser(userID), ErrNotFound))
}

func TestUpdateUserAndSettings(t *testing.T) {
	s, userID := newSeededStore(t)

	user, err := s.UpdateUser(userID, "Asha K", "", "+91 9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Asha K", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "+91 9876543210", user.Phone)

	settings := DefaultSettings()
	settings.Theme = "dark"
	settings.Playback.Speed = 1.5
	_, err = s.UpdateSettings(userID, settings)
	require.NoError(t, err)

	got, err := s.GetSettings(userID)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, 1.5, got.Playback.Speed)
}
