package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type workspace struct {
	user     User
	history  []ChatHistoryItem // newest first
	videos   []SavedVideo      // newest first
	settings Settings
}

// MemoryStore owns every user's lists. Nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	workspaces map[string]*workspace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{workspaces: make(map[string]*workspace)}
}

func (s *MemoryStore) get(userID string) (*workspace, error) {
	ws, ok := s.workspaces[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return ws, nil
}

// User methods
func (s *MemoryStore) CreateUser(name, email string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("failed to create user: email is empty")
	}
	user := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[user.ID] = &workspace{user: user, settings: DefaultSettings()}
	return &user, nil
}

func (s *MemoryStore) GetUser(userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	user := ws.user
	return &user, nil
}

func (s *MemoryStore) UpdateUser(userID, name, email, phone string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		ws.user.Name = name
	}
	if email != "" {
		ws.user.Email = email
	}
	ws.user.Phone = phone
	user := ws.user
	return &user, nil
}

// DeleteUser drops the user together with their history, videos and settings.
func (s *MemoryStore) DeleteUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(userID); err != nil {
		return err
	}
	delete(s.workspaces, userID)
	return nil
}

// Chat history methods
func (s *MemoryStore) ListChatHistory(userID string) ([]ChatHistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return append([]ChatHistoryItem(nil), ws.history...), nil
}

func (s *MemoryStore) AddChatHistory(userID string, item ChatHistoryItem) (*ChatHistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	item.ID = uuid.NewString()
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	ws.history = append([]ChatHistoryItem{item}, ws.history...)
	return &item, nil
}

func (s *MemoryStore) DeleteChatHistory(userID, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return err
	}
	for i, item := range ws.history {
		if item.ID == chatID {
			ws.history = append(ws.history[:i:i], ws.history[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
}

// Saved video methods
func (s *MemoryStore) ListSavedVideos(userID string) ([]SavedVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return append([]SavedVideo(nil), ws.videos...), nil
}

func (s *MemoryStore) GetSavedVideo(userID, videoID string) (*SavedVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	for _, v := range ws.videos {
		if v.ID == videoID {
			video := v
			return &video, nil
		}
	}
	return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
}

func (s *MemoryStore) AddSavedVideo(userID string, video SavedVideo) (*SavedVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	video.ID = uuid.NewString()
	if video.SavedDate.IsZero() {
		video.SavedDate = time.Now()
	}
	ws.videos = append([]SavedVideo{video}, ws.videos...)
	return &video, nil
}

func (s *MemoryStore) DeleteSavedVideo(userID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return err
	}
	for i, v := range ws.videos {
		if v.ID == videoID {
			ws.videos = append(ws.videos[:i:i], ws.videos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("video %s: %w", videoID, ErrNotFound)
}

// Settings methods
func (s *MemoryStore) GetSettings(userID string) (*Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	settings := ws.settings
	return &settings, nil
}

func (s *MemoryStore) UpdateSettings(userID string, settings Settings) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	ws.settings = settings
	return &settings, nil
}

// SeedDemoData installs the sample chats and videos a new account starts with.
func (s *MemoryStore) SeedDemoData(userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.get(userID)
	if err != nil {
		return err
	}

	hour, day := time.Hour, 24*time.Hour
	ws.history = []ChatHistoryItem{
		{ID: uuid.NewString(), Topic: "Quantum Mechanics", Type: "Definition", Language: "English", Timestamp: now.Add(-hour), MessageCount: 12},
		{ID: uuid.NewString(), Topic: "Photosynthesis", Type: "Real-world Applications", Language: "Hindi", Timestamp: now.Add(-day), MessageCount: 8},
		{ID: uuid.NewString(), Topic: "Machine Learning", Type: "Creative Explanation", Language: "English", Timestamp: now.Add(-2 * day), MessageCount: 15},
	}
	ws.videos = []SavedVideo{
		{
			ID: uuid.NewString(), Topic: "Quantum Mechanics Explained", Type: "Definition", Language: "English",
			Thumbnail: "https://images.unsplash.com/photo-1752451399416-faef5f9fe572?w=800&q=80",
			VideoURL:  "https://example.com/video1.mp4", Duration: "16:23", SavedDate: now.Add(-hour),
		},
		{
			ID: uuid.NewString(), Topic: "The Process of Photosynthesis", Type: "Real-world Applications", Language: "Hindi",
			Thumbnail: "https://images.unsplash.com/photo-1634626601884-90acf3c95a5b?w=800&q=80",
			VideoURL:  "https://example.com/video2.mp4", Duration: "15:47", SavedDate: now.Add(-day),
		},
		{
			ID: uuid.NewString(), Topic: "Introduction to Machine Learning", Type: "Creative Explanation", Language: "English",
			Thumbnail: "https://images.unsplash.com/photo-1697577418970-95d99b5a55cf?w=800&q=80",
			VideoURL:  "https://example.com/video3.mp4", Duration: "17:12", SavedDate: now.Add(-2 * day),
		},
	}
	return nil
}
