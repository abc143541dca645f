package store

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryItem struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Type         string    `json:"type"`
	Language     string    `json:"language"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"message_count"`
}

type SavedVideo struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Type       string    `json:"type"`
	Method     string    `json:"method,omitempty"`
	Language   string    `json:"language"`
	Thumbnail  string    `json:"thumbnail"`
	VideoURL   string    `json:"video_url"`
	Duration   string    `json:"duration"` // "m:ss"
	SavedDate  time.Time `json:"saved_date"`
	Transcript string    `json:"-"` // Served through the transcript download only
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LearningSession is filled in step by step as the conversation advances.
type LearningSession struct {
	Topic            string `json:"topic"`
	SelectedType     string `json:"selected_type,omitempty"`
	SelectedMethod   string `json:"selected_method,omitempty"`
	SelectedLanguage string `json:"selected_language,omitempty"`
	VideoURL         string `json:"video_url,omitempty"`
	Thumbnail        string `json:"thumbnail,omitempty"`
	Transcript       string `json:"transcript,omitempty"`
}

type NotificationSettings struct {
	VideoComplete      bool `json:"video_complete"`
	NewFeatures        bool `json:"new_features"`
	LearningReminders  bool `json:"learning_reminders"`
	EmailNotifications bool `json:"email_notifications"`
}

type PlaybackSettings struct {
	Quality  string  `json:"quality"`
	Autoplay bool    `json:"autoplay"`
	Speed    float64 `json:"speed"`
}

type Settings struct {
	Theme           string               `json:"theme"` // "light" or "dark"
	DefaultLanguage string               `json:"default_language"`
	Notifications   NotificationSettings `json:"notifications"`
	Playback        PlaybackSettings     `json:"playback"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:           "light",
		DefaultLanguage: "english",
		Notifications: NotificationSettings{
			VideoComplete:      true,
			NewFeatures:        true,
			LearningReminders:  false,
			EmailNotifications: true,
		},
		Playback: PlaybackSettings{
			Quality:  "auto",
			Autoplay: true,
			Speed:    1,
		},
	}
}
