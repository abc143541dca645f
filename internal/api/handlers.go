package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"learnwithai.app/learning-server/internal/auth"
	"learnwithai.app/learning-server/internal/core"
	"learnwithai.app/learning-server/internal/store"
)

type contextKey string

const userIDKey contextKey = "userID"

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and hidden behind fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Message, http.StatusBadRequest)
	case errors.Is(err, core.ErrEmptyMessage):
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
	case errors.Is(err, core.ErrUnknownOption):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidStep):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing to write.
	default:
		log.Printf("%s: %v", fallback, err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		if _, err := h.chatService.GetUser(userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "User not found", http.StatusUnauthorized)
				return
			}
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", userID, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

func (h *APIHandler) authenticate(w http.ResponseWriter, r *http.Request, signup bool) {
	var req auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.chatService.Login(req, signup)
	if err != nil {
		writeError(w, err, "Failed to log in")
		return
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", user.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if signup {
		status = http.StatusCreated
	}
	writeJSON(w, status, LoginResponse{Token: token, User: user})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, false)
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, true)
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.Logout(userIDFrom(r)); err != nil {
		writeError(w, err, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.chatService.GetUser(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *APIHandler) LayoutHandler(w http.ResponseWriter, r *http.Request) {
	layout, err := h.chatService.Layout(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to build layout")
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

type CatalogResponse struct {
	TopicTypes      []core.Option `json:"topic_types"`
	TeachingMethods []core.Option `json:"teaching_methods"`
	Languages       []core.Option `json:"languages"`
}

func (h *APIHandler) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		TopicTypes:      core.TopicTypes,
		TeachingMethods: core.TeachingMethods,
		Languages:       core.Languages,
	})
}

// Conversation
func (h *APIHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatService.Conversation(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get conversation")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.chatService.SendMessage(r.Context(), userIDFrom(r), req.Content)
	if err != nil {
		writeError(w, err, "Failed to post message")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type SelectRequest struct {
	ID string `json:"id"`
}

type selectFunc func(ctx context.Context, userID, id string) (*core.ConversationView, error)

func (h *APIHandler) selectHandler(sel selectFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.ID == "" {
			http.Error(w, "Option id is required", http.StatusBadRequest)
			return
		}

		view, err := sel(r.Context(), userIDFrom(r), req.ID)
		if err != nil {
			writeError(w, err, "Failed to apply selection")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *APIHandler) SelectTopicTypeHandler() http.HandlerFunc {
	return h.selectHandler(h.chatService.SelectTopicType)
}

func (h *APIHandler) SelectTeachingMethodHandler() http.HandlerFunc {
	return h.selectHandler(h.chatService.SelectTeachingMethod)
}

func (h *APIHandler) SelectLanguageHandler() http.HandlerFunc {
	return h.selectHandler(h.chatService.SelectLanguage)
}

type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *APIHandler) ConfirmVideoHandler(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.chatService.ConfirmVideo(r.Context(), userIDFrom(r), req.Confirmed)
	if err != nil {
		writeError(w, err, "Failed to confirm video")
		return
	}
	status := http.StatusOK
	if view.Step == core.StepGeneratingVideo {
		status = http.StatusAccepted
	}
	writeJSON(w, status, view)
}

func (h *APIHandler) StartNewHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatService.StartNew(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to start a new session")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	steps, err := h.chatService.Progress(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get progress")
		return
	}
	writeJSON(w, http.StatusOK, steps)
}

func (h *APIHandler) NotesHandler(w http.ResponseWriter, r *http.Request) {
	notes, err := h.chatService.Notes(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to build notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func writeTranscript(w http.ResponseWriter, filename, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (h *APIHandler) TranscriptHandler(w http.ResponseWriter, r *http.Request) {
	filename, text, err := h.chatService.Transcript(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get transcript")
		return
	}
	writeTranscript(w, filename, text)
}

// Chat history
func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListHistory(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to list chats")
		return
	}
	if chats == nil {
		chats = []store.ChatHistoryItem{}
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.DeleteHistory(userIDFrom(r), chi.URLParam(r, "chatID")); err != nil {
		writeError(w, err, "Failed to delete chat")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Saved videos
func (h *APIHandler) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := h.chatService.ListVideos(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to list videos")
		return
	}
	if videos == nil {
		videos = []store.SavedVideo{}
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *APIHandler) GetVideoHandler(w http.ResponseWriter, r *http.Request) {
	video, err := h.chatService.GetVideo(userIDFrom(r), chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err, "Failed to get video")
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (h *APIHandler) DeleteVideoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.DeleteVideo(userIDFrom(r), chi.URLParam(r, "videoID")); err != nil {
		writeError(w, err, "Failed to delete video")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) VideoTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	filename, text, err := h.chatService.VideoTranscript(r.Context(), userIDFrom(r), chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err, "Failed to get transcript")
		return
	}
	writeTranscript(w, filename, text)
}

func (h *APIHandler) VideoChaptersHandler(w http.ResponseWriter, r *http.Request) {
	at := 0
	if raw := r.URL.Query().Get("at"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			http.Error(w, "at must be a non-negative number of seconds", http.StatusBadRequest)
			return
		}
		at = v
	}

	playback, err := h.chatService.VideoChapters(userIDFrom(r), chi.URLParam(r, "videoID"), at)
	if err != nil {
		writeError(w, err, "Failed to get chapters")
		return
	}
	writeJSON(w, http.StatusOK, playback)
}

func (h *APIHandler) VideoGuideHandler(w http.ResponseWriter, r *http.Request) {
	guide, err := h.chatService.VideoGuide(userIDFrom(r), chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err, "Failed to get video guide")
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

// Settings
func (h *APIHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := h.chatService.GetSettings(userIDFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *APIHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req store.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := h.chatService.UpdateSettings(userIDFrom(r), req)
	if err != nil {
		writeError(w, err, "Failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.chatService.UpdateProfile(userIDFrom(r), req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
