package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/adventure-engine/pkg/story"
)

type StoryInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// StoriesHandler lists the stories this server can start.
// GET /v1/stories
type StoriesHandler struct {
	logger *slog.Logger
}

func NewStoriesHandler(logger *slog.Logger) *StoriesHandler {
	return &StoriesHandler{logger: logger}
}

func (h *StoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	stories := make([]StoryInfo, 0)
	for _, name := range story.Names() {
		def, err := story.Load(name)
		if err != nil {
			h.logger.Error("Failed to load story", "story", name, "error", err)
			continue
		}
		stories = append(stories, StoryInfo{Name: def.Name, Title: def.Title})
	}
	writeJSON(w, h.logger, http.StatusOK, stories)
}
