package api

import (
	"net/http"

	"physiocare/internal/database"
	"physiocare/internal/metrics"
	"physiocare/internal/models"
)

// VideoResponse is one exercise video in API responses.
type VideoResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	BodyArea        string `json:"body_area"`
	Difficulty      string `json:"difficulty"`
	VideoURL        string `json:"video_url"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// handleVideos lists the exercise-video catalog.
// GET /api/videos?area=knee&difficulty=beginner
func (s *HTTPServer) handleVideos(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("videos")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := database.VideoFilter{
		BodyArea:   r.URL.Query().Get("area"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}

	listed, err := s.deps.Videos.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"videos": toVideoResponses(listed)})
}

func toVideoResponses(in []*models.ExerciseVideo) []VideoResponse {
	out := make([]VideoResponse, len(in))
	for i, v := range in {
		out[i] = VideoResponse{
			ID:              v.ID,
			Title:           v.Title,
			Description:     v.Description,
			BodyArea:        v.BodyArea,
			Difficulty:      v.Difficulty,
			VideoURL:        v.VideoURL,
			ThumbnailURL:    v.ThumbnailURL,
			DurationSeconds: v.DurationSeconds,
		}
	}
	return out
}
