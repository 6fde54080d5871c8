package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vidgen/internal/sqlinline"
)

type videoDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type historyResponse struct {
	Videos []videoDTO   `json:"videos"`
	User   historyUsage `json:"user"`
}

type historyUsage struct {
	VideosUsed int `json:"videosUsed"`
	VideoLimit int `json:"videoLimit"`
}

// History returns the caller's most recent 50 jobs, newest first, plus their
// current usage.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.writeUserError(w, err)
		return
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListVideosByUser, user.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list videos failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	defer rows.Close()

	videos := make([]videoDTO, 0, 50)
	for rows.Next() {
		var v videoDTO
		if err := rows.Scan(&v.ID, &v.UserID, &v.Prompt, &v.ImageURL, &v.VideoURL, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			a.Logger.Error().Err(err).Msg("scan video row failed")
			a.error(w, http.StatusInternalServerError, "Failed to fetch history")
			return
		}
		videos = append(videos, v)
	}

	a.json(w, http.StatusOK, historyResponse{
		Videos: videos,
		User:   historyUsage{VideosUsed: user.VideosUsed, VideoLimit: user.VideoLimit},
	})
}

type deleteVideoRequest struct {
	VideoID string `json:"videoId"`
}

// DeleteVideo removes a single job owned by the caller. Jobs belonging to
// other users are indistinguishable from missing ones.
func (a *App) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.writeUserError(w, err)
		return
	}

	var req deleteVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.VideoID) == "" {
		a.error(w, http.StatusBadRequest, "Video ID is required")
		return
	}

	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteVideoOwned, req.VideoID, user.ID)
	if err != nil {
		a.Logger.Error().Err(err).Str("video_id", req.VideoID).Msg("delete video failed")
		a.error(w, http.StatusInternalServerError, "Failed to delete video")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "Video not found")
		return
	}

	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
