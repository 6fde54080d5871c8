package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vidgen/internal/domain"
	"vidgen/internal/provider/videogen"
	"vidgen/internal/sqlinline"
	"vidgen/internal/storage"
)

type generateVideoRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
}

type generateVideoResponse struct {
	Success  bool   `json:"success"`
	VideoID  string `json:"videoId"`
	VideoURL string `json:"videoUrl"`
}

// GenerateVideo runs the whole pipeline synchronously: quota check, image
// ingest, job record, provider call with polling, outcome write-back. The
// caller blocks until the job is terminal.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.writeUserError(w, err)
		return
	}

	var req generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Image) == "" || strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "Image and prompt are required")
		return
	}

	// Admission check happens before anything is persisted; a rejected
	// submission leaves no job record behind.
	if !user.HasRemainingQuota() {
		a.writeUserError(w, domain.ErrQuotaExceeded)
		return
	}

	imageURL, err := storage.SaveDataURL(r.Context(), a.Store, req.Image, "product-image.jpg")
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", user.ID).Msg("image ingest failed")
		a.error(w, http.StatusInternalServerError, "Failed to store uploaded image.")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertVideo, user.ID, req.Prompt, imageURL, string(domain.VideoStatusProcessing))
	var videoID string
	var createdAt time.Time
	if err := row.Scan(&videoID, &createdAt); err != nil {
		a.Logger.Error().Err(err).Msg("insert video failed")
		a.error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	generationStarted.Inc()
	start := time.Now()
	videoURL, err := a.Generator.Generate(r.Context(), videogen.GenerateRequest{
		Prompt:   req.Prompt,
		ImageURL: imageURL,
	})
	if err != nil {
		a.failVideo(r.Context(), videoID, err)
		a.error(w, http.StatusInternalServerError, generationErrorMessage(err))
		return
	}

	if err := a.completeVideo(r.Context(), videoID, user.ID, videoURL); err != nil {
		a.Logger.Error().Err(err).Str("video_id", videoID).Msg("record completion failed")
		a.error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	generationCompleted.Inc()
	generationDuration.Observe(time.Since(start).Seconds())

	a.json(w, http.StatusOK, generateVideoResponse{Success: true, VideoID: videoID, VideoURL: videoURL})
}

// outcomeContext detaches the write-back from request cancellation. A client
// disconnect during the long synchronous poll cancels the request context,
// but the terminal status must still land in the database.
func outcomeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}

// failVideo transitions the job to FAILED. Every failure path after the job
// record exists must land here so no job is ever left in PROCESSING.
func (a *App) failVideo(ctx context.Context, videoID string, cause error) {
	generationFailed.Inc()
	a.Logger.Error().Err(cause).Str("video_id", videoID).Msg("video generation failed")
	if err := domain.ValidateTransition(domain.VideoStatusProcessing, domain.VideoStatusFailed); err != nil {
		a.Logger.Error().Err(err).Msg("refusing invalid transition")
		return
	}
	writeCtx, cancel := outcomeContext(ctx)
	defer cancel()
	if _, err := a.SQL.Exec(writeCtx, sqlinline.QMarkVideoFailed, videoID); err != nil {
		a.Logger.Error().Err(err).Str("video_id", videoID).Msg("mark failed errored")
	}
}

// completeVideo stores the asset URL and charges one unit of quota. The usage
// increment is a single SQL update, atomic under concurrent completions.
func (a *App) completeVideo(ctx context.Context, videoID, userID, videoURL string) error {
	if err := domain.ValidateTransition(domain.VideoStatusProcessing, domain.VideoStatusCompleted); err != nil {
		return err
	}
	writeCtx, cancel := outcomeContext(ctx)
	defer cancel()
	if _, err := a.SQL.Exec(writeCtx, sqlinline.QMarkVideoCompleted, videoID, videoURL); err != nil {
		return err
	}
	if _, err := a.SQL.Exec(writeCtx, sqlinline.QIncrementVideosUsed, userID); err != nil {
		return err
	}
	return nil
}

func (a *App) writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, http.StatusTooManyRequests, "Monthly video limit reached. Upgrade your plan to generate more videos.")
	default:
		a.error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// generationErrorMessage surfaces the deepest human-readable cause while
// keeping a generic fallback for opaque failures.
func generationErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "Video generation timed out. Please try again."
	case errors.Is(err, domain.ErrUnrecognizedResponse):
		return "Video generation failed. Please try again."
	case errors.Is(err, domain.ErrProvider):
		msg := strings.TrimSpace(strings.TrimPrefix(err.Error(), domain.ErrProvider.Error()+":"))
		if msg != "" && msg != err.Error() {
			return "Video generation failed: " + msg
		}
		return "Video generation failed. Please try again."
	default:
		return "Video generation failed. Please try again."
	}
}
