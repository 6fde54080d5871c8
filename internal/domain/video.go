package domain

import (
	"fmt"
	"time"
)

// VideoStatus enumerates the lifecycle states of a generation job.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "PENDING"
	VideoStatusProcessing VideoStatus = "PROCESSING"
	VideoStatusCompleted  VideoStatus = "COMPLETED"
	VideoStatusFailed     VideoStatus = "FAILED"
)

// Video is one user-initiated generation request and its lifecycle record.
// VideoURL is set exactly when Status is COMPLETED.
type Video struct {
	ID        string
	UserID    string
	Prompt    string
	ImageURL  string
	VideoURL  string
	Status    VideoStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransition reports whether a job may move from one status to another.
// The lifecycle is strictly monotonic: terminal states absorb.
func CanTransition(from, to VideoStatus) bool {
	switch from {
	case VideoStatusPending:
		return to == VideoStatusProcessing || to == VideoStatusCompleted || to == VideoStatusFailed
	case VideoStatusProcessing:
		return to == VideoStatusCompleted || to == VideoStatusFailed
	case VideoStatusCompleted, VideoStatusFailed:
		return false
	default:
		return false
	}
}

// ValidateTransition returns ErrInvalidTransition for any move CanTransition
// rejects. Same-state moves are allowed so retried writes stay idempotent.
func ValidateTransition(from, to VideoStatus) error {
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
