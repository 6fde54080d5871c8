package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"vidgen/internal/domain"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// SaveDataURL decodes a base64 image payload, with or without a data-URL
// media-type prefix, and persists it under a collision-resistant key. It
// returns the public reference of the stored file. All failures wrap
// domain.ErrIngest so callers can treat ingest as a unit.
func SaveDataURL(ctx context.Context, store *FileStore, payload, label string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", fmt.Errorf("%w: empty payload", domain.ErrIngest)
	}
	encoded := dataURLPrefix.ReplaceAllString(payload, "")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %v", domain.ErrIngest, err)
	}
	if label == "" {
		label = "upload"
	}
	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), label)
	ref, err := store.Write(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIngest, err)
	}
	return ref, nil
}
