package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"vidgen/internal/domain"
	"vidgen/internal/infra"
	"vidgen/internal/middleware"
	"vidgen/internal/provider/videogen"
	"vidgen/internal/sqlinline"
	"vidgen/internal/storage"
)

// VideoGenerator is the slice of the provider client the handlers depend on.
type VideoGenerator interface {
	Generate(ctx context.Context, req videogen.GenerateRequest) (string, error)
}

// App is the handler container: every dependency is injected, nothing ambient.
type App struct {
	SQL               infra.SQLExecutor
	Logger            infra.Logger
	Store             *storage.FileStore
	Generator         VideoGenerator
	DefaultVideoLimit int
}

func NewApp(sql infra.SQLExecutor, logger infra.Logger, store *storage.FileStore, gen VideoGenerator, defaultLimit int) *App {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultVideoLimit
	}
	return &App{SQL: sql, Logger: logger, Store: store, Generator: gen, DefaultVideoLimit: defaultLimit}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// currentUser resolves the locally persisted user for the request's session.
func (a *App) currentUser(r *http.Request) (*domain.User, error) {
	clerkID := middleware.ClerkIDFromContext(r.Context())
	if clerkID == "" {
		return nil, domain.ErrUnauthorized
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByClerkID, clerkID)
	var u domain.User
	if err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.FirstName, &u.LastName, &u.VideoLimit, &u.VideosUsed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

type userDTO struct {
	ID         string    `json:"id"`
	ClerkID    string    `json:"clerkId"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	VideoLimit int       `json:"videoLimit"`
	VideosUsed int       `json:"videosUsed"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:         u.ID,
		ClerkID:    u.ClerkID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		VideoLimit: u.VideoLimit,
		VideosUsed: u.VideosUsed,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
