package handlers

import (
	"net/http"

	"vidgen/internal/domain"
	"vidgen/internal/middleware"
	"vidgen/internal/sqlinline"
)

// SyncUser idempotently mirrors the identity provider's profile into a local
// user row. Existing rows are returned untouched; new rows get the default
// quota.
func (a *App) SyncUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.Subject == "" {
		a.error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpsertUserByClerkID,
		claims.Subject, claims.Email, claims.FirstName, claims.LastName, a.DefaultVideoLimit)
	var u domain.User
	if err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.FirstName, &u.LastName, &u.VideoLimit, &u.VideosUsed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		a.Logger.Error().Err(err).Str("clerk_id", claims.Subject).Msg("sync user failed")
		a.error(w, http.StatusInternalServerError, "Failed to sync user")
		return
	}

	a.json(w, http.StatusOK, map[string]any{"user": toUserDTO(&u)})
}
