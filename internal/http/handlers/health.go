package handlers

import (
	"net/http"

	"vidgen/internal/sqlinline"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QHealthCheck).Scan(&one); err != nil {
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
