package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const saveGameContextKey contextKey = "saveGameID"

// SaveGameParam is the chi URL parameter carrying the save game id.
const SaveGameParam = "saveGameID"

var errSaveGameNotInContext = errors.New("save game id not found in context")

// SaveGameScope validates the {saveGameID} path parameter and stores it in the request
// context. Invalid ids are rejected with 400 before any handler runs.
func SaveGameScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, SaveGameParam)
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid save game ID: %q", raw))
			return
		}
		ctx := context.WithValue(r.Context(), saveGameContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSaveGameIDFromContext(ctx context.Context) (int, error) {
	id, ok := ctx.Value(saveGameContextKey).(int)
	if !ok {
		return 0, errSaveGameNotInContext
	}
	return id, nil
}

// WithSaveGameID returns a copy of ctx scoped to saveGameID.
func WithSaveGameID(ctx context.Context, saveGameID int) context.Context {
	return context.WithValue(ctx, saveGameContextKey, saveGameID)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
