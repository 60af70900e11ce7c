package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kerhoff/MessBoT/internal/apperr"
)

// pathID extracts a UUID path parameter. Malformed ids cannot name a stored
// row, so they are reported with the resource's not-found message.
func pathID(r *http.Request, param, notFound string) (string, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.NotFound(notFound)
	}
	return id.String(), nil
}
