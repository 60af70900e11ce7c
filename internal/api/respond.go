package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
)

// maxBodyBytes caps decoded request bodies
const maxBodyBytes = 1 << 20

// envelope is the body of every successful API response
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Stats   any    `json:"stats,omitempty"`
}

// failure is the body of every failed API response
type failure struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).Debug("failed to write JSON response")
	}
}

func (s *Server) respondData(w http.ResponseWriter, status int, data any, message string) {
	s.respondJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func (s *Server) respondFailure(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, failure{Error: message})
}

// respondError renders err according to its apperr kind. Unclassified
// errors become a generic 500 and are logged with the request id.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		s.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"error":      err,
		}).Error("Unhandled error")

		body := failure{Error: "Internal server error"}
		if s.opts.Development {
			body.Detail = err.Error()
		}
		s.respondJSON(w, http.StatusInternalServerError, body)
		return
	}

	s.respondJSON(w, appErr.Kind.HTTPStatus(), failure{
		Error:  appErr.Message,
		Errors: appErr.Fields,
	})
}

// decodeJSON reads the request body into dst. An empty body leaves dst at
// its zero value.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}
