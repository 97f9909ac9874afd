package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/utils"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	utils.WriteJSON(w, code, payload)
}

func respondError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal("handlers.respondError", err, "Internal server error")
	}
	code := appErr.Code

	entry := logger.WithFields(logrus.Fields{
		"error":      err,
		"op":         appErr.Op,
		"status":     code,
		"request_id": middleware.RequestIDFrom(r.Context()),
		"path":       r.URL.Path,
		"method":     r.Method,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Info("Request rejected")
	}

	utils.HandleError(w, appErr.Message, code)
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidInput("readJSON", err, "Invalid JSON format")
	}
	return nil
}
