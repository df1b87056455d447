package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/daniyar-kw/linkup/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps a taxonomy error to its status code. Internal causes
// are logged but never leaked to the client.
func respondError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)

	message := "internal server error"
	var tagged *errs.Error
	if kind != errs.KindInternal && errors.As(err, &tagged) {
		message = tagged.Msg
	}
	if kind == errs.KindInternal {
		logger.Log.WithError(err).Error("Request failed")
	}

	respondJSON(w, kind.HTTPStatus(), map[string]string{"error": message})
}
