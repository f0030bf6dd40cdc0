// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/iyunix/go-chatview/internal/services"
)

var errInvalidPage = errors.New("invalid skip or limit parameters")

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service failure onto a status code.
func writeServiceError(w http.ResponseWriter, logger services.Logger, err error) {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		logger.Error("unexpected handler error", "error", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	switch svcErr.Type {
	case services.ErrTypeValidation:
		writeError(w, svcErr.Message, http.StatusBadRequest)
	case services.ErrTypeNotFound:
		writeError(w, svcErr.Message, http.StatusNotFound)
	default:
		logger.Error("storage failure", "operation", svcErr.Operation, "error", err)
		writeError(w, svcErr.Message, http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// pageParams reads skip and limit, defaulting to 0 and services.DefaultPageSize.
func pageParams(r *http.Request) (int, int, error) {
	query := r.URL.Query()
	skip, limit := 0, services.DefaultPageSize

	if raw := query.Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errInvalidPage
		}
		skip = v
	}
	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errInvalidPage
		}
		limit = v
	}
	return skip, limit, nil
}
