package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tillerhq/tiller/engine"
)

type boatsPayload struct {
	Query string `json:"query"`
}

type boatsReply struct {
	IDs []any `json:"ids"`
}

type errorReply struct {
	Error string `json:"error"`
}

// handleBoats answers a natural-language query with matching listing ids.
// GET takes ?query= (or ?q=), POST takes {"query": "..."}.
func (s *Server) handleBoats(w http.ResponseWriter, r *http.Request) {
	query, err := queryText(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := s.eng.Search(r.Context(), query)
	switch {
	case errors.Is(err, engine.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "query is required")
	case errors.Is(err, engine.ErrGeneration):
		writeError(w, http.StatusBadGateway, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, boatsReply{IDs: ids})
	}
}

// handleHealth reports liveness and the loaded dataset size.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rows":   s.eng.Table().Len(),
	})
}

// queryText pulls the query from wherever the request put it.
func queryText(r *http.Request) (string, error) {
	if q := r.URL.Query().Get("query"); q != "" {
		return q, nil
	}
	if q := r.URL.Query().Get("q"); q != "" {
		return q, nil
	}
	if r.Method == http.MethodPost && r.Body != nil {
		var payload boatsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			return "", errors.New("invalid JSON body")
		}
		if strings.TrimSpace(payload.Query) != "" {
			return payload.Query, nil
		}
	}
	return "", errors.New("query is required")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorReply{Error: msg})
}
