package http

import (
	"encoding/json"
	nethttp "net/http"
)

// errorResponse controla exactamente qué campos ve el cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w nethttp.ResponseWriter, status int, code, message, detail string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message, Detail: detail})
}

func writeInternalError(w nethttp.ResponseWriter) {
	writeError(w, nethttp.StatusInternalServerError, "internal_error", "An unexpected error occurred.", "")
}
