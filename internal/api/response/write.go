package response

import (
	"encoding/json"
	"net/http"
)

// JSON encodes data as the response body with the given status.
// A nil data writes the status alone.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// Created writes a 201 carrying the newly created resource
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a bare 204, used for deletes
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
