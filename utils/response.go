package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]interface{}

// RespondWithJSON sends any payload as JSON.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondSuccess wraps data in the {success, data} envelope.
func RespondSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondWithJSON(w, statusCode, M{"success": true, "data": data})
}

// RespondMessage wraps a human-readable message with optional data.
func RespondMessage(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	resp := M{"success": true, "message": message}
	if data != nil {
		resp["data"] = data
	}
	RespondWithJSON(w, statusCode, resp)
}

// RespondError sends {success: false, message}.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, M{"success": false, "message": message})
}

// RespondErrorWith sends a failure envelope plus extra structured fields,
// e.g. the out-of-stock list on a rejected checkout.
func RespondErrorWith(w http.ResponseWriter, statusCode int, message string, extra M) {
	resp := M{"success": false, "message": message}
	for k, v := range extra {
		resp[k] = v
	}
	RespondWithJSON(w, statusCode, resp)
}
