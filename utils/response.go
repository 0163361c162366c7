package utils

import (
	"encoding/json"
	"net/http"

	"morsel/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]any{"success": false, "error": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithAppError maps a domain error onto the standard failure envelope.
func RespondWithAppError(w http.ResponseWriter, err error) {
	body := M{"success": false, "error": err.Error()}
	if d := apperr.DetailsOf(err); d != "" {
		body["details"] = d
	}
	RespondWithJSON(w, apperr.HTTPStatus(err), body)
}

type M map[string]interface{}
