package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Message: message})
}

func validCoordinates(latitude, longitude float64) (string, bool) {
	if latitude < -90 || latitude > 90 {
		return "Latitude must be between -90 and 90", false
	}
	if longitude < -180 || longitude > 180 {
		return "Longitude must be between -180 and 180", false
	}
	return "", true
}
