package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// RequireMethod rejects anything but method with a 405. HEAD passes for GET
// so link checkers can request the listing and detail pages.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// WriteJSON writes data as the body of a JSON response.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes {"status":"error","error":message}, the shape the tab
// endpoint and the health checks share.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// errText is the message a page section shows for err. The backend's own
// message is kept when it has one.
func errText(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to load data"
}

func detailHref(symbol string) string {
	return "/ipo/" + url.PathEscape(strings.ToUpper(strings.TrimSpace(symbol)))
}
