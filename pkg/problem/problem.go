// Package problem writes RFC 7807 problem details.
package problem

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TypeBase prefixes problem type URIs. Clients match on Type rather than Title.
const TypeBase = "https://eduloan.dev/problems/"

type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// New builds a problem whose type is derived from the title,
// e.g. "Invalid State" -> TypeBase+"invalid-state".
func New(status int, title, detail string) Problem {
	return Problem{
		Type:   typeFor(title),
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func Write(w http.ResponseWriter, status int, title, detail string) {
	WriteProblem(w, New(status, title, detail))
}

func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func typeFor(title string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	if slug == "" {
		return "about:blank"
	}
	return TypeBase + slug
}
