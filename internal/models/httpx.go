package models

import (
	"encoding/json"
	"net/http"
)

// Problem представляет ответ об ошибке в стиле RFC 7807.
// Машиночитаемый вид ошибки кладём в Extra["kind"].
type Problem struct {
	Type     string      `json:"type,omitempty"` // URL с описанием типа проблемы (можно оставить пустым)
	Title    string      `json:"title"`          // краткое название
	Status   int         `json:"status"`         // HTTP код
	Detail   string      `json:"detail,omitempty"`
	Instance string      `json:"instance,omitempty"`
	Extra    interface{} `json:"extra,omitempty"`
}

func WriteProblem(w http.ResponseWriter, status int, title, detail string, extra any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Extra:  extra,
	})
}

// WriteKind — problem+json c машиночитаемым kind (см. таксономию ошибок API).
func WriteKind(w http.ResponseWriter, status int, kind, title, detail string) {
	WriteProblem(w, status, title, detail, map[string]any{"kind": kind})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
