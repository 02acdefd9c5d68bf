package schema

import (
	"encoding/json"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Handler serves the schema over HTTP. POST bodies go through the relay
// handler; GET requests read query, operationName and variables from the URL.
func Handler(s *graphql.Schema) http.Handler {
	post := &relay.Handler{Schema: s}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			post.ServeHTTP(w, r)
			return
		}

		q := r.URL.Query()
		query := q.Get("query")
		if query == "" {
			http.Error(w, "query parameter is required", http.StatusBadRequest)
			return
		}

		var variables map[string]interface{}
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &variables); err != nil {
				http.Error(w, "variables must be a JSON object", http.StatusBadRequest)
				return
			}
		}

		response := s.Exec(r.Context(), query, q.Get("operationName"), variables)
		responseJSON, err := json.Marshal(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(responseJSON)
	})
}
