package handlers

import (
	"encoding/json"
	"net/http"

	"triline/ranking"
)

// MakeLeaderboardHandler serves the current top ten as a JSON array of
// {name, score} objects.
func MakeLeaderboardHandler(scores *ranking.Ranking) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		top := scores.TopN(10)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(top)
	}
}
