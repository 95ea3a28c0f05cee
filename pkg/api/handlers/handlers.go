package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/cbodonnell/duelbot/pkg/arena"
	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/gorilla/mux"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:@-]{1,64}$`)

type Profiles interface {
	Profile(ctx context.Context, playerID string) (*models.Profile, error)
	Register(ctx context.Context, playerID, name string) (*models.Profile, error)
}

type Arena interface {
	Stats() arena.Stats
	Where(playerID string) arena.Participation
}

type PlayerStatus struct {
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func HandleGetProfile(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := mux.Vars(r)["playerID"]
		profile, err := profiles.Profile(r.Context(), playerID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Profile not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get profile %s: %v", playerID, err)
			http.Error(w, "Failed to get profile", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func HandleCreateProfile(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.FormValue("id")
		if !idRegex.MatchString(id) {
			http.Error(w, "Invalid player id", http.StatusBadRequest)
			return
		}

		name := r.FormValue("name")
		if len(name) < 1 || len(name) > 32 {
			http.Error(w, "Name must be between 1 and 32 characters", http.StatusBadRequest)
			return
		}

		profile, err := profiles.Register(r.Context(), id, name)
		if err != nil {
			if repositories.IsProfileExists(err) {
				http.Error(w, "Profile already exists", http.StatusConflict)
				return
			}
			log.Error("failed to create profile %s: %v", id, err)
			http.Error(w, "Failed to create profile", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, profile)
	}
}

func HandleArenaStats(a Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.Stats())
	}
}

func HandlePlayerStatus(a Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := mux.Vars(r)["playerID"]
		writeJSON(w, http.StatusOK, &PlayerStatus{
			PlayerID: playerID,
			Status:   a.Where(playerID).String(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
