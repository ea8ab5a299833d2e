package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aidynbek/account-service/internal/apperr"
	"github.com/aidynbek/account-service/internal/services"
	"github.com/aidynbek/account-service/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles the authenticated profile endpoints.
type UserHandler struct {
	Service *services.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		Service: service,
	}
}

// GetMeHandler returns the profile of the authenticated user.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, apperr.Auth("missing token"))
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		log.WithField("userID", claims.UserID).WithError(err).Warn("Failed to fetch profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.Public(),
	})
}

// UpdateMeHandler updates the name and email of the authenticated user.
func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, apperr.Auth("missing token"))
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode profile update request")
		respondError(w, apperr.Validation("invalid request payload"))
		return
	}
	defer r.Body.Close()

	user, err := h.Service.UpdateProfile(r.Context(), claims.UserID, req.Name, req.Email)
	if err != nil {
		log.WithField("userID", claims.UserID).WithError(err).Warn("Failed to update profile")
		respondError(w, err)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("Profile updated")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "profile updated successfully",
		"user":    user.Public(),
	})
}
