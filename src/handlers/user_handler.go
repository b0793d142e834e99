package handlers

import (
	"net/http"

	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Name string `json:"name"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.CreateUser(r.Context(), req.Name)
	if err != nil {
		sendServiceError(w, r, err, "Failed to create user")
		return
	}
	utils.SendJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to load user")
		return
	}
	utils.SendJSON(w, http.StatusOK, user)
}
