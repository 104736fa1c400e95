package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"route-backend/internal/auth"
	"route-backend/internal/models"
	"route-backend/internal/repositories"
	"route-backend/pkg/utils"
)

type AuthHandler struct {
	UserRepo   *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewAuthHandler(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, JWTManager: jwtManager}
}

var validRoles = map[string]bool{"admin": true, "picker": true, "runner": true}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Name == "" || len(req.Password) < 8 {
		utils.Error(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required")
		return
	}
	if !validRoles[req.Role] {
		utils.Error(w, http.StatusBadRequest, "role must be admin, picker or runner")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := h.UserRepo.Create(r.Context(), user); err != nil {
		utils.Error(w, http.StatusConflict, "email already registered")
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	utils.JSON(w, http.StatusCreated, &models.LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		utils.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.IsActive {
		utils.Error(w, http.StatusForbidden, "account suspended")
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	utils.JSON(w, http.StatusOK, &models.LoginResponse{Token: token, User: user})
}
