package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"leadership-chatbot-server/internal/domain"
	"leadership-chatbot-server/internal/middleware"
	"leadership-chatbot-server/internal/service"
	"leadership-chatbot-server/pkg/response"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, domain.SignupResponse{
		Message: "User created successfully",
		User:    user.Public(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loginResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, loginResp)
}

// Refresh runs behind the refresh-token variant of the auth middleware; by
// the time it executes the bearer is known to hold a valid refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	tokenResp, err := h.authService.RefreshToken(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, tokenResp)
}
