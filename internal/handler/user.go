package handler

import (
	"log/slog"
	"net/http"

	"github.com/hpnchanel/todoapi/internal/auth"
	"github.com/hpnchanel/todoapi/internal/handler/dto"
	"github.com/hpnchanel/todoapi/internal/middleware"
	"github.com/hpnchanel/todoapi/internal/service"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /users.
func (h *UserHandler) Signup(r *http.Request) (*Response, error) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	user, token, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	h.logger.Info("user_signed_up",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	return withToken(OK(dto.ToUserResponse(user)), token), nil
}

// Login handles POST /users/login.
func (h *UserHandler) Login(r *http.Request) (*Response, error) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	return withToken(OK(dto.ToUserResponse(user)), token), nil
}

// Me handles GET /users/me.
func (h *UserHandler) Me(r *http.Request) (*Response, error) {
	id := auth.MustIdentityFromContext(r.Context())
	return OK(dto.UserEnvelope{User: dto.ToUserResponse(id.User)}), nil
}

// Logout handles DELETE /users/me/token, revoking the presented token.
func (h *UserHandler) Logout(r *http.Request) (*Response, error) {
	id := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), id.User, id.Token); err != nil {
		return nil, err
	}

	h.logger.Info("user_logged_out",
		"user_id", id.User.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	return &Response{Status: http.StatusOK}, nil
}

func withToken(resp *Response, token string) *Response {
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	resp.Header.Set(middleware.AuthHeader, token)
	return resp
}
