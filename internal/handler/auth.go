package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/juiceworks/storefront/internal/domain/user"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, u, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingFields), errors.Is(err, user.ErrWeakPassword):
			message(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrEmailTaken):
			message(c, http.StatusConflict, err.Error())
		default:
			serverError(c, err, "failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token: token,
		User:  userResponse{Name: u.Name, Email: u.Email},
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			message(c, http.StatusUnauthorized, err.Error())
			return
		}
		serverError(c, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token: token,
		User:  userResponse{Name: u.Name, Email: u.Email},
	})
}
