package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/service"
)

const msgBadLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type AuthHandler struct {
	accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	render(c, http.StatusOK, "auth/signup.html", gin.H{"title": "Sign up", "form": service.SignupForm{}})
}

// Signup registers a user and sends them to the login page.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form service.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}
	_, err := h.accounts.Signup(c.Request.Context(), form)
	if errs, ok := service.AsFormErrors(err); ok {
		render(c, http.StatusOK, "auth/signup.html", gin.H{"title": "Sign up", "form": form, "errors": errs})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/auth/login/")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "auth/login.html", gin.H{
		"title": "Log in",
		"form":  service.LoginForm{},
		"next":  c.Query("next"),
	})
}

// Login sets the token cookie and follows ?next= when it points inside the site.
func (h *AuthHandler) Login(c *gin.Context) {
	var form service.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}
	next := c.PostForm("next")

	_, token, err := h.accounts.Login(c.Request.Context(), form)
	errs, invalid := service.AsFormErrors(err)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		errs, invalid = service.FormErrors{"": {msgBadLogin}}, true
	}
	if invalid {
		form.Password = ""
		render(c, http.StatusOK, "auth/login.html", gin.H{
			"title":  "Log in",
			"form":   form,
			"next":   next,
			"errors": errs,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, h.accounts.TokenTTL(), "/", "", c.Request.TLS != nil, true)
	redirect(c, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	render(c, http.StatusOK, "auth/logged_out.html", gin.H{
		"title": "Logged out",
		"user":  (*models.User)(nil),
	})
}

// Token is the JSON login used by API clients such as the admin tooling.
//
//	@Summary	Issue an identity token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		tokenRequest	true	"Username and password"
//	@Success	200			{object}	tokenResponse
//	@Failure	400			{object}	errorResponse
//	@Failure	401			{object}	errorResponse
//	@Router		/auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var input tokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), service.LoginForm{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		Token: token,
		User: userResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

// safeNext only allows local absolute paths, so ?next= cannot bounce to another host.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}
