package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// LoginForm represents the sign-in form
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// SignupForm represents the registration form. Mirrors the upstream
// registration contract plus the local confirm-password check.
type SignupForm struct {
	Name            string `form:"name" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" binding:"required,eqfield=Password"`
	Gender          string `form:"gender" binding:"required,oneof=Male Female Other"`
	Age             int    `form:"age" binding:"required,gte=18"`
	Location        string `form:"location"`
	Religion        string `form:"religion"`
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.GetSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/search")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"Flash": popFlash(c)})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.tmpl", gin.H{
			"Errors": formErrors(err),
			"Email":  c.PostForm("email"),
		})
		return
	}

	sess := middleware.GetSession(c)
	_, err := h.authUseCase.Login(c.Request.Context(), sess, form.Email, form.Password)
	if err != nil {
		status := http.StatusBadGateway
		if apiErr := upstream.AsAPIError(err); apiErr != nil {
			status = http.StatusUnauthorized
		}
		c.HTML(status, "login.tmpl", gin.H{
			"Error": failureMessage(err, "Login failed due to network or server error"),
			"Email": form.Email,
		})
		return
	}

	c.Redirect(http.StatusFound, "/search")
}

// ShowSignup handles GET /signup
func (h *AuthHandler) ShowSignup(c *gin.Context) {
	if middleware.GetSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/search")
		return
	}
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{"Flash": popFlash(c)})
}

// Signup handles POST /signup. Registration and the optional picture
// upload are reported separately: a failed upload never rolls back a
// successful registration, the visitor just gets told to upload later.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "signup.tmpl", gin.H{
			"Errors": formErrors(err),
			"Form":   form,
		})
		return
	}

	picture, err := pendingPicture(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "signup.tmpl", gin.H{
			"Errors": map[string]string{"profileImage": err.Error()},
			"Form":   form,
		})
		return
	}

	sess := middleware.GetSession(c)
	outcome, err := h.authUseCase.SignUp(c.Request.Context(), sess, upstream.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Gender:   form.Gender,
		Age:      form.Age,
		Location: form.Location,
		Religion: form.Religion,
	}, picture)
	if err != nil {
		if apiErr := upstream.AsAPIError(err); apiErr != nil {
			c.HTML(http.StatusBadRequest, "signup.tmpl", gin.H{
				"Error":  failureMessage(err, "Registration failed"),
				"Errors": apiErrors(apiErr),
				"Form":   form,
			})
			return
		}
		c.HTML(http.StatusBadGateway, "signup.tmpl", gin.H{
			"Error": "Registration failed due to network or server error",
			"Form":  form,
		})
		return
	}

	kind := "success"
	if outcome.PictureFailed {
		kind = "error"
	}
	setFlash(c, kind, outcome.Message)
	c.Redirect(http.StatusFound, "/search")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authUseCase.Logout(c.Request.Context(), middleware.GetSession(c))
	c.Redirect(http.StatusFound, "/")
}
