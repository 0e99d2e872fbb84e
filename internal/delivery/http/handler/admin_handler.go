package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/admin"
)

type AdminHandler struct {
	adminUseCase  *admin.AdminUseCase
	secureCookies bool
}

func NewAdminHandler(adminUseCase *admin.AdminUseCase, secureCookies bool) *AdminHandler {
	return &AdminHandler{adminUseCase: adminUseCase, secureCookies: secureCookies}
}

// AdminLoginForm represents the admin portal sign-in form
type AdminLoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// AddUserForm represents the out-of-band user creation form
type AddUserForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Gender   string `form:"gender" binding:"required,oneof=Male Female Other"`
	Age      int    `form:"age" binding:"required,gte=18"`
	Location string `form:"location"`
	Religion string `form:"religion"`
}

// ShowLogin handles GET /admin/login
func (h *AdminHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.tmpl", gin.H{"Flash": popFlash(c)})
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var form AdminLoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "admin_login.tmpl", gin.H{
			"Errors": formErrors(err),
			"Email":  c.PostForm("email"),
		})
		return
	}

	token, err := h.adminUseCase.Login(form.Email, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid admin credentials."
		if errors.Is(err, domain.ErrTooManyAttempts) {
			status = http.StatusTooManyRequests
			message = "Too many login attempts. Please wait and try again."
		}
		c.HTML(status, "admin_login.tmpl", gin.H{"Error": message, "Email": form.Email})
		return
	}

	c.SetCookie(admin.SessionCookie, token, int(h.adminUseCase.SessionTTL().Seconds()), "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetCookie(admin.SessionCookie, "", -1, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

// Dashboard handles GET /admin/dashboard. Statistics and the recent-user
// list come from one upstream call.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminUseCase.Stats(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "admin_dashboard.tmpl", gin.H{
			"Error": failureMessage(err, "Failed to load dashboard statistics."),
			"Flash": popFlash(c),
		})
		return
	}
	c.HTML(http.StatusOK, "admin_dashboard.tmpl", gin.H{
		"Stats": stats,
		"Flash": popFlash(c),
	})
}

// DeleteUser handles POST /admin/users/:id/delete. The delete only goes
// out when the inline confirmation was given; declining issues no request
// at all.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if c.PostForm("confirm") != "true" {
		setFlash(c, "error", "Deletion not confirmed.")
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	if _, err := h.adminUseCase.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		setFlash(c, "error", failureMessage(err, "Could not delete user."))
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	setFlash(c, "success", "User deleted successfully.")
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// AddUser handles POST /admin/users: create the record, then upload the
// optional picture tagged with the new identifier, and report the two
// outcomes distinctly.
func (h *AdminHandler) AddUser(c *gin.Context) {
	var form AddUserForm
	if err := c.ShouldBind(&form); err != nil {
		stats, _ := h.adminUseCase.Stats(c.Request.Context())
		c.HTML(http.StatusBadRequest, "admin_dashboard.tmpl", gin.H{
			"Stats":   stats,
			"Errors":  formErrors(err),
			"AddForm": form,
		})
		return
	}

	picture, err := pendingPicture(c)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	outcome, err := h.adminUseCase.AddUser(c.Request.Context(), upstream.NewUserInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Gender:   form.Gender,
		Age:      form.Age,
		Location: form.Location,
		Religion: form.Religion,
	}, picture)
	if err != nil {
		setFlash(c, "error", failureMessage(err, "An error occurred adding user data."))
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	kind := "success"
	if outcome.PictureFailed {
		kind = "error"
	}
	setFlash(c, kind, outcome.Message)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}
