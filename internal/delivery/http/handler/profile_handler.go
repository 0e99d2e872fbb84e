package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUseCase: profileUseCase}
}

// ProfileForm carries the editable text fields. Everything is optional;
// blank fields leave the stored value untouched.
type ProfileForm struct {
	Name          string `form:"name"`
	Age           int    `form:"age"`
	Gender        string `form:"gender"`
	Location      string `form:"location"`
	Education     string `form:"education"`
	Occupation    string `form:"occupation"`
	Religion      string `form:"religion"`
	MotherTongue  string `form:"motherTongue"`
	MaritalStatus string `form:"maritalStatus"`
	About         string `form:"about"`
}

// Show handles GET /profile. ?edit=1 switches the page into edit mode.
func (h *ProfileHandler) Show(c *gin.Context) {
	sess := middleware.GetSession(c)
	c.HTML(http.StatusOK, "profile.tmpl", gin.H{
		"User":    sess.User(),
		"Editing": c.Query("edit") == "1",
		"Flash":   popFlash(c),
	})
}

// Save handles POST /profile. A selected picture is uploaded before
// anything else; if that upload fails the save aborts, edit mode stays
// active, and none of the text edits are persisted.
func (h *ProfileHandler) Save(c *gin.Context) {
	sess := middleware.GetSession(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "error", "Invalid form submission")
		c.Redirect(http.StatusFound, "/profile?edit=1")
		return
	}

	picture, err := pendingPicture(c)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/profile?edit=1")
		return
	}

	fields := domain.ProfileFields{
		Name:          form.Name,
		Age:           form.Age,
		Gender:        form.Gender,
		Location:      form.Location,
		Education:     form.Education,
		Occupation:    form.Occupation,
		Religion:      form.Religion,
		MotherTongue:  form.MotherTongue,
		MaritalStatus: form.MaritalStatus,
		About:         form.About,
	}

	result, err := h.profileUseCase.Save(c.Request.Context(), sess, fields, picture)
	if err != nil {
		setFlash(c, "error", failureMessage(err, "Failed to save profile."))
		c.Redirect(http.StatusFound, "/profile?edit=1")
		return
	}

	message := "Profile updated successfully!"
	if result.PictureUpdated {
		message = "Profile and picture updated successfully!"
	}
	setFlash(c, "success", message)
	c.Redirect(http.StatusFound, "/profile")
}
