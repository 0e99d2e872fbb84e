package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/search"
)

type SearchHandler struct {
	searchUseCase *search.SearchUseCase
}

func NewSearchHandler(searchUseCase *search.SearchUseCase) *SearchHandler {
	return &SearchHandler{searchUseCase: searchUseCase}
}

// Search handles GET /search. Filters and the page cursor travel in the
// query string; the usecase enforces the page reset when filters change.
// A fetch failure keeps the filter form intact and offers a retry link
// instead of silently clearing results.
func (h *SearchHandler) Search(c *gin.Context) {
	sess := middleware.GetSession(c)
	filters := search.ParseFilters(
		c.Query("gender"),
		c.Query("minAge"),
		c.Query("maxAge"),
		c.Query("location"),
		c.Query("religion"),
	)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.searchUseCase.Browse(c.Request.Context(), sess, filters, page)
	if err != nil {
		c.HTML(http.StatusBadGateway, "search.tmpl", gin.H{
			"User":      sess.User(),
			"Filters":   filters,
			"Error":     failureMessage(err, "An error occurred while fetching profiles."),
			"RetryPath": c.Request.URL.RequestURI(),
		})
		return
	}

	data := gin.H{
		"User":    sess.User(),
		"Flash":   popFlash(c),
		"Filters": filters,
		"Page":    result,
	}
	if result.Page > 1 {
		data["PrevPath"] = searchPath(filters, result.Page-1)
	}
	if result.Page < result.TotalPages {
		data["NextPath"] = searchPath(filters, result.Page+1)
	}
	c.HTML(http.StatusOK, "search.tmpl", data)
}

// searchPath rebuilds the /search URL for a pagination step, carrying the
// active filters along.
func searchPath(f domain.SearchFilters, page int) string {
	q := url.Values{}
	if f.Gender != "" {
		q.Set("gender", f.Gender)
	}
	if f.MinAge > 0 {
		q.Set("minAge", strconv.Itoa(f.MinAge))
	}
	if f.MaxAge > 0 {
		q.Set("maxAge", strconv.Itoa(f.MaxAge))
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.Religion != "" {
		q.Set("religion", f.Religion)
	}
	q.Set("page", strconv.Itoa(page))
	return "/search?" + q.Encode()
}
