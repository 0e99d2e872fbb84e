// Package search drives the profile search flow: filter parsing, the
// page-reset rule, and fetching exactly one result page per change.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/session"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
)

type SearchUseCase struct {
	api      *upstream.Client
	pageSize int
}

func NewSearchUseCase(api *upstream.Client, pageSize int) *SearchUseCase {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &SearchUseCase{api: api, pageSize: pageSize}
}

// ParseFilters builds filter criteria from raw form values. Blank values
// stay unset, and age bounds that do not parse as numbers are left unset
// rather than rejected with an error.
func ParseFilters(gender, minAge, maxAge, location, religion string) domain.SearchFilters {
	f := domain.SearchFilters{
		Gender:   strings.TrimSpace(gender),
		Location: strings.TrimSpace(location),
		Religion: strings.TrimSpace(religion),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(minAge)); err == nil && n > 0 {
		f.MinAge = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(maxAge)); err == nil && n > 0 {
		f.MaxAge = n
	}
	return f
}

// Browse fetches one page of results for the given criteria. When the
// filters differ from the session's remembered search, the pagination
// cursor resets to the first page before the fetch, whatever page the
// request asked for. The (filters, page) pair that was actually fetched is
// remembered afterwards.
func (uc *SearchUseCase) Browse(ctx context.Context, sess *session.Session, filters domain.SearchFilters, requestedPage int) (*domain.SearchPage, error) {
	if !sess.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	page := requestedPage
	if page < 1 {
		page = 1
	}
	if last := sess.LastSearch(ctx); last != nil && last.Filters != filters {
		page = 1
	}

	result, err := uc.api.Search(ctx, sess.Token(), filters, page, uc.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	_ = sess.SaveSearch(ctx, session.SearchState{Filters: filters, Page: result.Page})
	return result, nil
}
