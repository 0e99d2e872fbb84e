// Package profile implements the profile editor's save flow.
package profile

import (
	"context"
	"fmt"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/session"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
)

type ProfileUseCase struct {
	api *upstream.Client
}

func NewProfileUseCase(api *upstream.Client) *ProfileUseCase {
	return &ProfileUseCase{api: api}
}

// SaveResult reports what a save actually did.
type SaveResult struct {
	User           domain.User
	PictureUpdated bool
}

// Save persists a profile edit. Order matters: a pending picture is
// uploaded first, and if that upload fails the whole save aborts; the text
// edits are not persisted and the editor stays open. Only then are the text
// fields persisted upstream and merged into the cached user.
func (uc *ProfileUseCase) Save(ctx context.Context, sess *session.Session, fields domain.ProfileFields, picture *domain.PendingPicture) (*SaveResult, error) {
	if !sess.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	result := &SaveResult{}
	if picture != nil {
		upload, err := uc.api.UploadPicture(ctx, sess.Token(), picture.Filename, picture.Data, "")
		if err != nil {
			return nil, fmt.Errorf("picture upload failed: %w", err)
		}
		result.PictureUpdated = true
		if upload.User != nil {
			_ = sess.SetUser(ctx, *upload.User)
		}
	}

	updated, err := uc.api.UpdateMe(ctx, sess.Token(), fields)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := sess.SetUser(ctx, *updated); err != nil {
		return nil, fmt.Errorf("failed to cache user: %w", err)
	}

	result.User = *updated
	return result, nil
}
