package domain

import "io"

// PendingPicture is an image the visitor selected but that has not been
// uploaded yet. It is held locally until an explicit save.
type PendingPicture struct {
	Filename string
	Data     io.Reader
}
