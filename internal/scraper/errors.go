package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingMarkup is matched by every NotFoundError.
	ErrMissingMarkup = errors.New("required markup not found")

	// ErrVersionListNotFound means the sidebar has no "All versions" list.
	ErrVersionListNotFound = errors.New("list of Python versions not found in sidebar")

	// ErrPageUnavailable means an entry page or the archive could not be fetched.
	ErrPageUnavailable = errors.New("page unavailable")

	// ErrUnknownMode is returned by ParseMode and Run.
	ErrUnknownMode = errors.New("unknown mode")
)

// NotFoundError describes a tag that Locate could not find.
type NotFoundError struct {
	Tag   string
	Attrs string
}

func (e *NotFoundError) Error() string {
	if e.Attrs == "" {
		return fmt.Sprintf("tag <%s> not found", e.Tag)
	}
	return fmt.Sprintf("tag <%s> %s not found", e.Tag, e.Attrs)
}

// Is makes errors.Is(err, ErrMissingMarkup) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrMissingMarkup
}
