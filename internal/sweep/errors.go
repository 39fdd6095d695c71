package sweep

import (
	"errors"
	"io/fs"
)

// ErrInvalidArgument is returned when a sweep is configured with a value it
// cannot work with, such as a negative age threshold or a nil collaborator.
var ErrInvalidArgument = errors.New("invalid argument")

// errMessage strips the operation and path that *fs.PathError adds, since
// every report already starts with the path it concerns.
func errMessage(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
