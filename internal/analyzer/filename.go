package analyzer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	htmlExt   = ".html"
	brotliExt = ".br"
	separator = "_"
	minParts  = 3
)

// ErrMalformedFilename is returned when a filename has fewer than three
// underscore separated parts.
var ErrMalformedFilename = errors.New("malformed report filename")

// Name is the decoded form of a report filename
type Name struct {
	FasID     string
	Semester  string
	Professor string
}

// ParseFilename decodes {fas_id}_{semester}_{professor...} from the base name
// of path. Everything after the second separator is the professor label.
func ParseFilename(path string) (Name, error) {
	base := strings.TrimSuffix(filepath.Base(path), brotliExt)
	base = strings.ReplaceAll(base, htmlExt, "")

	parts := strings.Split(base, separator)
	if len(parts) < minParts {
		return Name{}, fmt.Errorf("%w: %s", ErrMalformedFilename, filepath.Base(path))
	}

	return Name{
		FasID:     parts[0],
		Semester:  parts[1],
		Professor: strings.Join(parts[2:], separator),
	}, nil
}

// IsReport reports whether path has a report page extension.
func IsReport(path string) bool {
	return strings.HasSuffix(path, htmlExt) || strings.HasSuffix(path, htmlExt+brotliExt)
}
