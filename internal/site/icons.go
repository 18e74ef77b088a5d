package site

import (
	"errors"
	"fmt"

	"shopsite_server/internal/types"
)

// ErrUnknownIcon is returned for a ServiceIcon outside the closed icon set.
var ErrUnknownIcon = errors.New("unknown service icon")

var iconPaths = map[types.ServiceIcon]string{
	types.IconScissors: "M14.121 14.121L19 19m-7-7l7-7m-7 7l-2.879 2.879M12 12L9.121 9.121m0 5.758a3 3 0 10-4.243 4.243 3 3 0 004.243-4.243zm0-5.758a3 3 0 10-4.243-4.243 3 3 0 004.243 4.243z",
	types.IconRazor:    "M4 20l6-6m0 0l9-9a2.121 2.121 0 00-3-3l-9 9m3 3l-3-3m0 0l-2 2",
	types.IconMustache: "M12 12c-2 3-6 4-9 2 2 0 3-2 4-3 1.5-1.5 3.5-1.5 5 1zm0 0c2 3 6 4 9 2-2 0-3-2-4-3-1.5-1.5-3.5-1.5-5 1z",
	types.IconFace:     "M14.828 14.828a4 4 0 01-5.656 0M9 10h.01M15 10h.01M21 12a9 9 0 11-18 0 9 9 0 0118 0z",
}

// IconPath returns the SVG path data for a service icon.
func IconPath(icon types.ServiceIcon) (string, error) {
	p, ok := iconPaths[icon]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownIcon, icon)
	}
	return p, nil
}
