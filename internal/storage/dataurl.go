package storage

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"shopsite_server/internal/utils"
)

var dataURLPattern = regexp.MustCompile(`^data:([A-Za-z0-9.+/-]+);base64,(.+)$`)

// NormalizeDataURL prefixes raw base64 with a data URL header whose MIME type
// is inferred from the filename. Values that already are data URLs pass through.
func NormalizeDataURL(filename, raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		return raw
	}
	return "data:" + utils.DetermineMIMEType(filename) + ";base64," + raw
}

// DecodeDataURL splits a base64 data URL into its content type and bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	m := dataURLPattern.FindStringSubmatch(dataURL)
	if m == nil {
		return "", nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return m[1], data, nil
}
