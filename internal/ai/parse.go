package ai

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"shopsite_server/internal/types"
)

// ParseCopy decodes the model's JSON answer. Markdown fences are tolerated and a
// body wrapped under a single "content"/"data"/"result" key is unwrapped. Anything
// unparsable becomes an empty SiteCopy.
func ParseCopy(raw string, logger *zap.Logger) types.SiteCopy {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		logger.Warn("copy model returned an empty body, using fallbacks")
		return types.SiteCopy{}
	}

	var parsed types.SiteCopy
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		logger.Warn("failed to parse copy JSON, using fallbacks", zap.Error(err), zap.Int("bytes", len(cleaned)))
		return types.SiteCopy{}
	}
	if parsed.Hero != nil || parsed.About != nil || parsed.Contact != nil || len(parsed.Services) > 0 {
		return parsed
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil {
		for _, key := range []string{"content", "data", "result", "website"} {
			inner, ok := wrapper[key]
			if !ok {
				continue
			}
			var unwrapped types.SiteCopy
			if err := json.Unmarshal(inner, &unwrapped); err == nil {
				logger.Debug("parsed copy from wrapped key", zap.String("key", key))
				return unwrapped
			}
		}
	}
	return parsed
}
