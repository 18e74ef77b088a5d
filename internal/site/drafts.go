package site

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"shopsite_server/internal/types"
	"shopsite_server/internal/utils"
)

const (
	DefaultDraftTTL      = 2 * time.Hour
	draftCleanupInterval = 30 * time.Minute
	// MaxProjectName is the longest project name the hosting API accepts here.
	MaxProjectName = 50
)

// DraftStore keeps generated sites in memory so they can be previewed and
// claimed without regenerating.
type DraftStore struct {
	cache *cache.Cache
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{cache: cache.New(ttl, draftCleanupInterval)}
}

func (s *DraftStore) Put(siteID string, data types.WebsiteData) {
	s.cache.Set(siteID, data, cache.DefaultExpiration)
}

func (s *DraftStore) Get(siteID string) (types.WebsiteData, bool) {
	v, ok := s.cache.Get(siteID)
	if !ok {
		return types.WebsiteData{}, false
	}
	data, ok := v.(types.WebsiteData)
	return data, ok
}

func (s *DraftStore) Delete(siteID string) {
	s.cache.Delete(siteID)
}

// NewSiteID derives a unique, hosting-safe identifier from the shop name.
func NewSiteID(shopName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	base := utils.Slugify(shopName, MaxProjectName-len(suffix)-1)
	if base == "" {
		return "site-" + suffix
	}
	return base + "-" + suffix
}
