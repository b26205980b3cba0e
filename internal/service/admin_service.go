package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"shortspan/internal/models"
	"shortspan/internal/shortid"
	"shortspan/internal/store"

	"github.com/rs/zerolog"
)

// DefaultListLimit bounds admin listings when no limit is given
const DefaultListLimit = 10

// AdminService exposes the console's query and mutation operations over the
// same key namespace the link service writes.
type AdminService interface {
	LatestLinks(ctx context.Context, limit int) ([]models.ShortLink, error)
	FindBySlug(ctx context.Context, slug string) (*models.ShortLink, error)
	DeleteLink(ctx context.Context, slug string) error
	Metrics(ctx context.Context) (*models.SystemMetrics, error)
}

type adminService struct {
	store store.KVStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(kv store.KVStore, log zerolog.Logger) AdminService {
	return &adminService{
		store: kv,
		log:   log.With().Str("component", "admin_service").Logger(),
		now:   time.Now,
	}
}

// liveSlugs scans the store and keeps only keys that look like short ids,
// excluding the stats and reverse-index namespaces.
func (s *adminService) liveSlugs(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx, "*")
	if err != nil {
		return nil, fmt.Errorf("%w: key scan: %v", ErrStoreUnavailable, err)
	}

	var slugs []string
	for _, key := range keys {
		if shortid.Valid(key) {
			slugs = append(slugs, key)
		}
	}
	return slugs, nil
}

// inspect assembles the admin view of one slug. The data model stores no
// creation timestamp, so CreatedAt is reconstructed from the remaining TTL:
// a full TTL means the link was just created or renewed.
func (s *adminService) inspect(ctx context.Context, slug string) (*models.ShortLink, error) {
	destination, err := s.store.Get(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: slug lookup: %v", ErrStoreUnavailable, err)
	}

	var clicks int64
	if raw, err := s.store.Get(ctx, statsKey(slug)); err == nil {
		clicks, _ = strconv.ParseInt(raw, 10, 64)
	}

	createdAt := s.now()
	if remaining, err := s.store.TTL(ctx, slug); err == nil && remaining > 0 {
		createdAt = s.now().Add(remaining - LinkTTL)
	}

	return &models.ShortLink{
		Slug:        slug,
		OriginalURL: destination,
		Clicks:      clicks,
		CreatedAt:   createdAt,
	}, nil
}

// LatestLinks lists up to limit live links, newest first. Ordering is
// approximate: it follows the reconstructed creation time, so a renewal
// moves a link back to the top.
func (s *adminService) LatestLinks(ctx context.Context, limit int) ([]models.ShortLink, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	slugs, err := s.liveSlugs(ctx)
	if err != nil {
		return nil, err
	}

	links := make([]models.ShortLink, 0, len(slugs))
	for _, slug := range slugs {
		link, err := s.inspect(ctx, slug)
		if errors.Is(err, ErrLinkNotFound) {
			continue // expired between the scan and the lookup
		}
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	if len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

// FindBySlug returns the admin view of a single link
func (s *adminService) FindBySlug(ctx context.Context, slug string) (*models.ShortLink, error) {
	if slug == "" {
		return nil, ErrMissingID
	}
	if !shortid.Valid(slug) {
		return nil, ErrInvalidID
	}
	return s.inspect(ctx, slug)
}

// DeleteLink removes the forward mapping, visit counter and reverse index of
// a link as a unit. A partial failure can leave a dangling reverse index,
// which the allocation engine's stale-index handling tolerates.
func (s *adminService) DeleteLink(ctx context.Context, slug string) error {
	if slug == "" {
		return ErrMissingID
	}
	if !shortid.Valid(slug) {
		return ErrInvalidID
	}

	destination, err := s.store.Get(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return ErrLinkNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: slug lookup: %v", ErrStoreUnavailable, err)
	}

	if err := s.store.Delete(ctx, slug); err != nil {
		return fmt.Errorf("%w: delete forward mapping: %v", ErrStoreUnavailable, err)
	}
	if err := s.store.Delete(ctx, statsKey(slug)); err != nil {
		return fmt.Errorf("%w: delete visit counter: %v", ErrStoreUnavailable, err)
	}
	if err := s.store.Delete(ctx, reverseIndexKey(destination)); err != nil {
		return fmt.Errorf("%w: delete reverse index: %v", ErrStoreUnavailable, err)
	}

	s.log.Info().Str("slug", slug).Msg("short link deleted")
	return nil
}

// Metrics aggregates usage across all live links
func (s *adminService) Metrics(ctx context.Context) (*models.SystemMetrics, error) {
	links, err := s.LatestLinks(ctx, math.MaxInt)
	if err != nil {
		return nil, err
	}

	metrics := &models.SystemMetrics{TotalURLs: len(links)}
	for _, link := range links {
		metrics.TotalClicks += link.Clicks
	}
	if len(links) > 0 {
		metrics.AverageClicksPerURL = math.Round(float64(metrics.TotalClicks)/float64(len(links))*100) / 100
		last := links[0]
		metrics.LastURL = &last
	}
	return metrics, nil
}
