package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"shortspan/internal/shortid"
	"shortspan/internal/store"
	"shortspan/internal/validate"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const (
	// LinkTTL is the lifetime of every key this service writes. Renewal
	// resets it to the full duration, it is never extended additively.
	LinkTTL = 24 * time.Hour

	// MaxURLLength caps accepted destination URLs. Oversized input is a
	// validation failure, checked here rather than in the validator.
	MaxURLLength = 2000

	// maxIDAttempts bounds the collision retry loop when minting a new id.
	maxIDAttempts = 5

	statsKeyPrefix = "stats:"
	urlKeyPrefix   = "url:"
)

// Typed failures surfaced by Shorten and Resolve. Validation errors never
// touch the store; ErrStoreUnavailable is kept distinct from ErrLinkNotFound
// because callers treat transient and permanent failures differently.
var (
	ErrInvalidURL       = errors.New("invalid URL")
	ErrURLTooLong       = errors.New("URL exceeds maximum length")
	ErrIDSpaceExhausted = errors.New("could not generate a unique id")
	ErrMissingID        = errors.New("missing id")
	ErrInvalidID        = errors.New("invalid id shape")
	ErrLinkNotFound     = errors.New("short link not found")
	ErrInvalidStoredURL = errors.New("stored URL is not valid")
	ErrStoreUnavailable = errors.New("store unavailable")

	errIDCollision = errors.New("id collision")
)

// ShortenResult is the outcome of a successful allocation
type ShortenResult struct {
	ID            string
	NormalizedURL string
	IsExisting    bool // true when an existing link was renewed instead of minted
}

// LinkService defines the short-link lifecycle operations
type LinkService interface {
	Shorten(ctx context.Context, rawURL string) (*ShortenResult, error)
	Resolve(ctx context.Context, id string) (string, error)
}

type linkService struct {
	store    store.KVStore
	log      zerolog.Logger
	idLength int
}

// NewLinkService creates a new link service backed by the given store
func NewLinkService(kv store.KVStore, log zerolog.Logger) LinkService {
	return &linkService{
		store:    kv,
		log:      log.With().Str("component", "link_service").Logger(),
		idLength: shortid.DefaultLength,
	}
}

// reverseIndexKey derives the dedup index key for a normalized URL. MD5 is
// used as a stable content digest, not for security; digest collisions are
// treated as the same URL.
func reverseIndexKey(normalizedURL string) string {
	sum := md5.Sum([]byte(normalizedURL))
	return urlKeyPrefix + hex.EncodeToString(sum[:])
}

func statsKey(id string) string {
	return statsKeyPrefix + id
}

// Shorten validates and normalizes rawURL, then either renews the existing
// link for that URL or mints a new one. The returned IsExisting flag lets the
// caller distinguish "renewed" from "freshly minted".
func (s *linkService) Shorten(ctx context.Context, rawURL string) (*ShortenResult, error) {
	rawURL = strings.TrimSpace(rawURL)

	// Fail fast on bad input, before any store round-trip.
	if rawURL == "" || !validate.IsValidURL(rawURL, false) {
		return nil, ErrInvalidURL
	}
	if len(rawURL) > MaxURLLength {
		return nil, ErrURLTooLong
	}

	normalized := validate.NormalizeURL(rawURL)
	indexKey := reverseIndexKey(normalized)

	existingID, err := s.store.Get(ctx, indexKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: reverse index lookup: %v", ErrStoreUnavailable, err)
	}

	if err == nil {
		// Index hit. The forward mapping may still have expired on its own
		// (index and mapping carry independent TTLs), so verify liveness
		// before trusting the index.
		alive, existsErr := s.store.Exists(ctx, existingID)
		if existsErr != nil {
			return nil, fmt.Errorf("%w: forward mapping check: %v", ErrStoreUnavailable, existsErr)
		}
		if alive {
			return s.renew(ctx, existingID, indexKey, normalized)
		}
		s.log.Debug().Str("id", existingID).Msg("stale reverse index, minting a fresh id")
	}

	id, err := s.mintID(ctx)
	if err != nil {
		return nil, err
	}

	// Forward mapping first, reverse index second. A reader in the gap sees
	// an incomplete link, which self-heals since both keys share a TTL.
	if err := s.store.Set(ctx, id, normalized, LinkTTL); err != nil {
		return nil, fmt.Errorf("%w: write forward mapping: %v", ErrStoreUnavailable, err)
	}
	if err := s.store.Set(ctx, indexKey, id, LinkTTL); err != nil {
		return nil, fmt.Errorf("%w: write reverse index: %v", ErrStoreUnavailable, err)
	}

	s.log.Info().Str("id", id).Bool("existing", false).Msg("short link created")

	return &ShortenResult{ID: id, NormalizedURL: normalized, IsExisting: false}, nil
}

// renew resets both keys of a live link to a fresh full TTL
func (s *linkService) renew(ctx context.Context, id, indexKey, normalized string) (*ShortenResult, error) {
	if _, err := s.store.Expire(ctx, id, LinkTTL); err != nil {
		return nil, fmt.Errorf("%w: renew forward mapping: %v", ErrStoreUnavailable, err)
	}
	// The primary renewal succeeded; a failure refreshing the index is not
	// worth failing the request over. The index simply expires earlier and
	// the next submission mints a fresh id.
	if _, err := s.store.Expire(ctx, indexKey, LinkTTL); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to renew reverse index TTL")
	}

	s.log.Info().Str("id", id).Bool("existing", true).Msg("short link renewed")

	return &ShortenResult{ID: id, NormalizedURL: normalized, IsExisting: true}, nil
}

// mintID generates candidate ids until one is free, giving up after
// maxIDAttempts. Exhaustion is a hard failure, never downgraded to a
// colliding or longer id.
func (s *linkService) mintID(ctx context.Context) (string, error) {
	var id string

	backoff := retry.WithMaxRetries(maxIDAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate := shortid.Generate(s.idLength)
		taken, err := s.store.Exists(ctx, candidate)
		if err != nil {
			return err // store failure, not retryable
		}
		if taken {
			return retry.RetryableError(errIDCollision)
		}
		id = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, errIDCollision) {
			return "", ErrIDSpaceExhausted
		}
		return "", fmt.Errorf("%w: id liveness check: %v", ErrStoreUnavailable, err)
	}

	return id, nil
}

// Resolve maps a short id back to its destination URL. The progression is
// linear and terminal on first failure: shape checks before any store access,
// not-found kept distinct from store errors, and the stored value re-validated
// before it is ever returned as a redirect target.
func (s *linkService) Resolve(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrMissingID
	}
	if !shortid.Valid(id) {
		return "", ErrInvalidID
	}

	destination, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrLinkNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: forward mapping lookup: %v", ErrStoreUnavailable, err)
	}

	// Stored values are normalized on write, but the resolver does not trust
	// that blindly: a corrupted or tampered value must never become an open
	// redirect.
	destination = validate.NormalizeURL(destination)
	if !validate.IsValidURL(destination, false) {
		return "", ErrInvalidStoredURL
	}

	// Visit counting is strictly best-effort. Redirecting the visitor takes
	// priority over accounting accuracy.
	if _, err := s.store.Incr(ctx, statsKey(id)); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to increment visit counter")
	} else if _, err := s.store.Expire(ctx, statsKey(id), LinkTTL); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to set visit counter TTL")
	}

	return destination, nil
}
