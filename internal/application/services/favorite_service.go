package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/tourbooking/backend/pkg/errors"
	"github.com/zatekoja/tourbooking/backend/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

// Result messages returned to clients
const (
	MessageAdded               = "Added to favorites"
	MessageRemoved             = "Removed from favorites"
	MessageAlreadyFavorite     = "Tour is already in favorites"
	MessageNotFavorite         = "Tour is not in favorites"
	MessageTourNotFound        = "Tour not found"
	MessageFavoritesRetrieved  = "Favorites retrieved successfully"
	MessageReordered           = "Favorites reordered successfully"
	MessageNothingToReorder    = "No favorites to reorder"
	MessageReorderMismatch     = "Favorite IDs do not match your favorites"
	MessageTourFavoritesListed = "Tour favorites retrieved successfully"
)

// Paging bounds for favorite listings
const (
	DefaultFavoritesLimit = 20
	MaxFavoritesLimit     = 100
)

// FavoriteResult is the outcome of a single-favorite mutation
type FavoriteResult struct {
	Success  bool
	Message  string
	Favorite *entities.Favorite
}

// FavoritesListResult is a page of favorites
type FavoritesListResult struct {
	Success   bool
	Message   string
	Favorites []*entities.Favorite
	Total     int
}

// ReorderResult is the outcome of a reorder
type ReorderResult struct {
	Success   bool
	Message   string
	Favorites []*entities.Favorite
}

// FavoriteServiceConfig tunes the favorite service
type FavoriteServiceConfig struct {
	StatusTTLSeconds int
}

type tourInput struct {
	TourID string `validate:"required,max=64,printascii"`
}

type reorderInput struct {
	FavoriteIDs []string `validate:"dive,uuid"`
}

// FavoriteService implements favorite use cases. Every mutation for a user
// runs under that user's repository lock.
type FavoriteService struct {
	favorites repositories.FavoriteRepository
	tours     repositories.TourRepository
	cache     providers.CacheProvider
	eventBus  providers.EventBus
	statusTTL int
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewFavoriteService creates a new favorite service. cache, eventBus and
// metrics may be nil.
func NewFavoriteService(
	favorites repositories.FavoriteRepository,
	tours repositories.TourRepository,
	cache providers.CacheProvider,
	eventBus providers.EventBus,
	cfg FavoriteServiceConfig,
	metrics *observability.Metrics,
) *FavoriteService {
	ttl := cfg.StatusTTLSeconds
	if ttl <= 0 {
		ttl = 300
	}
	return &FavoriteService{
		favorites: favorites,
		tours:     tours,
		cache:     cache,
		eventBus:  eventBus,
		statusTTL: ttl,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ToggleFavorite adds the tour when it is not an active favorite and removes
// it otherwise.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, tourID string) (*FavoriteResult, error) {
	ctx, span := observability.StartSpan(ctx, "FavoriteService.ToggleFavorite")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("tour.id", tourID))

	if result, err := s.checkTour(ctx, tourID); result != nil || err != nil {
		return result, err
	}

	var favorite *entities.Favorite
	err := s.favorites.WithUserLock(ctx, userID, func(ctx context.Context, store repositories.FavoriteStore) error {
		existing, err := store.FindByUserAndTour(ctx, userID, tourID)
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			favorite, err = s.insert(ctx, store, userID, tourID)
			return err
		}
		if err != nil {
			return err
		}

		if existing.IsActive() {
			favorite, err = s.softDelete(ctx, store, existing)
		} else {
			favorite, err = s.restore(ctx, store, existing)
		}
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		return s.failure("toggle", err)
	}

	s.afterWrite(ctx, favorite)
	observability.RecordFavoriteMutation(ctx, s.metrics, "toggle", true)

	message := MessageAdded
	if favorite.IsDeleted {
		message = MessageRemoved
	}
	return &FavoriteResult{Success: true, Message: message, Favorite: favorite}, nil
}

// AddToFavorites adds the tour to the user's favorites
func (s *FavoriteService) AddToFavorites(ctx context.Context, userID, tourID string) (*FavoriteResult, error) {
	ctx, span := observability.StartSpan(ctx, "FavoriteService.AddToFavorites")
	defer span.End()

	if result, err := s.checkTour(ctx, tourID); result != nil || err != nil {
		return result, err
	}

	var favorite *entities.Favorite
	alreadyActive := false
	err := s.favorites.WithUserLock(ctx, userID, func(ctx context.Context, store repositories.FavoriteStore) error {
		existing, err := store.FindByUserAndTour(ctx, userID, tourID)
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			favorite, err = s.insert(ctx, store, userID, tourID)
			return err
		}
		if err != nil {
			return err
		}

		if existing.IsActive() {
			favorite = existing
			alreadyActive = true
			return nil
		}
		favorite, err = s.restore(ctx, store, existing)
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		return s.failure("add", err)
	}

	if alreadyActive {
		observability.RecordFavoriteMutation(ctx, s.metrics, "add", false)
		return &FavoriteResult{Success: false, Message: MessageAlreadyFavorite, Favorite: favorite}, nil
	}

	s.afterWrite(ctx, favorite)
	observability.RecordFavoriteMutation(ctx, s.metrics, "add", true)
	return &FavoriteResult{Success: true, Message: MessageAdded, Favorite: favorite}, nil
}

// RemoveFromFavorites soft-deletes the user's favorite on the tour. Favorites
// of tours that were since deactivated can still be removed.
func (s *FavoriteService) RemoveFromFavorites(ctx context.Context, userID, tourID string) (*FavoriteResult, error) {
	ctx, span := observability.StartSpan(ctx, "FavoriteService.RemoveFromFavorites")
	defer span.End()

	if err := validation.Struct(tourInput{TourID: tourID}); err != nil {
		return s.failure("remove", err)
	}

	var favorite *entities.Favorite
	err := s.favorites.WithUserLock(ctx, userID, func(ctx context.Context, store repositories.FavoriteStore) error {
		existing, err := store.FindByUserAndTour(ctx, userID, tourID)
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !existing.IsActive() {
			return nil
		}

		favorite, err = s.softDelete(ctx, store, existing)
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		return s.failure("remove", err)
	}

	if favorite == nil {
		observability.RecordFavoriteMutation(ctx, s.metrics, "remove", false)
		return &FavoriteResult{Success: false, Message: MessageNotFavorite}, nil
	}

	s.afterWrite(ctx, favorite)
	observability.RecordFavoriteMutation(ctx, s.metrics, "remove", true)
	return &FavoriteResult{Success: true, Message: MessageRemoved, Favorite: favorite}, nil
}

// GetFavorites returns a page of the user's favorites in display order.
// limit defaults to 20 and is clamped to [1, 100]; a negative offset is 0.
func (s *FavoriteService) GetFavorites(ctx context.Context, userID string, limit, offset *int) (*FavoritesListResult, error) {
	ctx, span := observability.StartSpan(ctx, "FavoriteService.GetFavorites")
	defer span.End()

	l, o := NormalizePage(limit, offset)

	favorites, err := s.favorites.ListActiveByUser(ctx, userID, l, o)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	total, err := s.favorites.CountActiveByUser(ctx, userID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return &FavoritesListResult{
		Success:   true,
		Message:   MessageFavoritesRetrieved,
		Favorites: favorites,
		Total:     total,
	}, nil
}

// IsFavorite reports whether the user has an active favorite on the tour.
// Anonymous callers and malformed tour IDs get false.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, tourID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if err := validation.Struct(tourInput{TourID: tourID}); err != nil {
		return false, nil
	}
	return s.favorites.IsFavorite(ctx, userID, tourID)
}

// GetTourFavorites lists every active favorite of a tour, newest first
func (s *FavoriteService) GetTourFavorites(ctx context.Context, tourID string) (*FavoritesListResult, error) {
	ctx, span := observability.StartSpan(ctx, "FavoriteService.GetTourFavorites")
	defer span.End()

	if err := validation.Struct(tourInput{TourID: tourID}); err != nil {
		appErr, _ := apperrors.As(err)
		return &FavoritesListResult{Success: false, Message: appErr.Message, Favorites: []*entities.Favorite{}}, nil
	}

	favorites, err := s.favorites.ListActiveByTour(ctx, tourID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return &FavoritesListResult{
		Success:   true,
		Message:   MessageTourFavoritesListed,
		Favorites: favorites,
		Total:     len(favorites),
	}, nil
}

// ReorderFavorites rewrites the user's favorite order. favoriteIDs must list
// every active favorite of the user exactly once; anything else leaves the
// order untouched.
func (s *FavoriteService) ReorderFavorites(ctx context.Context, userID string, favoriteIDs []string) (*ReorderResult, error) {
	ctx, span := observability.StartSpan(ctx, "FavoriteService.ReorderFavorites")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("favorites.count", len(favoriteIDs)))

	if err := validation.Struct(reorderInput{FavoriteIDs: favoriteIDs}); err != nil {
		appErr, _ := apperrors.As(err)
		current, listErr := s.currentFavorites(ctx, userID)
		if listErr != nil {
			return nil, listErr
		}
		observability.RecordFavoriteMutation(ctx, s.metrics, "reorder", false)
		return &ReorderResult{Success: false, Message: appErr.Message, Favorites: current}, nil
	}

	if len(favoriteIDs) == 0 {
		current, err := s.currentFavorites(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ReorderResult{Success: true, Message: MessageNothingToReorder, Favorites: current}, nil
	}

	var (
		ordered  []*entities.Favorite
		mismatch bool
	)
	err := s.favorites.WithUserLock(ctx, userID, func(ctx context.Context, store repositories.FavoriteStore) error {
		active, err := store.ListAllActiveByUser(ctx, userID)
		if err != nil {
			return err
		}

		if !SameFavoriteSet(active, favoriteIDs) {
			mismatch = true
			ordered = active
			return nil
		}

		if err := store.ApplyOrder(ctx, userID, favoriteIDs); err != nil {
			return err
		}

		ordered, err = store.ListAllActiveByUser(ctx, userID)
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordFavoriteMutation(ctx, s.metrics, "reorder", false)
		return nil, err
	}

	if mismatch {
		observability.LoggerFromContext(ctx).Info().
			Str("user_id", userID).
			Int("requested", len(favoriteIDs)).
			Int("active", len(ordered)).
			Msg("Rejected reorder that does not match active favorites")
		observability.RecordFavoriteMutation(ctx, s.metrics, "reorder", false)
		return &ReorderResult{Success: false, Message: MessageReorderMismatch, Favorites: ordered}, nil
	}

	s.publish(ctx, userID, entities.NewFavoritesReorderedEvent(userID, favoriteIDs))
	observability.RecordFavoriteMutation(ctx, s.metrics, "reorder", true)
	return &ReorderResult{Success: true, Message: MessageReordered, Favorites: ordered}, nil
}

// NormalizePage applies listing defaults and bounds
func NormalizePage(limit, offset *int) (int, int) {
	l := DefaultFavoritesLimit
	if limit != nil {
		l = *limit
	}
	if l < 1 {
		l = 1
	}
	if l > MaxFavoritesLimit {
		l = MaxFavoritesLimit
	}

	o := 0
	if offset != nil && *offset > 0 {
		o = *offset
	}
	return l, o
}

// SameFavoriteSet reports whether ids names every active favorite exactly once
func SameFavoriteSet(active []*entities.Favorite, ids []string) bool {
	if len(active) != len(ids) {
		return false
	}

	remaining := make(map[string]struct{}, len(active))
	for _, f := range active {
		remaining[f.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := remaining[id]; !ok {
			return false
		}
		delete(remaining, id)
	}
	return len(remaining) == 0
}

func (s *FavoriteService) checkTour(ctx context.Context, tourID string) (*FavoriteResult, error) {
	if err := validation.Struct(tourInput{TourID: tourID}); err != nil {
		appErr, _ := apperrors.As(err)
		return &FavoriteResult{Success: false, Message: appErr.Message}, nil
	}

	tour, err := s.tours.GetByID(ctx, tourID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return &FavoriteResult{Success: false, Message: MessageTourNotFound}, nil
	}
	if err != nil {
		return nil, err
	}
	if !tour.IsActive {
		return &FavoriteResult{Success: false, Message: MessageTourNotFound}, nil
	}
	return nil, nil
}

func (s *FavoriteService) insert(ctx context.Context, store repositories.FavoriteStore, userID, tourID string) (*entities.Favorite, error) {
	active, err := store.ListAllActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	favorite := &entities.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		TourID:    tourID,
		Order:     entities.NextOrder(active),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Insert(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) restore(ctx context.Context, store repositories.FavoriteStore, favorite *entities.Favorite) (*entities.Favorite, error) {
	active, err := store.ListAllActiveByUser(ctx, favorite.UserID)
	if err != nil {
		return nil, err
	}

	favorite.IsDeleted = false
	favorite.Order = entities.NextOrder(active)
	favorite.UpdatedAt = s.now()
	if err := store.UpdateState(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) softDelete(ctx context.Context, store repositories.FavoriteStore, favorite *entities.Favorite) (*entities.Favorite, error) {
	favorite.IsDeleted = true
	favorite.UpdatedAt = s.now()
	if err := store.UpdateState(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) currentFavorites(ctx context.Context, userID string) ([]*entities.Favorite, error) {
	count, err := s.favorites.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []*entities.Favorite{}, nil
	}
	return s.favorites.ListActiveByUser(ctx, userID, count, 0)
}

// failure converts business-rule errors into a failed result and passes
// everything else through.
func (s *FavoriteService) failure(operation string, err error) (*FavoriteResult, error) {
	observability.RecordFavoriteMutation(context.Background(), s.metrics, operation, false)
	if appErr, ok := apperrors.As(err); ok && appErr.IsBusinessRule() {
		return &FavoriteResult{Success: false, Message: appErr.Message}, nil
	}
	return nil, err
}

// afterWrite refreshes the status cache entry and announces the change. Both
// are best effort once the write has committed.
func (s *FavoriteService) afterWrite(ctx context.Context, favorite *entities.Favorite) {
	if s.cache != nil {
		key := providers.FavoriteStatusKey(favorite.UserID, favorite.TourID)
		if err := s.cache.Delete(ctx, key); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to evict favorite status")
		} else if err := s.cache.Set(ctx, key, []byte(strconv.FormatBool(favorite.IsActive())), s.statusTTL); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to write favorite status")
		}
	}

	s.publish(ctx, favorite.UserID, entities.NewFavoriteToggledEvent(favorite))
}

func (s *FavoriteService) publish(ctx context.Context, userID string, event *entities.FavoriteEvent) {
	if s.eventBus == nil {
		return
	}
	for _, channel := range []string{providers.GetUserChannel(userID), providers.EventChannelFavoriteUpdates} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("channel", channel).
				Str("event_type", string(event.Type)).
				Msg("Failed to publish favorite event")
		}
	}
}
