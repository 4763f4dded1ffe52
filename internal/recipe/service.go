package recipe

import (
	"context"
	"sort"

	"fridgekeep/internal/model"

	"github.com/rs/zerolog"
)

// DeviceIdentity supplies the stable per-installation identifier used as the
// rating device id.
type DeviceIdentity interface {
	InstallationID(ctx context.Context) (string, error)
}

// Service ranks recipe candidates against the current inventory and records
// ratings. Remote failures degrade to empty results; only the rating bounds
// are surfaced as an error.
type Service struct {
	repo   Repository
	device DeviceIdentity
	logger zerolog.Logger
}

// NewService creates a recipe suggestion service.
func NewService(repo Repository, device DeviceIdentity, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		device: device,
		logger: logger.With().Str("service", "recipe").Logger(),
	}
}

// Suggestions scores every recipe candidate against the given inventory and
// returns the matches ordered by score, best first. An empty inventory
// returns immediately without contacting the remote store. Equal scores keep
// fetch order (newest recipe first) via the stable sort; there is no
// secondary sort key.
func (s *Service) Suggestions(ctx context.Context, items []model.InventoryItem) []model.Suggestion {
	if len(items) == 0 {
		return []model.Suggestion{}
	}

	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch recipes")
		return []model.Suggestion{}
	}

	userRatings := map[string]int{}
	deviceID, err := s.device.InstallationID(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve device id, skipping user ratings")
	} else {
		userRatings, err = s.repo.RatingsByDevice(ctx, deviceID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to fetch device ratings")
			userRatings = map[string]int{}
		}
	}

	stats, err := s.repo.RatingStats(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to fetch rating stats")
		stats = map[string]model.RatingStats{}
	}

	suggestions := make([]model.Suggestion, 0, len(recipes))
	for _, rec := range recipes {
		score, matchedCategories, matchedIngredients := Score(rec, items)
		if score == 0 {
			continue
		}

		suggestion := model.Suggestion{
			Recipe:             rec,
			MatchScore:         score,
			MatchedCategories:  matchedCategories,
			MatchedIngredients: matchedIngredients,
		}
		if rating, ok := userRatings[rec.ID]; ok {
			suggestion.UserRating = &rating
		}
		if entry, ok := stats[rec.ID]; ok {
			average := entry.Average
			suggestion.AverageRating = &average
			suggestion.RatingCount = entry.Count
		}
		suggestions = append(suggestions, suggestion)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})

	s.logger.Debug().
		Int("candidates", len(recipes)).
		Int("suggestions", len(suggestions)).
		Msg("suggestions computed")

	return suggestions
}

// Rate records a 1..5 rating for a recipe, overwriting this device's previous
// rating if any. The boolean reports success; remote errors never surface
// beyond it.
func (s *Service) Rate(ctx context.Context, recipeID string, rating int, leftoverNames []string) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, model.ErrInvalidRating
	}

	deviceID, err := s.device.InstallationID(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve device id")
		return false, nil
	}

	row := &model.RecipeRating{
		RecipeID:      recipeID,
		DeviceID:      deviceID,
		Rating:        rating,
		LeftoverItems: leftoverNames,
	}
	if err := s.repo.UpsertRating(ctx, row); err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("failed to record rating")
		return false, nil
	}

	s.logger.Info().
		Str("recipe_id", recipeID).
		Int("rating", rating).
		Msg("rating recorded")

	return true, nil
}
