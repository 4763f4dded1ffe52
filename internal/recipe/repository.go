package recipe

import (
	"context"
	"fmt"

	"fridgekeep/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repository defines the interface for recipe and rating data access.
type Repository interface {
	// ListRecipes retrieves every recipe candidate, newest first.
	ListRecipes(ctx context.Context) ([]model.Recipe, error)

	// RatingsByDevice retrieves one device's ratings keyed by recipe id.
	RatingsByDevice(ctx context.Context, deviceID string) (map[string]int, error)

	// RatingStats aggregates all devices' ratings per recipe.
	RatingStats(ctx context.Context) (map[string]model.RatingStats, error)

	// UpsertRating inserts or overwrites the (recipe, device) rating row.
	UpsertRating(ctx context.Context, rating *model.RecipeRating) error
}

// postgresRepository implements Repository using PostgreSQL.
type postgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL-backed recipe repository.
func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "recipe").Logger(),
	}
}

// ListRecipes retrieves every recipe candidate, newest first. The fetch order
// doubles as the tie-break for equal match scores downstream.
func (r *postgresRepository) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	query := `
		SELECT id, name, description, ingredients, categories, instructions,
		       prep_time_minutes, difficulty, created_at
		FROM recipes
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query recipes")
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var rec model.Recipe
		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Description,
			&rec.Ingredients,
			&rec.Categories,
			&rec.Instructions,
			&rec.PrepTimeMinutes,
			&rec.Difficulty,
			&rec.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan recipe row")
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating recipe rows")
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// RatingsByDevice retrieves one device's ratings keyed by recipe id.
func (r *postgresRepository) RatingsByDevice(ctx context.Context, deviceID string) (map[string]int, error) {
	query := `
		SELECT recipe_id, rating
		FROM recipe_ratings
		WHERE device_id = $1
	`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		r.logger.Error().Err(err).Str("device_id", deviceID).Msg("failed to query device ratings")
		return nil, fmt.Errorf("failed to query device ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]int)
	for rows.Next() {
		var recipeID string
		var rating int
		if err := rows.Scan(&recipeID, &rating); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan rating row")
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[recipeID] = rating
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// RatingStats aggregates all devices' ratings per recipe.
func (r *postgresRepository) RatingStats(ctx context.Context) (map[string]model.RatingStats, error) {
	query := `
		SELECT recipe_id, AVG(rating)::float8, COUNT(*)
		FROM recipe_ratings
		GROUP BY recipe_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query rating stats")
		return nil, fmt.Errorf("failed to query rating stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]model.RatingStats)
	for rows.Next() {
		var recipeID string
		var entry model.RatingStats
		if err := rows.Scan(&recipeID, &entry.Average, &entry.Count); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan stats row")
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats[recipeID] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}

	return stats, nil
}

// UpsertRating inserts or overwrites the (recipe, device) rating row, so a
// device rating the same recipe twice keeps exactly one row with the latest
// values.
func (r *postgresRepository) UpsertRating(ctx context.Context, rating *model.RecipeRating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}

	query := `
		INSERT INTO recipe_ratings (id, recipe_id, device_id, rating, leftover_items)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (recipe_id, device_id)
		DO UPDATE SET rating = EXCLUDED.rating, leftover_items = EXCLUDED.leftover_items
	`

	_, err := r.pool.Exec(ctx, query,
		rating.ID,
		rating.RecipeID,
		rating.DeviceID,
		rating.Rating,
		rating.LeftoverItems,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("recipe_id", rating.RecipeID).
			Str("device_id", rating.DeviceID).
			Msg("failed to upsert rating")
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	return nil
}
