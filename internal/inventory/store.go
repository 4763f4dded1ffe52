package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"fridgekeep/internal/blob"
	"fridgekeep/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Blob keys for the local snapshot layout: one JSON document holding the item
// list, a sibling numeric last-modified marker, and the installation id.
const (
	itemsKey        = "leftovers:items"
	lastModifiedKey = "leftovers:last_modified"
	installationKey = "leftovers:installation_id"
)

// itemsDocument is the persisted shape of the item list.
type itemsDocument struct {
	Items []model.InventoryItem `json:"items"`
}

// SnapshotStore persists the local inventory snapshot in a blob store.
type SnapshotStore struct {
	blobs  blob.Store
	logger zerolog.Logger
}

// NewSnapshotStore creates a snapshot store over the given blob store.
func NewSnapshotStore(blobs blob.Store, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		blobs:  blobs,
		logger: logger.With().Str("store", "snapshot").Logger(),
	}
}

// Load reads the local snapshot. Read or decode failures degrade to an empty
// snapshot; the caller never sees a storage error on the read path.
func (s *SnapshotStore) Load(ctx context.Context) model.Snapshot {
	snapshot := model.Snapshot{Items: []model.InventoryItem{}}

	raw, ok, err := s.blobs.GetString(ctx, itemsKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load items, returning empty snapshot")
		return snapshot
	}
	if ok {
		var doc itemsDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			s.logger.Error().Err(err).Msg("malformed items document, returning empty snapshot")
			return snapshot
		}
		if doc.Items != nil {
			snapshot.Items = doc.Items
		}
	}

	marker, ok, err := s.blobs.GetString(ctx, lastModifiedKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load last-modified marker")
		return snapshot
	}
	if ok {
		millis, err := strconv.ParseInt(marker, 10, 64)
		if err != nil {
			s.logger.Error().Str("marker", marker).Msg("malformed last-modified marker")
			return snapshot
		}
		snapshot.LastModified = millis
	}

	return snapshot
}

// Save writes the item list and its last-modified marker.
func (s *SnapshotStore) Save(ctx context.Context, items []model.InventoryItem, lastModified int64) error {
	if items == nil {
		items = []model.InventoryItem{}
	}

	data, err := json.Marshal(itemsDocument{Items: items})
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	if err := s.blobs.SetString(ctx, itemsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}

	if err := s.blobs.SetString(ctx, lastModifiedKey, strconv.FormatInt(lastModified, 10)); err != nil {
		return fmt.Errorf("failed to save last-modified marker: %w", err)
	}

	s.logger.Debug().
		Int("items", len(items)).
		Int64("last_modified", lastModified).
		Msg("snapshot saved")

	return nil
}

// InstallationID returns the stable per-installation identifier, minting and
// persisting one on first use. It scopes the remote snapshot document and is
// also used as the rating device id.
func (s *SnapshotStore) InstallationID(ctx context.Context) (string, error) {
	id, ok, err := s.blobs.GetString(ctx, installationKey)
	if err != nil {
		return "", fmt.Errorf("failed to read installation id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = uuid.New().String()
	if err := s.blobs.SetString(ctx, installationKey, id); err != nil {
		return "", fmt.Errorf("failed to persist installation id: %w", err)
	}

	s.logger.Info().Str("installation_id", id).Msg("installation id minted")
	return id, nil
}
