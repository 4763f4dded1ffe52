package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fridgekeep/internal/expiry"
	"fridgekeep/internal/mirror"
	"fridgekeep/internal/model"
	"fridgekeep/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const expiredTitle = "Leftover expired!"

func expiredBody(name string) string {
	return fmt.Sprintf("%q has expired. Time to toss it out!", name)
}

// AddItemRequest carries the fields for a new inventory item. DateAdded
// defaults to now when omitted.
type AddItemRequest struct {
	Name            string     `json:"name"`
	DaysUntilExpiry int        `json:"daysUntilExpiry"`
	Category        string     `json:"category,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ImageRef        string     `json:"imageRef,omitempty"`
	DateAdded       *time.Time `json:"dateAdded,omitempty"`
}

// Service implements the inventory lifecycle: add, update, delete and reads,
// each coordinating a single expiry notification per item and keeping the
// remote mirror eventually consistent through save and the syncer.
type Service struct {
	store     *SnapshotStore
	remote    mirror.Mirror
	syncer    *Syncer
	scheduler notify.Scheduler
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates an inventory service.
func NewService(store *SnapshotStore, remote mirror.Mirror, syncer *Syncer, scheduler notify.Scheduler, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		remote:    remote,
		syncer:    syncer,
		scheduler: scheduler,
		logger:    logger.With().Str("service", "inventory").Logger(),
		now:       time.Now,
	}
}

// opportunisticSync runs a reconciliation pass ahead of a snapshot read.
// Failures never surface; the next pass retries naturally.
func (s *Service) opportunisticSync(ctx context.Context) {
	if err := s.syncer.SyncFromRemote(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("opportunistic sync failed")
	}
}

// Items returns the reconciled inventory decorated with expiry information,
// most urgent first.
func (s *Service) Items(ctx context.Context) []model.ItemView {
	s.opportunisticSync(ctx)

	snapshot := s.store.Load(ctx)
	now := s.now()

	views := make([]model.ItemView, len(snapshot.Items))
	for i, item := range snapshot.Items {
		views[i] = s.view(item, now)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].DaysRemaining < views[j].DaysRemaining
	})

	return views
}

// Add validates and stores a new item, scheduling its expiry notification.
// Validation failures are the only errors ever surfaced from the lifecycle.
func (s *Service) Add(ctx context.Context, req AddItemRequest) (*model.ItemView, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.ErrNameRequired
	}
	if req.DaysUntilExpiry <= 0 {
		return nil, model.ErrInvalidExpiry
	}

	s.opportunisticSync(ctx)

	now := s.now()
	dateAdded := now
	if req.DateAdded != nil {
		dateAdded = *req.DateAdded
	}

	item := model.InventoryItem{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(req.Name),
		DateAdded:       dateAdded,
		DaysUntilExpiry: req.DaysUntilExpiry,
		Category:        req.Category,
		Notes:           req.Notes,
		ImageRef:        req.ImageRef,
	}

	// A scheduling failure leaves the item without a handle; it is saved
	// regardless.
	fireAt := expiry.Date(item.DateAdded, item.DaysUntilExpiry)
	handle, err := s.scheduler.Schedule(ctx, item.ID, expiredTitle, expiredBody(item.Name), fireAt)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("failed to schedule expiry notification")
	} else {
		item.NotificationHandle = handle
	}

	snapshot := s.store.Load(ctx)
	items := append(snapshot.Items, item)
	s.save(ctx, items)

	s.logger.Info().
		Str("item_id", item.ID).
		Str("name", item.Name).
		Int("days_until_expiry", item.DaysUntilExpiry).
		Msg("item added")

	view := s.view(item, now)
	return &view, nil
}

// Update applies a partial update to the item with the given id. A missing id
// is a silent no-op; the returned boolean reports whether the item was found.
// The existing notification is always cancelled, and a fresh one is scheduled
// only when the expiry inputs changed, so an item never carries two live
// handles.
func (s *Service) Update(ctx context.Context, id string, changes model.ItemUpdate) (*model.ItemView, bool) {
	s.opportunisticSync(ctx)

	snapshot := s.store.Load(ctx)

	index := -1
	for i, item := range snapshot.Items {
		if item.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		s.logger.Debug().Str("item_id", id).Msg("update of missing item, ignoring")
		return nil, false
	}

	item := snapshot.Items[index]
	if item.NotificationHandle != "" {
		s.scheduler.Cancel(ctx, item.NotificationHandle)
		item.NotificationHandle = ""
	}

	expiryChanged := false
	if changes.Name != nil {
		item.Name = *changes.Name
	}
	if changes.DateAdded != nil && !changes.DateAdded.Equal(item.DateAdded) {
		item.DateAdded = *changes.DateAdded
		expiryChanged = true
	}
	if changes.DaysUntilExpiry != nil && *changes.DaysUntilExpiry != item.DaysUntilExpiry {
		item.DaysUntilExpiry = *changes.DaysUntilExpiry
		expiryChanged = true
	}
	if changes.Category != nil {
		item.Category = *changes.Category
	}
	if changes.Notes != nil {
		item.Notes = *changes.Notes
	}
	if changes.ImageRef != nil {
		item.ImageRef = *changes.ImageRef
	}

	if expiryChanged {
		fireAt := expiry.Date(item.DateAdded, item.DaysUntilExpiry)
		handle, err := s.scheduler.Schedule(ctx, item.ID, expiredTitle, expiredBody(item.Name), fireAt)
		if err != nil {
			s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("failed to reschedule expiry notification")
		} else {
			item.NotificationHandle = handle
		}
	}

	snapshot.Items[index] = item
	s.save(ctx, snapshot.Items)

	s.logger.Info().Str("item_id", id).Msg("item updated")

	view := s.view(item, s.now())
	return &view, true
}

// Delete removes the item with the given id, cancelling its notification.
// A missing id is a silent no-op.
func (s *Service) Delete(ctx context.Context, id string) {
	s.opportunisticSync(ctx)

	snapshot := s.store.Load(ctx)

	remaining := make([]model.InventoryItem, 0, len(snapshot.Items))
	found := false
	for _, item := range snapshot.Items {
		if item.ID == id {
			found = true
			if item.NotificationHandle != "" {
				s.scheduler.Cancel(ctx, item.NotificationHandle)
			}
			continue
		}
		remaining = append(remaining, item)
	}

	if !found {
		s.logger.Debug().Str("item_id", id).Msg("delete of missing item, ignoring")
		return
	}

	s.save(ctx, remaining)
	s.logger.Info().Str("item_id", id).Msg("item deleted")
}

// ManualSync runs a reconciliation pass on demand and reports whether it
// succeeded. Idempotent and safe to call repeatedly.
func (s *Service) ManualSync(ctx context.Context) bool {
	return s.syncer.SyncFromRemote(ctx) == nil
}

// InstallationID exposes the stable per-installation identifier.
func (s *Service) InstallationID(ctx context.Context) (string, error) {
	return s.store.InstallationID(ctx)
}

// save writes the snapshot locally with a fresh timestamp, then mirrors it
// best-effort. The local write is the durability guarantee; a failed mirror
// write is picked up by a later reconciliation pass.
func (s *Service) save(ctx context.Context, items []model.InventoryItem) {
	lastModified := s.now().UnixMilli()

	if err := s.store.Save(ctx, items, lastModified); err != nil {
		s.logger.Error().Err(err).Msg("failed to save snapshot locally")
		return
	}

	if !s.remote.Available(ctx) {
		return
	}

	doc := &mirror.Document{Items: items, LastModified: lastModified}
	if err := s.remote.Write(ctx, doc); err != nil {
		s.logger.Warn().Err(err).Msg("best-effort remote upload failed")
	}
}

// view decorates an item with derived expiry information.
func (s *Service) view(item model.InventoryItem, now time.Time) model.ItemView {
	remaining := expiry.DaysRemaining(item.DateAdded, item.DaysUntilExpiry, now)
	return model.ItemView{
		InventoryItem: item,
		DaysRemaining: remaining,
		ExpiryDate:    expiry.Date(item.DateAdded, item.DaysUntilExpiry),
		Status:        expiry.StatusFor(remaining),
	}
}
