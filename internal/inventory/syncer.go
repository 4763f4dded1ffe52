package inventory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"fridgekeep/internal/expiry"
	"fridgekeep/internal/mirror"
	"fridgekeep/internal/model"
	"fridgekeep/internal/notify"

	"github.com/rs/zerolog"
)

// Syncer reconciles the local snapshot against the remote mirror using
// whole-snapshot last-writer-wins. A compare-and-set in-flight flag keeps
// passes from overlapping: handlers run on separate goroutines and the same
// sync can be triggered by a read, a manual request and a foreground event at
// once.
type Syncer struct {
	store     *SnapshotStore
	remote    mirror.Mirror
	scheduler notify.Scheduler
	logger    zerolog.Logger
	syncing   atomic.Bool
	now       func() time.Time
}

// NewSyncer creates a reconciliation engine over the given stores.
func NewSyncer(store *SnapshotStore, remote mirror.Mirror, scheduler notify.Scheduler, logger zerolog.Logger) *Syncer {
	return &Syncer{
		store:     store,
		remote:    remote,
		scheduler: scheduler,
		logger:    logger.With().Str("component", "syncer").Logger(),
		now:       time.Now,
	}
}

// SyncFromRemote runs one reconciliation pass. Redundant calls are cheap:
// a pass already in flight makes the call a no-op, an unreachable mirror
// leaves local state untouched, and equal timestamps mean both sides are
// already converged. Safe to call on every inventory read.
func (s *Syncer) SyncFromRemote(ctx context.Context) error {
	if !s.syncing.CompareAndSwap(false, true) {
		s.logger.Debug().Msg("sync already in flight, skipping")
		return nil
	}
	defer s.syncing.Store(false)

	if !s.remote.Available(ctx) {
		s.logger.Debug().Msg("remote mirror unavailable, skipping sync")
		return nil
	}

	remoteDoc, err := s.remote.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read remote snapshot")
		return fmt.Errorf("failed to read remote snapshot: %w", err)
	}

	local := s.store.Load(ctx)

	// No remote snapshot yet: seed it from local if there is anything to seed.
	if remoteDoc == nil {
		if len(local.Items) == 0 {
			return nil
		}
		if err := s.uploadLocal(ctx, local); err != nil {
			return err
		}
		s.logger.Info().Int("items", len(local.Items)).Msg("seeded remote snapshot from local")
		return nil
	}

	switch {
	case remoteDoc.LastModified > local.LastModified:
		return s.applyRemote(ctx, remoteDoc)

	case local.LastModified > remoteDoc.LastModified:
		if err := s.uploadLocal(ctx, local); err != nil {
			return err
		}
		s.logger.Info().
			Int64("local", local.LastModified).
			Int64("remote", remoteDoc.LastModified).
			Msg("local snapshot newer, uploaded to remote")
		return nil

	default:
		// Equal timestamps: both sides are assumed identical.
		s.logger.Debug().Int64("last_modified", local.LastModified).Msg("already in sync")
		return nil
	}
}

// applyRemote overwrites local state with the winning remote snapshot and
// rebuilds every expiry notification. The rebuild is full rather than
// incremental; reconciliation is infrequent enough that this is fine.
func (s *Syncer) applyRemote(ctx context.Context, doc *mirror.Document) error {
	items := s.rescheduleAll(ctx, doc.Items)

	if err := s.store.Save(ctx, items, doc.LastModified); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist remote snapshot locally")
		return fmt.Errorf("failed to persist remote snapshot: %w", err)
	}

	s.logger.Info().
		Int("items", len(items)).
		Int64("last_modified", doc.LastModified).
		Msg("remote snapshot newer, local state replaced")

	return nil
}

// rescheduleAll cancels every pending notification and schedules a fresh one
// per non-expired item, returning the items with their new handles.
func (s *Syncer) rescheduleAll(ctx context.Context, items []model.InventoryItem) []model.InventoryItem {
	s.scheduler.CancelAll(ctx)

	rescheduled := make([]model.InventoryItem, len(items))
	for i, item := range items {
		item.NotificationHandle = ""
		fireAt := expiry.Date(item.DateAdded, item.DaysUntilExpiry)
		handle, err := s.scheduler.Schedule(ctx, item.ID, expiredTitle, expiredBody(item.Name), fireAt)
		if err != nil {
			s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("failed to reschedule notification")
		} else {
			item.NotificationHandle = handle
		}
		rescheduled[i] = item
	}
	return rescheduled
}

// uploadLocal pushes the local snapshot, keeping its own timestamp.
func (s *Syncer) uploadLocal(ctx context.Context, local model.Snapshot) error {
	doc := &mirror.Document{Items: local.Items, LastModified: local.LastModified}
	if err := s.remote.Write(ctx, doc); err != nil {
		s.logger.Error().Err(err).Msg("failed to upload local snapshot")
		return fmt.Errorf("failed to upload local snapshot: %w", err)
	}
	return nil
}
