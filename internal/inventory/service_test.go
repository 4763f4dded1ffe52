package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fridgekeep/internal/blob"
	"fridgekeep/internal/mirror"
	"fridgekeep/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceFixture(t *testing.T) (*Service, *SnapshotStore, *mirror.MemoryMirror, *fakeScheduler) {
	t.Helper()
	store := NewSnapshotStore(blob.NewMemoryStore(), zerolog.Nop())
	remote := mirror.NewMemoryMirror()
	scheduler := &fakeScheduler{}
	syncer := NewSyncer(store, remote, scheduler, zerolog.Nop())
	service := NewService(store, remote, syncer, scheduler, zerolog.Nop())
	return service, store, remote, scheduler
}

func TestService_AddValidation(t *testing.T) {
	service, _, _, _ := newServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		req         AddItemRequest
		expectedErr error
	}{
		{
			name:        "empty name",
			req:         AddItemRequest{Name: "", DaysUntilExpiry: 3},
			expectedErr: model.ErrNameRequired,
		},
		{
			name:        "whitespace name",
			req:         AddItemRequest{Name: "   ", DaysUntilExpiry: 3},
			expectedErr: model.ErrNameRequired,
		},
		{
			name:        "zero expiry",
			req:         AddItemRequest{Name: "soup", DaysUntilExpiry: 0},
			expectedErr: model.ErrInvalidExpiry,
		},
		{
			name:        "negative expiry",
			req:         AddItemRequest{Name: "soup", DaysUntilExpiry: -2},
			expectedErr: model.ErrInvalidExpiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := service.Add(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.expectedErr, err)
			assert.Nil(t, view)
		})
	}
}

func TestService_AddSchedulesNotificationAndSaves(t *testing.T) {
	service, store, remote, scheduler := newServiceFixture(t)
	ctx := context.Background()

	view, err := service.Add(ctx, AddItemRequest{Name: "lasagna", DaysUntilExpiry: 4, Category: "Prepared Meal"})
	require.NoError(t, err)
	require.NotNil(t, view)

	assert.NotEmpty(t, view.ID)
	assert.NotEmpty(t, view.NotificationHandle)
	assert.Equal(t, 4, view.DaysRemaining)
	assert.Equal(t, model.StatusFresh, view.Status)

	local := store.Load(ctx)
	require.Len(t, local.Items, 1)
	assert.Equal(t, view.ID, local.Items[0].ID)
	assert.Positive(t, local.LastModified)

	// Best-effort mirror upload happened alongside the local write.
	doc := remote.Document()
	require.NotNil(t, doc)
	assert.Equal(t, local.LastModified, doc.LastModified)

	assert.Equal(t, []string{view.ID}, scheduler.scheduledIDs())
}

func TestService_AddSurvivesSchedulingFailure(t *testing.T) {
	service, store, _, scheduler := newServiceFixture(t)
	scheduler.scheduleErr = errors.New("permission denied")
	ctx := context.Background()

	view, err := service.Add(ctx, AddItemRequest{Name: "soup", DaysUntilExpiry: 3})
	require.NoError(t, err)
	assert.Empty(t, view.NotificationHandle)

	local := store.Load(ctx)
	require.Len(t, local.Items, 1)
	assert.Empty(t, local.Items[0].NotificationHandle)
}

func TestService_AddSurvivesRemoteWriteFailure(t *testing.T) {
	service, store, remote, _ := newServiceFixture(t)
	remote.WriteErr = errors.New("remote down")
	ctx := context.Background()

	_, err := service.Add(ctx, AddItemRequest{Name: "soup", DaysUntilExpiry: 3})
	require.NoError(t, err)

	// Local write is the durability guarantee.
	assert.Len(t, store.Load(ctx).Items, 1)
}

func TestService_AddThenDeleteRestoresItemSet(t *testing.T) {
	service, store, _, scheduler := newServiceFixture(t)
	ctx := context.Background()

	before, err := service.Add(ctx, AddItemRequest{Name: "keeper", DaysUntilExpiry: 7})
	require.NoError(t, err)

	added, err := service.Add(ctx, AddItemRequest{Name: "short-lived", DaysUntilExpiry: 2})
	require.NoError(t, err)
	handle := added.NotificationHandle
	require.NotEmpty(t, handle)

	service.Delete(ctx, added.ID)

	local := store.Load(ctx)
	require.Len(t, local.Items, 1)
	assert.Equal(t, before.ID, local.Items[0].ID)

	// The deleted item's alert was cancelled exactly once.
	assert.Equal(t, []string{handle}, scheduler.cancelledHandles())
}

func TestService_DeleteMissingIDIsNoop(t *testing.T) {
	service, store, _, scheduler := newServiceFixture(t)
	ctx := context.Background()

	_, err := service.Add(ctx, AddItemRequest{Name: "soup", DaysUntilExpiry: 3})
	require.NoError(t, err)
	modifiedBefore := store.Load(ctx).LastModified

	service.Delete(ctx, "no-such-id")

	assert.Len(t, store.Load(ctx).Items, 1)
	assert.Equal(t, modifiedBefore, store.Load(ctx).LastModified)
	assert.Empty(t, scheduler.cancelledHandles())
}

func TestService_UpdateMissingIDIsNoop(t *testing.T) {
	service, _, _, _ := newServiceFixture(t)

	name := "renamed"
	view, found := service.Update(context.Background(), "no-such-id", model.ItemUpdate{Name: &name})
	assert.False(t, found)
	assert.Nil(t, view)
}

func TestService_UpdateExpiryReschedulesNotification(t *testing.T) {
	service, store, _, scheduler := newServiceFixture(t)
	ctx := context.Background()

	added, err := service.Add(ctx, AddItemRequest{Name: "soup", DaysUntilExpiry: 3})
	require.NoError(t, err)
	oldHandle := added.NotificationHandle

	days := 10
	view, found := service.Update(ctx, added.ID, model.ItemUpdate{DaysUntilExpiry: &days})
	require.True(t, found)

	assert.Equal(t, 10, view.DaysUntilExpiry)
	assert.NotEmpty(t, view.NotificationHandle)
	assert.NotEqual(t, oldHandle, view.NotificationHandle)
	assert.Equal(t, []string{oldHandle}, scheduler.cancelledHandles())

	// Never two live handles: the persisted item carries only the new one.
	local := store.Load(ctx)
	require.Len(t, local.Items, 1)
	assert.Equal(t, view.NotificationHandle, local.Items[0].NotificationHandle)
}

func TestService_UpdateWithoutExpiryChangeCancelsOnly(t *testing.T) {
	service, _, _, scheduler := newServiceFixture(t)
	ctx := context.Background()

	added, err := service.Add(ctx, AddItemRequest{Name: "soup", DaysUntilExpiry: 3})
	require.NoError(t, err)
	oldHandle := added.NotificationHandle
	scheduledBefore := len(scheduler.scheduledIDs())

	notes := "freezer, back left"
	view, found := service.Update(ctx, added.ID, model.ItemUpdate{Notes: &notes})
	require.True(t, found)

	assert.Equal(t, "freezer, back left", view.Notes)
	assert.Empty(t, view.NotificationHandle)
	assert.Equal(t, []string{oldHandle}, scheduler.cancelledHandles())
	assert.Len(t, scheduler.scheduledIDs(), scheduledBefore)
}

func TestService_ItemsOrderedByUrgency(t *testing.T) {
	service, store, _, _ := newServiceFixture(t)
	ctx := context.Background()

	now := time.Now()
	items := []model.InventoryItem{
		{ID: "fresh", Name: "fresh", DateAdded: now, DaysUntilExpiry: 9},
		{ID: "expired", Name: "expired", DateAdded: now.Add(-5 * 24 * time.Hour), DaysUntilExpiry: 2},
		{ID: "warning", Name: "warning", DateAdded: now, DaysUntilExpiry: 1},
	}
	require.NoError(t, store.Save(ctx, items, now.UnixMilli()))

	views := service.Items(ctx)
	require.Len(t, views, 3)
	assert.Equal(t, "expired", views[0].ID)
	assert.Equal(t, model.StatusExpired, views[0].Status)
	assert.Equal(t, "warning", views[1].ID)
	assert.Equal(t, model.StatusWarning, views[1].Status)
	assert.Equal(t, "fresh", views[2].ID)
	assert.Equal(t, model.StatusFresh, views[2].Status)
}

func TestService_ItemsTriggersReconciliation(t *testing.T) {
	service, store, remote, _ := newServiceFixture(t)
	ctx := context.Background()

	itemA := testItem("a", "soup")
	require.NoError(t, remote.Write(ctx, &mirror.Document{Items: []model.InventoryItem{itemA}, LastModified: 500}))

	views := service.Items(ctx)
	require.Len(t, views, 1)
	assert.Equal(t, "a", views[0].ID)
	assert.Equal(t, int64(500), store.Load(ctx).LastModified)
}

func TestService_ManualSync(t *testing.T) {
	service, _, remote, _ := newServiceFixture(t)
	ctx := context.Background()

	assert.True(t, service.ManualSync(ctx))
	// Repeat calls are idempotent.
	assert.True(t, service.ManualSync(ctx))

	remote.ReadErr = errors.New("connection reset")
	assert.False(t, service.ManualSync(ctx))
}

func TestService_InstallationIDIsStable(t *testing.T) {
	service, _, _, _ := newServiceFixture(t)
	ctx := context.Background()

	first, err := service.InstallationID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := service.InstallationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
