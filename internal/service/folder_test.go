package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appdeck/internal/domain"
	"appdeck/internal/domain/models"
	"appdeck/internal/domain/repositories"
	"appdeck/internal/domain/services"
)

// memStore backs the repository fakes. Associations are a slice of pairs,
// not a map, so a broken delete-then-insert would actually show up as two
// rows in the assertions.
type memStore struct {
	folders map[string]models.Folder
	assocs  []assoc
	apps    map[string]models.App
}

type assoc struct {
	appID    string
	folderID string
}

func newMemStore() *memStore {
	return &memStore{
		folders: make(map[string]models.Folder),
		apps:    make(map[string]models.App),
	}
}

func (s *memStore) appCount(folderID string) int {
	n := 0
	for _, a := range s.assocs {
		if a.folderID == folderID {
			n++
		}
	}
	return n
}

type fakeFolderRepo struct{ store *memStore }

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.store.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, userID string) (*models.FolderWithCount, error) {
	folder, ok := r.store.folders[id]
	if !ok || folder.UserID != userID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &models.FolderWithCount{Folder: folder, AppCount: r.store.appCount(id)}, nil
}

func (r *fakeFolderRepo) ListByUser(_ context.Context, userID string) ([]models.FolderWithCount, error) {
	var folders []models.FolderWithCount
	for id, folder := range r.store.folders {
		if folder.UserID == userID {
			folders = append(folders, models.FolderWithCount{Folder: folder, AppCount: r.store.appCount(id)})
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].DisplayOrder != folders[j].DisplayOrder {
			return folders[i].DisplayOrder > folders[j].DisplayOrder
		}
		return folders[i].Name < folders[j].Name
	})
	return folders, nil
}

func (r *fakeFolderRepo) MaxDisplayOrder(_ context.Context, userID string) (int, error) {
	maxOrder := -1
	for _, folder := range r.store.folders {
		if folder.UserID == userID && folder.DisplayOrder > maxOrder {
			maxOrder = folder.DisplayOrder
		}
	}
	return maxOrder, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	existing, ok := r.store.folders[folder.ID]
	if !ok || existing.UserID != folder.UserID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.store.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, userID string) error {
	existing, ok := r.store.folders[id]
	if !ok || existing.UserID != userID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.folders, id)
	return nil
}

type fakeAppFolderRepo struct{ store *memStore }

func (r *fakeAppFolderRepo) Insert(_ context.Context, appID, folderID string) error {
	for _, a := range r.store.assocs {
		if a.appID == appID && a.folderID == folderID {
			return fmt.Errorf("app %s already in folder %s: %w", appID, folderID, domain.ErrConflict)
		}
	}
	r.store.assocs = append(r.store.assocs, assoc{appID: appID, folderID: folderID})
	return nil
}

func (r *fakeAppFolderRepo) DeleteByApp(_ context.Context, appID string) error {
	kept := r.store.assocs[:0]
	for _, a := range r.store.assocs {
		if a.appID != appID {
			kept = append(kept, a)
		}
	}
	r.store.assocs = kept
	return nil
}

func (r *fakeAppFolderRepo) DeleteByFolder(_ context.Context, folderID string) error {
	kept := r.store.assocs[:0]
	for _, a := range r.store.assocs {
		if a.folderID != folderID {
			kept = append(kept, a)
		}
	}
	r.store.assocs = kept
	return nil
}

func (r *fakeAppFolderRepo) FolderIDForApp(_ context.Context, appID string) (*string, error) {
	for _, a := range r.store.assocs {
		if a.appID == appID {
			folderID := a.folderID
			return &folderID, nil
		}
	}
	return nil, nil
}

func (r *fakeAppFolderRepo) ListAppsInFolder(_ context.Context, folderID, userID string) ([]models.App, error) {
	var apps []models.App
	for _, a := range r.store.assocs {
		if a.folderID != folderID {
			continue
		}
		app, ok := r.store.apps[a.appID]
		if ok && app.UserID == userID {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].UpdatedAt.After(apps[j].UpdatedAt)
	})
	return apps, nil
}

type fakeAppRepo struct{ store *memStore }

func (r *fakeAppRepo) GetByID(_ context.Context, id, userID string) (*models.App, error) {
	app, ok := r.store.apps[id]
	if !ok || app.UserID != userID {
		return nil, fmt.Errorf("app %s: %w", id, domain.ErrNotFound)
	}
	return &app, nil
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func newTestService(store *memStore) services.FolderService {
	return NewFolderService(
		&fakeFolderRepo{store: store},
		&fakeAppFolderRepo{store: store},
		&fakeAppRepo{store: store},
		fakeTxManager{},
		slog.New(slog.DiscardHandler),
	)
}

func addApp(store *memStore, userID, name string, updatedAt time.Time) string {
	id := "app-" + name
	store.apps[id] = models.App{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	return id
}

func TestCreateFolderAssignsSequentialOrder(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	for i, name := range []string{"Alpha", "Beta", "Gamma"} {
		folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: name})
		require.NoError(t, err)
		assert.Equal(t, i, folder.DisplayOrder)
		assert.Equal(t, 0, folder.AppCount)
		assert.NotEmpty(t, folder.ID)
	}
}

func TestCreateFolderNameLength(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID: "u1",
		Name:   strings.Repeat("x", 51),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID: "u1",
		Name:   strings.Repeat("x", 50),
	})
	require.NoError(t, err)
	assert.Len(t, folder.Name, 50)
}

func TestCreateFolderRequiresName(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.CreateFolder(context.Background(), &services.CreateFolderRequest{UserID: "u1"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestListFoldersOrdering(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	// First folder gets order 0, second order 1; listing is order desc
	_, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Work"})
	require.NoError(t, err)
	_, err = svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Personal"})
	require.NoError(t, err)

	folders, err := svc.ListFolders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Personal", folders[0].Name)
	assert.Equal(t, 1, folders[0].DisplayOrder)
	assert.Equal(t, "Work", folders[1].Name)
	assert.Equal(t, 0, folders[1].DisplayOrder)
}

func TestListFoldersTieBrokenByName(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	b, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Bravo"})
	require.NoError(t, err)
	a, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Alpha"})
	require.NoError(t, err)

	// Force a tie on display order
	zero := 0
	_, err = svc.UpdateFolder(ctx, a.ID, &services.UpdateFolderRequest{UserID: "u1", DisplayOrder: &zero})
	require.NoError(t, err)

	folders, err := svc.ListFolders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Alpha", folders[0].Name)
	assert.Equal(t, "Bravo", folders[1].Name)
	_ = b
}

func TestUpdateFolderPartialFields(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	desc := "projects for work"
	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID:      "u1",
		Name:        "Work",
		Description: &desc,
	})
	require.NoError(t, err)

	before := folder.UpdatedAt

	color := "#ff0000"
	updated, err := svc.UpdateFolder(ctx, folder.ID, &services.UpdateFolderRequest{
		UserID: "u1",
		Color:  &color,
	})
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
	require.NotNil(t, updated.Color)
	assert.Equal(t, color, *updated.Color)
	assert.False(t, updated.UpdatedAt.Before(before))
}

func TestUpdateFolderRejectsEmptyName(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Work"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateFolder(ctx, folder.ID, &services.UpdateFolderRequest{UserID: "u1", Name: &empty})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestFolderOwnershipScoping(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Private"})
	require.NoError(t, err)

	// Another user sees not-found, never a different error
	_, err = svc.GetFolder(ctx, folder.ID, "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)

	name := "Stolen"
	_, err = svc.UpdateFolder(ctx, folder.ID, &services.UpdateFolderRequest{UserID: "u2", Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.DeleteFolder(ctx, folder.ID, "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Untouched for the owner
	got, err := svc.GetFolder(ctx, folder.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Name)
}

func TestDeleteFolderCascadesAssociations(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Work"})
	require.NoError(t, err)

	appID := addApp(store, "u1", "tracker", time.Now())
	require.NoError(t, svc.MoveApp(ctx, appID, &folder.ID, "u1"))

	require.NoError(t, svc.DeleteFolder(ctx, folder.ID, "u1"))

	folderID, err := svc.GetAppFolder(ctx, appID)
	require.NoError(t, err)
	assert.Nil(t, folderID)
	assert.Empty(t, store.assocs)
}

func TestMoveAppBetweenFolders(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	f, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "F"})
	require.NoError(t, err)
	g, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "G"})
	require.NoError(t, err)

	appID := addApp(store, "u1", "tracker", time.Now())

	require.NoError(t, svc.MoveApp(ctx, appID, &f.ID, "u1"))
	require.NoError(t, svc.MoveApp(ctx, appID, &g.ID, "u1"))

	// Exactly one association, pointing at G
	require.Len(t, store.assocs, 1)
	assert.Equal(t, g.ID, store.assocs[0].folderID)

	folderID, err := svc.GetAppFolder(ctx, appID)
	require.NoError(t, err)
	require.NotNil(t, folderID)
	assert.Equal(t, g.ID, *folderID)
}

func TestMoveAppToNilUnfilesIdempotently(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "F"})
	require.NoError(t, err)

	appID := addApp(store, "u1", "tracker", time.Now())
	require.NoError(t, svc.MoveApp(ctx, appID, &folder.ID, "u1"))

	require.NoError(t, svc.MoveApp(ctx, appID, nil, "u1"))
	assert.Empty(t, store.assocs)

	// Unfiling an unfiled app still succeeds
	require.NoError(t, svc.MoveApp(ctx, appID, nil, "u1"))
	assert.Empty(t, store.assocs)
}

func TestMoveAppOwnershipChecks(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	mine, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Mine"})
	require.NoError(t, err)
	theirs, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u2", Name: "Theirs"})
	require.NoError(t, err)

	myApp := addApp(store, "u1", "tracker", time.Now())
	theirApp := addApp(store, "u2", "spy", time.Now())

	// Moving someone else's app fails and creates nothing
	err = svc.MoveApp(ctx, theirApp, &mine.ID, "u1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.assocs)

	// Moving my app into someone else's folder fails too
	err = svc.MoveApp(ctx, myApp, &theirs.ID, "u1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.assocs)

	require.NoError(t, svc.MoveApp(ctx, myApp, &mine.ID, "u1"))
	require.Len(t, store.assocs, 1)
}

func TestListAppsInFolder(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Work"})
	require.NoError(t, err)

	now := time.Now()
	older := addApp(store, "u1", "older", now.Add(-time.Hour))
	newer := addApp(store, "u1", "newer", now)

	require.NoError(t, svc.MoveApp(ctx, older, &folder.ID, "u1"))
	require.NoError(t, svc.MoveApp(ctx, newer, &folder.ID, "u1"))

	apps, err := svc.ListAppsInFolder(ctx, folder.ID, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "newer", apps[0].Name)
	assert.Equal(t, "older", apps[1].Name)

	// Another user cannot list it at all
	_, err = svc.ListAppsInFolder(ctx, folder.ID, "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAppFolderIsNotOwnershipScoped(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "Work"})
	require.NoError(t, err)

	appID := addApp(store, "u1", "tracker", time.Now())
	require.NoError(t, svc.MoveApp(ctx, appID, &folder.ID, "u1"))

	// No user id parameter at all; any caller can resolve the association
	folderID, err := svc.GetAppFolder(ctx, appID)
	require.NoError(t, err)
	require.NotNil(t, folderID)
	assert.Equal(t, folder.ID, *folderID)
}

func TestDeleteFolderReordersNothing(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	a, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "A"})
	require.NoError(t, err)
	_, err = svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFolder(ctx, a.ID, "u1"))

	// Orders keep their gaps; the next folder continues from the max
	c, err := svc.CreateFolder(ctx, &services.CreateFolderRequest{UserID: "u1", Name: "C"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.DisplayOrder)
}
