package client

import (
	"context"
	"errors"
	"testing"

	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLoggedInStore registers ana (admin) and bia (user) and logs in as the given email
func newLoggedInStore(t *testing.T, server *testServer, email string) (*Store, *Session) {
	t.Helper()
	server.register(t, "Ana", "ana@salt.test", "admin")
	server.register(t, "Bia", "bia@salt.test", "user")

	session := openTestSession(t)
	store := NewStore(server.newClient(t), session)
	_, err := store.Login(context.Background(), email, "segredo")
	require.NoError(t, err)
	return store, session
}

func TestStore_LoginLoadsEverything(t *testing.T) {
	server := newTestServer(t)
	server.repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Vendas", Location: domain.LocationFinance})
	server.repos.Products.AddProduct(&domain.Product{ID: 1, Name: "Sal", Quantity: 1, MinStock: 2})
	server.repos.Projects.AddProject(&domain.Project{ID: 1, Name: "Loja", Status: domain.StatusTodo})
	server.repos.Tasks.AddTask(&domain.Task{ID: 1, ProjectID: testutil.Int32Ptr(1), Title: "Pintar", Status: domain.StatusTodo})

	store, session := newLoggedInStore(t, server, "bia@salt.test")

	state := store.Snapshot()
	require.NotNil(t, state.User)
	assert.Equal(t, "Bia", state.User.Name)
	assert.Len(t, state.Users, 2)
	assert.Len(t, state.Categories, 1)
	assert.Len(t, state.Products, 1)
	assert.Len(t, state.Projects, 1)
	assert.Len(t, state.Tasks, 1)
	assert.Empty(t, state.Financials)

	token, user, err := session.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Client().Token(), token)
	assert.Equal(t, state.User.ID, user.ID)
}

func TestStore_FailedWriteLeavesCacheUnchanged(t *testing.T) {
	server := newTestServer(t)
	store, _ := newLoggedInStore(t, server, "bia@salt.test")
	ctx := context.Background()

	refund := domain.FinancialType("refund")
	_, err := store.CreateFinancial(ctx, FinancialInput{
		Description: ptr("Devolução"),
		Amount:      ptr(testutil.Money("10")),
		Type:        &refund,
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Tipo inválido", apiErr.Message)
	assert.Empty(t, store.Snapshot().Financials)

	_, err = store.UpdateCategory(ctx, 404, CategoryInput{Name: ptr("X")})
	require.Error(t, err)
	assert.Empty(t, store.Snapshot().Categories)
}

func TestStore_SuccessfulWritesPatchCache(t *testing.T) {
	server := newTestServer(t)
	store, _ := newLoggedInStore(t, server, "bia@salt.test")
	ctx := context.Background()

	first, err := store.CreateCommunication(ctx, CommunicationInput{Title: ptr("Primeiro"), Content: ptr("a")})
	require.NoError(t, err)
	second, err := store.CreateCommunication(ctx, CommunicationInput{Title: ptr("Segundo"), Content: ptr("b")})
	require.NoError(t, err)

	state := store.Snapshot()
	require.Len(t, state.Communications, 2)
	assert.Equal(t, second.ID, state.Communications[0].ID, "newest first")

	_, err = store.UpdateCommunication(ctx, first.ID, CommunicationInput{Content: ptr("editado")})
	require.NoError(t, err)
	assert.Equal(t, "editado", store.Snapshot().Communications[1].Content)
	assert.Equal(t, "a", state.Communications[1].Content, "earlier snapshot is untouched")

	require.NoError(t, store.DeleteCommunication(ctx, second.ID))
	state = store.Snapshot()
	require.Len(t, state.Communications, 1)
	assert.Equal(t, first.ID, state.Communications[0].ID)

	// the cache now matches a fresh fetch
	require.NoError(t, store.Refresh(ctx))
	refreshed := store.Snapshot()
	require.Len(t, refreshed.Communications, 1)
	assert.Equal(t, "editado", refreshed.Communications[0].Content)
}

func TestStore_ForbiddenWriteLeavesCacheUnchanged(t *testing.T) {
	server := newTestServer(t)
	server.repos.Projects.AddProject(&domain.Project{ID: 1, Name: "Loja", Status: domain.StatusTodo})
	// authored by ana (id 1); bia is logged in
	server.repos.Tasks.AddTask(&domain.Task{ID: 1, ProjectID: testutil.Int32Ptr(1), AuthorID: testutil.Int32Ptr(1), Title: "Pintar", Status: domain.StatusTodo})

	store, _ := newLoggedInStore(t, server, "bia@salt.test")

	_, err := store.UpdateTask(context.Background(), 1, TaskInput{Title: ptr("Outro")})
	require.Error(t, err)
	assert.Equal(t, "Pintar", store.Snapshot().Tasks[0].Title)
	assert.False(t, CanEdit(store.CurrentUser(), store.Snapshot().Tasks[0]))
}

func TestStore_RefreshFailureKeepsPreviousState(t *testing.T) {
	server := newTestServer(t)
	server.repos.Products.AddProduct(&domain.Product{ID: 1, Name: "Sal"})
	store, _ := newLoggedInStore(t, server, "bia@salt.test")

	server.repos.Products.AddProduct(&domain.Product{ID: 2, Name: "Açúcar"})
	server.repos.Users.GetAllFn = func() ([]*domain.User, error) {
		return nil, errors.New("connection reset")
	}

	err := store.Refresh(context.Background())
	require.Error(t, err)

	state := store.Snapshot()
	assert.Len(t, state.Products, 1)
	assert.Len(t, state.Users, 2)
}

func TestStore_MoveTaskAndDeleteProject(t *testing.T) {
	server := newTestServer(t)
	store, _ := newLoggedInStore(t, server, "bia@salt.test")
	ctx := context.Background()

	loja, err := store.CreateProject(ctx, ProjectInput{Name: ptr("Loja")})
	require.NoError(t, err)
	site, err := store.CreateProject(ctx, ProjectInput{Name: ptr("Site")})
	require.NoError(t, err)

	task, err := store.CreateTask(ctx, TaskInput{Title: ptr("Deploy"), ProjectID: &loja.ID})
	require.NoError(t, err)

	moved, err := store.MoveTask(ctx, task.ID, site.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, site.ID, *moved.ProjectID)
	assert.Equal(t, domain.StatusInProgress, moved.Status)

	require.NoError(t, store.DeleteProject(ctx, site.ID))
	state := store.Snapshot()
	assert.Len(t, state.Projects, 1)
	assert.Empty(t, state.Tasks)
}

func TestStore_DeleteUserMirrorsCascades(t *testing.T) {
	server := newTestServer(t)
	store, _ := newLoggedInStore(t, server, "ana@salt.test")
	ctx := context.Background()

	// bia is user 2
	server.repos.Communications.AddCommunication(&domain.Communication{ID: 1, AuthorID: testutil.Int32Ptr(2), Title: "Oi"})
	server.repos.Financials.AddFinancial(&domain.Financial{ID: 1, AuthorID: testutil.Int32Ptr(2), Description: "Venda", Amount: testutil.Money("5"), Type: domain.FinancialTypeIncome})
	require.NoError(t, store.Refresh(ctx))

	require.NoError(t, store.DeleteUser(ctx, 2))

	state := store.Snapshot()
	assert.Len(t, state.Users, 1)
	assert.Empty(t, state.Communications)
	require.Len(t, state.Financials, 1)
	assert.Nil(t, state.Financials[0].AuthorID)
	assert.Equal(t, "(removido)", AuthorName(state.Users, state.Financials[0].AuthorID))
}

func TestStore_RestoreAndLogout(t *testing.T) {
	server := newTestServer(t)
	_, session := newLoggedInStore(t, server, "bia@salt.test")

	// a new process resumes from the persisted session
	restored := NewStore(server.newClient(t), session)
	user, err := restored.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bia", user.Name)
	assert.Len(t, restored.Snapshot().Users, 2)

	require.NoError(t, restored.Logout())
	assert.Nil(t, restored.CurrentUser())
	assert.Empty(t, restored.Client().Token())

	_, _, err = session.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = NewStore(server.newClient(t), session).Restore(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestStore_RestoreClearsRejectedToken(t *testing.T) {
	server := newTestServer(t)
	session := openTestSession(t)
	require.NoError(t, session.Save("expired-or-forged", &domain.User{ID: 1, Role: domain.RoleUser}))

	store := NewStore(server.newClient(t), session)
	_, err := store.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, _, err = session.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_RefreshRequiresLogin(t *testing.T) {
	server := newTestServer(t)
	store := NewStore(server.newClient(t), nil)
	assert.ErrorIs(t, store.Refresh(context.Background()), ErrNotLoggedIn)
}
