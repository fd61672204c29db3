package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// State is a snapshot of every cached collection. Slices are copies; the
// records they point to are shared and must not be modified.
type State struct {
	User           *domain.User
	Users          []*domain.User
	Categories     []*domain.Category
	Products       []*domain.Product
	Communications []*domain.Communication
	Financials     []*domain.Financial
	Projects       []*domain.Project
	Tasks          []*domain.Task
}

// Store is the shared client-side cache. Collections are fetched once on
// login or refresh; writes go to the server first and patch the cache only
// after the server accepts them.
type Store struct {
	client  *Client
	session SessionStore

	mu    sync.RWMutex
	state State
}

// NewStore creates a Store. session may be nil, in which case nothing is persisted.
func NewStore(client *Client, session SessionStore) *Store {
	return &Store{client: client, session: session}
}

// Client returns the underlying API client
func (s *Store) Client() *Client {
	return s.client
}

// Snapshot returns a copy of the cached state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:           s.state.User,
		Users:          clone(s.state.Users),
		Categories:     clone(s.state.Categories),
		Products:       clone(s.state.Products),
		Communications: clone(s.state.Communications),
		Financials:     clone(s.state.Financials),
		Projects:       clone(s.state.Projects),
		Tasks:          clone(s.state.Tasks),
	}
}

// CurrentUser returns the logged-in user, or nil
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// Login authenticates, persists the session and loads every collection
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, result)
}

// Register creates an account and logs in with it
func (s *Store) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	result, err := s.client.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, result)
}

func (s *Store) start(ctx context.Context, result *AuthResult) (*domain.User, error) {
	s.client.SetToken(result.Token)
	if s.session != nil {
		if err := s.session.Save(result.Token, result.User); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	s.mu.Lock()
	s.state.User = result.User
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return result.User, err
	}
	return result.User, nil
}

// Restore resumes a persisted session after checking it with the server.
// A token the server rejects is cleared and ErrNotLoggedIn returned.
func (s *Store) Restore(ctx context.Context) (*domain.User, error) {
	if s.session == nil {
		return nil, ErrNotLoggedIn
	}

	token, _, err := s.session.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			log.Debug().Err(err).Msg("Saved session rejected by server")
			if clearErr := s.Logout(); clearErr != nil {
				return nil, clearErr
			}
			return nil, ErrNotLoggedIn
		}
		s.client.SetToken("")
		return nil, err
	}

	// the server's copy wins over the persisted one
	if err := s.session.Save(token, user); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.state.User = user
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return user, err
	}
	return user, nil
}

// Refresh fetches every collection in parallel. On any failure the cache keeps its previous contents.
func (s *Store) Refresh(ctx context.Context) error {
	if s.client.Token() == "" {
		return ErrNotLoggedIn
	}

	var next State
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { next.Users, err = s.client.Users(gctx); return })
	g.Go(func() (err error) { next.Categories, err = s.client.Categories(gctx); return })
	g.Go(func() (err error) { next.Products, err = s.client.Products(gctx); return })
	g.Go(func() (err error) { next.Communications, err = s.client.Communications(gctx); return })
	g.Go(func() (err error) { next.Financials, err = s.client.Financials(gctx); return })
	g.Go(func() (err error) { next.Projects, err = s.client.Projects(gctx); return })
	g.Go(func() (err error) { next.Tasks, err = s.client.Tasks(gctx); return })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	s.mu.Lock()
	next.User = s.state.User
	s.state = next
	s.mu.Unlock()

	log.Debug().
		Int("categories", len(next.Categories)).
		Int("products", len(next.Products)).
		Int("tasks", len(next.Tasks)).
		Msg("Store refreshed")
	return nil
}

// Logout clears the cache, the token and the persisted session
func (s *Store) Logout() error {
	s.client.SetToken("")

	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	if s.session != nil {
		return s.session.Clear()
	}
	return nil
}

// DeleteUser removes a user and mirrors the server's cascades in the cache
func (s *Store) DeleteUser(ctx context.Context, id int32) error {
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Users = remove(s.state.Users, id, userID)
	s.state.Communications = removeWhere(s.state.Communications, func(c *domain.Communication) bool {
		return c.AuthorID != nil && *c.AuthorID == id
	})
	for i, f := range s.state.Financials {
		if f.AuthorID != nil && *f.AuthorID == id {
			orphan := *f
			orphan.AuthorID = nil
			s.state.Financials[i] = &orphan
		}
	}
	for i, t := range s.state.Tasks {
		if t.AuthorID != nil && *t.AuthorID == id {
			orphan := *t
			orphan.AuthorID = nil
			s.state.Tasks[i] = &orphan
		}
	}
	return nil
}

// CreateCategory creates a category and appends it to the cache
func (s *Store) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	category, err := s.client.CreateCategory(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Categories = append(s.state.Categories, category)
	s.mu.Unlock()
	return category, nil
}

// UpdateCategory updates a category and replaces the cached copy
func (s *Store) UpdateCategory(ctx context.Context, id int32, input CategoryInput) (*domain.Category, error) {
	category, err := s.client.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Categories = replace(s.state.Categories, category, categoryID)
	s.mu.Unlock()
	return category, nil
}

// DeleteCategory deletes a category and drops it from the cache
func (s *Store) DeleteCategory(ctx context.Context, id int32) error {
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Categories = remove(s.state.Categories, id, categoryID)
	s.mu.Unlock()
	return nil
}

// CreateProduct creates a product and appends it to the cache
func (s *Store) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := s.client.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Products = append(s.state.Products, product)
	s.mu.Unlock()
	return product, nil
}

// UpdateProduct updates a product and replaces the cached copy
func (s *Store) UpdateProduct(ctx context.Context, id int32, input ProductInput) (*domain.Product, error) {
	product, err := s.client.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Products = replace(s.state.Products, product, productID)
	s.mu.Unlock()
	return product, nil
}

// DeleteProduct deletes a product and drops it from the cache
func (s *Store) DeleteProduct(ctx context.Context, id int32) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Products = remove(s.state.Products, id, productID)
	s.mu.Unlock()
	return nil
}

// CreateCommunication posts a communication and puts it at the top of the cache
func (s *Store) CreateCommunication(ctx context.Context, input CommunicationInput) (*domain.Communication, error) {
	communication, err := s.client.CreateCommunication(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Communications = prepend(s.state.Communications, communication)
	s.mu.Unlock()
	return communication, nil
}

// UpdateCommunication updates a communication and replaces the cached copy
func (s *Store) UpdateCommunication(ctx context.Context, id int32, input CommunicationInput) (*domain.Communication, error) {
	communication, err := s.client.UpdateCommunication(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Communications = replace(s.state.Communications, communication, communicationID)
	s.mu.Unlock()
	return communication, nil
}

// DeleteCommunication deletes a communication and drops it from the cache
func (s *Store) DeleteCommunication(ctx context.Context, id int32) error {
	if err := s.client.DeleteCommunication(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Communications = remove(s.state.Communications, id, communicationID)
	s.mu.Unlock()
	return nil
}

// CreateFinancial records an income or expense and puts it at the top of the cache
func (s *Store) CreateFinancial(ctx context.Context, input FinancialInput) (*domain.Financial, error) {
	financial, err := s.client.CreateFinancial(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Financials = prepend(s.state.Financials, financial)
	s.mu.Unlock()
	return financial, nil
}

// UpdateFinancial updates a financial record and replaces the cached copy
func (s *Store) UpdateFinancial(ctx context.Context, id int32, input FinancialInput) (*domain.Financial, error) {
	financial, err := s.client.UpdateFinancial(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Financials = replace(s.state.Financials, financial, financialID)
	s.mu.Unlock()
	return financial, nil
}

// DeleteFinancial deletes a financial record and drops it from the cache
func (s *Store) DeleteFinancial(ctx context.Context, id int32) error {
	if err := s.client.DeleteFinancial(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Financials = remove(s.state.Financials, id, financialID)
	s.mu.Unlock()
	return nil
}

// CreateProject creates a project and puts it at the top of the cache
func (s *Store) CreateProject(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	project, err := s.client.CreateProject(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Projects = prepend(s.state.Projects, project)
	s.mu.Unlock()
	return project, nil
}

// UpdateProject updates a project and replaces the cached copy
func (s *Store) UpdateProject(ctx context.Context, id int32, input ProjectInput) (*domain.Project, error) {
	project, err := s.client.UpdateProject(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Projects = replace(s.state.Projects, project, projectID)
	s.mu.Unlock()
	return project, nil
}

// DeleteProject deletes a project and drops it and its tasks from the cache
func (s *Store) DeleteProject(ctx context.Context, id int32) error {
	if err := s.client.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Projects = remove(s.state.Projects, id, projectID)
	s.state.Tasks = removeWhere(s.state.Tasks, func(t *domain.Task) bool {
		return t.ProjectID != nil && *t.ProjectID == id
	})
	s.mu.Unlock()
	return nil
}

// CreateTask creates a task and puts it at the top of the cache
func (s *Store) CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	task, err := s.client.CreateTask(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Tasks = prepend(s.state.Tasks, task)
	s.mu.Unlock()
	return task, nil
}

// UpdateTask updates or moves a task and replaces the cached copy
func (s *Store) UpdateTask(ctx context.Context, id int32, input TaskInput) (*domain.Task, error) {
	task, err := s.client.UpdateTask(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.state.Tasks = replace(s.state.Tasks, task, taskID)
	s.mu.Unlock()
	return task, nil
}

// MoveTask moves a task to another project and status column in one request
func (s *Store) MoveTask(ctx context.Context, id, projectID int32, status domain.Status) (*domain.Task, error) {
	return s.UpdateTask(ctx, id, TaskInput{ProjectID: &projectID, Status: &status})
}

// DeleteTask deletes a task and drops it from the cache
func (s *Store) DeleteTask(ctx context.Context, id int32) error {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Tasks = remove(s.state.Tasks, id, taskID)
	s.mu.Unlock()
	return nil
}

func userID(u *domain.User) int32                   { return u.ID }
func categoryID(c *domain.Category) int32           { return c.ID }
func productID(p *domain.Product) int32             { return p.ID }
func communicationID(c *domain.Communication) int32 { return c.ID }
func financialID(f *domain.Financial) int32         { return f.ID }
func projectID(p *domain.Project) int32             { return p.ID }
func taskID(t *domain.Task) int32                   { return t.ID }

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	return append(make([]T, 0, len(items)), items...)
}

func prepend[T any](items []T, item T) []T {
	return append([]T{item}, items...)
}

func replace[T any](items []T, item T, id func(T) int32) []T {
	for i, existing := range items {
		if id(existing) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T any](items []T, target int32, id func(T) int32) []T {
	return removeWhere(items, func(item T) bool { return id(item) == target })
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
