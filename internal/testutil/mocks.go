package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

// clock hands out strictly increasing creation timestamps so newest-first
// ordering is deterministic in tests.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

var mockClock = &clock{last: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = c.last.Add(time.Second)
	return c.last
}

func copyPtr(p *int32) *int32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MockUserRepository is a mock implementation of domain.UserRepository.
// When linked through NewMockStore, Delete applies the schema cascades.
type MockUserRepository struct {
	mu       sync.Mutex
	Users    map[int32]*domain.User
	NextID   int32
	CreateFn func(user *domain.User) (*domain.User, error)
	GetAllFn func() ([]*domain.User, error)

	communications *MockCommunicationRepository
	financials     *MockFinancialRepository
	tasks          *MockTaskRepository
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int32]*domain.User),
		NextID: 1,
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored := *user
	stored.ID = m.NextID
	stored.CreatedAt = mockClock.next()
	m.NextID++
	m.Users[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetAll retrieves all users ordered by id
func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		out := *user
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a user, deleting their communications and orphaning their financials and tasks
func (m *MockUserRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	if _, ok := m.Users[id]; !ok {
		m.mu.Unlock()
		return domain.ErrUserNotFound
	}
	delete(m.Users, id)
	m.mu.Unlock()

	if m.communications != nil {
		m.communications.deleteByAuthor(id)
	}
	if m.financials != nil {
		m.financials.orphan(id)
	}
	if m.tasks != nil {
		m.tasks.orphan(id)
	}
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = mockClock.next()
	}
	m.Users[user.ID] = user
	if user.ID >= m.NextID {
		m.NextID = user.ID + 1
	}
}

func (m *MockUserRepository) exists(id int32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Users[id]
	return ok
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[int32]*domain.Category
	NextID     int32
	GetAllFn   func() ([]*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(category.Name, 0) {
		return nil, domain.ErrCategoryAlreadyExists
	}
	stored := *category
	stored.ID = m.NextID
	m.NextID++
	m.Categories[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category, ok := m.Categories[id]; ok {
		out := *category
		return &out, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAll retrieves all categories ordered by id
func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		out := *category
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[category.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return nil, domain.ErrCategoryAlreadyExists
	}
	stored := *category
	m.Categories[stored.ID] = &stored
	out := stored
	return &out, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

func (m *MockCategoryRepository) nameTaken(name string, exceptID int32) bool {
	for _, c := range m.Categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mu       sync.Mutex
	Products map[int32]*domain.Product
	NextID   int32
	CreateFn func(product *domain.Product) (*domain.Product, error)
}

// NewMockProductRepository creates a new MockProductRepository
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		Products: make(map[int32]*domain.Product),
		NextID:   1,
	}
}

// Create creates a new product
func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if m.CreateFn != nil {
		return m.CreateFn(product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *product
	stored.ID = m.NextID
	m.NextID++
	m.Products[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID retrieves a product by ID
func (m *MockProductRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.Products[id]; ok {
		out := *product
		return &out, nil
	}
	return nil, domain.ErrProductNotFound
}

// GetAll retrieves all products ordered by id
func (m *MockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Product, 0, len(m.Products))
	for _, product := range m.Products {
		out := *product
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates an existing product
func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[product.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	stored := *product
	m.Products[stored.ID] = &stored
	out := stored
	return &out, nil
}

// Delete removes a product
func (m *MockProductRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.Products, id)
	return nil
}

// AddProduct adds a product to the mock repository (helper for tests)
func (m *MockProductRepository) AddProduct(product *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Products[product.ID] = product
	if product.ID >= m.NextID {
		m.NextID = product.ID + 1
	}
}

// MockCommunicationRepository is a mock implementation of domain.CommunicationRepository
type MockCommunicationRepository struct {
	mu             sync.Mutex
	Communications map[int32]*domain.Communication
	NextID         int32
	UpdateFn       func(communication *domain.Communication) (*domain.Communication, error)

	users *MockUserRepository
}

// NewMockCommunicationRepository creates a new MockCommunicationRepository
func NewMockCommunicationRepository() *MockCommunicationRepository {
	return &MockCommunicationRepository{
		Communications: make(map[int32]*domain.Communication),
		NextID:         1,
	}
}

// Create creates a new communication
func (m *MockCommunicationRepository) Create(ctx context.Context, communication *domain.Communication) (*domain.Communication, error) {
	if m.users != nil && communication.AuthorID != nil && !m.users.exists(*communication.AuthorID) {
		return nil, domain.ErrUserNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *communication
	stored.ID = m.NextID
	stored.AuthorID = copyPtr(communication.AuthorID)
	stored.CreatedAt = mockClock.next()
	m.NextID++
	m.Communications[stored.ID] = &stored
	return m.clone(&stored), nil
}

// GetByID retrieves a communication by ID
func (m *MockCommunicationRepository) GetByID(ctx context.Context, id int32) (*domain.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if communication, ok := m.Communications[id]; ok {
		return m.clone(communication), nil
	}
	return nil, domain.ErrCommunicationNotFound
}

// GetAll retrieves all communications, newest first
func (m *MockCommunicationRepository) GetAll(ctx context.Context) ([]*domain.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Communication, 0, len(m.Communications))
	for _, communication := range m.Communications {
		result = append(result, m.clone(communication))
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

// Update updates an existing communication
func (m *MockCommunicationRepository) Update(ctx context.Context, communication *domain.Communication) (*domain.Communication, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(communication)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Communications[communication.ID]
	if !ok {
		return nil, domain.ErrCommunicationNotFound
	}
	existing.Title = communication.Title
	existing.Content = communication.Content
	return m.clone(existing), nil
}

// Delete removes a communication
func (m *MockCommunicationRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Communications[id]; !ok {
		return domain.ErrCommunicationNotFound
	}
	delete(m.Communications, id)
	return nil
}

// AddCommunication adds a communication to the mock repository (helper for tests)
func (m *MockCommunicationRepository) AddCommunication(communication *domain.Communication) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if communication.CreatedAt.IsZero() {
		communication.CreatedAt = mockClock.next()
	}
	m.Communications[communication.ID] = communication
	if communication.ID >= m.NextID {
		m.NextID = communication.ID + 1
	}
}

func (m *MockCommunicationRepository) clone(c *domain.Communication) *domain.Communication {
	out := *c
	out.AuthorID = copyPtr(c.AuthorID)
	return &out
}

func (m *MockCommunicationRepository) deleteByAuthor(authorID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.Communications {
		if c.AuthorID != nil && *c.AuthorID == authorID {
			delete(m.Communications, id)
		}
	}
}

// MockFinancialRepository is a mock implementation of domain.FinancialRepository
type MockFinancialRepository struct {
	mu         sync.Mutex
	Financials map[int32]*domain.Financial
	NextID     int32
	CreateFn   func(financial *domain.Financial) (*domain.Financial, error)
	GetAllFn   func() ([]*domain.Financial, error)

	users *MockUserRepository
}

// NewMockFinancialRepository creates a new MockFinancialRepository
func NewMockFinancialRepository() *MockFinancialRepository {
	return &MockFinancialRepository{
		Financials: make(map[int32]*domain.Financial),
		NextID:     1,
	}
}

// Create creates a new financial record
func (m *MockFinancialRepository) Create(ctx context.Context, financial *domain.Financial) (*domain.Financial, error) {
	if m.CreateFn != nil {
		return m.CreateFn(financial)
	}
	if m.users != nil && financial.AuthorID != nil && !m.users.exists(*financial.AuthorID) {
		return nil, domain.ErrUserNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *financial
	stored.ID = m.NextID
	stored.AuthorID = copyPtr(financial.AuthorID)
	stored.Amount = financial.Amount.Round(2)
	stored.CreatedAt = mockClock.next()
	m.NextID++
	m.Financials[stored.ID] = &stored
	return m.clone(&stored), nil
}

// GetByID retrieves a financial record by ID
func (m *MockFinancialRepository) GetByID(ctx context.Context, id int32) (*domain.Financial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if financial, ok := m.Financials[id]; ok {
		return m.clone(financial), nil
	}
	return nil, domain.ErrFinancialNotFound
}

// GetAll retrieves all financial records, newest first
func (m *MockFinancialRepository) GetAll(ctx context.Context) ([]*domain.Financial, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

// Update updates an existing financial record
func (m *MockFinancialRepository) Update(ctx context.Context, financial *domain.Financial) (*domain.Financial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Financials[financial.ID]
	if !ok {
		return nil, domain.ErrFinancialNotFound
	}
	existing.Description = financial.Description
	existing.Amount = financial.Amount.Round(2)
	existing.Type = financial.Type
	return m.clone(existing), nil
}

// Delete removes a financial record
func (m *MockFinancialRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Financials[id]; !ok {
		return domain.ErrFinancialNotFound
	}
	delete(m.Financials, id)
	return nil
}

// Summary aggregates every financial record
func (m *MockFinancialRepository) Summary(ctx context.Context) (*domain.FinancialSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := domain.Summarize(m.sorted())
	return &summary, nil
}

// AddFinancial adds a financial record to the mock repository (helper for tests)
func (m *MockFinancialRepository) AddFinancial(financial *domain.Financial) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if financial.CreatedAt.IsZero() {
		financial.CreatedAt = mockClock.next()
	}
	m.Financials[financial.ID] = financial
	if financial.ID >= m.NextID {
		m.NextID = financial.ID + 1
	}
}

func (m *MockFinancialRepository) sorted() []*domain.Financial {
	result := make([]*domain.Financial, 0, len(m.Financials))
	for _, financial := range m.Financials {
		result = append(result, m.clone(financial))
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result
}

func (m *MockFinancialRepository) clone(f *domain.Financial) *domain.Financial {
	out := *f
	out.AuthorID = copyPtr(f.AuthorID)
	return &out
}

func (m *MockFinancialRepository) orphan(authorID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.Financials {
		if f.AuthorID != nil && *f.AuthorID == authorID {
			f.AuthorID = nil
		}
	}
}

// MockProjectRepository is a mock implementation of domain.ProjectRepository.
// When linked through NewMockStore, Delete cascades to the project's tasks.
type MockProjectRepository struct {
	mu       sync.Mutex
	Projects map[int32]*domain.Project
	NextID   int32

	tasks *MockTaskRepository
}

// NewMockProjectRepository creates a new MockProjectRepository
func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		Projects: make(map[int32]*domain.Project),
		NextID:   1,
	}
}

// Create creates a new project
func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *project
	stored.ID = m.NextID
	stored.CreatedAt = mockClock.next()
	m.NextID++
	m.Projects[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID retrieves a project by ID
func (m *MockProjectRepository) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if project, ok := m.Projects[id]; ok {
		out := *project
		return &out, nil
	}
	return nil, domain.ErrProjectNotFound
}

// GetAll retrieves all projects, newest first
func (m *MockProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Project, 0, len(m.Projects))
	for _, project := range m.Projects {
		out := *project
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

// Update updates an existing project
func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Projects[project.ID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	existing.Name = project.Name
	existing.Status = project.Status
	out := *existing
	return &out, nil
}

// Delete removes a project and its tasks
func (m *MockProjectRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	if _, ok := m.Projects[id]; !ok {
		m.mu.Unlock()
		return domain.ErrProjectNotFound
	}
	delete(m.Projects, id)
	m.mu.Unlock()

	if m.tasks != nil {
		m.tasks.deleteByProject(id)
	}
	return nil
}

// AddProject adds a project to the mock repository (helper for tests)
func (m *MockProjectRepository) AddProject(project *domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = mockClock.next()
	}
	m.Projects[project.ID] = project
	if project.ID >= m.NextID {
		m.NextID = project.ID + 1
	}
}

func (m *MockProjectRepository) exists(id int32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Projects[id]
	return ok
}

// MockTaskRepository is a mock implementation of domain.TaskRepository
type MockTaskRepository struct {
	mu     sync.Mutex
	Tasks  map[int32]*domain.Task
	NextID int32
	MoveFn func(task *domain.Task) (*domain.Task, error)

	projects *MockProjectRepository
}

// NewMockTaskRepository creates a new MockTaskRepository
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:  make(map[int32]*domain.Task),
		NextID: 1,
	}
}

// Create creates a new task
func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.projects != nil && task.ProjectID != nil && !m.projects.exists(*task.ProjectID) {
		return nil, domain.ErrProjectNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *task
	stored.ID = m.NextID
	stored.ProjectID = copyPtr(task.ProjectID)
	stored.AuthorID = copyPtr(task.AuthorID)
	stored.CreatedAt = mockClock.next()
	m.NextID++
	m.Tasks[stored.ID] = &stored
	return m.clone(&stored), nil
}

// GetByID retrieves a task by ID
func (m *MockTaskRepository) GetByID(ctx context.Context, id int32) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.Tasks[id]; ok {
		return m.clone(task), nil
	}
	return nil, domain.ErrTaskNotFound
}

// GetAll retrieves all tasks, newest first
func (m *MockTaskRepository) GetAll(ctx context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Task, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		result = append(result, m.clone(task))
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

// Update updates title and status of an existing task
func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tasks[task.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Status = task.Status
	return m.clone(existing), nil
}

// Move reassigns a task to another project and writes its title and status
func (m *MockTaskRepository) Move(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.MoveFn != nil {
		return m.MoveFn(task)
	}
	if task.ProjectID == nil {
		return nil, domain.ErrProjectIDRequired
	}
	if m.projects != nil && !m.projects.exists(*task.ProjectID) {
		return nil, domain.ErrProjectNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tasks[task.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	existing.ProjectID = copyPtr(task.ProjectID)
	existing.Title = task.Title
	existing.Status = task.Status
	return m.clone(existing), nil
}

// Delete removes a task
func (m *MockTaskRepository) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// AddTask adds a task to the mock repository (helper for tests)
func (m *MockTaskRepository) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = mockClock.next()
	}
	m.Tasks[task.ID] = task
	if task.ID >= m.NextID {
		m.NextID = task.ID + 1
	}
}

func (m *MockTaskRepository) clone(t *domain.Task) *domain.Task {
	out := *t
	out.ProjectID = copyPtr(t.ProjectID)
	out.AuthorID = copyPtr(t.AuthorID)
	return &out
}

func (m *MockTaskRepository) deleteByProject(projectID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.Tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			delete(m.Tasks, id)
		}
	}
}

func (m *MockTaskRepository) orphan(authorID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tasks {
		if t.AuthorID != nil && *t.AuthorID == authorID {
			t.AuthorID = nil
		}
	}
}

// MockStore bundles mock repositories linked the way the schema links its tables:
// foreign keys are checked on insert and deletes cascade or orphan dependent rows.
type MockStore struct {
	Users          *MockUserRepository
	Categories     *MockCategoryRepository
	Products       *MockProductRepository
	Communications *MockCommunicationRepository
	Financials     *MockFinancialRepository
	Projects       *MockProjectRepository
	Tasks          *MockTaskRepository
}

// NewMockStore creates a linked set of mock repositories
func NewMockStore() *MockStore {
	s := &MockStore{
		Users:          NewMockUserRepository(),
		Categories:     NewMockCategoryRepository(),
		Products:       NewMockProductRepository(),
		Communications: NewMockCommunicationRepository(),
		Financials:     NewMockFinancialRepository(),
		Projects:       NewMockProjectRepository(),
		Tasks:          NewMockTaskRepository(),
	}
	s.Users.communications = s.Communications
	s.Users.financials = s.Financials
	s.Users.tasks = s.Tasks
	s.Communications.users = s.Users
	s.Financials.users = s.Users
	s.Projects.tasks = s.Tasks
	s.Tasks.projects = s.Projects
	return s
}

// Int32Ptr returns a pointer to v
func Int32Ptr(v int32) *int32 {
	return &v
}

// StringPtr returns a pointer to v
func StringPtr(v string) *string {
	return &v
}

// Money parses a decimal literal, panicking on malformed input (tests only)
func Money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newerFirst(a, b time.Time, aID, bID int32) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}
