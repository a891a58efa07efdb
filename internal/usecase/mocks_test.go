package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// MockUserStore is an in-memory domain.UserStore.
type MockUserStore struct {
	users     map[uint]*domain.User
	nextID    uint
	createErr error
	updateErr error
	updated   bool
	getCalls  int
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[uint]*domain.User), nextID: 1}
}

func (m *MockUserStore) put(user *domain.User) *domain.User {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return user
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(user)
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	m.getCalls++
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = true
	m.users[user.ID] = user
	return nil
}

// MockLogStore is an in-memory domain.LogStore. GetEntry returns a copy so
// callers mutate their own view until UpdateEntry writes it back, matching a
// row-per-read database.
type MockLogStore struct {
	logs        map[uint]*domain.DayLog
	entries     map[uint]*domain.FoodEntry
	entryOwner  map[uint]uint
	nextLogID   uint
	nextEntryID uint

	createErr   error
	updateErr   error
	addEntryErr error

	logUpdates int
	raceWinner *domain.DayLog // inserted on failed Create, simulating a concurrent writer
}

func NewMockLogStore() *MockLogStore {
	return &MockLogStore{
		logs:        make(map[uint]*domain.DayLog),
		entries:     make(map[uint]*domain.FoodEntry),
		entryOwner:  make(map[uint]uint),
		nextLogID:   1,
		nextEntryID: 1,
	}
}

func (m *MockLogStore) putLog(log *domain.DayLog) *domain.DayLog {
	if log.ID == 0 {
		log.ID = m.nextLogID
		m.nextLogID++
	}
	m.logs[log.ID] = log
	return log
}

func (m *MockLogStore) putEntry(userID uint, entry *domain.FoodEntry) *domain.FoodEntry {
	if entry.ID == 0 {
		entry.ID = m.nextEntryID
		m.nextEntryID++
	}
	m.entries[entry.ID] = entry
	m.entryOwner[entry.ID] = userID
	return entry
}

func (m *MockLogStore) Create(ctx context.Context, log *domain.DayLog) error {
	if m.createErr != nil {
		if m.raceWinner != nil {
			m.putLog(m.raceWinner)
		}
		return m.createErr
	}
	m.putLog(log)
	return nil
}

func (m *MockLogStore) Update(ctx context.Context, log *domain.DayLog) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.logUpdates++
	m.logs[log.ID] = log
	return nil
}

func (m *MockLogStore) FindByDate(ctx context.Context, userID uint, date time.Time) (*domain.DayLog, error) {
	for _, log := range m.logs {
		if log.UserID == userID && log.Date.Equal(date) {
			return log, nil
		}
	}
	return nil, domain.ErrLogNotFound
}

func (m *MockLogStore) FindByID(ctx context.Context, userID, id uint) (*domain.DayLog, error) {
	log, ok := m.logs[id]
	if !ok || log.UserID != userID {
		return nil, domain.ErrLogNotFound
	}
	return log, nil
}

func (m *MockLogStore) AddEntry(ctx context.Context, entry *domain.FoodEntry) error {
	if m.addEntryErr != nil {
		return m.addEntryErr
	}
	log, ok := m.logs[entry.LogID]
	if !ok {
		return domain.ErrLogNotFound
	}
	m.putEntry(log.UserID, entry)
	log.Entries = append(log.Entries, *entry)
	return nil
}

func (m *MockLogStore) UpdateEntry(ctx context.Context, entry *domain.FoodEntry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *MockLogStore) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	if m.entryOwner[entryID] != userID {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, entryID)
	delete(m.entryOwner, entryID)
	return nil
}

func (m *MockLogStore) GetEntry(ctx context.Context, userID, entryID uint) (*domain.FoodEntry, error) {
	entry, ok := m.entries[entryID]
	if !ok || m.entryOwner[entryID] != userID {
		return nil, domain.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

// MockProductStore is an in-memory domain.ProductStore.
type MockProductStore struct {
	products map[uint]*domain.Product
	nextID   uint

	createErr error
	getErr    error

	searchResult []domain.Product
	searchErr    error
	searchQuery  string

	updateCalled   bool
	deleteCalled   bool
	getByIDsCalled bool
}

func NewMockProductStore() *MockProductStore {
	return &MockProductStore{products: make(map[uint]*domain.Product), nextID: 1}
}

func (m *MockProductStore) put(product *domain.Product) *domain.Product {
	if product.ID == 0 {
		product.ID = m.nextID
		m.nextID++
	}
	m.products[product.ID] = product
	return product
}

func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(product)
	return nil
}

func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	m.updateCalled = true
	m.products[product.ID] = product
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, userID, id uint) error {
	m.deleteCalled = true
	delete(m.products, id)
	return nil
}

func (m *MockProductStore) GetByID(ctx context.Context, userID, id uint) (*domain.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	product, ok := m.products[id]
	if !ok || product.UserID != userID {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (m *MockProductStore) GetByIDs(ctx context.Context, userID uint, ids []uint) ([]domain.Product, error) {
	m.getByIDsCalled = true
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := m.products[id]; ok && product.UserID == userID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (m *MockProductStore) GetByBarcode(ctx context.Context, userID uint, barcode string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.UserID == userID && product.Barcode != nil && *product.Barcode == barcode {
			return product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductStore) Search(ctx context.Context, userID uint, query string, limit int) ([]domain.Product, error) {
	m.searchQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResult, nil
}

// MockActivityStore is an in-memory domain.ActivityStore.
type MockActivityStore struct {
	snapshots map[string]*domain.ActivitySnapshot
	findErr   error
	upsertErr error
	upserts   int
}

func NewMockActivityStore() *MockActivityStore {
	return &MockActivityStore{snapshots: make(map[string]*domain.ActivitySnapshot)}
}

func activityKey(userID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", userID, date.Format("2006-01-02"))
}

func (m *MockActivityStore) put(snapshot *domain.ActivitySnapshot) {
	m.snapshots[activityKey(snapshot.UserID, snapshot.Date)] = snapshot
}

func (m *MockActivityStore) FindByDate(ctx context.Context, userID uint, date time.Time) (*domain.ActivitySnapshot, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.snapshots[activityKey(userID, date)], nil
}

func (m *MockActivityStore) Upsert(ctx context.Context, snapshot *domain.ActivitySnapshot) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.put(snapshot)
	return nil
}

// MockTemplateStore is an in-memory domain.TemplateStore keyed by user and
// normalized name.
type MockTemplateStore struct {
	templates map[string]*domain.FoodTemplate
	nextID    uint
	findErr   error
	upsertErr error
	upserts   int
}

func NewMockTemplateStore() *MockTemplateStore {
	return &MockTemplateStore{templates: make(map[string]*domain.FoodTemplate), nextID: 1}
}

func templateKey(userID uint, normalizedName string) string {
	return fmt.Sprintf("%d:%s", userID, normalizedName)
}

func (m *MockTemplateStore) put(template *domain.FoodTemplate) {
	if template.ID == 0 {
		template.ID = m.nextID
		m.nextID++
	}
	m.templates[templateKey(template.UserID, template.NormalizedName)] = template
}

func (m *MockTemplateStore) Find(ctx context.Context, userID uint, normalizedName string) (*domain.FoodTemplate, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	template, ok := m.templates[templateKey(userID, normalizedName)]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return template, nil
}

func (m *MockTemplateStore) Upsert(ctx context.Context, template *domain.FoodTemplate) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.put(template)
	return nil
}

func (m *MockTemplateStore) Delete(ctx context.Context, userID, id uint) error {
	for key, template := range m.templates {
		if template.UserID == userID && template.ID == id {
			delete(m.templates, key)
			return nil
		}
	}
	return domain.ErrTemplateNotFound
}

// MockProductLookup is a canned domain.ProductLookup.
type MockProductLookup struct {
	result *domain.Product
	err    error
	calls  int
}

func NewMockProductLookup() *MockProductLookup {
	return &MockProductLookup{}
}

func (m *MockProductLookup) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockEstimator is a canned domain.Estimator.
type MockEstimator struct {
	describeResult *domain.FoodEstimate
	describeErr    error
	describeCalls  int

	labelResult *domain.LabelScan
	labelErr    error

	analyzeResult  *domain.DayAnalysis
	analyzeErr     error
	analyzedInputs []domain.EntrySummary
}

func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

func (m *MockEstimator) DescribeFood(ctx context.Context, description string) (*domain.FoodEstimate, error) {
	m.describeCalls++
	if m.describeErr != nil {
		return nil, m.describeErr
	}
	return m.describeResult, nil
}

func (m *MockEstimator) ParseLabel(ctx context.Context, imageBase64, mediaType string) (*domain.LabelScan, error) {
	if m.labelErr != nil {
		return nil, m.labelErr
	}
	return m.labelResult, nil
}

func (m *MockEstimator) AnalyzeDay(ctx context.Context, date time.Time, entries []domain.EntrySummary) (*domain.DayAnalysis, error) {
	m.analyzedInputs = entries
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return m.analyzeResult, nil
}

// MockCacheRepository is an in-memory domain.CacheRepository.
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]interface{})}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}
