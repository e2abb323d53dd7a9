package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abhishektang/WeatherWise/internal/models"
)

// In-memory implementations of the repository interfaces. They satisfy the
// same contracts as the PostgreSQL versions and back the service tests; any
// durable store could replace them.

// MemoryFavorites is a concurrency-safe in-memory FavoritesRepository.
type MemoryFavorites struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*models.FavoriteLocation
}

// NewMemoryFavorites creates an empty in-memory favorites store.
func NewMemoryFavorites() *MemoryFavorites {
	return &MemoryFavorites{nextID: 1, items: make(map[int64]*models.FavoriteLocation)}
}

func (m *MemoryFavorites) GetAll(ctx context.Context) ([]*models.FavoriteLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	favorites := make([]*models.FavoriteLocation, 0, len(m.items))
	for _, fav := range m.items {
		copied := *fav
		favorites = append(favorites, &copied)
	}

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].SortTime().After(favorites[j].SortTime())
	})

	return favorites, nil
}

func (m *MemoryFavorites) GetByID(ctx context.Context, id int64) (*models.FavoriteLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fav, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *fav
	return &copied, nil
}

func (m *MemoryFavorites) GetByCoordinates(ctx context.Context, lat, lon float64) (*models.FavoriteLocation, error) {
	query := models.Coordinate{Latitude: lat, Longitude: lon}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, fav := range m.items {
		if fav.Coordinate().CloseTo(query) {
			copied := *fav
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryFavorites) Add(ctx context.Context, fav *models.FavoriteLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now().UTC()
	}
	fav.ID = m.nextID
	m.nextID++

	copied := *fav
	m.items[fav.ID] = &copied
	return nil
}

func (m *MemoryFavorites) Update(ctx context.Context, fav *models.FavoriteLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[fav.ID]; !ok {
		return nil
	}
	copied := *fav
	m.items[fav.ID] = &copied
	return nil
}

func (m *MemoryFavorites) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	return nil
}

func (m *MemoryFavorites) RecordAccess(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fav, ok := m.items[id]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	fav.LastAccessedAt = &now
	fav.AccessCount++
	return nil
}

// Count returns the number of stored favorites.
func (m *MemoryFavorites) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// MemoryCache is a concurrency-safe in-memory CacheRepository.
type MemoryCache struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*models.CacheEntry
}

// NewMemoryCache creates an empty in-memory cache store.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{nextID: 1}
}

func (m *MemoryCache) Insert(ctx context.Context, entry *models.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = m.nextID
	m.nextID++

	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *MemoryCache) FindNearest(ctx context.Context, lat, lon float64) (*models.CacheEntry, error) {
	query := models.Coordinate{Latitude: lat, Longitude: lon}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *models.CacheEntry
	for _, entry := range m.entries {
		if !entry.Coordinate().CloseTo(query) {
			continue
		}
		if best == nil || entry.FetchedAt.After(best.FetchedAt) {
			best = entry
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

func (m *MemoryCache) Prune(ctx context.Context, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) <= keep {
		return 0, nil
	}

	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].FetchedAt.After(m.entries[j].FetchedAt)
	})

	deleted := int64(len(m.entries) - keep)
	m.entries = m.entries[:keep]
	return deleted, nil
}

func (m *MemoryCache) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// MemorySettings is a concurrency-safe in-memory SettingsRepository.
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySettings creates an empty in-memory settings store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]string)}
}

func (m *MemorySettings) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemorySettings) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// MemorySearchHistory is a concurrency-safe in-memory SearchHistoryRepository.
type MemorySearchHistory struct {
	mu      sync.RWMutex
	nextID  int64
	records []*models.SearchRecord
}

// NewMemorySearchHistory creates an empty in-memory search history store.
func NewMemorySearchHistory() *MemorySearchHistory {
	return &MemorySearchHistory{nextID: 1}
}

func (m *MemorySearchHistory) Record(ctx context.Context, rec *models.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.SearchedAt.IsZero() {
		rec.SearchedAt = time.Now().UTC()
	}
	rec.ID = m.nextID
	m.nextID++

	copied := *rec
	m.records = append(m.records, &copied)
	return nil
}

func (m *MemorySearchHistory) Recent(ctx context.Context, limit int) ([]*models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := make([]*models.SearchRecord, len(m.records))
	copy(sorted, m.records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SearchedAt.After(sorted[j].SearchedAt)
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	results := make([]*models.SearchRecord, 0, len(sorted))
	for _, rec := range sorted {
		copied := *rec
		results = append(results, &copied)
	}
	return results, nil
}
