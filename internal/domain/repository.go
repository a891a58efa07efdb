package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// UserStore defines persistence for accounts.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// ProductStore defines persistence for products. GetByBarcode returns
// ErrProductNotFound on a miss; Delete must clear weak references from
// entries instead of cascading.
type ProductStore interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, userID, id uint) error
	GetByID(ctx context.Context, userID, id uint) (*Product, error)
	GetByIDs(ctx context.Context, userID uint, ids []uint) ([]Product, error)
	GetByBarcode(ctx context.Context, userID uint, barcode string) (*Product, error)
	Search(ctx context.Context, userID uint, query string, limit int) ([]Product, error)
}

// LogStore defines persistence for day logs and their entries. A log is
// unique per user and calendar date; FindByDate returns ErrLogNotFound when
// the day has not been opened yet.
type LogStore interface {
	Create(ctx context.Context, log *DayLog) error
	Update(ctx context.Context, log *DayLog) error
	FindByDate(ctx context.Context, userID uint, date time.Time) (*DayLog, error)
	FindByID(ctx context.Context, userID, id uint) (*DayLog, error)

	AddEntry(ctx context.Context, entry *FoodEntry) error
	UpdateEntry(ctx context.Context, entry *FoodEntry) error
	DeleteEntry(ctx context.Context, userID, entryID uint) error
	GetEntry(ctx context.Context, userID, entryID uint) (*FoodEntry, error)
}

// TemplateStore defines persistence for cached AI food templates, at most
// one per user and normalized name.
type TemplateStore interface {
	Find(ctx context.Context, userID uint, normalizedName string) (*FoodTemplate, error)
	Upsert(ctx context.Context, template *FoodTemplate) error
	Delete(ctx context.Context, userID, id uint) error
}

// ActivityStore defines persistence for daily activity snapshots, one per
// user and calendar date. FindByDate returns (nil, nil) when the day has no
// snapshot; a missing snapshot just means zero activity.
type ActivityStore interface {
	FindByDate(ctx context.Context, userID uint, date time.Time) (*ActivitySnapshot, error)
	Upsert(ctx context.Context, snapshot *ActivitySnapshot) error
}

// ProductLookup resolves a barcode against an external food database. A
// clean miss is ErrProductNotFound; transport and upstream failures wrap
// ErrLookupFailed.
type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*Product, error)
}

// Estimator is the AI collaborator. Implementations return results exactly
// as estimated; they do not retry and they do not fill omitted fields.
// Failures wrap ErrEstimationFailed.
type Estimator interface {
	DescribeFood(ctx context.Context, description string) (*FoodEstimate, error)
	ParseLabel(ctx context.Context, imageBase64, mediaType string) (*LabelScan, error)
	AnalyzeDay(ctx context.Context, date time.Time, entries []EntrySummary) (*DayAnalysis, error)
}

// ImageStore uploads image payloads and returns a public URL.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}
