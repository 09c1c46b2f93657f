// Package snapshot is the reload-survivable persistence substrate: a
// key-value blob table keyed by logical store name, kept in a single local
// sqlite file. Each state container writes its snapshot after every mutation
// and reads it once at startup.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("snapshot not found")

const (
	KeyProducts = "product-storage"
	KeyCart     = "cart-storage"
	KeyAuth     = "auth-storage"
)

type blob struct {
	Key       string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (blob) TableName() string {
	return "snapshots"
}

type Store struct {
	DB *gorm.DB
}

// Open opens (or creates) the snapshot file. Pass ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	if err := db.AutoMigrate(&blob{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot store: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var b blob
	if err := s.DB.WithContext(ctx).First(&b, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	return b.Data, nil
}

// Save upserts the blob for key. Last write wins.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	b := blob{Key: key, Data: data}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&b).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
