package ledger

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the postgres-backed ledger.
type Store struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate scores: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, playerName string, score int) error {
	entry := Entry{PlayerName: playerName, Score: score}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

func (s *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Order("score DESC").
		Limit(n).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	return entries, nil
}
