// Package ledger is the append-only score log backing the leaderboard.
package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PlayerName string    `gorm:"index" json:"player_name"`
	Score      int       `gorm:"index" json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Entry) TableName() string { return "scores" }

type Ledger interface {
	Append(ctx context.Context, playerName string, score int) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

// Memory is the in-process ledger used when no database is configured, and
// in tests.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, playerName string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{
		ID:         uint(len(m.entries) + 1),
		PlayerName: playerName,
		Score:      score,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (m *Memory) Top(_ context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}
