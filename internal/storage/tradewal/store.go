// Package tradewal persists trade records in a write-ahead log. Records are
// appended, newest-wins: the latest entry for a pair is the "last trade"
// pointer the strategy reads.
package tradewal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const tradeKeyPrefix = "trade_"

// Store is a gowal-backed trade history store.
type Store struct {
	mu  sync.Mutex
	wal *gowal.Wal
}

// NewStore opens (or creates) the WAL in dir.
func NewStore(dir string) (*Store, error) {
	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "log_",
		SegmentThreshold: 1000,
		MaxSegments:      100,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create WAL")
	}

	return &Store{wal: wal}, nil
}

// Save appends the record under the pair's key and returns it.
func (s *Store) Save(_ context.Context, record domain.TradeRecord) (domain.TradeRecord, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "marshal trade record %s", record.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// gowal accepts only the next sequential index
	if err := s.wal.Write(s.wal.CurrentIndex()+1, tradeKey(record.Pair), payload); err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "write trade record %s", record.ID)
	}

	return record, nil
}

// GetLast returns the most recently saved record for the pair, or
// domain.ErrNoTrades when none exists.
func (s *Store) GetLast(_ context.Context, pair domain.Pair) (domain.TradeRecord, error) {
	key := tradeKey(pair)

	s.mu.Lock()
	defer s.mu.Unlock()

	var payload []byte
	for msg := range s.wal.Iterator() {
		if msg.Key == key {
			payload = msg.Value
		}
	}

	if payload == nil {
		return domain.TradeRecord{}, errors.Wrapf(domain.ErrNoTrades, "pair %s", pair.String())
	}

	var record domain.TradeRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "decode trade record for %s", pair.String())
	}

	return record, nil
}

// Close closes the underlying WAL.
func (s *Store) Close() error {
	return s.wal.Close()
}

func tradeKey(pair domain.Pair) string {
	return fmt.Sprintf("%s%s", tradeKeyPrefix, pair.String())
}
