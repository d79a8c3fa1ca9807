package tokenfakerepo

import (
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo keeps the record in memory. Save stamps the issue time with Now.
type FakeTokenRepo struct {
	record   *token.Record
	issuedAt time.Time
	saves    int
	Now      func() time.Time
	SaveErr  error
	lock     sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{Now: time.Now}
}

// Seed stores a record as if it had been written at issuedAt, without counting a save
func (tr *FakeTokenRepo) Seed(record token.Record, issuedAt time.Time) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.record = &record
	tr.issuedAt = issuedAt
}

func (tr *FakeTokenRepo) Load() (token.Record, time.Time, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	if tr.record == nil {
		return token.Record{}, time.Time{}, fmt.Errorf("fake repo empty: %w", errors.ErrNotAuthenticated)
	}
	return *tr.record, tr.issuedAt, nil
}

func (tr *FakeTokenRepo) Save(record token.Record) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if tr.SaveErr != nil {
		return tr.SaveErr
	}
	tr.record = &record
	tr.issuedAt = tr.Now()
	tr.saves++
	return nil
}

func (tr *FakeTokenRepo) Saves() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return tr.saves
}
