package repository

import (
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/harrier/internal/domain/model"
)

// outcomePrefix namespaces journal keys inside the shared badger database.
const outcomePrefix = "dual"

// BadgerJournal persists dual outcomes in an embedded badger database so the
// batch runner can rebuild the in-memory cache after a restart. Keys are
// "dual/<raceID>/<outcomeID>"; values are msgpack-encoded outcomes.
type BadgerJournal struct {
	db *badger.DB
}

// NewBadgerJournal wraps an open badger database.
func NewBadgerJournal(db *badger.DB) *BadgerJournal {
	return &BadgerJournal{db: db}
}

func (j *BadgerJournal) key(raceID, outcomeID string) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s", outcomePrefix, raceID, outcomeID))
}

// Record journals one outcome.
func (j *BadgerJournal) Record(outcome model.DualOutcome) error {
	buf, err := msgpack.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome %s: %w", outcome.ID, err)
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(j.key(outcome.RaceID, outcome.ID), buf)
	})
}

// Erase removes every journaled outcome for the race.
func (j *BadgerJournal) Erase(raceID string) error {
	prefix := []byte(fmt.Sprintf("%s/%s/", outcomePrefix, raceID))
	return j.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns every journaled outcome.
func (j *BadgerJournal) Load() ([]model.DualOutcome, error) {
	prefix := []byte(outcomePrefix + "/")
	var outcomes []model.DualOutcome
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var o model.DualOutcome
				if err := msgpack.Unmarshal(val, &o); err != nil {
					return fmt.Errorf("unmarshal outcome: %w", err)
				}
				outcomes = append(outcomes, o)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

var _ OutcomeJournal = (*BadgerJournal)(nil)
