package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithOutcomeJournal writes dual-outcome changes through to a durable
// journal in addition to the in-memory cache.
func WithOutcomeJournal(journal OutcomeJournal) Option {
	return func(s *MemStore) {
		s.journal = journal
	}
}
