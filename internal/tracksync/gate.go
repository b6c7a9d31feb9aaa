package tracksync

import "context"

// storedVersion returns the last committed version for a module,
// defaulting to 0 when the module has never been synced.
func (s *Syncer) storedVersion(ctx context.Context, module string) (int64, error) {
	mv, err := s.store.GetModuleVersion(ctx, module)
	if err != nil {
		return 0, err
	}
	if mv == nil {
		return 0, nil
	}
	return mv.Version, nil
}

// shouldSync is the single global idempotence guard: a configuration
// claiming an equal or lower version than what is stored is treated as
// already applied.
func shouldSync(stored, config int64) bool {
	return stored < config
}
