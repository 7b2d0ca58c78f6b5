package localstore

import "github.com/rs/zerolog/log"

// MigrationGate copies legacy (pre-partitioning, global) persisted data into
// a branch's namespace, at most once per branch, without clobbering data the
// branch has already written.
type MigrationGate struct {
	kv KV
}

func NewMigrationGate(kv KV) *MigrationGate {
	return &MigrationGate{kv: kv}
}

// Migrate runs the one-time legacy copy for branch. Safe to call on every
// login/hydration: once the marker is set the call is a no-op. On copy
// failure the marker is left unset so the next login retries — at-least-once
// on error, exactly-once on success.
//
// Legacy data is never deleted; after every branch has migrated it is simply
// orphaned.
func (g *MigrationGate) Migrate(branch string) error {
	markerKey, err := migrationMarkerKey(branch)
	if err != nil {
		return err
	}
	if v, ok := g.kv.Get(markerKey); ok && v == "true" {
		return nil
	}

	if !g.hasLegacyData() {
		return g.setMarker(markerKey, branch)
	}

	// Branch-scoped data already present means a prior partial migration or
	// concurrent use created it — treat the branch data as authoritative.
	scoped, ok := g.hasBranchData(branch)
	if !ok {
		return ErrNoActiveBranch
	}
	if scoped {
		return g.setMarker(markerKey, branch)
	}

	for _, base := range baseNames {
		legacy, ok := g.kv.Get(legacyKeys[base])
		if !ok {
			continue
		}
		key, err := ScopedKey(branch, base)
		if err != nil {
			return err
		}
		// Raw payloads are copied verbatim — no decode, no reshaping.
		if err := g.kv.Set(key, legacy); err != nil {
			log.Error().Err(err).Str("branch", branch).Str("base", base).
				Msg("legacy migration copy failed; will retry on next login")
			return err
		}
	}
	return g.setMarker(markerKey, branch)
}

func (g *MigrationGate) hasLegacyData() bool {
	for _, base := range baseNames {
		if _, ok := g.kv.Get(legacyKeys[base]); ok {
			return true
		}
	}
	return false
}

func (g *MigrationGate) hasBranchData(branch string) (found, ok bool) {
	for _, base := range baseNames {
		key, err := ScopedKey(branch, base)
		if err != nil {
			return false, false
		}
		if _, exists := g.kv.Get(key); exists {
			return true, true
		}
	}
	return false, true
}

func (g *MigrationGate) setMarker(markerKey, branch string) error {
	if err := g.kv.Set(markerKey, "true"); err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("failed to set migration marker")
		return err
	}
	return nil
}
