package persist

// ttKey is the fixed Badger key the transposition table is written under,
// per spec §6's "Persisted state": one table, one crash-safe value.
const ttKey = "tt"

// TTSource is anything that can serialize/deserialize itself to the
// size+generation+cluster-chunk blob persist writes under ttKey.
// internal/engine.TranspositionTable implements this via Bytes/LoadBytes.
type TTSource interface {
	Bytes() []byte
	LoadBytes([]byte) error
}

// SaveTT writes tt's serialized form as a single Badger value.
func (s *Store) SaveTT(tt TTSource) error {
	return s.set(ttKey, tt.Bytes())
}

// LoadTT reads a previously saved table into tt. Returns found=false (no
// error) if nothing has been persisted yet.
func (s *Store) LoadTT(tt TTSource) (found bool, err error) {
	data, ok, err := s.get(ttKey)
	if err != nil || !ok {
		return false, err
	}
	return true, tt.LoadBytes(data)
}
