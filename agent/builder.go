package agent

// StoreBuilder constructs a Store and its Rngs pool in one step.
//
// All SoA arrays are pre-allocated at build time and filled with sentinel or
// zero values, so later initial-state writes (from CSV loaders etc.) are
// simple indexed assignments, not appends.
type StoreBuilder struct {
	count      int
	seed       uint64
	components *ComponentMap
}

// NewStoreBuilder creates a builder for count agents using seed as the
// global RNG seed.
func NewStoreBuilder(count int, seed uint64) *StoreBuilder {
	return &StoreBuilder{
		count:      count,
		seed:       seed,
		components: NewComponentMap(),
	}
}

// WithComponent registers an application-defined component type T. Every
// agent starts with the zero value of T. Components cannot be added after
// Build; registering the same T twice is harmless.
func WithComponent[T any](b *StoreBuilder) *StoreBuilder {
	RegisterComponent[T](b.components, 0)
	return b
}

// Build constructs the Store and Rngs.
func (b *StoreBuilder) Build() (*Store, *Rngs) {
	for range b.count {
		b.components.pushDefaults()
	}
	return newStore(b.count, b.components), newRngs(b.count, b.seed)
}
