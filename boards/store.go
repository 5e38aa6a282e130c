package boards

// Store persists the whole board Document.
type Store interface {
	// Init persists seed if no document exists yet.
	Init(seed Document) error
	Load() (Document, error)
	Save(doc Document) error
}
