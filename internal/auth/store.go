package auth

// CredentialStore keeps teacher credentials in insertion order. Usernames
// are not unique.
type CredentialStore interface {
	Add(t Teacher) error
	All() []Teacher
}

type InMemoryStore struct {
	teachers []Teacher
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Add(t Teacher) error {
	s.teachers = append(s.teachers, t)
	return nil
}

func (s *InMemoryStore) All() []Teacher {
	return append([]Teacher(nil), s.teachers...)
}
