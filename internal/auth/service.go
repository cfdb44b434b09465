package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	store  CredentialStore
	hasher Hasher
	sha    SHA256Hasher
}

type ServiceConfig struct {
	HashScheme     string
	PasswordPepper string
	BcryptCost     int
}

func NewService(store CredentialStore, cfg ServiceConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	hasher, err := NewHasher(cfg.HashScheme, cfg.PasswordPepper, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:  store,
		hasher: hasher,
		sha:    SHA256Hasher{Pepper: cfg.PasswordPepper},
	}, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// AddTeacher always appends, blank usernames included; an existing username
// is not replaced. Errors come only from hashing or the backing store.
func (s *Service) AddTeacher(username, password string) (Teacher, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Teacher{}, err
	}

	t := Teacher{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.store.Add(t); err != nil {
		return Teacher{}, fmt.Errorf("store teacher: %w", err)
	}
	return t, nil
}

// Authenticate returns the first credential, in insertion order, whose
// username and password both match.
func (s *Service) Authenticate(username, password string) (Teacher, error) {
	for _, t := range s.store.All() {
		if t.Username != username {
			continue
		}
		if verifyPassword(s.sha, password, t.PasswordHash) {
			return t, nil
		}
	}
	return Teacher{}, ErrInvalidCredentials
}

// EnsureBootstrap appends the startup credential unless an identical
// username/password pair is already stored.
func (s *Service) EnsureBootstrap(username, password string) (bool, error) {
	if _, err := s.Authenticate(username, password); err == nil {
		return false, nil
	}
	if _, err := s.AddTeacher(username, password); err != nil {
		return false, fmt.Errorf("create bootstrap teacher: %w", err)
	}
	return true, nil
}
