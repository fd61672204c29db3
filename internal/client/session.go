package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sistema-salt/salt-backend/internal/domain"
	"go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")
	keyToken      = []byte("token")
	keyUser       = []byte("user")
)

// ErrNoSession is returned by Load when nothing has been persisted
var ErrNoSession = errors.New("salt: no saved session")

// SessionStore persists the token and user between runs
type SessionStore interface {
	Save(token string, user *domain.User) error
	Load() (string, *domain.User, error)
	Clear() error
}

// Session is a SessionStore backed by a bbolt file
type Session struct {
	db *bbolt.DB
}

// OpenSession opens (or creates) the session database at path
func OpenSession(path string) (*Session, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}

	return &Session{db: db}, nil
}

// Save stores the token and the serialized user
func (s *Session) Save(token string, user *domain.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Put(keyToken, []byte(token)); err != nil {
			return err
		}
		return b.Put(keyUser, encoded)
	})
}

// Load returns the saved token and user, or ErrNoSession
func (s *Session) Load() (string, *domain.User, error) {
	var token string
	var user *domain.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		rawToken := b.Get(keyToken)
		rawUser := b.Get(keyUser)
		if len(rawToken) == 0 || len(rawUser) == 0 {
			return ErrNoSession
		}

		token = string(rawToken)
		user = &domain.User{}
		if err := json.Unmarshal(rawUser, user); err != nil {
			return fmt.Errorf("decode saved user: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Clear removes the saved token and user
func (s *Session) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Delete(keyToken); err != nil {
			return err
		}
		return b.Delete(keyUser)
	})
}

// Close closes the underlying database
func (s *Session) Close() error {
	return s.db.Close()
}
