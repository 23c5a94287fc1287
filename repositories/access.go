//go:generate go run go.uber.org/mock/mockgen -source=access.go -destination=../mocks/mock_access_repository.go -package=mocks
package repositories

import (
	"chat-guard/domain"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IAccessRepository interface {
	ApproveChat(chat domain.ChatID) (alreadyApproved bool, err error)
	UnapproveChat(chat domain.ChatID) (wasApproved bool, err error)
	ApproveUser(user domain.UserID) (alreadyApproved bool, err error)
	UnapproveUser(user domain.UserID) (wasApproved bool, err error)
	MakeAdmin(user domain.UserID) (alreadyAdmin bool, err error)
	IsChatApproved(chat domain.ChatID) (bool, error)
	IsUserApproved(user domain.UserID) (bool, error)
	IsAdmin(user domain.UserID) (bool, error)
}

// AccessRepository persists the three access lists in BadgerDB under the
// "chat:", "user:" and "admin:" key prefixes. Every mutation is a single
// transaction, so a failed call leaves the registry exactly as it was.
// The owner identity is configured at startup and is always an admin,
// regardless of the stored admin set.
type AccessRepository struct {
	db    *badger.DB
	owner domain.UserID
}

func NewAccessRepository(db *badger.DB, owner domain.UserID) *AccessRepository {
	return &AccessRepository{db: db, owner: owner}
}

// accessEntry is the stored payload of a grant. Membership alone carries
// the meaning; GrantedAt only helps operators reading the store.
type accessEntry struct {
	GrantedAt time.Time `json:"granted_at"`
}

func chatKey(chat domain.ChatID) []byte {
	return []byte("chat:" + string(chat))
}

func userKey(user domain.UserID) []byte {
	return []byte("user:" + user.String())
}

func adminKey(user domain.UserID) []byte {
	return []byte("admin:" + user.String())
}

func (a *AccessRepository) ApproveChat(chat domain.ChatID) (bool, error) {
	return a.grant(chatKey(chat))
}

func (a *AccessRepository) UnapproveChat(chat domain.ChatID) (bool, error) {
	return a.revoke(chatKey(chat))
}

func (a *AccessRepository) ApproveUser(user domain.UserID) (bool, error) {
	return a.grant(userKey(user))
}

func (a *AccessRepository) UnapproveUser(user domain.UserID) (bool, error) {
	return a.revoke(userKey(user))
}

func (a *AccessRepository) MakeAdmin(user domain.UserID) (bool, error) {
	return a.grant(adminKey(user))
}

func (a *AccessRepository) IsChatApproved(chat domain.ChatID) (bool, error) {
	return a.exists(chatKey(chat))
}

func (a *AccessRepository) IsUserApproved(user domain.UserID) (bool, error) {
	return a.exists(userKey(user))
}

func (a *AccessRepository) IsAdmin(user domain.UserID) (bool, error) {
	if user == a.owner {
		return true, nil
	}
	return a.exists(adminKey(user))
}

// grant inserts the key if absent and reports whether it already existed.
// Idempotent: a second grant is a read-only transaction.
func (a *AccessRepository) grant(key []byte) (bool, error) {
	already := false
	err := a.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			already = true
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		data, err := json.Marshal(accessEntry{GrantedAt: time.Now().UTC()})
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, fmt.Errorf("granting %q: %w", key, err)
	}
	return already, nil
}

// revoke deletes the key and reports whether it was present.
func (a *AccessRepository) revoke(key []byte) (bool, error) {
	was := false
	err := a.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		was = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("revoking %q: %w", key, err)
	}
	return was, nil
}

func (a *AccessRepository) exists(key []byte) (bool, error) {
	found := false
	err := a.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", key, err)
	}
	return found, nil
}
