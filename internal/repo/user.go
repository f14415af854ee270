package repo

import (
	"encoding/json"
	"fmt"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/kv"
)

// currentUserKey stores the identity record of the signed-in user as a
// single JSON object.
const currentUserKey = "currentUser"

// UserRepo defines the persistence operations for the current-user record.
type UserRepo interface {
	// Get reads the saved identity. ok=false when nobody is signed in or the
	// saved record is unreadable; a damaged record is treated as signed out.
	Get() (user domain.User, ok bool, err error)

	// Put saves the identity, replacing any previous one.
	Put(user domain.User) error

	// Delete signs the user out. Deleting when signed out is a no-op.
	Delete() error
}

// kvUserRepo is the key-value implementation of UserRepo.
type kvUserRepo struct {
	kv kv.Store
}

// NewUserRepo constructs a UserRepo backed by the provided key-value store.
func NewUserRepo(store kv.Store) UserRepo {
	return &kvUserRepo{kv: store}
}

func (r *kvUserRepo) Get() (domain.User, bool, error) {
	raw, ok, err := r.kv.Get(currentUserKey)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("repo.UserRepo.Get: %w", err)
	}
	if !ok {
		return domain.User{}, false, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, false, nil
	}
	return user, true, nil
}

func (r *kvUserRepo) Put(user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Put: %w", err)
	}
	if err := r.kv.Set(currentUserKey, string(raw)); err != nil {
		return fmt.Errorf("repo.UserRepo.Put: %w: %w", domain.ErrStorageFull, err)
	}
	return nil
}

func (r *kvUserRepo) Delete() error {
	if err := r.kv.Remove(currentUserKey); err != nil {
		return fmt.Errorf("repo.UserRepo.Delete: %w", err)
	}
	return nil
}
