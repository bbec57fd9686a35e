package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taskhub/domain/apperrors"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewUserRepository() repositories.UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return apperrors.ErrConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	r.users[id] = *user
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
