package user

import (
	"context"

	"github.com/go-faster/errors"
)

// Service exposes the account's own view: profile reads and updates plus the
// saved address book.
type Service struct {
	users     Repository
	addresses AddressRepository
}

func NewService(users Repository, addresses AddressRepository) *Service {
	return &Service{users: users, addresses: addresses}
}

// Profile returns the caller's account.
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the given changes and returns the updated account.
// An empty update skips the write and returns the current profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*User, error) {
	if upd.IsZero() {
		return s.users.GetByID(ctx, userID)
	}
	u, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, errors.Wrap(err, "update profile")
	}
	return u, nil
}

// Addresses returns the user's saved addresses, newest first.
func (s *Service) Addresses(ctx context.Context, userID string) ([]Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

// Address returns one saved address scoped to its owner.
func (s *Service) Address(ctx context.Context, id, userID string) (*Address, error) {
	return s.addresses.GetByUser(ctx, id, userID)
}

// CreateAddress saves a new address in the user's book.
func (s *Service) CreateAddress(ctx context.Context, a *Address) error {
	if err := s.addresses.Create(ctx, a); err != nil {
		return errors.Wrap(err, "create address")
	}
	return nil
}

// UpdateAddress rewrites a saved address scoped to its owner.
func (s *Service) UpdateAddress(ctx context.Context, a *Address) error {
	return s.addresses.Update(ctx, a)
}

// DeleteAddress removes a saved address scoped to its owner.
func (s *Service) DeleteAddress(ctx context.Context, id, userID string) error {
	return s.addresses.Delete(ctx, id, userID)
}
