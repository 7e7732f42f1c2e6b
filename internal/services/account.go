package services

import (
	"context"
	"errors"

	"github.com/calmana/apiserver/types"
)

// ErrAdminAccount is returned when a delete targets an admin account.
var ErrAdminAccount = errors.New("cannot delete admin account")

// AccountRepository defines whole-account persistence operations.
type AccountRepository interface {
	DeleteUserCompletely(ctx context.Context, userID int) error
}

// AccountService handles account deletion: all owned entities plus
// the user row go in one transaction.
type AccountService struct {
	accounts AccountRepository
	users    UserRepository
}

func NewAccountService(accounts AccountRepository, users UserRepository) *AccountService {
	return &AccountService{accounts: accounts, users: users}
}

// DeleteOwn removes the calling user's account and every entity it
// owns.
func (s *AccountService) DeleteOwn(ctx context.Context, userID int) error {
	return s.accounts.DeleteUserCompletely(ctx, userID)
}

// DeleteByAdmin removes another user's account. Admin accounts are
// refused.
func (s *AccountService) DeleteByAdmin(ctx context.Context, targetID int) error {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == types.RoleAdmin {
		return ErrAdminAccount
	}
	return s.accounts.DeleteUserCompletely(ctx, targetID)
}
