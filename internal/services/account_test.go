package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

type fakeAccountRepo struct {
	deleted []int
}

func (f *fakeAccountRepo) DeleteUserCompletely(_ context.Context, userID int) error {
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeUserLookup struct {
	users map[int]types.User
}

func (f *fakeUserLookup) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserLookup) GetByUsername(context.Context, string) (types.User, error) {
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserLookup) GetByEmail(context.Context, string) (types.User, error) {
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserLookup) Create(_ context.Context, user types.User) (types.User, error) {
	return user, nil
}

func (f *fakeUserLookup) UpdatePassword(context.Context, int, string) error {
	return nil
}

func (f *fakeUserLookup) List(context.Context) ([]types.User, error) {
	return nil, nil
}

func TestDeleteByAdminRefusesAdminTarget(t *testing.T) {
	accounts := &fakeAccountRepo{}
	users := &fakeUserLookup{users: map[int]types.User{
		1: {ID: 1, Role: types.RoleAdmin},
		2: {ID: 2, Role: types.RoleUser},
	}}
	svc := NewAccountService(accounts, users)

	err := svc.DeleteByAdmin(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAdminAccount)
	assert.Empty(t, accounts.deleted)

	err = svc.DeleteByAdmin(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, accounts.deleted)
}

func TestDeleteByAdminMissingTarget(t *testing.T) {
	svc := NewAccountService(&fakeAccountRepo{}, &fakeUserLookup{users: map[int]types.User{}})

	err := svc.DeleteByAdmin(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteOwnDelegates(t *testing.T) {
	accounts := &fakeAccountRepo{}
	svc := NewAccountService(accounts, &fakeUserLookup{})

	require.NoError(t, svc.DeleteOwn(context.Background(), 7))
	assert.Equal(t, []int{7}, accounts.deleted)
}
