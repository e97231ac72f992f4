package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmograph/internal/store"
)

type stubStore struct {
	createdUser *store.User
	userErr     error
	missing     map[int64]bool

	friendAdded   bool
	friendRemoved bool
	commonCalled  bool
}

func (s *stubStore) ListUsers(ctx context.Context) ([]store.User, error) { return nil, nil }

func (s *stubStore) CreateUser(ctx context.Context, user store.User) (store.User, error) {
	s.createdUser = &user
	user.ID = 1
	return user, nil
}

func (s *stubStore) UpdateUser(ctx context.Context, user store.User) (store.User, error) {
	return user, s.userErr
}

func (s *stubStore) UserByID(ctx context.Context, id int64) (store.User, error) {
	if s.userErr != nil {
		return store.User{}, s.userErr
	}
	if s.missing[id] {
		return store.User{}, store.ErrUserNotFound
	}
	return store.User{ID: id}, nil
}

func (s *stubStore) DeleteUser(ctx context.Context, id int64) error { return s.userErr }

func (s *stubStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	s.friendAdded = true
	return nil
}

func (s *stubStore) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	s.friendRemoved = true
	return nil
}

func (s *stubStore) Friends(ctx context.Context, userID int64) ([]store.User, error) {
	return nil, nil
}

func (s *stubStore) CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error) {
	s.commonCalled = true
	return []store.User{}, nil
}

func newTestService(st *stubStore) *service {
	return &service{
		store: st,
		now:   func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func validUser() store.User {
	bd := store.NewDate(1990, time.January, 1)
	return store.User{
		Email:    "a@b.com",
		Login:    "alice",
		Name:     "Alice",
		Birthday: &bd,
	}
}

func TestCreateValidation(t *testing.T) {
	future := store.NewDate(2030, time.January, 1)
	today := store.NewDate(2024, time.June, 1)

	tests := []struct {
		name   string
		mutate func(*store.User)
		ok     bool
	}{
		{name: "valid user", mutate: func(u *store.User) {}, ok: true},
		{name: "email missing at sign", mutate: func(u *store.User) { u.Email = "nobody.example.com" }},
		{name: "blank email", mutate: func(u *store.User) { u.Email = "  " }},
		{name: "blank login", mutate: func(u *store.User) { u.Login = "" }},
		{name: "login with space", mutate: func(u *store.User) { u.Login = "abc def" }},
		{name: "login without whitespace", mutate: func(u *store.User) { u.Login = "abcdef" }, ok: true},
		{name: "future birthday", mutate: func(u *store.User) { u.Birthday = &future }},
		{name: "birthday today", mutate: func(u *store.User) { u.Birthday = &today }, ok: true},
		{name: "no birthday", mutate: func(u *store.User) { u.Birthday = nil }, ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&stubStore{})
			user := validUser()
			tc.mutate(&user)

			_, err := svc.Create(context.Background(), user)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, store.ErrInvalidUser)
			}
		})
	}
}

func TestCreateDefaultsNameToLogin(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st)

	user := validUser()
	user.Name = ""

	created, err := svc.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Name)
	require.NotNil(t, st.createdUser)
	assert.Equal(t, "alice", st.createdUser.Name)
}

func TestAddFriendUnknownFriend(t *testing.T) {
	st := &stubStore{missing: map[int64]bool{2: true}}
	svc := newTestService(st)

	err := svc.AddFriend(context.Background(), 1, 2)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.False(t, st.friendAdded)
}

func TestAddFriendBothExist(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st)

	require.NoError(t, svc.AddFriend(context.Background(), 1, 2))
	assert.True(t, st.friendAdded)
}

func TestRemoveFriendUnknownUser(t *testing.T) {
	st := &stubStore{missing: map[int64]bool{1: true}}
	svc := newTestService(st)

	err := svc.RemoveFriend(context.Background(), 1, 2)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.False(t, st.friendRemoved)
}

func TestCommonFriendsChecksBothUsers(t *testing.T) {
	st := &stubStore{missing: map[int64]bool{3: true}}
	svc := newTestService(st)

	_, err := svc.CommonFriends(context.Background(), 1, 3)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.False(t, st.commonCalled)
}
