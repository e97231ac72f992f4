package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"filmograph/internal/store"
)

// Store captures the persistence operations required by user workflows.
type Store interface {
	ListUsers(ctx context.Context) ([]store.User, error)
	CreateUser(ctx context.Context, user store.User) (store.User, error)
	UpdateUser(ctx context.Context, user store.User) (store.User, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
	DeleteUser(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]store.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error)
}

// Service coordinates user accounts and the friendship graph.
type Service interface {
	List(ctx context.Context) ([]store.User, error)
	Create(ctx context.Context, user store.User) (store.User, error)
	Update(ctx context.Context, user store.User) (store.User, error)
	Get(ctx context.Context, id int64) (store.User, error)
	Delete(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]store.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error)
}

type service struct {
	store Store

	// now is injected so the future-birthday rule is testable.
	now func() time.Time
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st, now: time.Now}
}

func (s *service) List(ctx context.Context) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func (s *service) Create(ctx context.Context, user store.User) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	user, err := s.prepare(user)
	if err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, user)
}

func (s *service) Update(ctx context.Context, user store.User) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	user, err := s.prepare(user)
	if err != nil {
		return store.User{}, err
	}
	return s.store.UpdateUser(ctx, user)
}

func (s *service) Get(ctx context.Context, id int64) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.UserByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

// AddFriend verifies both users exist before inserting the directed edge.
func (s *service) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return err
	}
	return s.store.AddFriend(ctx, userID, friendID)
}

func (s *service) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return err
	}
	return s.store.RemoveFriend(ctx, userID, friendID)
}

func (s *service) Friends(ctx context.Context, userID int64) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Friends(ctx, userID)
}

func (s *service) CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error) {
	if err := s.checkUsersExist(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.store.CommonFriends(ctx, userID, otherID)
}

func (s *service) checkUsersExist(ctx context.Context, ids ...int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := s.store.UserByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// prepare runs field validation and defaults the display name to the login
// when blank.
func (s *service) prepare(user store.User) (store.User, error) {
	if err := s.validateUser(user); err != nil {
		return store.User{}, err
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return user, nil
}

func (s *service) validateUser(user store.User) error {
	switch {
	case strings.TrimSpace(user.Email) == "" || !strings.Contains(user.Email, "@"):
		return fmt.Errorf("%w: email must contain @", store.ErrInvalidUser)
	case strings.TrimSpace(user.Login) == "":
		return fmt.Errorf("%w: login must not be blank", store.ErrInvalidUser)
	case strings.ContainsAny(user.Login, " \t"):
		return fmt.Errorf("%w: login must not contain whitespace", store.ErrInvalidUser)
	}
	if user.Birthday != nil && user.Birthday.Time.After(s.now()) {
		return fmt.Errorf("%w: birthday must not be in the future", store.ErrInvalidUser)
	}
	return nil
}
