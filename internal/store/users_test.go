package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	selectUserByID = `
		SELECT id, email, login, name, birthday
		FROM users
		WHERE id = $1
	`
	selectFriendIDs = `
		SELECT friend_id
		FROM friends
		WHERE user_id = $1
		ORDER BY friend_id ASC
	`
)

func userColumns() []string {
	return []string{"id", "email", "login", "name", "birthday"}
}

func TestCreateUserSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	birthday := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)).
		WithArgs("a@b.com", "alice", "alice", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(11), "a@b.com", "alice", "alice", birthday))
	mock.ExpectQuery(regexp.QuoteMeta(selectFriendIDs)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"friend_id"}))

	bd := NewDate(1990, time.January, 1)
	user, err := s.CreateUser(context.Background(), User{
		Email:    "a@b.com",
		Login:    "alice",
		Name:     "alice",
		Birthday: &bd,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID != 11 {
		t.Fatalf("expected user ID 11, got %d", user.ID)
	}
	if user.Birthday == nil || user.Birthday.Format("2006-01-02") != "1990-01-01" {
		t.Fatalf("unexpected birthday: %#v", user.Birthday)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateUserReplacesFriendEdges(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE users
		SET email = $1, login = $2, name = $3, birthday = $4
		WHERE id = $5
	`)).
		WithArgs("a@b.com", "alice", "Alice", nil, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM friends
		WHERE user_id = $1
	`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2)
	`)).
		WithArgs(int64(11), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(11), "a@b.com", "alice", "Alice", nil))
	mock.ExpectQuery(regexp.QuoteMeta(selectFriendIDs)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"friend_id"}).AddRow(int64(2)))

	user, err := s.UpdateUser(context.Background(), User{
		ID:      11,
		Email:   "a@b.com",
		Login:   "alice",
		Name:    "Alice",
		Friends: []int64{2, 2},
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if len(user.Friends) != 1 || user.Friends[0] != 2 {
		t.Fatalf("unexpected friends: %#v", user.Friends)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = s.UserByID(context.Background(), 404)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM users
		WHERE id = $1
	`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteUser(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddFriendExistingEdgeIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveFriendAbsentEdgeIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM friends
		WHERE user_id = $1 AND friend_id = $2
	`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.RemoveFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommonFriendsIntersection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT u.id, u.email, u.login, u.name, u.birthday
		FROM users u
		JOIN friends f1 ON u.id = f1.friend_id
		JOIN friends f2 ON u.id = f2.friend_id
		WHERE f1.user_id = $1 AND f2.user_id = $2
		ORDER BY u.id ASC
	`)).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(2), "bob@b.com", "bob", "Bob", nil))

	common, err := s.CommonFriends(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("CommonFriends: %v", err)
	}

	if len(common) != 1 || common[0].ID != 2 {
		t.Fatalf("unexpected common friends: %#v", common)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommonFriendsDisjointSets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT u.id, u.email, u.login, u.name, u.birthday
		FROM users u
		JOIN friends f1 ON u.id = f1.friend_id
		JOIN friends f2 ON u.id = f2.friend_id
		WHERE f1.user_id = $1 AND f2.user_id = $2
		ORDER BY u.id ASC
	`)).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	common, err := s.CommonFriends(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("CommonFriends: %v", err)
	}
	if len(common) != 0 {
		t.Fatalf("expected empty intersection, got %#v", common)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
