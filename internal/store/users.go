package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User models an account together with its outgoing friend edges.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday *Date   `json:"birthday,omitempty"`
	Friends  []int64 `json:"friends"`
}

// ListUsers returns all users ordered by id with their friend id sets.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, login, name, birthday
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	for i := range users {
		friends, err := s.friendIDs(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Friends = friends
	}
	return users, nil
}

// CreateUser inserts the user row plus any pre-populated friend edges and
// returns the stored record with its generated id.
func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Email, user.Login, user.Name, birthdayArg(user.Birthday)).Scan(&id)
	if err != nil {
		return User{}, wrapIntegrity("insert user", err)
	}

	if err := insertFriendEdges(ctx, tx, id, user.Friends); err != nil {
		return User{}, err
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.UserByID(ctx, id)
}

// UpdateUser overwrites the scalar fields and replaces the outgoing friend
// edge set wholesale (delete-then-reinsert).
func (s *Store) UpdateUser(ctx context.Context, user User) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET email = $1, login = $2, name = $3, birthday = $4
		WHERE id = $5
	`, user.Email, user.Login, user.Name, birthdayArg(user.Birthday), user.ID)
	if err != nil {
		return User{}, wrapIntegrity("update user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return User{}, ErrUserNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM friends
		WHERE user_id = $1
	`, user.ID); err != nil {
		return User{}, fmt.Errorf("delete friends: %w", err)
	}
	if err := insertFriendEdges(ctx, tx, user.ID, user.Friends); err != nil {
		return User{}, err
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.UserByID(ctx, user.ID)
}

// UserByID returns a single user with their friend id set.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, login, name, birthday
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}

	friends, err := s.friendIDs(ctx, id)
	if err != nil {
		return User{}, err
	}
	user.Friends = friends
	return user, nil
}

// DeleteUser removes the user row. Friend and like edges cascade at the
// schema level.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func insertFriendEdges(ctx context.Context, tx *sql.Tx, userID int64, friendIDs []int64) error {
	for _, friendID := range dedupeIDs(friendIDs) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO friends (user_id, friend_id)
			VALUES ($1, $2)
		`, userID, friendID); err != nil {
			return wrapIntegrity("insert friend", err)
		}
	}
	return nil
}

func birthdayArg(d *Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return *d
}

type userScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner userScanner) (User, error) {
	var (
		u        User
		birthday sql.NullTime
	)
	if err := scanner.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &birthday); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, err
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	if birthday.Valid {
		d := NewDate(birthday.Time.Year(), birthday.Time.Month(), birthday.Time.Day())
		u.Birthday = &d
	}
	return u, nil
}

func scanUserRows(rows *sql.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
