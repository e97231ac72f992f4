package store

import (
	"context"
	"fmt"
)

// Friendship is stored as a directed edge: user_id follows friend_id, and the
// reverse edge is never created implicitly. The legacy confirmed column is
// written with its default and never read.

// AddFriend inserts the directed friend edge. Adding an existing edge is a
// no-op.
func (s *Store) AddFriend(ctx context.Context, userID, friendID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, userID, friendID); err != nil {
		return wrapIntegrity("insert friend", err)
	}
	return nil
}

// RemoveFriend deletes the directed friend edge. Removing an absent edge is
// a no-op.
func (s *Store) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM friends
		WHERE user_id = $1 AND friend_id = $2
	`, userID, friendID); err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	return nil
}

// Friends resolves the users the given user has outgoing edges to, ordered
// by id.
func (s *Store) Friends(ctx context.Context, userID int64) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.login, u.name, u.birthday
		FROM users u
		JOIN friends f ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select friends: %w", err)
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friends: %w", err)
	}
	return users, nil
}

// CommonFriends returns the users both userID and otherID have outgoing
// edges to, ordered by id. Disjoint friend sets yield an empty result.
func (s *Store) CommonFriends(ctx context.Context, userID, otherID int64) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.login, u.name, u.birthday
		FROM users u
		JOIN friends f1 ON u.id = f1.friend_id
		JOIN friends f2 ON u.id = f2.friend_id
		WHERE f1.user_id = $1 AND f2.user_id = $2
		ORDER BY u.id ASC
	`, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("select common friends: %w", err)
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate common friends: %w", err)
	}
	return users, nil
}

func (s *Store) friendIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT friend_id
		FROM friends
		WHERE user_id = $1
		ORDER BY friend_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select friend ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan friend id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend ids: %w", err)
	}
	return ids, nil
}
