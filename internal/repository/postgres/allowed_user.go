package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type allowedUserRepository struct {
	BaseRepository
}

func NewAllowedUserRepository(base BaseRepository) repository.AllowedUserRepository {
	return &allowedUserRepository{base}
}

const allowedUserColumns = `id, email, is_admin, name, notes, created_at`

func (r *allowedUserRepository) List(ctx context.Context) (users []*model.AllowedUser, err error) {
	defer r.timed("allowed_user_list")(&err)

	query := `SELECT ` + allowedUserColumns + ` FROM allowed_users ORDER BY created_at DESC`

	users = []*model.AllowedUser{}
	if err = r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list allowed users: %w", err)
	}
	return users, nil
}

func (r *allowedUserRepository) GetByEmail(ctx context.Context, email string) (_ *model.AllowedUser, err error) {
	defer r.timed("allowed_user_get")(&err)

	query := `SELECT ` + allowedUserColumns + ` FROM allowed_users WHERE email = $1`

	var user model.AllowedUser
	if err = r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("failed to get allowed user: %w", translate(err))
	}
	return &user, nil
}

// Create inserts the user unless the email is already present, in which case
// it returns repository.ErrDuplicate.
func (r *allowedUserRepository) Create(ctx context.Context, user *model.AllowedUser) (err error) {
	defer r.timed("allowed_user_create")(&err)

	query := `
		INSERT INTO allowed_users (email, is_admin, name, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	err = r.db.QueryRowxContext(ctx, query,
		user.Email,
		user.IsAdmin,
		user.Name,
		user.Notes,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if translate(err) == repository.ErrNotFound {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create allowed user: %w", translate(err))
	}
	return nil
}

func (r *allowedUserRepository) Update(ctx context.Context, user *model.AllowedUser) (err error) {
	defer r.timed("allowed_user_update")(&err)

	query := `
		UPDATE allowed_users
		SET email = $1, is_admin = $2, name = $3, notes = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.IsAdmin,
		user.Name,
		user.Notes,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update allowed user: %w", translate(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *allowedUserRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.timed("allowed_user_delete")(&err)

	result, err := r.db.ExecContext(ctx, `DELETE FROM allowed_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete allowed user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
