package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/celosave/savings/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	// ErrGoalConflict means the row changed between read and conditional update.
	ErrGoalConflict = errors.New("goal changed concurrently")
)

type SavingsGoalRepository interface {
	Goals(ctx context.Context, owner string) ([]*model.SavingsGoalRow, error)
	Create(ctx context.Context, row *model.SavingsGoalRow) (*model.SavingsGoalRow, error)
	UpdateAmount(ctx context.Context, owner, id, prevAmount, newAmount string, completed bool) error
	Delete(ctx context.Context, owner, id string) error
}

type savingsGoalRepository struct {
	db *sqlx.DB
}

func NewSavingsGoalRepository(db *sqlx.DB) SavingsGoalRepository {
	return &savingsGoalRepository{db: db}
}

// Goals returns the owner's rows, newest first.
func (r *savingsGoalRepository) Goals(ctx context.Context, owner string) ([]*model.SavingsGoalRow, error) {
	rows := []*model.SavingsGoalRow{}
	query := `SELECT * FROM savings_goals WHERE user_address = $1 ORDER BY created_at_timestamp DESC`

	err := r.db.SelectContext(ctx, &rows, query, owner)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *savingsGoalRepository) Create(ctx context.Context, row *model.SavingsGoalRow) (*model.SavingsGoalRow, error) {
	query := `INSERT INTO savings_goals
	          (id, user_address, name, target_amount, current_amount, deadline, created_at, completed, created_at_timestamp)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING *`

	created := &model.SavingsGoalRow{}
	err := r.db.QueryRowxContext(ctx, query,
		row.ID,
		row.UserAddress,
		row.Name,
		row.TargetAmount,
		row.CurrentAmount,
		row.Deadline,
		row.CreatedAt,
		row.Completed,
		row.CreatedAtTimestamp,
	).StructScan(created)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateAmount writes newAmount only if the stored amount still equals prevAmount.
func (r *savingsGoalRepository) UpdateAmount(ctx context.Context, owner, id, prevAmount, newAmount string, completed bool) error {
	query := `UPDATE savings_goals
	          SET current_amount = $1, completed = $2
	          WHERE id = $3 AND user_address = $4 AND current_amount = $5`

	result, err := r.db.ExecContext(ctx, query, newAmount, completed, id, owner, prevAmount)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return r.missOrConflict(ctx, owner, id)
	}

	return nil
}

func (r *savingsGoalRepository) Delete(ctx context.Context, owner, id string) error {
	query := `DELETE FROM savings_goals WHERE id = $1 AND user_address = $2`
	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *savingsGoalRepository) missOrConflict(ctx context.Context, owner, id string) error {
	var exists int
	query := `SELECT 1 FROM savings_goals WHERE id = $1 AND user_address = $2`
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGoalNotFound
	}
	if err != nil {
		return err
	}
	return ErrGoalConflict
}
