package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ProjectRepo struct {
	db DBTX
}

func NewProjectRepo(db DBTX) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `id, profile_key, title, description, status, priority, category, created_at, completed_at`

func (r *ProjectRepo) Insert(ctx context.Context, p Project) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (profile_key, title, description, status, priority, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ProfileKey, p.Title, p.Description, p.Status, p.Priority, p.Category, FormatTime(p.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("project insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("project last insert id: %w", err)
	}
	return id, nil
}

func (r *ProjectRepo) Get(ctx context.Context, profileKey string, id int64) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE profile_key = ? AND id = ?`, profileKey, id)
	return scanProjectRow(row)
}

func (r *ProjectRepo) List(ctx context.Context, profileKey string) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE profile_key = ?
		ORDER BY priority DESC, id ASC
	`, profileKey)
	if err != nil {
		return nil, fmt.Errorf("project list: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("project rows: %w", err)
	}
	return out, nil
}

func (r *ProjectRepo) UpdateStatus(ctx context.Context, profileKey string, id int64, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET status = ? WHERE profile_key = ? AND id = ?`, status, profileKey, id)
	if err != nil {
		return fmt.Errorf("project update status: %w", err)
	}
	return nil
}

// MarkDone moves a project to done once; it reports whether this call did it.
func (r *ProjectRepo) MarkDone(ctx context.Context, profileKey string, id int64, completedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET status = 'done', completed_at = ?
		WHERE profile_key = ? AND id = ? AND status != 'done'
	`, FormatTime(completedAt), profileKey, id)
	if err != nil {
		return false, fmt.Errorf("project mark done: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("project mark done rows: %w", err)
	}
	return n == 1, nil
}

func (r *ProjectRepo) CountByStatus(ctx context.Context, profileKey, status string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE profile_key = ? AND status = ?`, profileKey, status)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("project count: %w", err)
	}
	return n, nil
}

func scanProjectRow(row scanner) (*Project, error) {
	var (
		p           Project
		createdAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(&p.ID, &p.ProfileKey, &p.Title, &p.Description, &p.Status, &p.Priority, &p.Category, &createdAt, &completedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("project scan: %w", err)
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("project scan: %w", err)
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("project scan: %w", err)
		}
		p.CompletedAt = &t
	}
	return &p, nil
}
