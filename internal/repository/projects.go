package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func (r *Repository) GetProjectByID(id int64) (*domain.Project, error) {
	query := `
		SELECT company_id, name, is_active, created_at, version
		FROM projects WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	project := &domain.Project{
		ID: id,
	}

	dst := []any{&project.CompanyID, &project.Name, &project.IsActive, &project.CreatedAt, &project.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return project, nil
}

func (r *Repository) GetProjectsByCompanyID(companyID int64) ([]*domain.Project, error) {
	query := `
		SELECT id, name, is_active, created_at, version
		FROM projects WHERE company_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project := &domain.Project{
			CompanyID: companyID,
		}
		dst := []any{&project.ID, &project.Name, &project.IsActive, &project.CreatedAt, &project.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *Repository) CreateProject(project *domain.Project) error {
	query := `
		INSERT INTO projects (company_id, name)
		VALUES ($1, $2)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, project.CompanyID, project.Name).Scan(&project.ID, &project.IsActive, &project.CreatedAt, &project.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateProject(project *domain.Project) error {
	query := `
		UPDATE projects
		SET
			name = $1,
			is_active = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{project.Name, project.IsActive, project.ID, project.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&project.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteProject(id int64) error {
	query := `
		DELETE FROM projects WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
