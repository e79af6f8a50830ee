package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func (r *Repository) GetCompanyByID(id int64) (*domain.Company, error) {
	query := `
		SELECT name, apply_assigned_schedule, created_at, version
		FROM companies WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	company := &domain.Company{
		ID: id,
	}

	dst := []any{&company.Name, &company.ApplyAssignedSchedule, &company.CreatedAt, &company.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return company, nil
}

func (r *Repository) GetCompanyByName(name string) (*domain.Company, error) {
	query := `
		SELECT id, apply_assigned_schedule, created_at, version
		FROM companies WHERE name = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	company := &domain.Company{
		Name: name,
	}

	dst := []any{&company.ID, &company.ApplyAssignedSchedule, &company.CreatedAt, &company.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	return company, nil
}

func (r *Repository) GetAllCompanies() ([]*domain.Company, error) {
	query := `
		SELECT id, name, apply_assigned_schedule, created_at, version FROM companies
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]*domain.Company, 0)
	for rows.Next() {
		company := &domain.Company{}
		dst := []any{&company.ID, &company.Name, &company.ApplyAssignedSchedule, &company.CreatedAt, &company.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *Repository) CreateCompany(company *domain.Company) error {
	query := `
		INSERT INTO companies (name, apply_assigned_schedule)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, company.Name, company.ApplyAssignedSchedule).Scan(&company.ID, &company.CreatedAt, &company.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateCompany(company *domain.Company) error {
	query := `
		UPDATE companies
		SET
			name = $1,
			apply_assigned_schedule = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{company.Name, company.ApplyAssignedSchedule, company.ID, company.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&company.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteCompany(id int64) error {
	query := `
		DELETE FROM companies WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
