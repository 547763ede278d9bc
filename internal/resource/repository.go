package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// Availability windows and allowed roles live in JSONB columns; they are
// always read and written as a whole with the resource row.

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	windows, roles, err := marshalPolicy(res)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.resources").
		Columns(
			"name", "type", "department", "department_restricted", "allowed_roles",
			"min_duration_minutes", "max_duration_minutes", "max_advance_days",
			"requires_approval", "availability_windows",
		).
		Values(
			res.Name, res.Type, res.Department, res.DepartmentRestricted, roles,
			res.MinDurationMinutes, res.MaxDurationMinutes, res.MaxAdvanceDays,
			res.RequiresApproval, windows,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(resourceColumns()...).
		From("public.resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(resourceColumns(), "count(*) OVER() as total_count")
	query := psql.Select(cols...).From("public.resources")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Department != "" {
		query = query.Where(squirrel.Eq{"department": filter.Department})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Keyword + "%"})
	}

	query = query.OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	var total int

	for rows.Next() {
		res, err := scanResourceRow(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	windows, roles, err := marshalPolicy(res)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.resources").
		Set("name", res.Name).
		Set("type", res.Type).
		Set("department", res.Department).
		Set("department_restricted", res.DepartmentRestricted).
		Set("allowed_roles", roles).
		Set("min_duration_minutes", res.MinDurationMinutes).
		Set("max_duration_minutes", res.MaxDurationMinutes).
		Set("max_advance_days", res.MaxAdvanceDays).
		Set("requires_approval", res.RequiresApproval).
		Set("availability_windows", windows).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update resource query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete resource query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func resourceColumns() []string {
	return []string{
		"id", "name", "type", "department", "department_restricted", "allowed_roles",
		"min_duration_minutes", "max_duration_minutes", "max_advance_days",
		"requires_approval", "availability_windows", "created_at", "updated_at",
	}
}

func marshalPolicy(res *Resource) (windows, roles []byte, err error) {
	windows, err = json.Marshal(res.AvailabilityWindows)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal availability windows failed: %w", err)
	}
	roles, err = json.Marshal(res.AllowedRoles)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal allowed roles failed: %w", err)
	}
	return windows, roles, nil
}

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	var windows, roles []byte
	if err := row.Scan(
		&res.ID, &res.Name, &res.Type, &res.Department, &res.DepartmentRestricted, &roles,
		&res.MinDurationMinutes, &res.MaxDurationMinutes, &res.MaxAdvanceDays,
		&res.RequiresApproval, &windows, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalPolicy(&res, windows, roles); err != nil {
		return nil, err
	}
	return &res, nil
}

func scanResourceRow(rows pgx.Rows, total *int) (*Resource, error) {
	var res Resource
	var windows, roles []byte
	if err := rows.Scan(
		&res.ID, &res.Name, &res.Type, &res.Department, &res.DepartmentRestricted, &roles,
		&res.MinDurationMinutes, &res.MaxDurationMinutes, &res.MaxAdvanceDays,
		&res.RequiresApproval, &windows, &res.CreatedAt, &res.UpdatedAt, total,
	); err != nil {
		return nil, fmt.Errorf("scan resource failed: %w", err)
	}
	if err := unmarshalPolicy(&res, windows, roles); err != nil {
		return nil, err
	}
	return &res, nil
}

func unmarshalPolicy(res *Resource, windows, roles []byte) error {
	if len(windows) > 0 {
		if err := json.Unmarshal(windows, &res.AvailabilityWindows); err != nil {
			return fmt.Errorf("unmarshal availability windows failed: %w", err)
		}
	}
	if len(roles) > 0 {
		if err := json.Unmarshal(roles, &res.AllowedRoles); err != nil {
			return fmt.Errorf("unmarshal allowed roles failed: %w", err)
		}
	}
	return nil
}
