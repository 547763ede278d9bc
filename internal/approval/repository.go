package approval

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
	Create(ctx context.Context, rule *Rule) error
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context, filter Filter) ([]*Rule, int, error)

	// ListActive returns active rules scoped to the given department plus
	// global rules, sorted ascending by priority. This is the evaluator's
	// read path.
	ListActive(ctx context.Context, department string) ([]*Rule, error)

	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

type ruleConditions struct {
	ResourceTypes      []string `json:"resource_types,omitempty"`
	Roles              []string `json:"roles,omitempty"`
	Purposes           []string `json:"purposes,omitempty"`
	MinDurationMinutes int      `json:"min_duration_minutes,omitempty"`
	MaxDurationMinutes int      `json:"max_duration_minutes,omitempty"`
	TimeOfDayStart     string   `json:"time_of_day_start,omitempty"`
	TimeOfDayEnd       string   `json:"time_of_day_end,omitempty"`
	DaysOfWeek         []int    `json:"days_of_week,omitempty"`
	RequireDeptMatch   bool     `json:"require_dept_match,omitempty"`
	MaxAdvanceDays     int      `json:"max_advance_days,omitempty"`
}

func conditionsOf(r *Rule) ruleConditions {
	return ruleConditions{
		ResourceTypes:      r.ResourceTypes,
		Roles:              r.Roles,
		Purposes:           r.Purposes,
		MinDurationMinutes: r.MinDurationMinutes,
		MaxDurationMinutes: r.MaxDurationMinutes,
		TimeOfDayStart:     r.TimeOfDayStart,
		TimeOfDayEnd:       r.TimeOfDayEnd,
		DaysOfWeek:         r.DaysOfWeek,
		RequireDeptMatch:   r.RequireDeptMatch,
		MaxAdvanceDays:     r.MaxAdvanceDays,
	}
}

func (c ruleConditions) applyTo(r *Rule) {
	r.ResourceTypes = c.ResourceTypes
	r.Roles = c.Roles
	r.Purposes = c.Purposes
	r.MinDurationMinutes = c.MinDurationMinutes
	r.MaxDurationMinutes = c.MaxDurationMinutes
	r.TimeOfDayStart = c.TimeOfDayStart
	r.TimeOfDayEnd = c.TimeOfDayEnd
	r.DaysOfWeek = c.DaysOfWeek
	r.RequireDeptMatch = c.RequireDeptMatch
	r.MaxAdvanceDays = c.MaxAdvanceDays
}

func (r *pgxRepository) Create(ctx context.Context, rule *Rule) error {
	conditions, err := json.Marshal(conditionsOf(rule))
	if err != nil {
		return fmt.Errorf("marshal rule conditions failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.approval_rules").
		Columns("name", "priority", "active", "conditions", "auto_approve", "department").
		Values(rule.Name, rule.Priority, rule.Active, conditions, rule.AutoApprove, rule.Department).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rule query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "priority", "active", "conditions", "auto_approve", "department", "created_at", "updated_at").
		From("public.approval_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rule query failed: %w", err)
	}

	rule, err := scanRule(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rule failed: %w", err)
	}
	return rule, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "priority", "active", "conditions", "auto_approve", "department", "created_at", "updated_at", "count(*) OVER() as total_count").
		From("public.approval_rules")

	if filter.Department != "" {
		query = query.Where(squirrel.Eq{"department": filter.Department})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}

	query = query.OrderBy("priority ASC")

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
		return nil, 0, fmt.Errorf("build list rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rules failed: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	var total int

	for rows.Next() {
		var rule Rule
		var conditions []byte
		if err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Priority, &rule.Active, &conditions,
			&rule.AutoApprove, &rule.Department, &rule.CreatedAt, &rule.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan rule failed: %w", err)
		}
		if err := applyConditions(&rule, conditions); err != nil {
			return nil, 0, err
		}
		rules = append(rules, &rule)
	}

	return rules, total, nil
}

func (r *pgxRepository) ListActive(ctx context.Context, department string) ([]*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "priority", "active", "conditions", "auto_approve", "department", "created_at", "updated_at").
		From("public.approval_rules").
		Where(squirrel.Eq{"active": true})

	if department != "" {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"department": department},
			squirrel.Eq{"department": ""},
		})
	} else {
		query = query.Where(squirrel.Eq{"department": ""})
	}

	query = query.OrderBy("priority ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list active rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list active rules failed: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		var rule Rule
		var conditions []byte
		if err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Priority, &rule.Active, &conditions,
			&rule.AutoApprove, &rule.Department, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rule failed: %w", err)
		}
		if err := applyConditions(&rule, conditions); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}

	return rules, nil
}

func (r *pgxRepository) Update(ctx context.Context, rule *Rule) error {
	conditions, err := json.Marshal(conditionsOf(rule))
	if err != nil {
		return fmt.Errorf("marshal rule conditions failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.approval_rules").
		Set("name", rule.Name).
		Set("priority", rule.Priority).
		Set("active", rule.Active).
		Set("conditions", conditions).
		Set("auto_approve", rule.AutoApprove).
		Set("department", rule.Department).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rule.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.approval_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRule(row pgx.Row) (*Rule, error) {
	var rule Rule
	var conditions []byte
	if err := row.Scan(
		&rule.ID, &rule.Name, &rule.Priority, &rule.Active, &conditions,
		&rule.AutoApprove, &rule.Department, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := applyConditions(&rule, conditions); err != nil {
		return nil, err
	}
	return &rule, nil
}

func applyConditions(rule *Rule, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var c ruleConditions
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("unmarshal rule conditions failed: %w", err)
	}
	c.applyTo(rule)
	return nil
}
