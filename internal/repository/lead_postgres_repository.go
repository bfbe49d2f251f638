package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/query"
)

const uniqueViolation = "23505"

const leadColumns = `id, name, email, phone, company, stage, status, notes, created_at`

type postgresLeadRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLeadRepository instantiates a repository over the leads table.
func NewPostgresLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &postgresLeadRepository{pool: pool}
}

func (r *postgresLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const q = `
        INSERT INTO leads (name, email, phone, company, stage, status, notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	err := r.pool.QueryRow(ctx, q,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.Stage,
		lead.Status,
		lead.Notes,
		lead.CreatedAt,
	).Scan(&lead.ID)
	return mapPgError(err)
}

func (r *postgresLeadRepository) InsertMany(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	for i := range leads {
		leads[i].ID = uuid.NewString()
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"leads"},
		[]string{"id", "name", "email", "phone", "company", "stage", "status", "notes", "created_at"},
		pgx.CopyFromSlice(len(leads), func(i int) ([]any, error) {
			l := leads[i]
			return []any{l.ID, l.Name, l.Email, l.Phone, l.Company, string(l.Stage), string(l.Status), l.Notes, l.CreatedAt}, nil
		}),
	)
	return mapPgError(err)
}

func (r *postgresLeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id=$1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *postgresLeadRepository) List(ctx context.Context, q query.Query) ([]domain.Lead, error) {
	where, args := pgWhere(q.Filter)
	stmt := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		leadColumns, where, pgOrderBy(q.Sort), q.Page.Limit, q.Page.Skip())

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *postgresLeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	where, args := pgWhere(filter)
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *postgresLeadRepository) CountByStage(ctx context.Context, filter query.Filter) ([]domain.StageCount, error) {
	result := []domain.StageCount{}
	err := r.countBy(ctx, filter, "stage", func(key string, count int64) {
		result = append(result, domain.StageCount{Stage: domain.LeadStage(key), Count: count})
	})
	return result, err
}

func (r *postgresLeadRepository) CountByStatus(ctx context.Context, filter query.Filter) ([]domain.StatusCount, error) {
	result := []domain.StatusCount{}
	err := r.countBy(ctx, filter, "status", func(key string, count int64) {
		result = append(result, domain.StatusCount{Status: domain.LeadStatus(key), Count: count})
	})
	return result, err
}

// countBy groups on a fixed column name; column is never caller input.
func (r *postgresLeadRepository) countBy(ctx context.Context, filter query.Filter, column string, emit func(string, int64)) error {
	where, args := pgWhere(filter)
	stmt := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM leads WHERE %[2]s GROUP BY %[1]s ORDER BY %[1]s COLLATE "C" ASC`, column, where)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		emit(key, count)
	}
	return rows.Err()
}

func pgWhere(f query.Filter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(name ILIKE %[1]s OR email ILIKE %[1]s OR company ILIKE %[1]s)", p))
	}
	if f.Stage != nil {
		args = append(args, string(*f.Stage))
		clauses = append(clauses, fmt.Sprintf("stage=$%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func pgOrderBy(s query.Sort) string {
	column := "created_at"
	if s.Field == query.SortByName {
		// byte order, matching the mongo and memory stores
		column = `name COLLATE "C"`
	}
	dir := "DESC"
	if s.Order == query.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, seq ASC", column, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Company,
		&lead.Stage,
		&lead.Status,
		&lead.Notes,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
