package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const internshipColumns = `key, source, company, title, location, apply_url, description,
	posted_at, deadline, remote, modality, field_tag, external_id,
	salary_min, salary_max, government, tags, relevance_score,
	is_active, first_seen_at, last_seen_at, last_checked_at, created_at`

// InternshipRepository handles database operations for internships.
type InternshipRepository struct {
	db  *sqlx.DB
	log logger.Interface
}

// NewInternshipRepository creates a new internship repository.
func NewInternshipRepository(db *sqlx.DB, log logger.Interface) *InternshipRepository {
	return &InternshipRepository{db: db, log: log.WithComponent("internship_repository")}
}

const upsertQuery = `
	INSERT INTO internships (
		key, source, company, title, location, apply_url, description,
		posted_at, deadline, remote, modality, field_tag, external_id,
		salary_min, salary_max, government, tags, relevance_score,
		is_active, first_seen_at, last_seen_at, last_checked_at
	) VALUES (
		:key, :source, :company, :title, :location, :apply_url, :description,
		:posted_at, :deadline, :remote, :modality, :field_tag, :external_id,
		:salary_min, :salary_max, :government, :tags, :relevance_score,
		:is_active, :first_seen_at, :last_seen_at, :last_checked_at
	)
	ON CONFLICT (key) DO UPDATE SET
		source = EXCLUDED.source,
		location = EXCLUDED.location,
		description = EXCLUDED.description,
		posted_at = COALESCE(EXCLUDED.posted_at, internships.posted_at),
		deadline = COALESCE(EXCLUDED.deadline, internships.deadline),
		remote = EXCLUDED.remote,
		modality = EXCLUDED.modality,
		field_tag = EXCLUDED.field_tag,
		salary_min = COALESCE(EXCLUDED.salary_min, internships.salary_min),
		salary_max = COALESCE(EXCLUDED.salary_max, internships.salary_max),
		tags = COALESCE(EXCLUDED.tags, internships.tags),
		relevance_score = EXCLUDED.relevance_score,
		is_active = TRUE,
		last_seen_at = EXCLUDED.last_seen_at,
		last_checked_at = EXCLUDED.last_checked_at
`

// UpsertBatch inserts or refreshes rows one at a time. A failing row is
// logged and skipped so one malformed posting cannot sink a batch. Returns
// the number of rows written.
func (r *InternshipRepository) UpsertBatch(ctx context.Context, rows []domain.Internship) (int, error) {
	written := 0
	for i := range rows {
		if _, err := r.db.NamedExecContext(ctx, upsertQuery, &rows[i]); err != nil {
			r.log.Error("Upsert failed",
				"key", rows[i].Key, "source", rows[i].Source, "error", err)
			continue
		}
		written++
	}
	if written == 0 && len(rows) > 0 {
		return 0, fmt.Errorf("all %d upserts failed", len(rows))
	}
	return written, nil
}

// GetByKey retrieves one internship by its identity key.
func (r *InternshipRepository) GetByKey(ctx context.Context, key string) (*domain.Internship, error) {
	var row domain.Internship
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE key = $1`

	err := r.db.GetContext(ctx, &row, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	return &row, nil
}

// Filter narrows Search results. Zero values mean no constraint.
type Filter struct {
	Query       string
	Source      string
	FieldTag    string
	Modality    string
	Location    string
	RemoteOnly  bool
	Government  *bool
	ActiveOnly  bool
	MinScore    float64
	MinSalary   float64
	PostedAfter *time.Time
	Sort        string // "relevance" (default), "posted", "salary"
	Limit       int
	Offset      int
}

// orderClauses maps Filter.Sort values to their ORDER BY expression.
var orderClauses = map[string]string{
	"relevance": ` ORDER BY relevance_score DESC, posted_at DESC NULLS LAST`,
	"posted":    ` ORDER BY posted_at DESC NULLS LAST, relevance_score DESC`,
	"salary":    ` ORDER BY salary_max DESC NULLS LAST, relevance_score DESC`,
}

// Search lists internships matching the filter, ordered by relevance score
// then recency unless the filter picks another sort. It also returns the
// total match count for pagination.
func (r *InternshipRepository) Search(ctx context.Context, f Filter) ([]domain.Internship, int, error) {
	where, args := buildWhere(f)

	countQuery := `SELECT COUNT(*) FROM internships` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count internships: %w", err)
	}

	order, ok := orderClauses[f.Sort]
	if !ok {
		order = orderClauses["relevance"]
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + internshipColumns + ` FROM internships` + where + order +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	var rows []domain.Internship
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search internships: %w", err)
	}
	if rows == nil {
		rows = []domain.Internship{}
	}
	return rows, total, nil
}

func buildWhere(f Filter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Query != "" {
		add(`(title ILIKE $%d OR company ILIKE $%[1]d OR description ILIKE $%[1]d)`, "%"+f.Query+"%")
	}
	if f.Source != "" {
		add(`source = $%d`, f.Source)
	}
	if f.FieldTag != "" {
		add(`field_tag = $%d`, f.FieldTag)
	}
	if f.Modality != "" {
		add(`modality = $%d`, f.Modality)
	}
	if f.Location != "" {
		add(`location ILIKE $%d`, "%"+f.Location+"%")
	}
	if f.RemoteOnly {
		clauses = append(clauses, `remote = TRUE`)
	}
	if f.Government != nil {
		add(`government = $%d`, *f.Government)
	}
	if f.ActiveOnly {
		clauses = append(clauses, `is_active = TRUE`)
	}
	if f.MinScore > 0 {
		add(`relevance_score >= $%d`, f.MinScore)
	}
	if f.MinSalary > 0 {
		add(`salary_max >= $%d`, f.MinSalary)
	}
	if f.PostedAfter != nil {
		add(`posted_at >= $%d`, *f.PostedAfter)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListActive returns active rows ordered by relevance for ranking and
// export. limit <= 0 returns everything.
func (r *InternshipRepository) ListActive(ctx context.Context, limit int) ([]domain.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships
		WHERE is_active = TRUE
		ORDER BY relevance_score DESC, posted_at DESC NULLS LAST`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []domain.Internship
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	if rows == nil {
		rows = []domain.Internship{}
	}
	return rows, nil
}

// MarkInactive retires rows not seen since the cutoff, plus rows whose
// application deadline has passed, and returns how many were retired.
func (r *InternshipRepository) MarkInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE internships SET is_active = FALSE
		WHERE is_active = TRUE AND (last_seen_at < $1 OR deadline < NOW())`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark internships inactive: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// SourceCounts returns active row counts grouped by source.
func (r *InternshipRepository) SourceCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM internships WHERE is_active = TRUE GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts[source] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source counts: %w", err)
	}
	return counts, nil
}
