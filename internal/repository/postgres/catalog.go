package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mindshare/internal/domain/catalog"
	"mindshare/internal/metrics"
	"mindshare/pkg/errors"
)

// Compile-time check
var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository using sqlx
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new project catalog repository
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// projectRow mirrors the projects table; keywords need pq.StringArray
type projectRow struct {
	ID        uuid.UUID      `db:"id"`
	Name      string         `db:"name"`
	Handle    string         `db:"handle"`
	ShortName string         `db:"short_name"`
	Keywords  pq.StringArray `db:"keywords"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r projectRow) toDomain() catalog.Project {
	return catalog.Project{
		ID:        r.ID,
		Name:      r.Name,
		Handle:    r.Handle,
		ShortName: r.ShortName,
		Keywords:  []string(r.Keywords),
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new project
func (r *CatalogRepository) Create(ctx context.Context, project *catalog.Project) error {
	query := `
		INSERT INTO projects (
			id, name, handle, short_name, keywords, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Name, project.Handle, project.ShortName,
		pq.Array(project.Keywords), project.IsActive, project.CreatedAt, project.UpdatedAt,
	)
	metrics.RecordDBQuery("postgres", "insert_project", time.Since(start), err)

	if isUniqueViolation(err) {
		return errors.Wrapf(errors.ErrAlreadyExists, "project handle %s", project.Handle)
	}
	return err
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// Update updates an existing project
func (r *CatalogRepository) Update(ctx context.Context, project *catalog.Project) error {
	query := `
		UPDATE projects
		SET name = $2, handle = $3, short_name = $4, keywords = $5,
		    is_active = $6, updated_at = $7
		WHERE id = $1`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		project.ID, project.Name, project.Handle, project.ShortName,
		pq.Array(project.Keywords), project.IsActive, project.UpdatedAt,
	)
	metrics.RecordDBQuery("postgres", "update_project", time.Since(start), err)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(errors.ErrNotFound, "project %s", project.ID)
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Project, error) {
	var row projectRow

	query := `SELECT * FROM projects WHERE id = $1`

	start := time.Now()
	err := r.db.GetContext(ctx, &row, query, id)
	metrics.RecordDBQuery("postgres", "get_project", time.Since(start), err)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	if err != nil {
		return nil, err
	}

	project := row.toDomain()
	return &project, nil
}

// GetByHandle retrieves a project by social handle (case-insensitive)
func (r *CatalogRepository) GetByHandle(ctx context.Context, handle string) (*catalog.Project, error) {
	var row projectRow

	query := `SELECT * FROM projects WHERE lower(handle) = lower($1)`

	start := time.Now()
	err := r.db.GetContext(ctx, &row, query, handle)
	metrics.RecordDBQuery("postgres", "get_project_by_handle", time.Since(start), err)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "project handle %s", handle)
	}
	if err != nil {
		return nil, err
	}

	project := row.toDomain()
	return &project, nil
}

// GetActive retrieves active projects with a non-empty handle, ordered by
// creation time. This order is the canonical normalizer input order, so it
// must be stable across calls.
func (r *CatalogRepository) GetActive(ctx context.Context) ([]catalog.Project, error) {
	var rows []projectRow

	query := `
		SELECT * FROM projects
		WHERE is_active = true AND handle <> ''
		ORDER BY created_at ASC, id ASC`

	start := time.Now()
	err := r.db.SelectContext(ctx, &rows, query)
	metrics.RecordDBQuery("postgres", "get_active_projects", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	projects := make([]catalog.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.toDomain())
	}

	return projects, nil
}
