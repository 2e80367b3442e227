// Package store persists custom anonymization tools in PostgreSQL.
// Tools are the only durable state in the application; datasets live in
// memory and expire with their session.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sheetveil/sheetveil/internal/core"
	"github.com/sheetveil/sheetveil/internal/engine"
)

// schema creates the tool table on startup. CREATE TABLE IF NOT EXISTS
// keeps restarts idempotent without a migration tool.
const schema = `
CREATE TABLE IF NOT EXISTS anonymization_tools (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	column_type TEXT NOT NULL,
	method TEXT NOT NULL,
	pattern TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	is_public BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_anonymization_tools_user ON anonymization_tools (user_id);
`

// Tools is the PostgreSQL-backed tool store.
type Tools struct {
	pool *pgxpool.Pool
}

// New creates a tool store on the given pool.
func New(pool *pgxpool.Pool) *Tools {
	return &Tools{pool: pool}
}

// EnsureSchema creates the tool table if it does not exist.
func (s *Tools) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure tool schema: %w", err)
	}
	return nil
}

const toolColumns = "id, name, description, column_type, method, pattern, user_id, is_public, created_at"

// Create validates and inserts a tool. The tool's pattern must compile;
// its type is forced to the tool-driven sentinel so bindings stay
// consistent.
func (s *Tools) Create(ctx context.Context, tool engine.Tool) (engine.Tool, error) {
	if err := validate(&tool); err != nil {
		return engine.Tool{}, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO anonymization_tools (name, description, column_type, method, pattern, user_id, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+toolColumns,
		tool.Name, tool.Description, string(tool.Type), tool.Method, tool.Regexp, tool.UserID, tool.IsPublic,
	)
	return scanTool(row)
}

// Get returns a tool by id.
func (s *Tools) Get(ctx context.Context, id uuid.UUID) (engine.Tool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+toolColumns+` FROM anonymization_tools WHERE id = $1`, id)
	tool, err := scanTool(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.Tool{}, core.ErrToolNotFound
	}
	return tool, err
}

// List returns the tools visible to a user: their own plus public ones,
// newest first.
func (s *Tools) List(ctx context.Context, userID string) ([]engine.Tool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+toolColumns+` FROM anonymization_tools
		 WHERE user_id = $1 OR is_public
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	tools := make([]engine.Tool, 0)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, rows.Err()
}

// Update rewrites a tool's mutable fields. Only the owner may update;
// public tools are readable by everyone but stay owner-writable.
func (s *Tools) Update(ctx context.Context, tool engine.Tool, userID string) (engine.Tool, error) {
	if err := validate(&tool); err != nil {
		return engine.Tool{}, err
	}
	if err := s.authorize(ctx, tool.ID, userID); err != nil {
		return engine.Tool{}, err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE anonymization_tools
		 SET name = $1, description = $2, method = $3, pattern = $4, is_public = $5
		 WHERE id = $6
		 RETURNING `+toolColumns,
		tool.Name, tool.Description, tool.Method, tool.Regexp, tool.IsPublic, tool.ID,
	)
	updated, err := scanTool(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.Tool{}, core.ErrToolNotFound
	}
	return updated, err
}

// Delete removes a tool. Only the owner may delete.
func (s *Tools) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM anonymization_tools WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	return nil
}

// authorize checks that the tool exists and belongs to userID.
func (s *Tools) authorize(ctx context.Context, id uuid.UUID, userID string) error {
	var owner string
	err := s.pool.QueryRow(ctx,
		`SELECT user_id FROM anonymization_tools WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrToolNotFound
	}
	if err != nil {
		return fmt.Errorf("look up tool owner: %w", err)
	}
	if owner != userID {
		return core.ErrNotAuthorized
	}
	return nil
}

// validate normalizes a tool before writing it.
func validate(tool *engine.Tool) error {
	if tool.Name == "" {
		return errors.New("tool name is required")
	}
	if tool.Method == "" {
		return errors.New("tool method is required")
	}
	if tool.UserID == "" {
		return errors.New("tool owner is required")
	}
	if err := tool.ValidatePattern(); err != nil {
		return err
	}
	tool.Type = engine.TypeSpecific
	return nil
}

// scanTool reads one tool from a row or rows cursor.
func scanTool(row pgx.Row) (engine.Tool, error) {
	var (
		tool     engine.Tool
		toolType string
	)
	err := row.Scan(
		&tool.ID,
		&tool.Name,
		&tool.Description,
		&toolType,
		&tool.Method,
		&tool.Regexp,
		&tool.UserID,
		&tool.IsPublic,
		&tool.CreatedAt,
	)
	if err != nil {
		return engine.Tool{}, err
	}
	tool.Type = engine.Type(toolType)
	return tool, nil
}
