package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sheetveil/sheetveil/internal/config"
	"github.com/sheetveil/sheetveil/internal/engine"
)

// Sentinel errors surfaced by dataset and tool operations.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrToolNotFound    = errors.New("tool not found")
	ErrNotAuthorized   = errors.New("not authorized")
)

// classifySampleSize is how many leading values feed the classifier.
const classifySampleSize = 100

// ToolStore is the service's view of the external custom tool
// collaborator. Implementations live outside this package; the engine
// only ever reads tools through it.
type ToolStore interface {
	List(ctx context.Context, userID string) ([]engine.Tool, error)
	Get(ctx context.Context, id uuid.UUID) (engine.Tool, error)
	Create(ctx context.Context, tool engine.Tool) (engine.Tool, error)
	Update(ctx context.Context, tool engine.Tool, userID string) (engine.Tool, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// Service owns the live dataset sessions and mediates every read and
// edit. User interaction is strictly sequential per dataset; the single
// mutex is enough and keeps edit semantics simple.
type Service struct {
	cfg   *config.Config
	tools ToolStore

	limiter *IngestLimiter

	mu       sync.RWMutex
	datasets map[uuid.UUID]*Dataset
}

// NewService creates a Service backed by the given tool store.
func NewService(tools ToolStore, cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		tools:    tools,
		limiter:  NewIngestLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		datasets: make(map[uuid.UUID]*Dataset),
	}
}

// CreateDataset parses an uploaded file, classifies every column from a
// bounded sample, and registers the dataset. Columns start with
// anonymization off and the type's default method preselected.
func (s *Service) CreateDataset(ctx context.Context, name string, r io.Reader) (*Dataset, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	pf, err := ParseFile(name, r, s.cfg.Upload.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	ds := &Dataset{
		ID:         uuid.New(),
		Name:       pf.Name,
		Headers:    pf.Headers,
		Rows:       pf.Rows,
		TotalRows:  len(pf.Rows),
		CreatedAt:  time.Now(),
		lastAccess: time.Now(),
	}
	ds.Columns = make([]engine.Column, len(pf.Headers))
	for i, h := range pf.Headers {
		ds.Columns[i] = engine.NewColumn(h, ds.Sample(h, classifySampleSize))
	}

	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()

	slog.Info("dataset created",
		"dataset_id", ds.ID,
		"file", ds.Name,
		"columns", len(ds.Columns),
		"rows", ds.TotalRows,
	)
	return ds, nil
}

// GetDataset returns a registered dataset.
func (s *Service) GetDataset(id uuid.UUID) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	ds.lastAccess = time.Now()
	return ds, nil
}

// DeleteDataset drops a dataset session.
func (s *Service) DeleteDataset(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.datasets, id)
	return nil
}

// StartSweeper expires idle datasets until ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Dataset.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now().Add(-s.cfg.Dataset.TTL))
		}
	}
}

func (s *Service) sweep(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ds := range s.datasets {
		if ds.lastAccess.Before(cutoff) {
			delete(s.datasets, id)
			slog.Info("dataset expired", "dataset_id", id, "file", ds.Name)
		}
	}
}

// column locates a dataset column under the service lock.
func (s *Service) column(id uuid.UUID, name string) (*Dataset, *engine.Column, error) {
	ds, ok := s.datasets[id]
	if !ok {
		return nil, nil, ErrDatasetNotFound
	}
	col := ds.Column(name)
	if col == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	ds.lastAccess = time.Now()
	return ds, col, nil
}

// ToggleColumn flips a column's anonymization switch. Turning it on
// resets the method to the type's default so a stale selection from a
// previous type never sticks.
func (s *Service) ToggleColumn(id uuid.UUID, name string) (engine.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, col, err := s.column(id, name)
	if err != nil {
		return engine.Column{}, err
	}
	col.ShouldAnonymize = !col.ShouldAnonymize
	if col.ShouldAnonymize && col.ToolID == nil {
		col.Method = engine.DefaultMethod(col.Type)
	}
	return *col, nil
}

// SetColumnAnonymize sets the switch to an explicit state with the same
// reset rule as ToggleColumn.
func (s *Service) SetColumnAnonymize(id uuid.UUID, name string, on bool) (engine.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, col, err := s.column(id, name)
	if err != nil {
		return engine.Column{}, err
	}
	if on && !col.ShouldAnonymize && col.ToolID == nil {
		col.Method = engine.DefaultMethod(col.Type)
	}
	col.ShouldAnonymize = on
	return *col, nil
}

// SetColumnMethod selects the anonymization method for a column. For a
// tool-bound column only the generic mask and the tool's own method are
// accepted; otherwise the method must exist in the type's catalog list or
// be the universal mask.
func (s *Service) SetColumnMethod(ctx context.Context, id uuid.UUID, name, method string) (engine.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, col, err := s.column(id, name)
	if err != nil {
		return engine.Column{}, err
	}

	if col.ToolID != nil {
		tool, err := s.tools.Get(ctx, *col.ToolID)
		if err != nil {
			return engine.Column{}, fmt.Errorf("resolve bound tool: %w", err)
		}
		if method != engine.MethodMask && method != tool.Method {
			return engine.Column{}, fmt.Errorf("unknown method %q for bound tool %q", method, tool.Name)
		}
		col.Method = method
		return *col, nil
	}

	if method != engine.MethodMask {
		if _, ok := methodInCatalog(col.Type, method); !ok {
			return engine.Column{}, fmt.Errorf("unknown method %q for type %q", method, col.Type)
		}
	}
	col.Method = method
	return *col, nil
}

func methodInCatalog(t engine.Type, name string) (engine.Transform, bool) {
	for _, tr := range engine.MethodsFor(t) {
		if tr.Name == name {
			return tr, true
		}
	}
	return engine.Transform{}, false
}

// SetColumnType overrides the inferred semantic type. The method resets
// to the new type's default and any tool binding is cleared.
func (s *Service) SetColumnType(id uuid.UUID, name, typeName string) (engine.Column, error) {
	t, err := engine.ParseType(typeName)
	if err != nil {
		return engine.Column{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, col, err := s.column(id, name)
	if err != nil {
		return engine.Column{}, err
	}
	col.SetType(t)
	return *col, nil
}

// BindTool ties a column to a custom tool the user can see (their own or
// a public one).
func (s *Service) BindTool(ctx context.Context, id uuid.UUID, name string, toolID uuid.UUID, userID string) (engine.Column, error) {
	tool, err := s.tools.Get(ctx, toolID)
	if err != nil {
		return engine.Column{}, err
	}
	if !tool.IsPublic && tool.UserID != userID {
		return engine.Column{}, ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, col, err := s.column(id, name)
	if err != nil {
		return engine.Column{}, err
	}
	col.BindTool(tool)
	return *col, nil
}

// UnbindTool removes a tool binding and reclassifies the column from its
// sample, keeping the anonymization switch as it was.
func (s *Service) UnbindTool(id uuid.UUID, name string) (engine.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, col, err := s.column(id, name)
	if err != nil {
		return engine.Column{}, err
	}
	fresh := engine.NewColumn(name, ds.Sample(name, classifySampleSize))
	fresh.ShouldAnonymize = col.ShouldAnonymize
	*col = fresh
	return *col, nil
}

// ToolsFor resolves the tools bound by a dataset's columns. Bindings that
// no longer resolve map to a missing entry; the dispatcher degrades those
// to its sentinel rather than failing the whole preview or export.
func (s *Service) ToolsFor(ctx context.Context, ds *Dataset) map[uuid.UUID]*engine.Tool {
	tools := make(map[uuid.UUID]*engine.Tool)
	for _, col := range ds.Columns {
		if col.ToolID == nil {
			continue
		}
		if _, seen := tools[*col.ToolID]; seen {
			continue
		}
		tool, err := s.tools.Get(ctx, *col.ToolID)
		if err != nil {
			slog.Warn("bound tool unavailable", "tool_id", *col.ToolID, "error", err)
			tools[*col.ToolID] = nil
			continue
		}
		tools[*col.ToolID] = &tool
	}
	return tools
}

// PreviewDataset anonymizes the first n rows for display. n falls back to
// the configured default and is capped by the dataset size.
func (s *Service) PreviewDataset(ctx context.Context, id uuid.UUID, n int) (*Preview, error) {
	ds, err := s.GetDataset(id)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.cfg.Dataset.PreviewRows
	}
	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}

	tools := s.ToolsFor(ctx, ds)
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		rows[i] = AnonymizeRow(ds.Rows[i], ds.Columns, tools)
	}

	return &Preview{Columns: ds.Columns, Rows: rows, TotalRows: ds.TotalRows}, nil
}

// AnonymizeRow derives the anonymized form of one row. The input row is
// never modified.
func AnonymizeRow(row Row, columns []engine.Column, tools map[uuid.UUID]*engine.Tool) Row {
	out := make(Row, len(columns))
	for _, col := range columns {
		var tool *engine.Tool
		if col.ToolID != nil {
			tool = tools[*col.ToolID]
		}
		out[col.Name] = engine.Anonymize(row[col.Name], col, tool)
	}
	return out
}

// AvailableMethods lists the selectable methods for a semantic type: the
// built-in catalog followed by the user's visible custom tools of that
// type.
func (s *Service) AvailableMethods(ctx context.Context, typeName, userID string) ([]MethodInfo, error) {
	t, err := engine.ParseType(typeName)
	if err != nil {
		return nil, err
	}

	var out []MethodInfo
	for _, tr := range engine.MethodsFor(t) {
		out = append(out, MethodInfo{Name: tr.Name, Description: tr.Description})
	}

	tools, err := s.tools.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list custom tools: %w", err)
	}
	for _, tool := range tools {
		if tool.Type != t {
			continue
		}
		id := tool.ID
		out = append(out, MethodInfo{
			Name:        tool.Method,
			Description: tool.Description,
			IsCustom:    true,
			ToolID:      &id,
		})
	}
	return out, nil
}

// Tools exposes the tool store for the web layer's CRUD surface.
func (s *Service) Tools() ToolStore { return s.tools }

// IngestStatus reports limiter occupancy for shutdown coordination.
func (s *Service) IngestStatus() int { return s.limiter.Active() }
