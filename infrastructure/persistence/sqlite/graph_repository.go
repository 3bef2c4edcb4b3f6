package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"graphedit/application/ports"
	"graphedit/domain/core/aggregates"
	"graphedit/infrastructure/persistence/graphfile"
	pkgerrors "graphedit/pkg/errors"
	"graphedit/pkg/utils"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	snapshotTable = "graph_snapshots"
	versionTable  = "schema_version"
)

// GraphRepository stores graph snapshots in SQLite. Every Save adds a
// snapshot row holding the text document; Load returns the newest one.
type GraphRepository struct {
	db     *sql.DB
	reader *graphfile.Reader
	writer *graphfile.Writer
	logger *zap.Logger
}

// Snapshot describes one stored version of a graph
type Snapshot struct {
	ID        string
	Name      string
	GraphID   string
	Nodes     int
	Edges     int
	Size      int64
	CreatedAt time.Time
}

// Open opens (or creates) the database at dsn and brings its schema up to date
func Open(ctx context.Context, dsn string, reader *graphfile.Reader, writer *graphfile.Writer, logger *zap.Logger) (*GraphRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("open", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := migrations().Migrate(ctx, db, schemaVersion); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("snapshot store opened", zap.String("dsn", dsn))
	return &GraphRepository{db: db, reader: reader, writer: writer, logger: logger}, nil
}

// Close releases the database
func (r *GraphRepository) Close() error {
	return r.db.Close()
}

// Save stores a new snapshot of the graph under name
func (r *GraphRepository) Save(ctx context.Context, name string, g *aggregates.Graph) error {
	if name == "" {
		return pkgerrors.NewValidationError("snapshot name cannot be empty")
	}
	doc, err := r.writer.Marshal(g)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s
		(id, name, graph_id, document, nodes, edges, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, snapshotTable),
		id, name, g.ID().String(), string(doc), g.NodeCount(), g.EdgeCount(), len(doc), utils.Timestamp(time.Now()))
	if err != nil {
		return pkgerrors.NewDatabaseError("insert snapshot", err)
	}

	r.logger.Info("snapshot saved",
		zap.String("name", name),
		zap.String("snapshot_id", id),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
	return nil
}

// Load decodes the newest snapshot stored under name
func (r *GraphRepository) Load(ctx context.Context, name string) (*aggregates.Graph, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, document FROM %s WHERE name = ? ORDER BY seq DESC LIMIT 1`, snapshotTable), name)
	return r.decode(row, name)
}

// LoadSnapshot decodes one snapshot by id
func (r *GraphRepository) LoadSnapshot(ctx context.Context, id string) (*aggregates.Graph, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT name, document FROM %s WHERE id = ?`, snapshotTable), id)
	var name, doc string
	if err := row.Scan(&name, &doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, pkgerrors.NewNotFoundError("snapshot " + id)
		}
		return nil, pkgerrors.NewDatabaseError("load snapshot", err)
	}
	return r.reader.Read(bytes.NewReader([]byte(doc)), name)
}

func (r *GraphRepository) decode(row *sql.Row, name string) (*aggregates.Graph, error) {
	var id, doc string
	if err := row.Scan(&id, &doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, pkgerrors.NewNotFoundError("snapshot " + name)
		}
		return nil, pkgerrors.NewDatabaseError("load snapshot", err)
	}
	r.logger.Debug("snapshot loaded", zap.String("name", name), zap.String("snapshot_id", id))
	return r.reader.Read(bytes.NewReader([]byte(doc)), name)
}

// List summarizes the newest snapshot of every name
func (r *GraphRepository) List(ctx context.Context) ([]ports.GraphSummary, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT s.id, s.name, s.nodes, s.edges, s.size, s.created_at
		FROM %[1]s s
		JOIN (SELECT name, MAX(seq) AS seq FROM %[1]s GROUP BY name) latest
		  ON latest.name = s.name AND latest.seq = s.seq
		ORDER BY s.name`, snapshotTable))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list snapshots", err)
	}
	defer rows.Close()

	var summaries []ports.GraphSummary
	for rows.Next() {
		var s ports.GraphSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Nodes, &s.Edges, &s.Size, &createdAt); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan snapshot", err)
		}
		s.UpdatedAt, _ = utils.ParseTimestamp(createdAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list snapshots", err)
	}
	return summaries, nil
}

// History lists every snapshot stored under name, newest first
func (r *GraphRepository) History(ctx context.Context, name string) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name, graph_id, nodes, edges, size, created_at
		FROM %s WHERE name = ? ORDER BY seq DESC`, snapshotTable), name)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list snapshot history", err)
	}
	defer rows.Close()

	var history []Snapshot
	for rows.Next() {
		var (
			s         Snapshot
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.GraphID, &s.Nodes, &s.Edges, &s.Size, &createdAt); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan snapshot", err)
		}
		s.CreatedAt, _ = utils.ParseTimestamp(createdAt)
		history = append(history, s)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list snapshot history", err)
	}
	return history, nil
}

// Delete removes every snapshot stored under name
func (r *GraphRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, snapshotTable), name)
	if err != nil {
		return pkgerrors.NewDatabaseError("delete snapshots", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.NewDatabaseError("delete snapshots", err)
	}
	if n == 0 {
		return pkgerrors.NewNotFoundError("snapshot " + name)
	}
	r.logger.Info("snapshots deleted", zap.String("name", name), zap.Int64("count", n))
	return nil
}

var _ ports.GraphRepository = (*GraphRepository)(nil)
