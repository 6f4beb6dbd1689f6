// Package mongodb provides the MongoDB driver, executing compiled document
// operations through the official client. Placeholder variables resolve by
// passing the bindings as aggregation let variables.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	dialect "github.com/TankHQ/tank/pkg/dialects/mongodb"
	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
)

// Server error codes treated as already-satisfied DDL.
const (
	codeNamespaceExists   = 48
	codeNamespaceNotFound = 26
)

// Driver executes document operations against MongoDB.
type Driver struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    driver.Config
	logger *slog.Logger
	writer *dialect.Writer
}

var _ driver.Driver = (*Driver)(nil)

// New creates a MongoDB driver. A nil logger selects a discard logger.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		logger: logger,
		writer: dialect.New(logger),
	}
}

// Connect establishes a connection to MongoDB. The database defaults to
// "test" when the config names none.
func (d *Driver) Connect(ctx context.Context, cfg driver.Config) error {
	uri := buildURI(cfg)

	d.logger.Debug("connecting to mongodb", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to open mongodb connection: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "test"
	}

	d.client = client
	d.db = client.Database(database)
	d.cfg = cfg
	return nil
}

// Close disconnects the client.
func (d *Driver) Close() error {
	if d.client == nil {
		return nil
	}
	d.logger.Debug("closing mongodb connection")
	err := d.client.Disconnect(context.Background())
	d.client = nil
	d.db = nil
	return err
}

// Prepare compiles the statement into a document operation.
func (d *Driver) Prepare(s query.Statement) (*query.Query, error) {
	return d.writer.Compile(s), nil
}

// Writer returns the MongoDB statement writer.
func (d *Driver) Writer() writer.Writer { return d.writer }

// Exec runs write and DDL operations. Creating a database is a no-op:
// MongoDB materializes databases on first write.
func (d *Driver) Exec(ctx context.Context, q *query.Query) (query.RowsAffected, error) {
	if d.client == nil {
		return query.RowsAffected{}, fmt.Errorf("database connection not established")
	}
	statements, err := d.statements(q)
	if err != nil {
		return query.RowsAffected{}, err
	}
	var affected query.RowsAffected
	for _, st := range statements {
		result, err := d.exec(ctx, st)
		if err != nil {
			return query.RowsAffected{}, err
		}
		affected.Merge(result)
	}
	return affected, nil
}

func (d *Driver) exec(ctx context.Context, st *dialect.Statement) (query.RowsAffected, error) {
	d.logger.Debug("executing operation", "verb", st.Verb.String(), "collection", st.Collection.FullName())
	switch st.Verb {
	case dialect.VerbInsert:
		return d.insert(ctx, st)
	case dialect.VerbUpsert:
		return d.upsert(ctx, st)
	case dialect.VerbDelete:
		return d.delete(ctx, st)
	case dialect.VerbCreateCollection:
		err := d.database(st.Collection).CreateCollection(ctx, st.Collection.Name)
		if isServerError(err, codeNamespaceExists) {
			err = nil
		}
		return query.RowsAffected{}, wrapOp(err, "create collection")
	case dialect.VerbDropCollection:
		err := d.collection(st.Collection).Drop(ctx)
		if isServerError(err, codeNamespaceNotFound) {
			err = nil
		}
		return query.RowsAffected{}, wrapOp(err, "drop collection")
	case dialect.VerbCreateDatabase:
		d.logger.Debug("database will materialize on first write", slog.String("database", st.Collection.Name))
		return query.RowsAffected{}, nil
	case dialect.VerbDropDatabase:
		err := d.client.Database(st.Collection.Name).Drop(ctx)
		return query.RowsAffected{}, wrapOp(err, "drop database")
	}
	return query.RowsAffected{}, fmt.Errorf("%s statement returns rows, use Query", st.Verb)
}

// Query runs find and aggregate operations.
func (d *Driver) Query(ctx context.Context, q *query.Query) ([]query.RowLabeled, error) {
	if d.client == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	statements, err := d.statements(q)
	if err != nil {
		return nil, err
	}
	var rows []query.RowLabeled
	for _, st := range statements {
		var batch []query.RowLabeled
		switch st.Verb {
		case dialect.VerbFind:
			batch, err = d.find(ctx, st)
		case dialect.VerbAggregate:
			batch, err = d.aggregate(ctx, st)
		default:
			return nil, fmt.Errorf("%s statement returns no rows, use Exec", st.Verb)
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}

// statements resolves q into document operations: the prepared form when
// present, otherwise the parsed script text.
func (d *Driver) statements(q *query.Query) ([]*dialect.Statement, error) {
	if q == nil {
		return nil, fmt.Errorf("nil query")
	}
	if q.IsPrepared() {
		st, ok := q.Prepared().(*dialect.Statement)
		if !ok {
			return nil, fmt.Errorf("prepared statement %T is not a document operation", q.Prepared())
		}
		return []*dialect.Statement{st}, nil
	}
	return dialect.ParseScript(q.String())
}

func (d *Driver) find(ctx context.Context, st *dialect.Statement) ([]query.RowLabeled, error) {
	let, err := letDocument(st)
	if err != nil {
		return nil, err
	}
	var filter any = bson.D{}
	opts := options.Find()
	if let != nil {
		opts = opts.SetLet(let)
	}
	for _, e := range st.Body {
		switch e.Key {
		case "filter":
			filter = e.Value
		case "projection":
			opts = opts.SetProjection(e.Value)
		case "sort":
			opts = opts.SetSort(e.Value)
		case "limit":
			if n, ok := toInt64(e.Value); ok {
				opts = opts.SetLimit(n)
			}
		}
	}
	cur, err := d.collection(st.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapOp(err, "find")
	}
	return d.collect(ctx, cur)
}

func (d *Driver) aggregate(ctx context.Context, st *dialect.Statement) ([]query.RowLabeled, error) {
	let, err := letDocument(st)
	if err != nil {
		return nil, err
	}
	var pipeline any = bson.A{}
	for _, e := range st.Body {
		if e.Key == "pipeline" {
			pipeline = e.Value
		}
	}
	opts := options.Aggregate()
	if let != nil {
		opts = opts.SetLet(let)
	}
	cur, err := d.collection(st.Collection).Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, wrapOp(err, "aggregate")
	}
	return d.collect(ctx, cur)
}

func (d *Driver) insert(ctx context.Context, st *dialect.Statement) (query.RowsAffected, error) {
	var docs bson.A
	for _, e := range st.Body {
		if e.Key == "documents" {
			if a, ok := e.Value.(bson.A); ok {
				docs = a
			}
		}
	}
	if len(docs) == 0 {
		return query.RowsAffected{}, nil
	}
	result, err := d.collection(st.Collection).InsertMany(ctx, docs)
	if err != nil {
		return query.RowsAffected{}, wrapOp(err, "insert")
	}
	inserted := uint64(len(result.InsertedIDs))
	return query.RowsAffected{Rows: &inserted}, nil
}

func (d *Driver) upsert(ctx context.Context, st *dialect.Statement) (query.RowsAffected, error) {
	var updates bson.A
	for _, e := range st.Body {
		if e.Key == "updates" {
			if a, ok := e.Value.(bson.A); ok {
				updates = a
			}
		}
	}
	coll := d.collection(st.Collection)
	var touched uint64
	for i, entry := range updates {
		spec, ok := entry.(bson.D)
		if !ok {
			return query.RowsAffected{}, fmt.Errorf("update %d is not a document", i)
		}
		var filter, update any = bson.D{}, bson.D{}
		upsert := true
		for _, e := range spec {
			switch e.Key {
			case "q":
				filter = e.Value
			case "u":
				update = e.Value
			case "upsert":
				if b, ok := e.Value.(bool); ok {
					upsert = b
				}
			}
		}
		result, err := coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(upsert))
		if err != nil {
			return query.RowsAffected{}, wrapOp(err, "upsert")
		}
		touched += uint64(result.ModifiedCount + result.UpsertedCount)
	}
	return query.RowsAffected{Rows: &touched}, nil
}

func (d *Driver) delete(ctx context.Context, st *dialect.Statement) (query.RowsAffected, error) {
	let, err := letDocument(st)
	if err != nil {
		return query.RowsAffected{}, err
	}
	var filter any = bson.D{}
	for _, e := range st.Body {
		if e.Key == "filter" {
			filter = e.Value
		}
	}
	opts := options.DeleteMany()
	if let != nil {
		opts = opts.SetLet(let)
	}
	result, err := d.collection(st.Collection).DeleteMany(ctx, filter, opts)
	if err != nil {
		return query.RowsAffected{}, wrapOp(err, "delete")
	}
	deleted := uint64(result.DeletedCount)
	return query.RowsAffected{Rows: &deleted}, nil
}

// collect drains a cursor into labeled rows, one row per document with
// the document's own key order as labels.
func (d *Driver) collect(ctx context.Context, cur *mongo.Cursor) ([]query.RowLabeled, error) {
	defer func() { _ = cur.Close(ctx) }()
	var out []query.RowLabeled
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		labels := make(query.RowNames, len(doc))
		values := make(query.Row, len(doc))
		for i, e := range doc {
			labels[i] = e.Key
			v, err := dialect.BSONToValue(e.Value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", e.Key, err)
			}
			values[i] = v
		}
		out = append(out, query.RowLabeled{Labels: labels, Values: values})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return out, nil
}

// database routes a collection reference to its database; a reference
// without a schema uses the connected default.
func (d *Driver) database(ref query.TableRef) *mongo.Database {
	if ref.Schema != "" {
		return d.client.Database(ref.Schema)
	}
	return d.db
}

func (d *Driver) collection(ref query.TableRef) *mongo.Collection {
	return d.database(ref).Collection(ref.Name)
}

// letDocument lays the bindings out as the variable document resolving
// $$param_N references.
func letDocument(st *dialect.Statement) (bson.D, error) {
	bindings := st.Bindings()
	if len(bindings) == 0 {
		return nil, nil
	}
	let := make(bson.D, 0, len(bindings))
	for i, v := range bindings {
		b, err := dialect.ValueToBSON(v)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		let = append(let, bson.E{Key: fmt.Sprintf("param_%d", i), Value: b})
	}
	return let, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func isServerError(err error, code int) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == int32(code)
}

func wrapOp(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// buildURI constructs a mongodb:// connection string. Path, when set, is
// taken as a complete URI.
func buildURI(cfg driver.Config) string {
	if cfg.Path != "" {
		return cfg.Path
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 27017
	}

	uri := "mongodb://"
	if cfg.Username != "" {
		uri += url.QueryEscape(cfg.Username)
		if cfg.Password != "" {
			uri += ":" + url.QueryEscape(cfg.Password)
		}
		uri += "@"
	}
	uri += fmt.Sprintf("%s:%d", host, port)

	if len(cfg.Options) > 0 {
		keys := make([]string, 0, len(cfg.Options))
		for k := range cfg.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sep := "/?"
		for _, k := range keys {
			uri += sep + url.QueryEscape(k) + "=" + url.QueryEscape(cfg.Options[k])
			sep = "&"
		}
	}

	return uri
}
