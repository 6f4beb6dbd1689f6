// Package mongodb compiles statements for MongoDB document stores.
// Relational statements become database commands rather than SQL text:
// row filters translate into find filter documents, grouped selects into
// aggregation pipelines, and inserts into document batches. A compiled
// operation is carried as a prepared statement whose $$param_N variables
// resolve from the bindings at execution, and renders into the query
// buffer as a "MONGO:<VERB> <collection> <body>;" line whose body is
// canonical extended JSON.
package mongodb

import (
	"log/slog"
	"math"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// Verb names the document-store operation a compiled statement performs.
type Verb int

const (
	VerbFind Verb = iota
	VerbAggregate
	VerbInsert
	VerbUpsert
	VerbDelete
	VerbCreateCollection
	VerbDropCollection
	VerbCreateDatabase
	VerbDropDatabase
)

func (v Verb) String() string {
	switch v {
	case VerbFind:
		return "FIND"
	case VerbAggregate:
		return "AGGREGATE"
	case VerbInsert:
		return "INSERT"
	case VerbUpsert:
		return "UPSERT"
	case VerbDelete:
		return "DELETE"
	case VerbCreateCollection:
		return "CREATE_COLLECTION"
	case VerbDropCollection:
		return "DROP_COLLECTION"
	case VerbCreateDatabase:
		return "CREATE_DATABASE"
	case VerbDropDatabase:
		return "DROP_DATABASE"
	}
	return "UNKNOWN"
}

// Statement is one compiled document operation: the verb, the target
// collection and the operation body keyed by the verb's option names. It
// implements query.Prepared, so values bound to it resolve the $$param_N
// variables the body references.
type Statement struct {
	query.BoundStatement
	Verb       Verb
	Collection query.TableRef
	Body       bson.D
	// Params is the number of placeholder variables the body references.
	Params uint32
}

// ExtJSON returns the body as canonical extended JSON.
func (s *Statement) ExtJSON() ([]byte, error) {
	return bson.MarshalExtJSON(s.Body, true, false)
}

// Writer compiles statements for MongoDB. The embedded Base supplies the
// relational rendering used for output labels; every statement surface
// method is replaced by a document compilation.
type Writer struct {
	writer.Base
}

func New(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Writer{}
	w.Base = writer.Base{Dialect: w, Logger: logger}
	return w
}

var _ writer.Writer = (*Writer)(nil)

// Compile turns s into a prepared query carrying the document operation.
func (w *Writer) Compile(s query.Statement) *query.Query {
	return query.NewPreparedQuery(w.compile(s))
}

func (w *Writer) compile(s query.Statement) *Statement {
	switch s := s.(type) {
	case *query.Select:
		return w.CompileSelect(s)
	case *query.Insert:
		return w.CompileInsert(s)
	case *query.Delete:
		return w.CompileDelete(s)
	case *query.CreateTable:
		return w.CompileCreateTable(s)
	case *query.DropTable:
		return w.CompileDropTable(s)
	case *query.CreateSchema:
		return w.CompileCreateSchema(s)
	case *query.DropSchema:
		return w.CompileDropSchema(s)
	}
	w.Logger.Error("statement kind has no document operation")
	return &Statement{}
}

// CompileSelect builds a find operation, or an aggregation when the
// select groups, filters groups or aggregates.
func (w *Writer) CompileSelect(s *query.Select) *Statement {
	st := &Statement{BoundStatement: query.NewBoundStatement(s.Metadata()), Collection: s.From}
	ctx := writer.NewContext(writer.FragmentDocMatchCriteria, s.Qualify)
	if needsPipeline(s) {
		st.Verb = VerbAggregate
		st.Body = bson.D{{Key: "pipeline", Value: w.BuildPipeline(ctx, s)}}
	} else {
		st.Verb = VerbFind
		st.Body = w.findBody(ctx, s)
	}
	st.Params = ctx.Counter
	return st
}

// findBody collects the find options: the filter, and projection, sort
// and limit when the select declares them.
func (w *Writer) findBody(ctx *writer.Context, s *query.Select) bson.D {
	body := bson.D{{Key: "filter", Value: w.Filter(ctx, s.Where)}}
	if proj := w.projection(ctx, s.Columns); proj != nil {
		body = append(body, bson.E{Key: "projection", Value: proj})
	}
	if sort := w.sortDoc(ctx, s.OrderBy); sort != nil {
		body = append(body, bson.E{Key: "sort", Value: sort})
	}
	if s.Limit != nil {
		body = append(body, bson.E{Key: "limit", Value: limitValue(*s.Limit)})
	}
	return body
}

// projection lists the selected document paths. An empty or asterisk
// select keeps whole documents, and so does any select column a find
// cannot compute; aliased columns project under the alias.
func (w *Writer) projection(ctx *writer.Context, columns []expr.Expression) bson.D {
	proj := make(bson.D, 0, len(columns))
	for _, e := range columns {
		if e.Match(expr.IsAsterisk{}) {
			return nil
		}
		target, alias := unwrapAlias(e)
		col := expr.IsColumn{}
		if !target.Match(&col) {
			w.Logger.Error("select column is not a document path, returning whole documents instead",
				slog.String("column", w.label(e)))
			return nil
		}
		path := fieldPath(ctx, col.Column)
		if alias != "" {
			proj = append(proj, bson.E{Key: alias, Value: "$" + path})
		} else {
			proj = append(proj, bson.E{Key: path, Value: int32(1)})
		}
	}
	if len(proj) == 0 {
		return nil
	}
	return proj
}

// sortDoc renders the ordering expressions as a sort document: 1
// ascending, -1 descending. Sort keys that are not document paths are
// skipped.
func (w *Writer) sortDoc(ctx *writer.Context, orderBy []expr.Expression) bson.D {
	sort := make(bson.D, 0, len(orderBy))
	for _, e := range orderBy {
		order := expr.FindOrder{}
		e.Match(&order)
		dir := int32(1)
		if order.Order == expr.Desc {
			dir = -1
		}
		target := e
		if ord, ok := e.(*expr.Ordered); ok {
			target = ord.Expr
		}
		col := expr.IsColumn{}
		if !target.Match(&col) {
			w.Logger.Error("sort key is not a document path, skipping it",
				slog.String("key", w.label(e)))
			continue
		}
		sort = append(sort, bson.E{Key: fieldPath(ctx, col.Column), Value: dir})
	}
	if len(sort) == 0 {
		return nil
	}
	return sort
}

// limitValue keeps row caps in the narrow integer form while they fit.
func limitValue(limit uint32) any {
	if limit <= math.MaxInt32 {
		return int32(limit)
	}
	return int64(limit)
}

// CompileInsert builds a document insertion, or an update-with-upsert
// batch when key conflicts should turn into updates.
func (w *Writer) CompileInsert(s *query.Insert) *Statement {
	st := &Statement{BoundStatement: query.NewBoundStatement(s.Metadata()), Collection: s.Table.Ref}
	if s.Update {
		st.Verb = VerbUpsert
		updates := make(bson.A, 0, len(s.Rows))
		for _, row := range s.Rows {
			updates = append(updates, w.upsertSpec(s, row))
		}
		st.Body = bson.D{{Key: "updates", Value: updates}}
		return st
	}
	st.Verb = VerbInsert
	docs := make(bson.A, 0, len(s.Rows))
	for _, row := range s.Rows {
		docs = append(docs, w.rowDocument(s.Columns, row))
	}
	st.Body = bson.D{{Key: "documents", Value: docs}}
	return st
}

// rowDocument lays one insert row out as a document. Passive columns
// with no value stay absent so the collection applies its defaults;
// values with no BSON form degrade to null with an error log.
func (w *Writer) rowDocument(columns []query.ColumnDef, row []value.Value) bson.D {
	doc := make(bson.D, 0, len(columns))
	for i := range columns {
		var v value.Value = value.Null{}
		if i < len(row) && row[i] != nil {
			v = row[i]
		}
		if columns[i].Passive && v.IsNull() {
			continue
		}
		b, err := ValueToBSON(v)
		if err != nil {
			w.Logger.Error("value has no BSON form, writing null instead",
				slog.String("column", columns[i].Name()), slog.Any("error", err))
			b = nil
		}
		doc = append(doc, bson.E{Key: columns[i].Name(), Value: b})
	}
	return doc
}

// upsertSpec builds one update entry: the primary key fields select the
// document, $set applies the rest, and upsert inserts on no match.
func (w *Writer) upsertSpec(s *query.Insert, row []value.Value) bson.D {
	doc := w.rowDocument(s.Columns, row)
	pk := s.Table.PrimaryKeyColumns()
	key := make(map[string]struct{}, len(pk))
	for _, col := range pk {
		key[col.Name()] = struct{}{}
	}
	filter := make(bson.D, 0, len(pk))
	set := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if _, ok := key[e.Key]; ok {
			filter = append(filter, e)
		} else {
			set = append(set, e)
		}
	}
	if len(filter) == 0 {
		w.Logger.Error("upsert on a table without a primary key selects an arbitrary document",
			slog.String("table", s.Table.Ref.FullName()))
	}
	return bson.D{
		{Key: "q", Value: filter},
		{Key: "u", Value: bson.D{{Key: "$set", Value: set}}},
		{Key: "upsert", Value: true},
	}
}

// CompileDelete builds a deletion filtered like a select; a nil or
// trivially true condition deletes every document.
func (w *Writer) CompileDelete(s *query.Delete) *Statement {
	st := &Statement{
		BoundStatement: query.NewBoundStatement(s.Metadata()),
		Verb:           VerbDelete,
		Collection:     s.From,
	}
	ctx := writer.NewContext(writer.FragmentDocMatchCriteria, false)
	st.Body = bson.D{{Key: "filter", Value: w.Filter(ctx, s.Where)}}
	st.Params = ctx.Counter
	return st
}

func (w *Writer) CompileCreateTable(s *query.CreateTable) *Statement {
	return &Statement{
		BoundStatement: query.NewBoundStatement(s.Metadata()),
		Verb:           VerbCreateCollection,
		Collection:     s.Table.Ref,
		Body:           bson.D{},
	}
}

func (w *Writer) CompileDropTable(s *query.DropTable) *Statement {
	return &Statement{
		BoundStatement: query.NewBoundStatement(s.Metadata()),
		Verb:           VerbDropCollection,
		Collection:     s.Table,
		Body:           bson.D{},
	}
}

func (w *Writer) CompileCreateSchema(s *query.CreateSchema) *Statement {
	return &Statement{
		BoundStatement: query.NewBoundStatement(s.Metadata()),
		Verb:           VerbCreateDatabase,
		Collection:     query.TableRef{Name: s.Schema},
		Body:           bson.D{},
	}
}

func (w *Writer) CompileDropSchema(s *query.DropSchema) *Statement {
	return &Statement{
		BoundStatement: query.NewBoundStatement(s.Metadata()),
		Verb:           VerbDropDatabase,
		Collection:     query.TableRef{Name: s.Schema},
		Body:           bson.D{},
	}
}

func (w *Writer) WriteSelect(q *query.Query, s *query.Select) {
	w.writeStatement(q, w.CompileSelect(s))
}

func (w *Writer) WriteInsert(q *query.Query, s *query.Insert) {
	w.writeStatement(q, w.CompileInsert(s))
}

func (w *Writer) WriteDelete(q *query.Query, s *query.Delete) {
	w.writeStatement(q, w.CompileDelete(s))
}

func (w *Writer) WriteCreateTable(q *query.Query, s *query.CreateTable) {
	w.writeStatement(q, w.CompileCreateTable(s))
}

func (w *Writer) WriteDropTable(q *query.Query, s *query.DropTable) {
	w.writeStatement(q, w.CompileDropTable(s))
}

func (w *Writer) WriteCreateSchema(q *query.Query, s *query.CreateSchema) {
	w.writeStatement(q, w.CompileCreateSchema(s))
}

func (w *Writer) WriteDropSchema(q *query.Query, s *query.DropSchema) {
	w.writeStatement(q, w.CompileDropSchema(s))
}

// writeStatement renders the operation into the query buffer as one
// "MONGO:<VERB> <collection> <body>;" line.
func (w *Writer) writeStatement(q *query.Query, st *Statement) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	out.WriteString("MONGO:")
	out.WriteString(st.Verb.String())
	out.WriteByte(' ')
	out.WriteString(st.Collection.FullName())
	out.WriteByte(' ')
	data, err := st.ExtJSON()
	if err != nil {
		w.Logger.Error("operation body has no extended JSON form, writing an empty body instead",
			slog.Any("error", err))
		data = []byte("{}")
	}
	out.Write(data)
	out.WriteByte(';')
	*q.Metadata() = *st.Metadata()
}
