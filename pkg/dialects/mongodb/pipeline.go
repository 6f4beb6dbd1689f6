package mongodb

import (
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
)

// IsConstant matches operands whose rendering depends on no document:
// nulls, literals, type mentions and bound values, and arrays or tuples
// made only of those.
type IsConstant struct {
	expr.NoMatch
}

func (m IsConstant) MatchOperand(op *expr.Operand) bool {
	switch op.Type {
	case expr.OperandNull, expr.OperandLitBool, expr.OperandLitInt, expr.OperandLitFloat,
		expr.OperandLitStr, expr.OperandTypeLit, expr.OperandValue:
		return true
	case expr.OperandLitArray, expr.OperandLitTuple:
		for _, elem := range op.Elems {
			if !elem.Match(m) {
				return false
			}
		}
		return true
	}
	return false
}

// IsCount matches COUNT calls over a single asterisk argument.
type IsCount struct {
	expr.NoMatch
}

func (IsCount) MatchOperand(op *expr.Operand) bool {
	return op.Type == expr.OperandCall &&
		strings.EqualFold(op.Name, "count") &&
		len(op.Args) == 1 &&
		op.Args[0].Match(expr.IsAsterisk{})
}

// needsPipeline reports whether the select needs the aggregation
// framework: grouping, a group filter, or an aggregate select column.
func needsPipeline(s *query.Select) bool {
	if len(s.GroupBy) > 0 || (s.Having != nil && !s.Having.Match(expr.IsTrue{})) {
		return true
	}
	for _, col := range s.Columns {
		if col.Match(expr.IsAggregateFunction{}) {
			return true
		}
	}
	return false
}

// groupField is one grouping expression placed under the $group _id: its
// output name and its rendering.
type groupField struct {
	name string
	expr any
}

// accumulator is one aggregate select column: its output name and its
// accumulation document.
type accumulator struct {
	name string
	body bson.D
}

// BuildPipeline compiles a grouped select into aggregation stages:
// $match for the row filter, $group keyed by the grouping expressions
// under _id with one accumulator per aggregate select column, $match for
// the group filter with references rewritten onto the group output,
// $limit when the select is capped, and $project re-surfacing every
// group field under its original name while suppressing the synthetic
// _id.
func (w *Writer) BuildPipeline(ctx *writer.Context, s *query.Select) bson.A {
	stages := make(bson.A, 0, 5)
	if s.Where != nil && !s.Where.Match(expr.IsTrue{}) {
		stages = append(stages, bson.D{{Key: "$match", Value: w.Filter(ctx, s.Where)}})
	}

	fields, grouped := w.groupFields(ctx, s.GroupBy)
	accums := w.accumulators(ctx, s.Columns, grouped)

	group := bson.D{{Key: "_id", Value: groupID(fields)}}
	for _, acc := range accums {
		group = append(group, bson.E{Key: acc.name, Value: acc.body})
	}
	stages = append(stages, bson.D{{Key: "$group", Value: group}})

	if s.Having != nil && !s.Having.Match(expr.IsTrue{}) {
		rewritten := w.rewriteGroupRefs(s.Having, grouped)
		stages = append(stages, bson.D{{Key: "$match", Value: w.Filter(ctx, rewritten)}})
	}

	if s.Limit != nil {
		stages = append(stages, bson.D{{Key: "$limit", Value: limitValue(*s.Limit)}})
	}

	project := make(bson.D, 0, len(fields)+len(accums)+1)
	for _, f := range fields {
		project = append(project, bson.E{Key: f.name, Value: "$_id." + f.name})
	}
	for _, acc := range accums {
		project = append(project, bson.E{Key: acc.name, Value: int32(1)})
	}
	project = append(project, bson.E{Key: "_id", Value: int32(0)})
	stages = append(stages, bson.D{{Key: "$project", Value: project}})

	return stages
}

// groupFields renders the grouping expressions. Columns keep their name
// and group on their document path; anything else groups on its
// aggregation rendering under its label.
func (w *Writer) groupFields(ctx *writer.Context, groupBy []expr.Expression) ([]groupField, map[string]struct{}) {
	fields := make([]groupField, 0, len(groupBy))
	grouped := make(map[string]struct{}, len(groupBy))
	for _, g := range groupBy {
		col := expr.IsColumn{}
		if g.Match(&col) {
			fields = append(fields, groupField{
				name: col.Column.Name,
				expr: "$" + fieldPath(ctx, col.Column),
			})
			grouped[col.Column.Name] = struct{}{}
			continue
		}
		name := w.label(g)
		fields = append(fields, groupField{name: name, expr: w.Expression(ctx, g)})
		grouped[name] = struct{}{}
	}
	return fields, grouped
}

// groupID lays the group fields out as the _id sub-document. Grouping by
// nothing folds every row into the null group.
func groupID(fields []groupField) any {
	if len(fields) == 0 {
		return nil
	}
	id := make(bson.D, 0, len(fields))
	for _, f := range fields {
		id = append(id, bson.E{Key: f.name, Value: f.expr})
	}
	return id
}

// accumulators returns one named accumulator per aggregate select
// column. Counts sum a constant one; every other aggregate applies the
// operator of its name to its rendered argument. Select columns that
// repeat a grouping field carry no accumulator, they re-surface from
// _id in the projection.
func (w *Writer) accumulators(ctx *writer.Context, columns []expr.Expression, grouped map[string]struct{}) []accumulator {
	out := make([]accumulator, 0, len(columns))
	for _, e := range columns {
		target, alias := unwrapAlias(e)
		if !target.Match(expr.IsAggregateFunction{}) {
			col := expr.IsColumn{}
			if target.Match(&col) {
				if _, ok := grouped[col.Column.Name]; ok {
					continue
				}
			} else if _, ok := grouped[w.label(target)]; ok {
				continue
			}
			w.Logger.Error("select column is neither grouped nor aggregated, dropping it from the group output",
				slog.String("column", w.label(e)))
			continue
		}
		op, ok := target.(*expr.Operand)
		if !ok || op.Type != expr.OperandCall {
			continue
		}
		name := alias
		if name == "" {
			name = w.label(target)
		}
		out = append(out, accumulator{name: name, body: w.accumulatorBody(ctx, op)})
	}
	return out
}

// accumulatorBody renders the aggregate call as a $group accumulator.
// Counting is summing one per document, whatever the argument.
func (w *Writer) accumulatorBody(ctx *writer.Context, op *expr.Operand) bson.D {
	if strings.EqualFold(op.Name, "count") {
		return bson.D{{Key: "$sum", Value: int64(1)}}
	}
	if doc, ok := w.callExpression(ctx, op).(bson.D); ok {
		return doc
	}
	return bson.D{}
}

// rewriteGroupRefs maps references in a group filter onto the $group
// output: aggregate calls become identifiers named like their
// accumulator, and grouped columns and expressions become their _id
// sub-field path. Everything else passes through untouched.
func (w *Writer) rewriteGroupRefs(e expr.Expression, grouped map[string]struct{}) expr.Expression {
	if e.Match(expr.IsAggregateFunction{}) {
		target, alias := unwrapAlias(e)
		if alias == "" {
			alias = w.label(target)
		}
		return expr.Ident(alias)
	}
	col := expr.IsColumn{}
	if e.Match(&col) {
		if _, ok := grouped[col.Column.Name]; ok {
			return expr.Ident("_id." + col.Column.Name)
		}
		return e
	}
	if len(grouped) > 0 {
		if label := w.label(e); hasGroup(grouped, label) {
			return expr.Ident("_id." + label)
		}
	}
	switch e := e.(type) {
	case *expr.UnaryOp:
		return &expr.UnaryOp{Op: e.Op, Arg: w.rewriteGroupRefs(e.Arg, grouped)}
	case *expr.BinaryOp:
		return &expr.BinaryOp{
			Op:  e.Op,
			LHS: w.rewriteGroupRefs(e.LHS, grouped),
			RHS: w.rewriteGroupRefs(e.RHS, grouped),
		}
	case *expr.Ordered:
		return &expr.Ordered{Expr: w.rewriteGroupRefs(e.Expr, grouped), Order: e.Order}
	}
	return e
}

func hasGroup(grouped map[string]struct{}, name string) bool {
	_, ok := grouped[name]
	return ok
}

// unwrapAlias strips a top-level alias, returning the aliased expression
// and the alias name.
func unwrapAlias(e expr.Expression) (expr.Expression, string) {
	if b, ok := e.(*expr.BinaryOp); ok && b.Op == expr.OpAlias {
		alias := expr.IsAlias{}
		e.Match(&alias)
		return b.LHS, alias.Name
	}
	return e, ""
}

// label renders e as its plain SQL spelling, the name a relational
// backend would give the output column.
func (w *Writer) label(e expr.Expression) string {
	var sb strings.Builder
	w.Dialect.WriteExpression(&sb, writer.EmptyContext(), e)
	return sb.String()
}
