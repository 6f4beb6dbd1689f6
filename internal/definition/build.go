package definition

import (
	"fmt"
	"strings"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
)

// Statement converts the definition into its statement specification.
func (f *StatementFile) Statement() (query.Statement, error) {
	switch {
	case f.Select != nil:
		return f.Select.Build()
	case f.Insert != nil:
		return f.Insert.Build()
	case f.Delete != nil:
		return f.Delete.Build()
	}
	return nil, fmt.Errorf("definition describes no statement")
}

// Build converts the select definition.
func (s *SelectSpec) Build() (*query.Select, error) {
	if s.From == "" {
		return nil, fmt.Errorf("select requires a from table")
	}

	columns := make([]expr.Expression, 0, len(s.Columns))
	for _, c := range s.Columns {
		e, err := c.expr()
		if err != nil {
			return nil, err
		}
		columns = append(columns, e)
	}
	if len(columns) == 0 {
		columns = append(columns, expr.Asterisk())
	}

	sel := query.NewSelect(columns...).WithFrom(tableRef(s.From, s.Alias))

	where, err := conjoin(s.Where)
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	if where != nil {
		sel.WithWhere(where)
	}

	if len(s.GroupBy) > 0 {
		groups := make([]expr.Expression, 0, len(s.GroupBy))
		for _, g := range s.GroupBy {
			groups = append(groups, columnExpr(g))
		}
		sel.WithGroupBy(groups...)
	}

	having, err := conjoin(s.Having)
	if err != nil {
		return nil, fmt.Errorf("having: %w", err)
	}
	if having != nil {
		sel.WithHaving(having)
	}

	if len(s.OrderBy) > 0 {
		orders := make([]expr.Expression, 0, len(s.OrderBy))
		for _, o := range s.OrderBy {
			e := columnExpr(o.Column)
			if o.Desc {
				orders = append(orders, expr.Descending(e))
			} else {
				orders = append(orders, expr.Ascending(e))
			}
		}
		sel.WithOrderBy(orders...)
	}

	if s.Limit != nil {
		sel.WithLimit(*s.Limit)
	}
	if s.Qualify {
		sel.WithQualify()
	}
	return sel, nil
}

// expr converts one select column entry.
func (c *ColumnSpec) expr() (expr.Expression, error) {
	var e expr.Expression
	switch {
	case c.Star:
		e = expr.Asterisk()
	case c.Call != "":
		switch c.Of {
		case "":
			e = expr.Call(c.Call)
		case "*":
			e = expr.Call(c.Call, expr.Asterisk())
		default:
			e = expr.Call(c.Call, columnExpr(c.Of))
		}
	case c.Column != "":
		e = columnExpr(c.Column)
	default:
		return nil, fmt.Errorf("select column needs a column, call or star")
	}
	if c.Alias != "" {
		e = expr.Alias(e, c.Alias)
	}
	return e, nil
}

// Build converts the insert definition.
func (s *InsertSpec) Build() (*query.Insert, error) {
	if s.Into == "" {
		return nil, fmt.Errorf("insert requires an into table")
	}
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("insert requires columns")
	}

	ref := tableRef(s.Into, "")
	keys := make(map[string]struct{}, len(s.Keys))
	for _, k := range s.Keys {
		keys[k] = struct{}{}
	}
	pkType := query.PrimaryKey
	if len(s.Keys) > 1 {
		pkType = query.PartOfPrimaryKey
	}

	columns := make([]query.ColumnDef, 0, len(s.Columns))
	for _, name := range s.Columns {
		def := query.ColumnDef{
			Ref:      expr.ColumnRef{Name: name, Table: ref.Name, Schema: ref.Schema},
			Nullable: true,
		}
		if _, ok := keys[name]; ok {
			def.PrimaryKey = pkType
		}
		columns = append(columns, def)
	}

	ins := query.NewInsert(query.TableDef{Ref: ref, Columns: columns})
	for ri, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", ri, len(row), len(s.Columns))
		}
		values := make([]value.Value, 0, len(row))
		for _, cell := range row {
			values = append(values, value.Of(cell))
		}
		ins.WithRow(values...)
	}
	if s.Update {
		ins.WithUpdate()
	}
	return ins, nil
}

// Build converts the delete definition.
func (s *DeleteSpec) Build() (*query.Delete, error) {
	if s.From == "" {
		return nil, fmt.Errorf("delete requires a from table")
	}
	del := query.NewDelete(tableRef(s.From, ""))
	where, err := conjoin(s.Where)
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	if where != nil {
		del.WithWhere(where)
	}
	return del, nil
}

// TableDef converts the table definition.
func (t *TableSpec) TableDef() (query.TableDef, error) {
	ref := query.TableRef{Name: t.Name, Schema: t.Schema}

	pkCount := 0
	for i := range t.Columns {
		if t.Columns[i].PrimaryKey {
			pkCount++
		}
	}
	pkType := query.PrimaryKey
	if pkCount > 1 {
		pkType = query.PartOfPrimaryKey
	}

	columns := make([]query.ColumnDef, 0, len(t.Columns))
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Name == "" {
			return query.TableDef{}, fmt.Errorf("column %d has no name", i)
		}
		def, err := c.columnDef(ref, pkType)
		if err != nil {
			return query.TableDef{}, fmt.Errorf("column %s: %w", c.Name, err)
		}
		columns = append(columns, def)
	}

	return query.TableDef{
		Ref:        ref,
		Columns:    columns,
		UniqueSets: t.Unique,
		Comment:    t.Comment,
	}, nil
}

func (c *ColumnDefSpec) columnDef(table query.TableRef, pkType query.PrimaryKeyType) (query.ColumnDef, error) {
	v, err := valueForKind(c.Type)
	if err != nil {
		return query.ColumnDef{}, err
	}

	def := query.ColumnDef{
		Ref:           expr.ColumnRef{Name: c.Name, Table: table.Name, Schema: table.Schema},
		Value:         v,
		TypeOverride:  c.TypeOverride,
		Nullable:      c.Nullable == nil || *c.Nullable,
		ClusteringKey: c.Clustering,
		Unique:        c.Unique,
		Passive:       c.Passive,
		Comment:       c.Comment,
	}
	if c.PrimaryKey {
		def.PrimaryKey = pkType
	}
	if c.Default != nil {
		def.Default = expr.Val(value.Of(c.Default))
	}
	if c.References != "" {
		target, err := columnRef(c.References)
		if err != nil {
			return query.ColumnDef{}, err
		}
		def.References = &target
	}
	if def.OnDelete, err = actionFor(c.OnDelete); err != nil {
		return query.ColumnDef{}, err
	}
	if def.OnUpdate, err = actionFor(c.OnUpdate); err != nil {
		return query.ColumnDef{}, err
	}
	return def, nil
}

// conjoin joins the conditions with AND; nil when the list is empty.
func conjoin(specs []ConditionSpec) (expr.Expression, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	conds := make([]expr.Expression, 0, len(specs))
	for _, c := range specs {
		e, err := c.expr()
		if err != nil {
			return nil, err
		}
		conds = append(conds, e)
	}
	return expr.AndAll(conds...), nil
}

// expr converts one filter conjunct.
func (c *ConditionSpec) expr() (expr.Expression, error) {
	if c.Column == "" {
		return nil, fmt.Errorf("condition needs a column")
	}
	lhs := columnExpr(c.Column)

	switch c.Op {
	case "is_null":
		return expr.Is(lhs, expr.Null()), nil
	case "not_null":
		return expr.IsNot(lhs, expr.Null()), nil
	case "in":
		if c.Param {
			return expr.In(lhs, expr.QuestionMark()), nil
		}
		elems := make([]expr.Expression, 0, len(c.Values))
		for _, v := range c.Values {
			elems = append(elems, expr.Val(value.Of(v)))
		}
		return expr.In(lhs, expr.Tuple(elems...)), nil
	}

	var rhs expr.Expression
	if c.Param {
		rhs = expr.QuestionMark()
	} else {
		rhs = expr.Val(value.Of(c.Value))
	}

	switch c.Op {
	case "", "eq":
		return expr.Eq(lhs, rhs), nil
	case "ne":
		return expr.Ne(lhs, rhs), nil
	case "lt":
		return expr.Lt(lhs, rhs), nil
	case "le":
		return expr.Le(lhs, rhs), nil
	case "gt":
		return expr.Gt(lhs, rhs), nil
	case "ge":
		return expr.Ge(lhs, rhs), nil
	case "like":
		return expr.Like(lhs, rhs), nil
	}
	return nil, fmt.Errorf("unknown operator %q", c.Op)
}

// tableRef splits an optionally schema-qualified table name.
func tableRef(name, alias string) query.TableRef {
	ref := query.NewTableRef(name)
	if schema, table, ok := strings.Cut(name, "."); ok {
		ref = query.TableRef{Schema: schema, Name: table}
	}
	if alias != "" {
		ref = ref.WithAlias(alias)
	}
	return ref
}

// columnExpr references a column, splitting qualified dotted paths.
func columnExpr(name string) expr.Expression {
	if strings.Contains(name, ".") {
		return expr.Field(strings.Split(name, ".")...)
	}
	return expr.Ident(name)
}

// columnRef parses a [schema.]table.column foreign key target.
func columnRef(path string) (expr.ColumnRef, error) {
	parts := strings.Split(path, ".")
	switch len(parts) {
	case 2:
		return expr.ColumnRef{Table: parts[0], Name: parts[1]}, nil
	case 3:
		return expr.ColumnRef{Schema: parts[0], Table: parts[1], Name: parts[2]}, nil
	}
	return expr.ColumnRef{}, fmt.Errorf("references %q must name table.column", path)
}

// valueForKind maps a kind name to an empty variant of that kind.
func valueForKind(name string) (value.Value, error) {
	switch strings.ToLower(name) {
	case "boolean", "bool":
		return value.Boolean{}, nil
	case "int8":
		return value.Int8{}, nil
	case "int16":
		return value.Int16{}, nil
	case "int32":
		return value.Int32{}, nil
	case "int64", "int":
		return value.Int64{}, nil
	case "int128":
		return value.Int128{}, nil
	case "uint8":
		return value.Uint8{}, nil
	case "uint16":
		return value.Uint16{}, nil
	case "uint32":
		return value.Uint32{}, nil
	case "uint64", "uint":
		return value.Uint64{}, nil
	case "uint128":
		return value.Uint128{}, nil
	case "float32":
		return value.Float32{}, nil
	case "float64", "float":
		return value.Float64{}, nil
	case "decimal":
		return value.Decimal{}, nil
	case "char":
		return value.Char{}, nil
	case "varchar", "string", "text":
		return value.Varchar{}, nil
	case "blob", "bytes":
		return value.Blob{}, nil
	case "date":
		return value.Date{}, nil
	case "time":
		return value.Time{}, nil
	case "timestamp":
		return value.Timestamp{}, nil
	case "timestamptz":
		return value.TimestampTZ{}, nil
	case "interval":
		return value.Interval{}, nil
	case "uuid":
		return value.Uuid{}, nil
	case "json":
		return value.Json{}, nil
	}
	return nil, fmt.Errorf("unknown column type %q", name)
}

// actionFor maps a referential action name; empty means unspecified.
func actionFor(name string) (query.Action, error) {
	switch strings.ToLower(name) {
	case "":
		return query.ActionUnspecified, nil
	case "no_action":
		return query.ActionNoAction, nil
	case "restrict":
		return query.ActionRestrict, nil
	case "cascade":
		return query.ActionCascade, nil
	case "set_null":
		return query.ActionSetNull, nil
	case "set_default":
		return query.ActionSetDefault, nil
	}
	return query.ActionUnspecified, fmt.Errorf("unknown referential action %q", name)
}
