package writer

import "github.com/TankHQ/tank/pkg/query"

// Context carries rendering state down a writer call tree: the fragment
// being rendered, the table that qualifies column references, whether
// identifiers are quoted, and a running placeholder counter.
//
// Fragment and table switches are scoped: SwitchFragment and SwitchTable
// mutate the context and return a restore function that puts every field
// back except Counter, which keeps counting across scopes.
type Context struct {
	// Counter numbers the parameter placeholders written so far.
	Counter uint32
	// Fragment is the clause currently being rendered.
	Fragment Fragment
	// Table qualifies column references while QualifyColumns is set.
	Table query.TableRef
	// QualifyColumns prefixes column references with their table.
	QualifyColumns bool
	// QuoteIdentifiers wraps identifiers in the dialect quote character.
	QuoteIdentifiers bool
}

// NewContext returns a quoting context positioned at fragment.
func NewContext(fragment Fragment, qualifyColumns bool) *Context {
	return &Context{
		Fragment:         fragment,
		QualifyColumns:   qualifyColumns,
		QuoteIdentifiers: true,
	}
}

// EmptyContext returns a context that neither quotes nor qualifies. It is
// the context used to render expressions as plain labels.
func EmptyContext() *Context {
	return &Context{}
}

// FragmentContext returns a quoting, non-qualifying context positioned at
// fragment.
func FragmentContext(fragment Fragment) *Context {
	return &Context{Fragment: fragment, QuoteIdentifiers: true}
}

// QualifyContext returns a quoting context with explicit qualification and
// no table.
func QualifyContext(qualifyColumns bool) *Context {
	return &Context{QualifyColumns: qualifyColumns, QuoteIdentifiers: true}
}

// QualifyWith returns a quoting context whose column references are
// qualified by table.
func QualifyWith(table query.TableRef) *Context {
	return &Context{Table: table, QualifyColumns: true, QuoteIdentifiers: true}
}

// SwitchFragment repositions the context at fragment and returns the
// restore function. Calling it as
//
//	defer ctx.SwitchFragment(f)()
//
// scopes the switch to the surrounding function.
func (c *Context) SwitchFragment(fragment Fragment) func() {
	prev := *c
	c.Fragment = fragment
	return func() {
		counter := c.Counter
		*c = prev
		c.Counter = counter
	}
}

// SwitchTable repositions the context on table. Qualification follows the
// table: an empty table turns it off. Restore semantics match
// SwitchFragment.
func (c *Context) SwitchTable(table query.TableRef) func() {
	prev := *c
	c.QualifyColumns = !table.IsEmpty()
	c.Table = table
	return func() {
		counter := c.Counter
		*c = prev
		c.Counter = counter
	}
}

// InsideJSON reports whether rendering is nested in a JSON document, as a
// key or a value.
func (c *Context) InsideJSON() bool {
	return c.Fragment == FragmentJSON || c.Fragment == FragmentJSONKey
}
