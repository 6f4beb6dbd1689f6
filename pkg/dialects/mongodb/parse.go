package mongodb

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/query"
)

// ParseVerb maps a textual verb back to its constant.
func ParseVerb(name string) (Verb, bool) {
	switch name {
	case "FIND":
		return VerbFind, true
	case "AGGREGATE":
		return VerbAggregate, true
	case "INSERT":
		return VerbInsert, true
	case "UPSERT":
		return VerbUpsert, true
	case "DELETE":
		return VerbDelete, true
	case "CREATE_COLLECTION":
		return VerbCreateCollection, true
	case "DROP_COLLECTION":
		return VerbDropCollection, true
	case "CREATE_DATABASE":
		return VerbCreateDatabase, true
	case "DROP_DATABASE":
		return VerbDropDatabase, true
	}
	return 0, false
}

// queryType classifies the verb the way the relational statement it was
// compiled from would be classified.
func (v Verb) queryType() query.QueryType {
	switch v {
	case VerbFind, VerbAggregate:
		return query.QuerySelect
	case VerbInsert, VerbUpsert:
		return query.QueryInsertInto
	case VerbDelete:
		return query.QueryDeleteFrom
	case VerbCreateCollection:
		return query.QueryCreateTable
	case VerbDropCollection:
		return query.QueryDropTable
	case VerbCreateDatabase:
		return query.QueryCreateSchema
	case VerbDropDatabase:
		return query.QueryDropSchema
	}
	return query.QueryUnknown
}

// ParseScript reads a rendered "MONGO:<VERB> <collection> <body>;" script
// back into document operations, one statement per line.
func ParseScript(text string) ([]*Statement, error) {
	var out []*Statement
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		st, err := parseStatement(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func parseStatement(line string) (*Statement, error) {
	rest, ok := strings.CutPrefix(line, "MONGO:")
	if !ok {
		return nil, fmt.Errorf("statement does not start with MONGO:")
	}
	verbName, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return nil, fmt.Errorf("statement has no collection")
	}
	verb, ok := ParseVerb(verbName)
	if !ok {
		return nil, fmt.Errorf("unknown verb %q", verbName)
	}
	name, body, ok := strings.Cut(rest, " ")
	if !ok {
		return nil, fmt.Errorf("statement has no body")
	}
	body, ok = strings.CutSuffix(body, ";")
	if !ok {
		return nil, fmt.Errorf("statement does not end with a semicolon")
	}

	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(body), false, &doc); err != nil {
		return nil, fmt.Errorf("invalid operation body: %w", err)
	}

	st := &Statement{
		Verb:       verb,
		Collection: collectionRef(name),
		Body:       doc,
		Params:     countParams(body),
	}
	meta := query.QueryMetadata{Type: verb.queryType(), Table: st.Collection}
	if limit, ok := bodyLimit(doc); ok {
		meta.Limit = &limit
	}
	st.BoundStatement = query.NewBoundStatement(meta)
	return st, nil
}

// collectionRef splits a dotted name into database and collection, the
// inverse of TableRef.FullName.
func collectionRef(name string) query.TableRef {
	if schema, coll, ok := strings.Cut(name, "."); ok {
		return query.TableRef{Schema: schema, Name: coll}
	}
	return query.TableRef{Name: name}
}

// countParams returns the number of placeholder variables the body
// references, taken as one past the highest $$param_N index.
func countParams(body string) uint32 {
	const marker = "$$param_"
	count := uint32(0)
	for i := 0; ; {
		at := strings.Index(body[i:], marker)
		if at < 0 {
			break
		}
		i += at + len(marker)
		j := i
		for j < len(body) && body[j] >= '0' && body[j] <= '9' {
			j++
		}
		if n, err := strconv.ParseUint(body[i:j], 10, 32); err == nil && uint32(n)+1 > count {
			count = uint32(n) + 1
		}
		i = j
	}
	return count
}

// bodyLimit recovers the row cap of a find body.
func bodyLimit(doc bson.D) (uint32, bool) {
	for _, e := range doc {
		if e.Key != "limit" {
			continue
		}
		switch n := e.Value.(type) {
		case int32:
			if n >= 0 {
				return uint32(n), true
			}
		case int64:
			if n >= 0 && n <= int64(^uint32(0)) {
				return uint32(n), true
			}
		}
	}
	return 0, false
}
