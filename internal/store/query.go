package store

import (
	"fmt"
	"strings"
)

// sortSpec maps API sort names to storage columns
type sortSpec struct {
	columns       map[string]string
	defaultColumn string
	defaultDesc   bool
	tiebreaker    string
}

// listQuery accumulates WHERE conditions with numbered placeholders
type listQuery struct {
	conditions []string
	args       []interface{}
	orderBy    string
}

// where adds a condition; each %s in cond becomes the placeholder of the matching value
func (q *listQuery) where(cond string, values ...interface{}) {
	placeholders := make([]interface{}, len(values))
	for i, value := range values {
		placeholders[i] = q.arg(value)
	}
	q.conditions = append(q.conditions, fmt.Sprintf(cond, placeholders...))
}

func (q *listQuery) arg(value interface{}) string {
	q.args = append(q.args, value)
	return fmt.Sprintf("$%d", len(q.args))
}

// sort resolves sortBy through spec; unknown names fall back to the default column
func (q *listQuery) sort(spec sortSpec, sortBy, sortOrder string) {
	column, ok := spec.columns[sortBy]
	desc := strings.EqualFold(sortOrder, "desc")
	if !ok {
		column = spec.defaultColumn
		if sortOrder == "" {
			desc = spec.defaultDesc
		}
	}

	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	q.orderBy = fmt.Sprintf("%s %s", column, direction)
	if spec.tiebreaker != "" && spec.tiebreaker != column {
		q.orderBy += ", " + spec.tiebreaker + " ASC"
	}
}

func (q *listQuery) whereClause() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

// countSQL returns a COUNT(*) query over from with the accumulated conditions
func (q *listQuery) countSQL(from string) (string, []interface{}) {
	return "SELECT COUNT(*) " + from + q.whereClause(), q.args
}

// pageSQL returns selectFrom with conditions, ordering and LIMIT/OFFSET applied
func (q *listQuery) pageSQL(selectFrom string, limit, offset int) (string, []interface{}) {
	args := make([]interface{}, len(q.args), len(q.args)+2)
	copy(args, q.args)
	args = append(args, limit, offset)

	var b strings.Builder
	b.WriteString(selectFrom)
	b.WriteString(q.whereClause())
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return b.String(), args
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}
