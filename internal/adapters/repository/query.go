package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

// visibleTeamIDs selects the teams a user leads or belongs to. It takes the
// user id twice.
const visibleTeamIDs = `SELECT id FROM teams WHERE team_lead_id = ? UNION SELECT team_id FROM team_members WHERE user_id = ?`

// nowUTC stamps rows the services do not timestamp themselves
var nowUTC = func() time.Time { return time.Now().UTC() }

// priorityRank orders priorities by urgency rather than alphabetically
func priorityRank(column string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CASE %s", column)
	for _, p := range entities.Priorities {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", p, p.Rank())
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

// conditions accumulates a WHERE clause written with ? placeholders
type conditions struct {
	parts []string
	args  []interface{}
}

func (c *conditions) add(cond string, args ...interface{}) {
	c.parts = append(c.parts, cond)
	c.args = append(c.args, args...)
}

// search matches term case-insensitively against any of the columns
func (c *conditions) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	ors := make([]string, len(columns))
	for i, col := range columns {
		ors[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
		c.args = append(c.args, pattern)
	}
	c.parts = append(c.parts, "("+strings.Join(ors, " OR ")+")")
}

func (c *conditions) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.parts, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy resolves an ordering parameter against a whitelist of sortable
// fields. Unknown fields fall back to the default ordering. The tiebreak
// column keeps pagination stable.
func orderBy(ordering string, allowed map[string]string, fallback, tiebreak string) string {
	ordering = strings.TrimSpace(ordering)
	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		ordering = strings.TrimPrefix(ordering, "-")
	}

	expr, ok := allowed[ordering]
	if !ok {
		return "ORDER BY " + fallback + ", " + tiebreak
	}
	return fmt.Sprintf("ORDER BY %s %s, %s", expr, direction, tiebreak)
}

// paginate appends LIMIT/OFFSET for the clamped page of params
func paginate(params ports.ListParams, args []interface{}) (string, []interface{}) {
	limit, offset := params.Page()
	return "LIMIT ? OFFSET ?", append(args, limit, offset)
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx
type queryer = sqlx.ExtContext

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation recognises unique constraint failures from both drivers
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
