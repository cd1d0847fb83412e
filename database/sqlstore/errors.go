package sqlstore

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// uniqueKey names one unique constraint the way each engine reports it.
type uniqueKey struct {
	// constraint is the postgres constraint name.
	constraint string
	// columns is the sqlite column list, e.g. "votes.user_id, votes.comment_id".
	columns string
}

var voteUserCommentKey = uniqueKey{
	constraint: "votes_user_comment_key",
	columns:    "votes.user_id, votes.comment_id",
}

// isUniqueViolation reports whether err violates key. Violations of other
// unique constraints, including primary keys, do not match.
func isUniqueViolation(err error, key uniqueKey) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation && pqErr.Constraint == key.constraint
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+key.columns)
}
