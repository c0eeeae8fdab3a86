package repository

import (
	"fmt"
	"strings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// whereBuilder собирает WHERE с позиционными параметрами $1..$n.
// В условии используется %d (или %[1]d для повторного использования) вместо номера параметра.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern экранирует спецсимволы LIKE и оборачивает строку для поиска подстроки
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
