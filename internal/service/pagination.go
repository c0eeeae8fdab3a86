package service

import "math"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// NormalizePage приводит параметры пагинации к допустимым значениям.
// Номер страницы ограничен так, чтобы смещение (page-1)*limit помещалось в int.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}
