package memory

// paginate возвращает 1-индексированную страницу. limit < 1 возвращает все элементы.
func paginate[T any](items []T, page, limit int) []T {
	if limit < 1 {
		return items
	}
	if page < 1 {
		page = 1
	}
	// сравнение делением, чтобы (page-1)*limit не переполнялось
	if page-1 > (len(items)-1)/limit || len(items) == 0 {
		return nil
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
