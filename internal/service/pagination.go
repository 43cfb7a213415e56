package service

const (
	defaultPerPage = 20
	maxPerPage     = 200
)

// pageWindow clamps paging input and returns the page, page size and row offset.
func pageWindow(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, (page - 1) * perPage
}
