package pagination

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Meta is the page metadata returned with offset-paginated listings.
// From and To are 1-based positions of the first and last row on the page, zero when the page is empty.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// Normalize clamps page and perPage into their allowed ranges.
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset returns the row offset of page.
func Offset(page, perPage int) int {
	page, perPage = Normalize(page, perPage)
	return (page - 1) * perPage
}

// NewMeta builds the metadata for page given the total number of matching rows and
// the number of rows actually returned.
func NewMeta(page, perPage, total, returned int) Meta {
	page, perPage = Normalize(page, perPage)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	m := Meta{CurrentPage: page, LastPage: lastPage, PerPage: perPage, Total: total}
	if returned > 0 {
		m.From = Offset(page, perPage) + 1
		m.To = m.From + returned - 1
	}
	return m
}
