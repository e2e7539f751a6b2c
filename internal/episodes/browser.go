package episodes

// Browser tracks what an episode list currently shows: one page of the list,
// or every match of a filter.
type Browser struct {
	all      []Ref
	pages    [][]Ref
	pageSize int
	page     int
	filter   string
}

// NewBrowser starts on the first page with no filter
func NewBrowser(eps []Ref, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{
		all:      eps,
		pages:    Partition(eps, pageSize),
		pageSize: pageSize,
	}
}

// Total is the number of episodes in the list
func (b *Browser) Total() int { return len(b.all) }

// Page is the selected page index
func (b *Browser) Page() int { return b.page }

// Pages is the number of pages
func (b *Browser) Pages() int { return len(b.pages) }

// PageLabels labels every page for the selector
func (b *Browser) PageLabels() []string { return PageLabels(len(b.all), b.pageSize) }

// ShowPager reports whether the page selector is visible: more than one page and no filter
func (b *Browser) ShowPager() bool {
	return b.filter == "" && len(b.pages) > 1
}

// SelectPage switches page, clamping to the valid range
func (b *Browser) SelectPage(i int) {
	b.page = max(0, min(i, len(b.pages)-1))
}

// NextPage moves forward one page, staying on the last one
func (b *Browser) NextPage() { b.SelectPage(b.page + 1) }

// PrevPage moves back one page, staying on the first one
func (b *Browser) PrevPage() { b.SelectPage(b.page - 1) }

// SetFilter sets the filter text. Only empty text clears the filter and
// restores the paged view; spaces are matched like any other text.
func (b *Browser) SetFilter(text string) {
	b.filter = text
}

// Filter returns the current filter text
func (b *Browser) Filter() string { return b.filter }

// Filtering reports whether a filter is active
func (b *Browser) Filtering() bool { return b.filter != "" }

// Visible returns the episodes to render
func (b *Browser) Visible() []Ref {
	if b.filter != "" {
		return Filter(b.all, b.filter)
	}
	return b.pages[b.page]
}
