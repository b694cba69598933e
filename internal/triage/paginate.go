package triage

import "github.com/crownline/pageant-manager/internal/entity"

// DefaultPageSize is the fixed page size of the triage list.
const DefaultPageSize = 20

// TotalPages returns ceil(count/size), never less than 1 so an empty result
// still renders a single empty page.
func TotalPages(count, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces a 1-based page number into [1, totalPages]. Keeping the
// page in range means a bulk delete that empties the last page lands the
// operator on the new last page instead of an empty one.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page returns the contiguous slice [(page-1)*size, page*size) of the
// filtered subset. The page number must already be clamped.
func Page(records []entity.Enquiry, page, size int) []entity.Enquiry {
	start := (page - 1) * size
	if start >= len(records) {
		return []entity.Enquiry{}
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
