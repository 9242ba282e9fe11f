package content

import "strings"

const paidMarker = "paid"

// IsPaid reports whether a post requires an active subscription: any tag
// whose slug is "paid" or whose name contains "paid", case-insensitively.
// It is evaluated on every request because tags can change in the CMS.
func IsPaid(p *Post) bool {
	if p == nil {
		return false
	}
	for _, tag := range p.Tags {
		if strings.EqualFold(tag.Slug, paidMarker) ||
			strings.Contains(strings.ToLower(tag.Name), paidMarker) {
			return true
		}
	}
	return false
}
