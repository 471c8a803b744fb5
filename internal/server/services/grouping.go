package services

import (
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/gosimple/slug"
)

// CategoryGroup is one section of the items page.
type CategoryGroup struct {
	Name  string         `json:"name"`
	Slug  string         `json:"slug"`
	Items []*models.Item `json:"items"`
}

// CategorySlug is the URL anchor for a category, e.g. "meat-and-fish".
func CategorySlug(category string) string {
	return slug.Make(category)
}

// GroupByCategory splits items into groups in the order categories are first
// seen. Item order inside a group is preserved.
func GroupByCategory(items []*models.Item) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, CategoryGroup{Name: item.Category, Slug: CategorySlug(item.Category)})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
