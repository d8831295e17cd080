package stats

import "tempowise/internal/model"

// UncategorizedName is shown for activities whose category no longer exists.
const UncategorizedName = "Uncategorized"

// CategoryRef is either a resolved category or the Uncategorized placeholder.
type CategoryRef struct {
	category model.Category
	found    bool
}

// ResolveCategory looks up id among categories.
func ResolveCategory(id string, categories []model.Category) CategoryRef {
	if id == "" {
		return CategoryRef{}
	}
	for _, c := range categories {
		if c.ID == id {
			return CategoryRef{category: c, found: true}
		}
	}
	return CategoryRef{}
}

// Category returns the resolved category and whether it exists.
func (r CategoryRef) Category() (model.Category, bool) {
	return r.category, r.found
}

func (r CategoryRef) Uncategorized() bool { return !r.found }

func (r CategoryRef) Name() string {
	if !r.found {
		return UncategorizedName
	}
	return r.category.Name
}

func (r CategoryRef) Color() string {
	if !r.found {
		return ""
	}
	return r.category.Color
}

// CategoryIndex resolves many lookups against the same category list.
type CategoryIndex map[string]model.Category

func NewCategoryIndex(categories []model.Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

func (idx CategoryIndex) Resolve(id string) CategoryRef {
	c, ok := idx[id]
	if !ok || id == "" {
		return CategoryRef{}
	}
	return CategoryRef{category: c, found: true}
}
