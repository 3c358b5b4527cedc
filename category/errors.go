package category

import "errors"

var (
	// ErrInvalidArgument indicates a nil table or an empty category/item name.
	ErrInvalidArgument = errors.New("category: invalid argument")

	// ErrInconsistent indicates that the category → items table and the
	// item → categories table do not describe the same membership relation.
	ErrInconsistent = errors.New("category: item and category tables disagree")

	// ErrMalformedLine indicates a category-file line that does not have the
	// "name: item, item" shape.
	ErrMalformedLine = errors.New("category: malformed category line")
)
