package repository

import (
	"fmt"
	"strings"

	apperrors "complaint-desk.com/complaint-desk/internal/errors"
)

const DefaultSort = "-createdAt"

const priorityRank = "CASE priority WHEN 'Low' THEN 0 WHEN 'Medium' THEN 1 WHEN 'High' THEN 2 WHEN 'Critical' THEN 3 ELSE 4 END"

var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"title":        "title",
	"category":     "category",
	"priority":     priorityRank,
	"status":       "status",
	"customerName": "customer_name",
}

type SortOrder struct {
	Field      string
	Descending bool
	column     string
}

// ParseSort reads a sort key such as "title" or "-createdAt". An empty key
// means DefaultSort.
func ParseSort(key string) (SortOrder, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultSort
	}

	order := SortOrder{}
	if strings.HasPrefix(key, "-") {
		order.Descending = true
		key = key[1:]
	}

	column, ok := sortColumns[key]
	if !ok {
		return SortOrder{}, apperrors.InvalidQuery(apperrors.FieldError{
			Field:   "sort",
			Message: fmt.Sprintf("cannot sort by %q", key),
		})
	}

	order.Field = key
	order.column = column
	return order, nil
}

func (o SortOrder) clauses() []string {
	if o.column == "" {
		o, _ = ParseSort(DefaultSort)
	}

	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}
	return []string{o.column + " " + dir, "id ASC"}
}
