package repository

import (
	"github.com/studypup/studypup/internal/repository"
	"github.com/studypup/studypup/pkg/filterexpr"
)

var listGraphsSchema = filterexpr.Schema{
	Filter: map[string]filterexpr.FilterField{
		"source_type": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "SourceType",
				filterexpr.OpIN: "SourceTypes",
			},
		},
		"title": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpSW: "TitlePrefix"},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGT:  "CreatedAfter",
				filterexpr.OpGTE: "CreatedAfter",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultKey:  "created_at",
		DefaultDesc: true,
		Keys:        []string{"created_at", "updated_at", "title", "source_type"},
	},
}

// NewListGraphQuery binds a caller-supplied filter and order_by expression
// into a graph listing query for the given owner.
func NewListGraphQuery(ownerID, filter, orderBy string) (*repository.ListGraphQuery, error) {
	q := &repository.ListGraphQuery{OwnerID: ownerID}
	if err := filterexpr.Bind(filter, orderBy, q, listGraphsSchema); err != nil {
		return nil, err
	}
	return q, nil
}
