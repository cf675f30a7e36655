package repository

import (
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingolive/pkg/filterexpr"
)

var listVocabularySchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"language": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Language"},
		},
		"word": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Word",
				filterexpr.OpSW: "WordPrefix",
				filterexpr.OpIN: "Words",
			},
		},
		"mastery": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpLT:  "MasteryBelow",
				filterexpr.OpGTE: "MasteryAtLeast",
			},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedAfter",
				filterexpr.OpLT:  "CreatedBefore",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.OrderField{
			"created_at": {Expr: "created_at"},
			"mastery":    {Expr: "mastery"},
			"word":       {Expr: "word"},
			"id":         {Expr: "id"},
		},
	},
}

// listVocabularyParams receives the bound filter values.
type listVocabularyParams struct {
	Language       string
	Word           string
	WordPrefix     string
	Words          []string
	MasteryBelow   *int
	MasteryAtLeast *int
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}

func orderTerm(schema filterexpr.OrderSchema, t filterexpr.Term) string {
	if t.Desc {
		return entsql.Desc(schema.Column(t.Key))
	}
	return entsql.Asc(schema.Column(t.Key))
}
