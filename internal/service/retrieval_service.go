package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"car-support-be/internal/entity"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/routing"
	"car-support-be/pkg/utils"
)

// VectorSearchAdapter backs the router's vector tier with the pgvector
// knowledge table.
type VectorSearchAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVectorSearchAdapter(uowFactory unitofwork.RepositoryFactory) *VectorSearchAdapter {
	return &VectorSearchAdapter{uowFactory: uowFactory}
}

func (a *VectorSearchAdapter) Search(ctx context.Context, vector []float32, topK int) ([]routing.Snippet, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)

	// The threshold cut happens in the router so it stays tunable in one
	// place; the repository only bounds the result size.
	scored, err := uow.KnowledgeEmbeddingRepository().SearchSimilarWithScore(ctx, vector, topK, 0)
	if err != nil {
		return nil, err
	}

	snippets := make([]routing.Snippet, 0, len(scored))
	for _, s := range scored {
		snippets = append(snippets, routing.Snippet{
			Text:  s.Embedding.Document,
			Score: s.Similarity,
		})
	}
	return snippets, nil
}

// StructuredSearchAdapter backs the router's second tier with keyword
// matching over the vehicle listing table.
type StructuredSearchAdapter struct {
	uowFactory unitofwork.RepositoryFactory
	limit      int
}

func NewStructuredSearchAdapter(uowFactory unitofwork.RepositoryFactory, limit int) *StructuredSearchAdapter {
	if limit <= 0 {
		limit = 5
	}
	return &StructuredSearchAdapter{uowFactory: uowFactory, limit: limit}
}

func (a *StructuredSearchAdapter) Lookup(ctx context.Context, query string) (string, bool, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)

	listings, err := uow.VehicleListingRepository().SearchKeywords(ctx, extractKeywords(query), a.limit)
	if err != nil {
		return "", false, err
	}
	if len(listings) == 0 {
		return "", false, nil
	}

	lines := make([]string, 0, len(listings))
	for _, l := range listings {
		lines = append(lines, renderListing(l))
	}
	return strings.Join(lines, "\n"), true, nil
}

// Number-plus-unit runs ("7人座", "2021年", "85萬", "40000公里") lifted out
// of the query so they can match on their own. Chinese questions carry no
// whitespace, so without this the only candidate would be the full sentence.
var numericUnitPattern = regexp.MustCompile(`[0-9]+(?:人座|年|萬|公里)`)

// extractKeywords turns a free-form question into ILIKE candidates: each
// whitespace-separated token, each number+unit run, plus the numeral
// renderings of the full query, so "五人座" and "5人座" hit the same rows.
func extractKeywords(query string) []string {
	seen := map[string]bool{}
	var keywords []string
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if len([]rune(kw)) >= 2 && !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	for _, variant := range utils.NumeralVariants(query) {
		add(variant)
		for _, token := range strings.Fields(variant) {
			add(token)
		}
		for _, run := range numericUnitPattern.FindAllString(variant, -1) {
			add(run)
		}
	}
	return keywords
}

func renderListing(l *entity.VehicleListing) string {
	parts := []string{
		fmt.Sprintf("%s %s", l.Brand, l.Model),
		fmt.Sprintf("%d年", l.Year),
		fmt.Sprintf("%d萬", l.PriceWan),
		fmt.Sprintf("里程%d公里", l.MileageKm),
		fmt.Sprintf("%d人座", l.Seats),
	}
	if l.Transmission != "" {
		parts = append(parts, l.Transmission)
	}
	if l.FuelType != "" {
		parts = append(parts, l.FuelType)
	}
	if l.Color != "" {
		parts = append(parts, l.Color)
	}
	if l.Description != "" {
		parts = append(parts, l.Description)
	}
	return strings.Join(parts, "，")
}
