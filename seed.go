package newsdesk

import (
	"fmt"
	"time"
)

var sampleCategories = []Category{
	{Slug: "politics", Name: "Politics", Description: "Government, elections and policy.", SortOrder: 1},
	{Slug: "business", Name: "Business", Description: "Markets, companies and the economy.", SortOrder: 2},
	{Slug: "technology", Name: "Technology", Description: "Software, hardware and the people building them.", SortOrder: 3},
	{Slug: "sports", Name: "Sports", Description: "Scores, transfers and analysis.", SortOrder: 4},
}

var sampleArticles = []Article{
	{
		Title:    "City council approves new transit budget",
		Excerpt:  "The plan adds two bus lines and extends late-night service.",
		Content:  "The council voted 7-2 on Tuesday to approve the budget.\n\nConstruction on the first line starts next spring.",
		Category: "politics",
		Author:   "Newsroom",
		Tags:     []string{"politics", "transit"},
		Featured: true,
	},
	{
		Title:    "Chipmakers rally as demand outlook improves",
		Excerpt:  "Shares rose across the sector after upbeat guidance.",
		Content:  "Several manufacturers raised their forecasts for the coming quarter.\n\nAnalysts cautioned that supply remains tight.",
		Category: "business",
		Author:   "Newsroom",
		Tags:     []string{"business", "technology"},
		Featured: true,
	},
	{
		Title:    "Local club clinches promotion on final day",
		Excerpt:  "A late goal sealed a return to the top division.",
		Content:  "Fans poured onto the pitch after the final whistle.",
		Category: "sports",
		Author:   "Newsroom",
		Tags:     []string{"sports"},
	},
}

// SeedSample fills an empty database with a few categories and published
// articles. It does nothing when articles already exist.
func SeedSample(s *Store) (int, error) {
	existing, err := s.ListAllArticles()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, c := range sampleCategories {
		if _, err := s.SaveCategory(c); err != nil {
			return 0, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}
	now := time.Now().UTC()
	for i, a := range sampleArticles {
		a.Published = true
		a.PublishedAt = now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339)
		if _, err := s.SaveArticle(a); err != nil {
			return i, fmt.Errorf("seed article %q: %w", a.Title, err)
		}
	}
	return len(sampleArticles), nil
}
