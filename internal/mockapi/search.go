package mockapi

import (
	"context"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/gompa/internal/errs"
	"github.com/MrSnakeDoc/gompa/internal/utils"
)

type SearchFilters struct {
	Type      string `json:"type,omitempty"`
	Region    string `json:"region,omitempty"`
	Tradition string `json:"tradition,omitempty"`
}

type SearchRequest struct {
	Query    string        `json:"query"`
	Filters  SearchFilters `json:"filters"`
	Language string        `json:"language"`
}

type SearchResult struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Region      string  `json:"region"`
	Tradition   string  `json:"tradition,omitempty"`
	Relevance   float64 `json:"relevance"`
}

type SearchResponse struct {
	Query          string         `json:"query"`
	Language       string         `json:"language"`
	Results        []SearchResult `json:"results"`
	Total          int            `json:"total"`
	ProcessingTime int64          `json:"processingTime"`
	Suggestions    []string       `json:"suggestions"`
}

var catalogue = []SearchResult{
	{ID: "potala-palace", Type: "monastery", Title: "Potala Palace", Description: "Winter palace of the Dalai Lamas above Lhasa.", URL: "/monasteries/potala-palace", Region: "tibet", Tradition: "gelug", Relevance: 0.98},
	{ID: "jokhang-temple", Type: "monastery", Title: "Jokhang Temple", Description: "Tibet's most sacred temple on the Barkhor.", URL: "/monasteries/jokhang-temple", Region: "tibet", Tradition: "gelug", Relevance: 0.95},
	{ID: "saga-dawa-2026", Type: "event", Title: "Saga Dawa Festival", Description: "Month-long celebration of the Buddha's enlightenment.", URL: "/events/saga-dawa-2026", Region: "tibet", Relevance: 0.87},
	{ID: "losar-2027", Type: "event", Title: "Losar, Tibetan New Year", Description: "Monastery rituals and cham dances for the new year.", URL: "/events/losar-2027", Region: "tibet", Relevance: 0.82},
	{ID: "kangyur-manuscripts", Type: "archive", Title: "Kangyur Manuscripts", Description: "Digitised block prints from the Narthang edition.", URL: "/archives/kangyur-manuscripts", Region: "tibet", Tradition: "gelug", Relevance: 0.76},
	{ID: "rumtek-monastery", Type: "monastery", Title: "Rumtek Monastery", Description: "Seat of the Karmapa in exile, Sikkim.", URL: "/monasteries/rumtek-monastery", Region: "sikkim", Tradition: "kagyu", Relevance: 0.71},
	{ID: "hemis-virtual-tour", Type: "tour", Title: "Hemis Monastery Virtual Tour", Description: "360° walk through Ladakh's largest monastery.", URL: "/tours/hemis-virtual-tour", Region: "ladakh", Tradition: "drukpa", Relevance: 0.64},
}

// Search validates req and, after the configured delay, returns the fixed
// catalogue narrowed by the request filters.
func (s *Service) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return SearchResponse{}, &ValidationError{Field: "query", Code: errs.MissingQuery}
	}

	start := s.now()
	if err := wait(ctx, s.searchWait()); err != nil {
		return SearchResponse{}, err
	}

	results := utils.Filter(catalogue, func(r SearchResult) bool {
		return matchFilter(r.Type, req.Filters.Type) &&
			matchFilter(r.Region, req.Filters.Region) &&
			matchFilter(r.Tradition, req.Filters.Tradition)
	})
	sort.SliceStable(results, func(i, j int) bool { return results[i].Relevance > results[j].Relevance })

	lang := normalizeLang(req.Language)
	if lang == "" {
		lang = "en"
	}

	return SearchResponse{
		Query:          query,
		Language:       lang,
		Results:        results,
		Total:          len(results),
		ProcessingTime: s.now().Sub(start).Milliseconds(),
		Suggestions:    suggestions(query),
	}, nil
}

func matchFilter(value, want string) bool {
	return want == "" || want == "all" || strings.EqualFold(value, want)
}

func suggestions(query string) []string {
	q := strings.ToLower(query)
	return []string{
		q + " monastery",
		q + " history",
		q + " virtual tour",
	}
}
