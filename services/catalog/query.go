package catalog

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
)

const (
	defaultPageSize  = 12
	maxPageSize      = 100
	trendingPerBrand = 5
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortRating    = "rating"
)

type ListQuery struct {
	Brand    string  `form:"brand"`
	Color    string  `form:"color"`
	MinPrice float64 `form:"minPrice"`
	MaxPrice float64 `form:"maxPrice"`
	Search   string  `form:"search"`
	Sort     string  `form:"sort"`
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}

func parseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{}
	err := formcodec.NewDecoder().Decode(&q, values)
	if err != nil {
		return q, myerrors.NewInvalidInputError(fmt.Errorf("error decoding query: %w", err))
	}

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	q.PageSize = min(q.PageSize, maxPageSize)

	if q.MinPrice < 0 || q.MaxPrice < 0 {
		return q, myerrors.NewInvalidInputError(fmt.Errorf("price range must not be negative"))
	}
	if q.MaxPrice > 0 && q.MinPrice > q.MaxPrice {
		return q, myerrors.NewInvalidInputError(fmt.Errorf("minPrice %.2f exceeds maxPrice %.2f", q.MinPrice, q.MaxPrice))
	}
	if q.Sort != "" && !slices.Contains([]string{SortPriceAsc, SortPriceDesc, SortNewest, SortRating}, q.Sort) {
		return q, myerrors.NewInvalidInputError(fmt.Errorf("unsupported sort %s", q.Sort))
	}
	return q, nil
}

func (q ListQuery) matches(p Phone) bool {
	if q.Brand != "" && !strings.EqualFold(p.Brand, q.Brand) {
		return false
	}
	if q.Color != "" && !p.HasColor(q.Color) {
		return false
	}
	if p.Price < q.MinPrice {
		return false
	}
	if q.MaxPrice > 0 && p.Price > q.MaxPrice {
		return false
	}
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Model), term) && !strings.Contains(strings.ToLower(p.Brand), term) {
			return false
		}
	}
	return true
}

// apply filters, sorts and pages a copy of the given phones
func (q ListQuery) apply(phones []Phone) PhonePage {
	filtered := []Phone{}
	for _, p := range phones {
		if q.matches(p) {
			filtered = append(filtered, p)
		}
	}

	sortPhones(filtered, q.Sort)

	totalPages := (len(filtered) + q.PageSize - 1) / q.PageSize
	start := min((q.Page-1)*q.PageSize, len(filtered))
	end := min(start+q.PageSize, len(filtered))

	return PhonePage{
		Phones:     filtered[start:end],
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalCount: len(filtered),
		TotalPages: totalPages,
	}
}

func sortPhones(phones []Phone, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(phones, func(i, j int) bool { return phones[i].Price < phones[j].Price })
	case SortPriceDesc:
		sort.SliceStable(phones, func(i, j int) bool { return phones[i].Price > phones[j].Price })
	case SortNewest:
		sort.SliceStable(phones, func(i, j int) bool { return phones[i].ReleaseDate.After(phones[j].ReleaseDate) })
	case SortRating:
		sort.SliceStable(phones, func(i, j int) bool { return phones[i].Rating > phones[j].Rating })
	}
}

// trending takes the latest releases of every brand, newest first overall
func trending(phones []Phone) []Phone {
	perBrand := map[string][]Phone{}
	for _, p := range phones {
		perBrand[p.Brand] = append(perBrand[p.Brand], p)
	}

	result := []Phone{}
	for _, brandPhones := range perBrand {
		sortPhones(brandPhones, SortNewest)
		result = append(result, brandPhones[:min(trendingPerBrand, len(brandPhones))]...)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ReleaseDate.Equal(result[j].ReleaseDate) {
			return result[i].UID < result[j].UID
		}
		return result[i].ReleaseDate.After(result[j].ReleaseDate)
	})
	return result
}
