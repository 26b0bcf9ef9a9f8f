package order

import (
	"context"
	"sort"
	"time"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/services/order/orderevents"
	"github.com/MarcGrol/phoneloom/services/pricing"
)

const salesMonths = 6

func counted(o Order) bool {
	return o.Status != orderevents.StatusCancelled
}

// salesByMonth covers the current month and the five before it, oldest first, including months without sales
func (s *service) salesByMonth(c context.Context) ([]MonthlySales, error) {
	now := s.nower.Now().UTC()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(salesMonths - 1), 0)

	orders, err := s.orderStore.Query(c, []mystore.Filter{{Field: "CreatedAt", Compare: ">=", Value: firstMonth}}, "CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sales := make([]MonthlySales, salesMonths)
	revenue := make([][]float64, salesMonths)
	for i := range sales {
		sales[i].Month = firstMonth.AddDate(0, i, 0).Format("Jan")
	}
	for _, o := range orders {
		if !counted(o) {
			continue
		}
		created := o.CreatedAt.UTC()
		idx := (created.Year()-firstMonth.Year())*12 + int(created.Month()) - int(firstMonth.Month())
		if idx < 0 || idx >= salesMonths {
			continue
		}
		sales[idx].Orders++
		revenue[idx] = append(revenue[idx], o.TotalPrice)
	}
	for i := range sales {
		sales[i].Revenue = pricing.Sum(revenue[i]...)
	}

	return sales, nil
}

// brandSales counts units sold per brand, best selling first
func (s *service) brandSales(c context.Context) ([]BrandSales, error) {
	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	units := map[string]int{}
	for _, o := range orders {
		if !counted(o) {
			continue
		}
		for _, item := range o.Items {
			units[item.Brand] += item.Quantity
		}
	}

	result := make([]BrandSales, 0, len(units))
	for brand, count := range units {
		result = append(result, BrandSales{Brand: brand, Units: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Units != result[j].Units {
			return result[i].Units > result[j].Units
		}
		return result[i].Brand < result[j].Brand
	})

	return result, nil
}

func (s *service) overview(c context.Context) (Overview, error) {
	orders, err := s.orderStore.List(c)
	if err != nil {
		return Overview{}, myerrors.NewInternalError(err)
	}

	result := Overview{
		OrderCount: len(orders),
	}
	revenue := []float64{}
	for _, o := range orders {
		if o.Status == orderevents.StatusPending {
			result.PendingCount++
		}
		if counted(o) {
			revenue = append(revenue, o.TotalPrice)
		}
	}
	result.Revenue = pricing.Sum(revenue...)

	return result, nil
}
