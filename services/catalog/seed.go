package catalog

import (
	"context"
	"time"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mylog"
)

func released(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var demoPhones = []Phone{
	{
		UID:                "65f1a0000000000000000001",
		Brand:              "Apple",
		Model:              "iPhone 15 Pro",
		Description:        "Titanium design with the A17 Pro chip.",
		Price:              999,
		DiscountPercentage: 5,
		Storage:            []string{"128GB", "256GB", "512GB"},
		Colors:             []string{"Natural Titanium", "Black Titanium"},
		RAM:                []string{"8GB"},
		BatterySize:        "3274mAh",
		BatteryType:        "Li-Ion",
		DisplaySize:        "6.1 inches",
		FrontCamera:        "12MP",
		BackCamera:         "48MP + 12MP + 12MP",
		OS:                 "iOS 17",
		ReleaseDate:        released(2023, time.September, 22),
		Stock:              25,
		Rating:             4.7,
	},
	{
		UID:                "65f1a0000000000000000002",
		Brand:              "Samsung",
		Model:              "Galaxy S24",
		Description:        "Compact flagship with Galaxy AI.",
		Price:              899,
		DiscountPercentage: 10,
		Storage:            []string{"128GB", "256GB"},
		Colors:             []string{"Onyx Black", "Cobalt Violet"},
		RAM:                []string{"8GB", "12GB"},
		BatterySize:        "4000mAh",
		BatteryType:        "Li-Ion",
		DisplaySize:        "6.2 inches",
		FrontCamera:        "12MP",
		BackCamera:         "50MP + 12MP + 10MP",
		OS:                 "Android 14",
		ReleaseDate:        released(2024, time.January, 31),
		Stock:              30,
		Rating:             4.6,
	},
	{
		UID:         "65f1a0000000000000000003",
		Brand:       "Samsung",
		Model:       "Galaxy A55",
		Description: "Mid-range phone with a metal frame.",
		Price:       449,
		Storage:     []string{"128GB", "256GB"},
		Colors:      []string{"Awesome Navy", "Awesome Iceblue"},
		RAM:         []string{"8GB"},
		BatterySize: "5000mAh",
		BatteryType: "Li-Ion",
		DisplaySize: "6.6 inches",
		FrontCamera: "32MP",
		BackCamera:  "50MP + 12MP + 5MP",
		OS:          "Android 14",
		ReleaseDate: released(2024, time.March, 15),
		Stock:       3,
		Rating:      4.2,
	},
	{
		UID:                "65f1a0000000000000000004",
		Brand:              "Google",
		Model:              "Pixel 8a",
		Description:        "Tensor G3 in an affordable body.",
		Price:              499,
		DiscountPercentage: 15,
		Storage:            []string{"128GB", "256GB"},
		Colors:             []string{"Obsidian", "Bay", "Aloe"},
		RAM:                []string{"8GB"},
		BatterySize:        "4492mAh",
		BatteryType:        "Li-Ion",
		DisplaySize:        "6.1 inches",
		FrontCamera:        "13MP",
		BackCamera:         "64MP + 13MP",
		OS:                 "Android 14",
		ReleaseDate:        released(2024, time.May, 14),
		Stock:              12,
		Rating:             4.5,
	},
	{
		UID:                "65f1a0000000000000000005",
		Brand:              "Xiaomi",
		Model:              "14 Ultra",
		Description:        "Leica optics with a one inch sensor.",
		Price:              1299,
		DiscountPercentage: 8,
		Storage:            []string{"256GB", "512GB", "1TB"},
		Colors:             []string{"Black", "White"},
		RAM:                []string{"12GB", "16GB"},
		BatterySize:        "5000mAh",
		BatteryType:        "Si/C",
		DisplaySize:        "6.73 inches",
		FrontCamera:        "32MP",
		BackCamera:         "50MP x4",
		OS:                 "Android 14",
		ReleaseDate:        released(2024, time.February, 25),
		Stock:              0,
		Rating:             4.4,
	},
}

// seedIfEmpty fills an empty catalog with demo phones
func (s *service) seedIfEmpty(c context.Context) (int, error) {
	existing, err := s.phoneStore.List(c)
	if err != nil {
		return 0, myerrors.NewInternalError(err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := s.nower.Now()
	err = s.phoneStore.RunInTransaction(c, func(c context.Context) error {
		for _, p := range demoPhones {
			p.CreatedAt = now
			err := s.phoneStore.Put(c, p.UID, p)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Log(c, "", mylog.SeverityInfo, "Seeded catalog with %d phones", len(demoPhones))
	s.cache.Clear()

	return len(demoPhones), nil
}
