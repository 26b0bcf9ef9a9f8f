package catalog

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
)

type Phone struct {
	UID                string     `json:"id"`
	Brand              string     `json:"brand"`
	Model              string     `json:"model"`
	Description        string     `json:"description" datastore:",noindex"`
	Price              float64    `json:"price"`
	DiscountPercentage float64    `json:"discountPercentage"`
	Storage            []string   `json:"storage"`
	Colors             []string   `json:"colors"`
	RAM                []string   `json:"ramSize"`
	BatterySize        string     `json:"batterySize"`
	BatteryType        string     `json:"batteryType"`
	DisplaySize        string     `json:"displaySize"`
	ReleaseDate        time.Time  `json:"releaseDate"`
	Image              string     `json:"image" datastore:",noindex"`
	FrontCamera        string     `json:"frontCamera"`
	BackCamera         string     `json:"backCamera"`
	OS                 string     `json:"os"`
	Stock              int        `json:"stock"`
	Rating             float64    `json:"rating"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastModified       *time.Time `json:"lastModified,omitempty"`
}

func (p Phone) HasColor(color string) bool {
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// StockMovement records that the stock effect of an order event has been applied
type StockMovement struct {
	UID       string
	OrderUID  string
	Kind      string
	AppliedAt time.Time
}

type PriceQuote struct {
	PhoneUID           string  `json:"phoneUid"`
	Storage            string  `json:"storage"`
	RAM                string  `json:"ram"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Price              float64 `json:"price"`
	OriginalPrice      float64 `json:"originalPrice"`
}

type PhonePage struct {
	Phones     []Phone `json:"phones"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
}

// PhoneForm is the admin payload. Empty fields keep their current value on update.
type PhoneForm struct {
	Brand              string   `form:"brand"`
	Model              string   `form:"model"`
	Description        string   `form:"description"`
	Price              *float64 `form:"price"`
	DiscountPercentage *float64 `form:"discountPercentage"`
	Storage            []string `form:"storage"`
	Colors             []string `form:"colors"`
	RAM                []string `form:"ramSize"`
	BatterySize        string   `form:"batterySize"`
	BatteryType        string   `form:"batteryType"`
	DisplaySize        string   `form:"displaySize"`
	ReleaseDate        string   `form:"releaseDate"`
	Image              string   `form:"image"`
	FrontCamera        string   `form:"frontCamera"`
	BackCamera         string   `form:"backCamera"`
	OS                 string   `form:"os"`
	Stock              *int     `form:"stock"`
	Rating             *float64 `form:"rating"`
}

const releaseDateLayout = "2006-01-02"

func (f PhoneForm) validateForCreate() error {
	missing := []string{}
	if f.Brand == "" {
		missing = append(missing, "brand")
	}
	if f.Model == "" {
		missing = append(missing, "model")
	}
	if f.Description == "" {
		missing = append(missing, "description")
	}
	if f.Price == nil {
		missing = append(missing, "price")
	}
	if f.Stock == nil {
		missing = append(missing, "stock")
	}
	if len(missing) > 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}

func (f PhoneForm) validateValues() error {
	if f.Price != nil && *f.Price < 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("price must not be negative"))
	}
	if f.DiscountPercentage != nil && (*f.DiscountPercentage < 0 || *f.DiscountPercentage > 100) {
		return myerrors.NewInvalidInputError(fmt.Errorf("discountPercentage must be between 0 and 100"))
	}
	if f.Stock != nil && *f.Stock < 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("stock must not be negative"))
	}
	if f.ReleaseDate != "" {
		_, err := time.Parse(releaseDateLayout, f.ReleaseDate)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("releaseDate must be formatted as %s", releaseDateLayout))
		}
	}
	return nil
}

// applyTo merges the non-empty fields of the form onto the phone
func (f PhoneForm) applyTo(p Phone) Phone {
	setString := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	setString(&p.Brand, f.Brand)
	setString(&p.Model, f.Model)
	setString(&p.Description, f.Description)
	setString(&p.BatterySize, f.BatterySize)
	setString(&p.BatteryType, f.BatteryType)
	setString(&p.DisplaySize, f.DisplaySize)
	setString(&p.Image, f.Image)
	setString(&p.FrontCamera, f.FrontCamera)
	setString(&p.BackCamera, f.BackCamera)
	setString(&p.OS, f.OS)

	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.DiscountPercentage != nil {
		p.DiscountPercentage = *f.DiscountPercentage
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
	if f.Rating != nil {
		p.Rating = *f.Rating
	}
	if len(f.Storage) > 0 {
		p.Storage = f.Storage
	}
	if len(f.Colors) > 0 {
		p.Colors = f.Colors
	}
	if len(f.RAM) > 0 {
		p.RAM = f.RAM
	}
	if f.ReleaseDate != "" {
		releaseDate, err := time.Parse(releaseDateLayout, f.ReleaseDate)
		if err == nil {
			p.ReleaseDate = releaseDate
		}
	}
	return p
}

func validatePhoneUID(uid string) error {
	if !primitive.IsValidObjectID(uid) {
		return myerrors.NewInvalidInputError(fmt.Errorf("Invalid ID format"))
	}
	return nil
}

func newPhoneUID(now time.Time) string {
	return primitive.NewObjectIDFromTimestamp(now).Hex()
}
