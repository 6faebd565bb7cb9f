// Package quotes manages detailed freight quotes.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/internal/query"
	"github.com/mithrel/freightdesk/pkg/api"
)

const Resource = "detailed-quotes"

var ServiceLevels = []string{"Standard", "Expedited", "Guaranteed"}

var Accessorials = []string{"Liftgate"}

var ErrNoID = errors.New("quote id is required")

type Dimension struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (d Dimension) String() string {
	return fmt.Sprintf("%gx%gx%g", d.Length, d.Width, d.Height)
}

type Location struct {
	City  string `json:"city" yaml:"city"`
	State string `json:"state" yaml:"state"`
	Zip   string `json:"zip" yaml:"zip"`
}

// String renders the location the way the server stores it:
// "New York, NY 10001".
func (l Location) String() string {
	s := strings.TrimSpace(l.City)
	if l.State != "" {
		if s != "" {
			s += ", "
		}
		s += l.State
	}
	if l.Zip != "" {
		s = strings.TrimSpace(s + " " + l.Zip)
	}
	return s
}

type DetailedQuote struct {
	ID                   api.ID        `json:"id" yaml:"id"`
	CreatedAt            api.Timestamp `json:"createdAt" yaml:"createdAt"`
	PickupLocation       string        `json:"pickupLocation" yaml:"pickupLocation"`
	DeliveryLocation     string        `json:"deliveryLocation" yaml:"deliveryLocation"`
	PickupDate           string        `json:"pickupDate" yaml:"pickupDate"`
	DeliveryDate         string        `json:"deliveryDate" yaml:"deliveryDate"`
	Weight               float64       `json:"weight" yaml:"weight"`
	NumberOfPieces       int           `json:"numberOfPieces" yaml:"numberOfPieces"`
	FreightClass         string        `json:"freightClass" yaml:"freightClass"`
	ServiceLevel         string        `json:"serviceLevel" yaml:"serviceLevel"`
	CommodityDescription string        `json:"commodityDescription" yaml:"commodityDescription"`
	HazardousMaterials   bool          `json:"hazardousMaterials" yaml:"hazardousMaterials"`
	Dimensions           []Dimension   `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Insurance            *float64      `json:"insurance,omitempty" yaml:"insurance,omitempty"`
	CompanyName          string        `json:"companyName" yaml:"companyName"`
	ContactPerson        string        `json:"contactPerson" yaml:"contactPerson"`
	PhoneNumber          string        `json:"phoneNumber" yaml:"phoneNumber"`
	EmailAddress         string        `json:"emailAddress" yaml:"emailAddress"`

	apiclient.Problem `yaml:",inline"`
}

// Input is the create form.
type Input struct {
	PickupLocation       Location    `json:"pickupLocation"`
	DeliveryLocation     Location    `json:"deliveryLocation"`
	PickupDate           string      `json:"pickupDate"`
	DeliveryDate         string      `json:"deliveryDate"`
	NumberOfPieces       int         `json:"numberOfPieces"`
	Weight               float64     `json:"weight"`
	Dimensions           []Dimension `json:"dimensions,omitempty"`
	FreightClass         string      `json:"freightClass"`
	CommodityDescription string      `json:"commodityDescription"`
	HazardousMaterials   bool        `json:"hazardousMaterials"`
	ServiceLevel         string      `json:"serviceLevel"`
	AccessorialServices  []string    `json:"accessorialServices,omitempty"`
	Insurance            *float64    `json:"insurance,omitempty"`
	CompanyName          string      `json:"companyName"`
	ContactPerson        string      `json:"contactPerson"`
	PhoneNumber          string      `json:"phoneNumber"`
	EmailAddress         string      `json:"emailAddress"`
}

func (in Input) Validate() error {
	var v api.Validator
	location := func(prefix string, l Location) {
		v.Required(prefix+".city", l.City, "City is required")
		v.Required(prefix+".state", l.State, "State/Province is required")
		v.Required(prefix+".zip", l.Zip, "ZIP/Postal Code is required")
	}
	location("pickupLocation", in.PickupLocation)
	location("deliveryLocation", in.DeliveryLocation)
	v.Required("pickupDate", in.PickupDate, "Pickup date is required")
	v.Required("deliveryDate", in.DeliveryDate, "Delivery date is required")
	v.Min("numberOfPieces", float64(in.NumberOfPieces), 1, "Number of pieces must be at least 1")
	v.Min("weight", in.Weight, 0.1, "Weight must be at least 0.1")
	for i, d := range in.Dimensions {
		p := "dimensions." + strconv.Itoa(i)
		v.Min(p+".length", d.Length, 0.1, "Length must be at least 0.1")
		v.Min(p+".width", d.Width, 0.1, "Width must be at least 0.1")
		v.Min(p+".height", d.Height, 0.1, "Height must be at least 0.1")
	}
	v.Required("freightClass", in.FreightClass, "Freight class is required")
	v.Required("commodityDescription", in.CommodityDescription, "Commodity description is required")
	if in.ServiceLevel == "" {
		v.Add("serviceLevel", "Service level is required")
	} else {
		v.OneOf("serviceLevel", in.ServiceLevel, ServiceLevels, "Invalid service level")
	}
	for _, a := range in.AccessorialServices {
		v.OneOf("accessorialServices", a, Accessorials, "Invalid accessorial service")
	}
	if in.Insurance != nil {
		v.Min("insurance", *in.Insurance, 0, "Insurance value cannot be negative")
	}
	v.Required("companyName", in.CompanyName, "Company name is required")
	v.Required("contactPerson", in.ContactPerson, "Contact person is required")
	v.Required("phoneNumber", in.PhoneNumber, "Phone number is required")
	v.Email("emailAddress", in.EmailAddress, "Invalid email address")
	return v.Err()
}

type Service struct {
	api   *apiclient.Client
	cache *query.Cache
}

func New(c *apiclient.Client, cache *query.Cache) *Service {
	return &Service{api: c, cache: cache}
}

func listKey(page int) query.Key {
	return query.NewKey(Resource, map[string]int{"page": page})
}

func itemKey(id string) query.Key {
	return query.NewKey(Resource, id)
}

// List returns one page of quotes, newest first as the server orders them.
func (s *Service) List(ctx context.Context, page int) ([]DetailedQuote, error) {
	if page <= 0 {
		page = 1
	}
	return query.Fetch(ctx, s.cache, listKey(page), func(ctx context.Context) ([]DetailedQuote, error) {
		return apiclient.Get[[]DetailedQuote](ctx, s.api, "/"+Resource, url.Values{"page": {strconv.Itoa(page)}})
	})
}

func (s *Service) Get(ctx context.Context, id string) (DetailedQuote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DetailedQuote{}, ErrNoID
	}
	return query.Fetch(ctx, s.cache, itemKey(id), func(ctx context.Context) (DetailedQuote, error) {
		return apiclient.Get[DetailedQuote](ctx, s.api, "/"+Resource+"/"+url.PathEscape(id), nil)
	})
}

func (s *Service) Create(ctx context.Context, in Input) (DetailedQuote, error) {
	if err := in.Validate(); err != nil {
		return DetailedQuote{}, err
	}
	q, err := apiclient.Post[DetailedQuote](ctx, s.api, "/"+Resource, in)
	if err != nil {
		return DetailedQuote{}, err
	}
	if !q.Invalid() {
		s.invalidate()
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNoID
	}
	res, err := apiclient.Exec[apiclient.Problem](ctx, s.api, apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/" + Resource + "/" + url.PathEscape(id),
	})
	if err != nil {
		return err
	}
	if res.Validation {
		return fmt.Errorf("delete quote %s: %s", id, res.Value.Text())
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(query.NewKey(Resource))
	}
}
