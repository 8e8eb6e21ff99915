// Package pricing holds the static price tables used by bookings and
// service requests, and the calculator that sums a booking's selection.
//
// A Catalog is built once at process start and never mutated afterwards, so
// it is safe to share between request handlers.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Service is one priced entry of a catalog.
type Service struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog maps service identifiers to prices.
type Catalog struct {
	main                 map[int]Service
	additional           map[string]Service
	requestTypes         map[string]float64
	defaultRequestAmount float64
}

// catalogFile is the on-disk JSON shape accepted by LoadFile.
type catalogFile struct {
	Main                 map[int]Service    `json:"main"`
	Additional           map[string]Service `json:"additional"`
	RequestTypes         map[string]float64 `json:"requestTypes"`
	DefaultRequestAmount float64            `json:"defaultRequestAmount"`
}

// Default returns the built-in price tables.
func Default() *Catalog {
	return New(
		map[int]Service{
			1: {Name: "Jump Start", Price: 49},
			2: {Name: "Flat Tire Change", Price: 79},
			3: {Name: "Fuel Delivery", Price: 39},
			4: {Name: "Lockout Service", Price: 59},
			5: {Name: "Battery Replacement", Price: 129},
			6: {Name: "Towing (up to 10 km)", Price: 149},
		},
		map[string]Service{
			"oil-check":         {Name: "Oil Level Check", Price: 15},
			"tire-pressure":     {Name: "Tire Pressure Check", Price: 10},
			"fluid-top-up":      {Name: "Fluid Top-Up", Price: 20},
			"wiper-replacement": {Name: "Wiper Blade Replacement", Price: 25},
			"battery-test":      {Name: "Battery Health Test", Price: 12},
		},
		map[string]float64{
			"Engine Repair":       1500,
			"Tire Services":       600,
			"Battery Services":    400,
			"Towing Services":     1000,
			"Fuel Delivery":       300,
			"Lockout Services":    450,
			"Brake Repair":        800,
			"Electrical Repair":   900,
			"General Maintenance": 700,
		},
		500,
	)
}

// New builds a catalog from the given tables. The maps are copied.
func New(main map[int]Service, additional map[string]Service, requestTypes map[string]float64, defaultRequestAmount float64) *Catalog {
	c := &Catalog{
		main:                 make(map[int]Service, len(main)),
		additional:           make(map[string]Service, len(additional)),
		requestTypes:         make(map[string]float64, len(requestTypes)),
		defaultRequestAmount: defaultRequestAmount,
	}
	for id, s := range main {
		c.main[id] = s
	}
	for id, s := range additional {
		c.additional[id] = s
	}
	for name, amount := range requestTypes {
		c.requestTypes[name] = amount
	}
	return c
}

// LoadFile reads a JSON catalog from path. Tables missing from the file fall
// back to the built-in defaults.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read %s: %w", path, err)
	}

	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("pricing: decode %s: %w", path, err)
	}

	def := Default()
	if len(f.Main) == 0 {
		f.Main = def.main
	}
	if len(f.Additional) == 0 {
		f.Additional = def.additional
	}
	if len(f.RequestTypes) == 0 {
		f.RequestTypes = def.requestTypes
	}
	if f.DefaultRequestAmount <= 0 {
		f.DefaultRequestAmount = def.defaultRequestAmount
	}

	return New(f.Main, f.Additional, f.RequestTypes, f.DefaultRequestAmount), nil
}

// MainService looks up a main service by id.
func (c *Catalog) MainService(id int) (Service, bool) {
	s, ok := c.main[id]
	return s, ok
}

// AdditionalService looks up an add-on by id.
func (c *Catalog) AdditionalService(id string) (Service, bool) {
	s, ok := c.additional[id]
	return s, ok
}

// EstimateRequest returns the estimated amount for a service-request type.
// Unknown types get the default amount.
func (c *Catalog) EstimateRequest(serviceType string) float64 {
	if amount, ok := c.requestTypes[serviceType]; ok {
		return amount
	}
	return c.defaultRequestAmount
}

// Listing is the public, ordered view of a catalog.
type Listing struct {
	Main                 []ListedService    `json:"main"`
	Additional           []ListedService    `json:"additional"`
	RequestTypes         map[string]float64 `json:"requestTypes"`
	DefaultRequestAmount float64            `json:"defaultRequestAmount"`
}

// ListedService is a catalog entry with its identifier.
type ListedService struct {
	ID    any     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Listing returns the catalog sorted by identifier.
func (c *Catalog) Listing() Listing {
	mainIDs := make([]int, 0, len(c.main))
	for id := range c.main {
		mainIDs = append(mainIDs, id)
	}
	sort.Ints(mainIDs)

	addIDs := make([]string, 0, len(c.additional))
	for id := range c.additional {
		addIDs = append(addIDs, id)
	}
	sort.Strings(addIDs)

	l := Listing{
		Main:                 make([]ListedService, 0, len(mainIDs)),
		Additional:           make([]ListedService, 0, len(addIDs)),
		RequestTypes:         make(map[string]float64, len(c.requestTypes)),
		DefaultRequestAmount: c.defaultRequestAmount,
	}
	for _, id := range mainIDs {
		s := c.main[id]
		l.Main = append(l.Main, ListedService{ID: id, Name: s.Name, Price: s.Price})
	}
	for _, id := range addIDs {
		s := c.additional[id]
		l.Additional = append(l.Additional, ListedService{ID: id, Name: s.Name, Price: s.Price})
	}
	for name, amount := range c.requestTypes {
		l.RequestTypes[name] = amount
	}
	return l
}
