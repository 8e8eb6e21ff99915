package pricing

import "fmt"

// UnknownServiceError reports a service id missing from the catalog.
type UnknownServiceError struct {
	Kind string // "main" or "additional"
	ID   string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("invalid %s service: %s", e.Kind, e.ID)
}

// Calculate sums the prices of the selected main and additional services.
// The first unknown id aborts the calculation.
func (c *Catalog) Calculate(main []int, additional []string) (float64, error) {
	var total float64

	for _, id := range main {
		s, ok := c.MainService(id)
		if !ok {
			return 0, &UnknownServiceError{Kind: "main", ID: fmt.Sprint(id)}
		}
		total += s.Price
	}

	for _, id := range additional {
		s, ok := c.AdditionalService(id)
		if !ok {
			return 0, &UnknownServiceError{Kind: "additional", ID: id}
		}
		total += s.Price
	}

	return total, nil
}
