package questions

import (
	"fmt"
	"strings"
)

// Topic maps a public topic name to the question source's endpoint
// identifier.
type Topic struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
}

// Catalog is the immutable topic table injected at startup. Lookups are
// by exact topic name.
type Catalog struct {
	topics    []Topic
	endpoints map[string]string
}

// NewCatalog builds a catalog from an ordered topic list.
func NewCatalog(topics []Topic) (*Catalog, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("catalog requires at least one topic")
	}
	endpoints := make(map[string]string, len(topics))
	ordered := make([]Topic, 0, len(topics))
	for _, t := range topics {
		name := strings.TrimSpace(t.Name)
		endpoint := strings.TrimSpace(t.Endpoint)
		if name == "" || endpoint == "" {
			return nil, fmt.Errorf("catalog topic requires name and endpoint")
		}
		if _, dup := endpoints[name]; dup {
			return nil, fmt.Errorf("duplicate topic %q", name)
		}
		endpoints[name] = endpoint
		ordered = append(ordered, Topic{Name: name, Endpoint: endpoint})
	}
	return &Catalog{topics: ordered, endpoints: endpoints}, nil
}

// DefaultCatalog returns the built-in aptitude topic table.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog([]Topic{
		{Name: "Age", Endpoint: "Age"},
		{Name: "Calendars", Endpoint: "Calendar"},
		{Name: "Mixture and Alligation", Endpoint: "MixtureAndAlligation"},
		{Name: "Permutations and Combinations", Endpoint: "PermutationAndCombination"},
		{Name: "Pipes and Cisterns", Endpoint: "PipesAndCistern"},
		{Name: "Profit and Loss", Endpoint: "ProfitAndLoss"},
		{Name: "Simple Interest", Endpoint: "SimpleInterest"},
		{Name: "Speed Time Distance", Endpoint: "SpeedTimeDistance"},
	})
	if err != nil {
		panic(err)
	}
	return catalog
}

// Names returns topic names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.topics))
	for _, t := range c.topics {
		names = append(names, t.Name)
	}
	return names
}

// Endpoint resolves a topic name to its endpoint identifier.
func (c *Catalog) Endpoint(name string) (string, bool) {
	endpoint, ok := c.endpoints[name]
	return endpoint, ok
}

// Has reports whether the topic name is known.
func (c *Catalog) Has(name string) bool {
	_, ok := c.endpoints[name]
	return ok
}
