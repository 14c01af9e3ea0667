package testutil

import "strconv"

// Fixture is a predefined set of baskets.
type Fixture interface {
	Name() string
	Baskets() []Basket
}

type fixture struct {
	name    string
	baskets []Basket
}

func (f *fixture) Name() string { return f.name }

func (f *fixture) Baskets() []Basket {
	out := make([]Basket, len(f.baskets))
	for i, b := range f.baskets {
		out[i] = Basket{CustomerID: b.CustomerID, Items: append([]string(nil), b.Items...)}
	}
	return out
}

var (
	// FixtureScenario is three customers: milk and bread, milk alone, and
	// milk, bread and eggs.
	FixtureScenario Fixture = &fixture{
		name: "Scenario",
		baskets: []Basket{
			{CustomerID: "c1", Items: []string{"milk", "bread"}},
			{CustomerID: "c2", Items: []string{"milk"}},
			{CustomerID: "c3", Items: []string{"milk", "bread", "eggs"}},
		},
	}

	// FixturePaired is ten customers: even ones buy beer and chips, odd ones
	// buy milk and bread, with milk bought twice. Every pair rule has
	// support 0.5, confidence 1 and lift 2.
	FixturePaired Fixture = &fixture{
		name:    "Paired",
		baskets: pairedBaskets(),
	}
)

func pairedBaskets() []Basket {
	baskets := make([]Basket, 10)
	for i := range baskets {
		baskets[i].CustomerID = strconv.Itoa(1000 + i)
		if i%2 == 0 {
			baskets[i].Items = []string{"beer", "chips"}
		} else {
			baskets[i].Items = []string{"milk", "bread", "milk"}
		}
	}
	return baskets
}
