package sim

import (
	"fmt"
	"math/rand"
)

// Order is a single pickup task. Orders are created once at start and
// consumed exactly once, in queue order.
type Order struct {
	ID    string `json:"id"`
	Item  Cell   `json:"item"`
	Label string `json:"label"`
}

// labeler is satisfied by grids that carry shelf references.
type labeler interface {
	ShelfLabel(c Cell) string
}

// GenerateOrders draws one queue of perAgent orders for each of nAgents.
// Queue k takes perm[(k*perAgent + j) mod len(items)] from a permutation of
// items, so every queue holds distinct items and queues only overlap when
// there are fewer than nAgents*perAgent items.
func GenerateOrders(g GridModel, items []Cell, nAgents, perAgent int, rng *rand.Rand) ([][]Order, error) {
	if len(items) < perAgent {
		return nil, configErrorf("items", "need at least %d reachable items, layout has %d", perAgent, len(items))
	}
	lb, _ := g.(labeler)
	perm := rng.Perm(len(items))
	queues := make([][]Order, nAgents)
	for k := 0; k < nAgents; k++ {
		q := make([]Order, perAgent)
		for j := 0; j < perAgent; j++ {
			item := items[perm[(k*perAgent+j)%len(items)]]
			label := item.String()
			if lb != nil {
				label = lb.ShelfLabel(item)
			}
			q[j] = Order{ID: fmt.Sprintf("A%d-%02d", k+1, j+1), Item: item, Label: label}
		}
		queues[k] = q
	}
	return queues, nil
}
