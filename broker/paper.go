package broker

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"
)

// Paper is an in-memory Broker for dry runs and tests. Quotes and
// positions are seeded up front; placed orders are journaled instead of
// routed.
type Paper struct {
	mu        sync.Mutex
	positions []*Position
	quotes    map[string]*Quote
	orders    []*Order
	nextID    int
}

func NewPaper() *Paper {
	return &Paper{quotes: map[string]*Quote{}}
}

func (p *Paper) SetPositions(positions []*Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.positions = positions
}

func (p *Paper) SetQuote(symbol string, q *Quote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q.Symbol = symbol
	p.quotes[symbol] = q
}

func (p *Paper) GetPositions(ctx *context.Context) ([]*Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Position, len(p.positions))
	copy(out, p.positions)
	return out, nil
}

func (p *Paper) GetQuote(ctx *context.Context, symbol string) (*Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("paper broker: no quote for %s", symbol)
	}
	return q, nil
}

func (p *Paper) PlaceOrder(ctx *context.Context, order *Order, dryRun bool) (*OrderResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	if !dryRun {
		p.orders = append(p.orders, order)
	}
	return &OrderResponse{
		ID:     fmt.Sprintf("paper-%d", p.nextID),
		Status: "Received",
		DryRun: dryRun,
	}, nil
}

// Orders returns the journal of non-dry-run orders.
func (p *Paper) Orders() []*Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Order, len(p.orders))
	copy(out, p.orders)
	return out
}

// LoadPositionsCSV seeds positions from a CSV file with the Position
// column layout.
func (p *Paper) LoadPositionsCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var positions []*Position
	if err := gocsv.Unmarshal(f, &positions); err != nil {
		return fmt.Errorf("paper broker: parse %s: %w", path, err)
	}
	p.SetPositions(positions)
	return nil
}
