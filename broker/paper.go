package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/tradesim/pkg/id"
)

// Paper fills orders instantly at the caller's resolved price and
// charges a flat fee rate on notional. It keeps a last mark per
// symbol so price resolution works the same way it does against a
// live venue.
type Paper struct {
	feeRate float64
	now     func() time.Time

	mu    sync.RWMutex
	marks map[string]float64
}

func NewPaper(feeRate float64) *Paper {
	return &Paper{
		feeRate: feeRate,
		now:     time.Now,
		marks:   make(map[string]float64),
	}
}

// SetNowFunc replaces the fill-timestamp clock. Passing nil restores
// the system clock.
func (p *Paper) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	p.now = now
}

// SetPrice records a mark for symbol, feeding later LastPrice calls.
func (p *Paper) SetPrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = price
}

func (p *Paper) LastPrice(_ context.Context, symbol string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	price, ok := p.marks[symbol]
	if !ok {
		return 0, fmt.Errorf("%w for %s", ErrNoPrice, symbol)
	}
	return price, nil
}

func (p *Paper) PlaceMarketOrder(_ context.Context, order Order) (Fill, error) {
	if order.Symbol == "" {
		return Fill{}, fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if order.Side != Buy && order.Side != Sell {
		return Fill{}, fmt.Errorf("%w: side %q", ErrInvalidOrder, order.Side)
	}
	if order.Amount <= 0 {
		return Fill{}, fmt.Errorf("%w: amount %v", ErrInvalidOrder, order.Amount)
	}
	if order.Price <= 0 {
		return Fill{}, fmt.Errorf("%w: price %v", ErrInvalidOrder, order.Price)
	}

	p.SetPrice(order.Symbol, order.Price)

	return Fill{
		OrderID: id.New(),
		Symbol:  order.Symbol,
		Side:    order.Side,
		Amount:  order.Amount,
		Price:   order.Price,
		Fee:     order.Amount * order.Price * p.feeRate,
		Time:    p.now(),
	}, nil
}
