package exec

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradesim/broker"
	"github.com/rustyeddy/tradesim/risk"
)

// Config wires a Coordinator.
type Config struct {
	Governor *risk.Governor
	Paper    broker.Broker // required
	Live     broker.Broker // optional, enables ModeLive
	Mode     Mode          // empty defaults to ModePaper

	// FallbackPrice is used when neither the order nor the venue can
	// price a symbol. Zero disables the fallback and such orders fail.
	FallbackPrice float64

	Logger *zap.Logger // nil gets a no-op logger
}

// Coordinator turns trade instructions into venue orders. It owns no
// positions and no balance; callers pass account facts in and the
// governor keeps the per-symbol risk view.
//
// The mode is the only mutable state. SetMode and Mode may be called
// concurrently with Execute; everything else rides on the Governor's
// access rules.
type Coordinator struct {
	governor *risk.Governor
	paper    broker.Broker
	live     broker.Broker
	fallback float64
	logger   *zap.Logger

	mu   sync.Mutex
	mode Mode
}

func NewCoordinator(cfg Config) (*Coordinator, error) {
	if cfg.Governor == nil {
		return nil, errors.New("governor required")
	}
	if cfg.Paper == nil {
		return nil, errors.New("paper venue required")
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModePaper
	}
	if mode != ModePaper && mode != ModeLive {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if mode == ModeLive && cfg.Live == nil {
		return nil, errors.New("live mode requires a live venue")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		governor: cfg.Governor,
		paper:    cfg.Paper,
		live:     cfg.Live,
		fallback: cfg.FallbackPrice,
		logger:   logger,
		mode:     mode,
	}, nil
}

// SetMode switches the execution venue between calls. Switching to
// ModeLive is refused when no live venue is configured.
func (c *Coordinator) SetMode(mode Mode) error {
	if mode != ModePaper && mode != ModeLive {
		return fmt.Errorf("unknown mode %q", mode)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode == ModeLive && c.live == nil {
		return errors.New("no live venue configured")
	}
	if mode != c.mode {
		c.logger.Info("execution mode switched",
			zap.String("from", string(c.mode)),
			zap.String("to", string(mode)))
		c.mode = mode
	}
	return nil
}

// Mode reports the active execution mode.
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// venue snapshots the mode and its broker together so a concurrent
// SetMode cannot split an Execute across venues.
func (c *Coordinator) venue() (Mode, broker.Broker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeLive {
		return ModeLive, c.live
	}
	return ModePaper, c.paper
}

// Execute carries one instruction through price resolution, sizing,
// risk admission and the venue. A Hold returns StatusSkipped before
// anything else runs. Rejections and failures have no side effects
// beyond logging.
func (c *Coordinator) Execute(ctx context.Context, order Order, acct risk.AccountSnapshot) Result {
	if order.Side == Hold {
		return Result{Status: StatusSkipped, Symbol: order.Symbol, Side: Hold, Reason: "hold signal, nothing to execute"}
	}
	side, ok := order.Side.broker()
	if !ok {
		return c.fail(order, CategoryInvalidOrder, fmt.Sprintf("unknown side %q", order.Side))
	}

	mode, venue := c.venue()

	price := order.Price
	if price <= 0 {
		quoted, err := venue.LastPrice(ctx, order.Symbol)
		switch {
		case err == nil:
			price = quoted
		case c.fallback > 0:
			c.logger.Warn("no venue quote, using fallback price",
				zap.String("symbol", order.Symbol),
				zap.Float64("fallback", c.fallback),
				zap.Error(err))
			price = c.fallback
		default:
			return c.fail(order, categorize(err), fmt.Sprintf("quote %s: %v", order.Symbol, err))
		}
	}

	amount := order.Amount
	if amount <= 0 {
		if side == broker.Buy {
			amount = c.governor.PositionSize(price, acct.Balance, 0)
		} else {
			pos, held := c.governor.Position(order.Symbol)
			if !held || pos.Quantity <= 0 {
				return c.fail(order, CategoryInvalidOrder, fmt.Sprintf("no open position to sell for %s", order.Symbol))
			}
			amount = pos.Quantity
		}
	}

	riskSide := risk.Long
	if side == broker.Sell {
		riskSide = risk.Short
	}
	decision := c.governor.CheckTrade(risk.TradeIntent{
		Symbol: order.Symbol,
		Side:   riskSide,
		Amount: amount,
		Price:  price,
	}, acct)
	if !decision.Allowed {
		c.logger.Info("trade rejected",
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.String("reason", decision.Reason()))
		return Result{Status: StatusRejected, Symbol: order.Symbol, Side: order.Side, Reason: decision.Reason()}
	}

	fill, err := venue.PlaceMarketOrder(ctx, broker.Order{
		Symbol: order.Symbol,
		Side:   side,
		Amount: amount,
		Price:  price,
	})
	if err != nil {
		return c.fail(order, categorize(err), err.Error())
	}

	c.logger.Info("trade executed",
		zap.String("mode", string(mode)),
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Float64("amount", fill.Amount),
		zap.Float64("price", fill.Price),
		zap.Float64("fee", fill.Fee))

	return Result{
		Status:  StatusExecuted,
		Symbol:  fill.Symbol,
		Side:    order.Side,
		Amount:  fill.Amount,
		Price:   fill.Price,
		Fee:     fill.Fee,
		OrderID: fill.OrderID,
		Mode:    mode,
	}
}

// CheckAndClose refreshes the governor's risk view from the caller's
// open positions and emits a protective SELL intent for each one that
// crossed a trigger, stop-loss checked before take-profit. It places
// no orders; callers feed the intents back through Execute.
func (c *Coordinator) CheckAndClose(positions []risk.Position) []Order {
	var intents []Order
	for _, pos := range positions {
		if pos.Symbol == "" || pos.EntryPrice <= 0 || pos.CurrentPrice <= 0 || pos.Quantity <= 0 {
			continue
		}
		held := c.governor.UpdatePosition(pos.Symbol, pos.EntryPrice, pos.CurrentPrice, pos.Quantity)
		switch {
		case held.HitStopLoss():
			c.logger.Warn("stop loss hit",
				zap.String("symbol", held.Symbol),
				zap.Float64("price", held.CurrentPrice),
				zap.Float64("stop", held.StopLoss))
			intents = append(intents, Order{
				Symbol: held.Symbol,
				Side:   Sell,
				Price:  held.CurrentPrice,
				Amount: held.Quantity,
				Reason: ReasonStopLoss,
			})
		case held.HitTakeProfit():
			c.logger.Info("take profit hit",
				zap.String("symbol", held.Symbol),
				zap.Float64("price", held.CurrentPrice),
				zap.Float64("target", held.TakeProfit))
			intents = append(intents, Order{
				Symbol: held.Symbol,
				Side:   Sell,
				Price:  held.CurrentPrice,
				Amount: held.Quantity,
				Reason: ReasonTakeProfit,
			})
		}
	}
	return intents
}

func (c *Coordinator) fail(order Order, cat Category, msg string) Result {
	c.logger.Error("execution failed",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.String("category", string(cat)),
		zap.String("message", msg))
	return Result{Status: StatusError, Symbol: order.Symbol, Side: order.Side, Category: cat, Message: msg}
}

// categorize folds venue errors into the failure taxonomy.
func categorize(err error) Category {
	switch {
	case errors.Is(err, broker.ErrInsufficientFunds):
		return CategoryInsufficientFunds
	case errors.Is(err, broker.ErrInvalidOrder):
		return CategoryInvalidOrder
	default:
		return CategoryUnknown
	}
}
