package broker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Binance routes market orders to the Binance spot API.
type Binance struct {
	client *binance.Client
	logger *zap.Logger
}

func NewBinance(apiKey, apiSecret string, logger *zap.Logger) *Binance {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Binance{
		client: binance.NewClient(apiKey, apiSecret),
		logger: logger,
	}
}

// UseTestnet routes all subsequently constructed Binance venues to the
// spot testnet. Affects the whole process, call it before NewBinance.
func UseTestnet(on bool) {
	binance.UseTestnet = on
}

func (b *Binance) LastPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("query %s price: %w", symbol, classify(err))
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("%w for %s", ErrNoPrice, symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s price %q: %w", symbol, prices[0].Price, err)
	}
	return price, nil
}

func (b *Binance) PlaceMarketOrder(ctx context.Context, order Order) (Fill, error) {
	// Exchanges reject floats with binary noise in them; decimal
	// text keeps the quantity exactly what we computed.
	qty := decimal.NewFromFloat(order.Amount).String()

	res, err := b.client.NewCreateOrderService().
		Symbol(order.Symbol).
		Side(binance.SideType(order.Side)).
		Type(binance.OrderTypeMarket).
		Quantity(qty).
		Do(ctx)
	if err != nil {
		return Fill{}, fmt.Errorf("place %s %s %s: %w", order.Side, qty, order.Symbol, classify(err))
	}

	fill := Fill{
		OrderID: strconv.FormatInt(res.OrderID, 10),
		Symbol:  res.Symbol,
		Side:    order.Side,
		Price:   order.Price,
		Time:    time.Unix(0, res.TransactTime*int64(time.Millisecond)),
	}

	fill.Amount, err = strconv.ParseFloat(res.ExecutedQuantity, 64)
	if err != nil {
		return Fill{}, fmt.Errorf("parse executed quantity %q: %w", res.ExecutedQuantity, err)
	}

	// Average the partial fills into one price and total their fees.
	var filled, cost, fee float64
	for _, part := range res.Fills {
		price, err := strconv.ParseFloat(part.Price, 64)
		if err != nil {
			b.logger.Warn("unparseable fill price",
				zap.String("symbol", res.Symbol),
				zap.String("price", part.Price))
			continue
		}
		q, err := strconv.ParseFloat(part.Quantity, 64)
		if err != nil {
			continue
		}
		c, _ := strconv.ParseFloat(part.Commission, 64)

		filled += q
		cost += price * q
		fee += c
	}
	if filled > 0 {
		fill.Price = cost / filled
	}
	fill.Fee = fee

	b.logger.Info("order filled",
		zap.String("order_id", fill.OrderID),
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Float64("amount", fill.Amount),
		zap.Float64("price", fill.Price),
		zap.Float64("fee", fill.Fee))

	return fill, nil
}
