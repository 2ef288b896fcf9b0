package broker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adshao/go-binance/v2/common"
)

var (
	// ErrInsufficientFunds marks orders rejected for lack of balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidOrder marks orders the venue refused as malformed:
	// unknown symbol, quantity outside exchange filters, bad
	// precision.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrNoPrice marks a price query for a symbol the venue has no
	// mark for.
	ErrNoPrice = errors.New("no price")
)

// classify maps venue errors onto the sentinel categories, keeping
// the original message. Unrecognized faults pass through unchanged so
// callers can still inspect them.
func classify(err error) error {
	var api *common.APIError
	if !errors.As(err, &api) {
		return err
	}

	switch api.Code {
	case -2010, -2019: // order rejected
		if strings.Contains(strings.ToLower(api.Message), "insufficient") {
			return fmt.Errorf("%w: %s", ErrInsufficientFunds, api.Message)
		}
		return fmt.Errorf("%w: %s", ErrInvalidOrder, api.Message)
	case -1013, -1100, -1111, -1121: // filter, illegal chars, precision, symbol
		return fmt.Errorf("%w: %s", ErrInvalidOrder, api.Message)
	}
	return err
}
