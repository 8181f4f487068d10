package handler

import (
	"errors"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"papertrade/biz/service"
)

func TestWriteTradeErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"symbol not found", service.ErrSymbolNotFound, consts.StatusNotFound},
		{"position not found", service.ErrPositionNotFound, consts.StatusNotFound},
		{"symbol disabled", service.ErrSymbolDisabled, consts.StatusForbidden},
		{"price unavailable", service.ErrPriceUnavailable, consts.StatusServiceUnavailable},
		{"invalid quantity", service.ErrInvalidQuantity, consts.StatusBadRequest},
		{
			"insufficient funds",
			&service.InsufficientFundsError{
				Required:  decimal.RequireFromString("150"),
				Available: decimal.RequireFromString("100"),
			},
			consts.StatusPaymentRequired,
		},
		{
			"insufficient shares",
			&service.InsufficientSharesError{Owned: 5, Requested: 8},
			consts.StatusConflict,
		},
		{"unexpected", errors.New("boom"), consts.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := app.NewContext(0)
			writeTradeError(c, tc.err)
			assert.Equal(t, tc.status, c.Response.StatusCode())
		})
	}
}

func TestWriteTradeErrorWrappedPriceUnavailable(t *testing.T) {
	c := app.NewContext(0)
	writeTradeError(c, errors.Join(service.ErrPriceUnavailable, errors.New("oracle timeout")))
	assert.Equal(t, consts.StatusServiceUnavailable, c.Response.StatusCode())
}
