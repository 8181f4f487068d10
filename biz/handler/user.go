package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a user and seeds their paper-money wallet.
func Register(ctx context.Context, c *app.RequestContext) {
	var req RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.Username == "" || req.Email == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing username or email"})
		return
	}
	user, wallet, err := users.Register(req.Username, req.Email)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"user_id":      user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"cash_balance": wallet.CashBalance,
	})
}

// GetUser returns one user's profile.
func GetUser(ctx context.Context, c *app.RequestContext) {
	id := c.Param("id")
	user, err := users.Get(id)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, user)
}
