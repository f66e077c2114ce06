package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/Ankushsph/fuel/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestContext(t *testing.T) {
	app := fiber.New()

	var ctx context.Context
	app.Get("/ping", func(c fiber.Ctx) error {
		ctx = createRequestContext(c, "ping")
		if cancel, ok := ctx.Value(utils.CancelFuncKey).(context.CancelFunc); ok {
			defer cancel()
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	req.Header.Set("User-Agent", "fuel-cli/1.0")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, ctx)
	assert.Equal(t, "req-42", ctx.Value(utils.RequestIDKey))
	assert.Equal(t, "fuel-cli/1.0", ctx.Value(utils.UserAgentKey))
	assert.Equal(t, "ping", ctx.Value(utils.EndpointKey))

	// Values are stored under typed keys only
	assert.Nil(t, ctx.Value("request_id"))

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}
