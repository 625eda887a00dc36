package models_test

import (
	"errors"
	"testing"

	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus_Known(t *testing.T) {
	for _, s := range []string{"pending", "shipped", "delivered", "cancelled"} {
		status, err := models.ParseOrderStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatus(s), status)
	}
}

func TestParseOrderStatus_Unknown(t *testing.T) {
	_, err := models.ParseOrderStatus("completed")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownStatus))

	// статус регистрозависимый
	_, err = models.ParseOrderStatus("Pending")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusShipped, true},
		{models.StatusPending, models.StatusDelivered, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusDelivered, models.StatusShipped, false},
		{models.StatusPending, models.StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to),
			"transition %s -> %s", c.from, c.to)
	}
}
