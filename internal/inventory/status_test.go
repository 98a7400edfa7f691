package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, true},
		{StatusShipped, StatusPending, false},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusShipped, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusShipped, false},
		{StatusCancelled, StatusCancelled, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusShipped.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("Refunded").Valid())
	assert.False(t, Status("").Valid())
}
