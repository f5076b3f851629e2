package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusAssigned, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusAssigned, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusAssigned, OrderStatusShipped, true},
		{OrderStatusAssigned, OrderStatusDelivered, true},
		{OrderStatusAssigned, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestAssignableStatuses(t *testing.T) {
	assert.Equal(t, []OrderStatus{OrderStatusPending, OrderStatusProcessing}, AssignableStatuses)
	for _, st := range AssignableStatuses {
		assert.True(t, st.CanTransitionTo(OrderStatusAssigned), st)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, st)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}
