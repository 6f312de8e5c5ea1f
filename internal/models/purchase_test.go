package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderDraft, OrderSubmitted, true},
		{OrderDraft, OrderCancelled, true},
		{OrderDraft, OrderApproved, false},
		{OrderSubmitted, OrderApproved, true},
		{OrderSubmitted, OrderReceived, false},
		{OrderApproved, OrderReceived, true},
		{OrderApproved, OrderSubmitted, false},
		{OrderReceived, OrderCancelled, false},
		{OrderCancelled, OrderSubmitted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
