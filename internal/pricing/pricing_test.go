package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscalate(t *testing.T) {
	cases := []struct {
		name string
		in   int64
		want int64
	}{
		{"default fan price", 100, 150},
		{"second acquisition", 150, 225},
		{"odd price floors down", 225, 337},
		{"one", 1, 1},
		{"zero", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Escalate(tc.in))
		})
	}
}

func TestEscalateIsMonotonic(t *testing.T) {
	price := int64(100)
	for i := 0; i < 20; i++ {
		next := Escalate(price)
		assert.GreaterOrEqual(t, next, price)
		price = next
	}
}
