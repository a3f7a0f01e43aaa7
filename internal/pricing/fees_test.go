package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

func TestFeeTableResolve(t *testing.T) {
	table := DefaultFeeTable()

	tests := []struct {
		name     string
		addr     domain.Address
		override *domain.DeliveryOverride
		fee      float64
		label    string
		source   string
	}{
		{
			name:   "primary metro district",
			addr:   domain.Address{District: "Dhaka"},
			fee:    80,
			label:  "Inside Dhaka",
			source: "address",
		},
		{
			name:   "district is case and whitespace normalized",
			addr:   domain.Address{District: "  dHaKa "},
			fee:    80,
			label:  "Inside Dhaka",
			source: "address",
		},
		{
			name:   "adjacent district mid tier",
			addr:   domain.Address{District: "Narayanganj"},
			fee:    120,
			label:  "Dhaka Suburb",
			source: "address",
		},
		{
			name:   "suburb via address line substring",
			addr:   domain.Address{District: "Dhaka Division", AddressLine1: "Block C, Savar"},
			fee:    120,
			label:  "Dhaka Suburb",
			source: "address",
		},
		{
			name:   "unknown district gets default tier",
			addr:   domain.Address{District: "Chattogram"},
			fee:    150,
			label:  "Outside Dhaka",
			source: "address",
		},
		{
			name:     "override wins over address",
			addr:     domain.Address{District: "Dhaka"},
			override: &domain.DeliveryOverride{Area: "outside", Fee: 200},
			fee:      200,
			label:    "Outside Dhaka",
			source:   "override",
		},
		{
			name:     "inside override",
			addr:     domain.Address{District: "Chattogram"},
			override: &domain.DeliveryOverride{Area: "Inside", Fee: 60},
			fee:      60,
			label:    "Inside Dhaka",
			source:   "override",
		},
		{
			name:     "unrecognized override area falls back to address",
			addr:     domain.Address{District: "Dhaka"},
			override: &domain.DeliveryOverride{Area: "moon", Fee: 10},
			fee:      80,
			label:    "Inside Dhaka",
			source:   "address",
		},
		{
			name:     "negative override fee ignored",
			addr:     domain.Address{District: "Dhaka"},
			override: &domain.DeliveryOverride{Area: "inside", Fee: -5},
			fee:      80,
			label:    "Inside Dhaka",
			source:   "address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Resolve(tt.addr, tt.override)
			assert.Equal(t, tt.fee, got.Fee)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

func TestFeeTableResolveDeterministic(t *testing.T) {
	table := DefaultFeeTable()
	addr := domain.Address{District: "Gazipur", AddressLine1: "Road 1, Keraniganj"}

	first := table.Resolve(addr, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Resolve(addr, nil))
	}
}
