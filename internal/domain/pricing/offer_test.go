package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfferValidate(t *testing.T) {
	tests := []struct {
		name    string
		offer   Offer
		wantErr error
	}{
		{"global needs no target", Offer{Scope: ScopeGlobal}, nil},
		{"product with target", Offer{Scope: ScopeProduct, ProductID: "p1"}, nil},
		{"product without target", Offer{Scope: ScopeProduct}, ErrTargetRequired},
		{"category with target", Offer{Scope: ScopeCategory, CategoryID: "c1"}, nil},
		{"category without target", Offer{Scope: ScopeCategory}, ErrTargetRequired},
		{"sub-category with target", Offer{Scope: ScopeSubCategory, SubCategoryID: "s1"}, nil},
		{"sub-category without target", Offer{Scope: ScopeSubCategory}, ErrTargetRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.offer.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
