package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForFilename(t *testing.T) {
	assert.Equal(t, "shop_customers", SanitizeForFilename("shop.Customers"))
	assert.Equal(t, "a_b_c_d", SanitizeForFilename("a/b:c d"))
}

func TestArtifactPrefix(t *testing.T) {
	assert.Equal(t, "customers_last_name", ArtifactPrefix("Customers", "last_name"))
}
