package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddressChecksums(t *testing.T) {
	// EIP-55 test vector.
	checksummed := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	assert.Equal(t, checksummed, NormalizeAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.Equal(t, checksummed, NormalizeAddress("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"))
	assert.Equal(t, checksummed, NormalizeAddress(checksummed))
}

func TestNormalizeAddressPassesThroughNonAddresses(t *testing.T) {
	assert.Equal(t, "", NormalizeAddress(""))
	assert.Equal(t, "42", NormalizeAddress("42"), "token ids are not addresses")
	assert.Equal(t, "doc-7", NormalizeAddress("doc-7"))
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xABC", "0xabc"))
	assert.False(t, SameAddress("0xABC", "0xDEF"))
	assert.False(t, SameAddress("", ""), "empty never matches")
}

func TestAggregatedIDDerivation(t *testing.T) {
	assert.Equal(t, "0xAAA_1000", AggregatedID("0xAAA", 1000))
}
