package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBahtRounds(t *testing.T) {
	assert.Equal(t, Amount(10050), FromBaht(100.50))
	assert.Equal(t, Amount(10000), FromBaht(100))
	assert.Equal(t, Amount(3333), FromBaht(33.333))
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, Amount(30000), FromBaht(100).Mul(3))
	assert.Equal(t, Amount(48000), Sum(FromBaht(450), FromBaht(30)))
	assert.Equal(t, Amount(0), Sum())
}

func TestString(t *testing.T) {
	assert.Equal(t, "฿120", FromBaht(120).String())
	assert.Equal(t, "฿120.50", FromBaht(120.5).String())
	assert.Equal(t, "-฿5", FromBaht(-5).String())
}

func TestJSONBahtNumbers(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte("120.5"), &a))
	assert.Equal(t, FromBaht(120.5), a)

	out, err := json.Marshal(FromBaht(120))
	require.NoError(t, err)
	assert.Equal(t, "120", string(out))

	out, err = json.Marshal(FromBaht(120.5))
	require.NoError(t, err)
	assert.Equal(t, "120.50", string(out))

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
}
