package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type activityFilter struct {
	Offset   *int    `bson:"-"`
	Contract *string `bson:"contract"`
	Seller   *string `bson:"seller"`
	Type     string  `bson:"type"`
	Buyer    string  `bson:"buyer"`
	Amount   *int    `bson:"amount"`
	hidden   string
}

func TestToFilter(t *testing.T) {
	offset, contract, seller, amount := 3, "0xabc", "", 10
	filter, err := ToFilter(&activityFilter{
		Offset:   &offset,
		Contract: &contract,
		Seller:   &seller,
		Type:     "sold",
		Amount:   &amount,
		hidden:   "x",
	})

	require.NoError(t, err)
	assert.Equal(t, bson.M{
		"contract": "0xabc",
		"seller":   "",
		"type":     "sold",
		"amount":   10,
	}, filter)
}

func TestToFilterByValue(t *testing.T) {
	filter, err := ToFilter(activityFilter{Type: "listed"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"type": "listed"}, filter)
}

func TestToFilterNotStruct(t *testing.T) {
	_, err := ToFilter("seller")
	assert.Error(t, err)
}
