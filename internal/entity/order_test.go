package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestRefDecodesBothShapes(t *testing.T) {
	var refs []TestRef
	require.NoError(t, json.Unmarshal([]byte(`["CBC",{"id":2,"name":"Lipid Profile","price":1000}]`), &refs))

	require.Len(t, refs, 2)
	assert.Equal(t, TestRef{Name: "CBC"}, refs[0])
	assert.Equal(t, TestRef{ID: 2, Name: "Lipid Profile", Price: 1000}, refs[1])
}

func TestTestRefMarshalsNameOnlyRefsAsStrings(t *testing.T) {
	data, err := json.Marshal([]TestRef{
		{Name: "CBC"},
		{ID: 2, Name: "Lipid Profile", Price: 1000},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["CBC",{"id":2,"name":"Lipid Profile","price":1000}]`, string(data))
}

func TestOrderSettled(t *testing.T) {
	for status, want := range map[string]bool{
		StatusInProcess: false,
		StatusPaid:      true,
		StatusFailed:    true,
		StatusCancelled: true,
	} {
		o := Order{Status: status}
		assert.Equal(t, want, o.Settled(), status)
	}
}

func TestNotesToleratesEmptyArray(t *testing.T) {
	var p PaymentEntity
	require.NoError(t, json.Unmarshal([]byte(`{"id":"pay_1","notes":[]}`), &p))
	assert.Empty(t, p.Notes)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"pay_1","notes":{"order_id":"ORD-AAAAAA"}}`), &p))
	assert.Equal(t, "ORD-AAAAAA", p.Notes["order_id"])
}
