package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altcred/internal/common/errors"
	"altcred/internal/models"
)

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"age":                   30.0,
		"income":                50000.0,
		"upi_txn_count":         100.0,
		"bill_payment_score":    90.0,
		"mobile_recharge_score": 85.0,
		"ecommerce_spend":       2000.0,
	}
}

func TestFeatureValidator_Valid(t *testing.T) {
	v := MustFeatureValidator()

	fv, err := v.Validate(validPayload())
	require.Nil(t, err)
	assert.Equal(t, models.FeatureVector{
		Age:                 30,
		Income:              50000,
		UPITxnCount:         100,
		BillPaymentScore:    90,
		MobileRechargeScore: 85,
		EcommerceSpend:      2000,
	}, fv)
}

func TestFeatureValidator_ExtraKeysIgnored(t *testing.T) {
	v := MustFeatureValidator()
	payload := validPayload()
	payload["name"] = "User A"

	_, err := v.Validate(payload)
	assert.Nil(t, err)
}

func TestFeatureValidator_MissingField(t *testing.T) {
	v := MustFeatureValidator()

	tests := []struct {
		name   string
		remove []string
		want   string
	}{
		{name: "income", remove: []string{"income"}, want: "Missing income"},
		{name: "first in canonical order wins", remove: []string{"ecommerce_spend", "age"}, want: "Missing age"},
		{name: "last field", remove: []string{"ecommerce_spend"}, want: "Missing ecommerce_spend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			for _, k := range tt.remove {
				delete(payload, k)
			}
			_, err := v.Validate(payload)
			require.NotNil(t, err)
			assert.Equal(t, errors.ErrCodeMissingField, err.Code)
			assert.Equal(t, tt.want, err.Message)
		})
	}
}

func TestFeatureValidator_MissingBeforeInvalid(t *testing.T) {
	v := MustFeatureValidator()
	payload := validPayload()
	payload["age"] = "thirty"
	delete(payload, "ecommerce_spend")

	_, err := v.Validate(payload)
	require.NotNil(t, err)
	assert.Equal(t, "Missing ecommerce_spend", err.Message)
}

func TestFeatureValidator_InvalidType(t *testing.T) {
	v := MustFeatureValidator()

	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{name: "string", field: "income", value: "50000"},
		{name: "null", field: "age", value: nil},
		{name: "bool", field: "bill_payment_score", value: true},
		{name: "object", field: "ecommerce_spend", value: map[string]interface{}{"v": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload[tt.field] = tt.value
			_, err := v.Validate(payload)
			require.NotNil(t, err)
			assert.Equal(t, errors.ErrCodeInvalidField, err.Code)
			assert.Equal(t, "Invalid "+tt.field+": expected number", err.Message)
			assert.Equal(t, tt.field, err.Field())
		})
	}
}

func TestFeatureValidator_IntegerAndJSONNumber(t *testing.T) {
	v := MustFeatureValidator()
	payload := validPayload()
	payload["age"] = 41
	payload["income"] = json.Number("72000.5")

	fv, err := v.Validate(payload)
	require.Nil(t, err)
	assert.Equal(t, 41.0, fv.Age)
	assert.Equal(t, 72000.5, fv.Income)
}

func TestSchema_ValidateSortsErrors(t *testing.T) {
	s, err := Compile(FeatureSchema())
	require.NoError(t, err)

	payload := validPayload()
	payload["upi_txn_count"] = "x"
	payload["age"] = "y"

	res, err := s.Validate(payload)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "age", res.Errors[0].Field)
	assert.Equal(t, "upi_txn_count", res.Errors[1].Field)
	assert.Equal(t, "invalid_type", res.Errors[0].Code)
}
