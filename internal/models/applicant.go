// internal/models/applicant.go
package models

// Feature keys in canonical order. Classifier input, CSV columns and
// validation all follow this order.
const (
	FeatureAge                 = "age"
	FeatureIncome              = "income"
	FeatureUPITxnCount         = "upi_txn_count"
	FeatureBillPaymentScore    = "bill_payment_score"
	FeatureMobileRechargeScore = "mobile_recharge_score"
	FeatureEcommerceSpend      = "ecommerce_spend"
)

// LabelLoanDefault is the target column of the synthetic dataset.
const LabelLoanDefault = "loan_default"

// FeatureNames returns the six required applicant attributes in canonical order.
func FeatureNames() []string {
	return []string{
		FeatureAge,
		FeatureIncome,
		FeatureUPITxnCount,
		FeatureBillPaymentScore,
		FeatureMobileRechargeScore,
		FeatureEcommerceSpend,
	}
}

// FeatureVector is the validated applicant input. Age and UPITxnCount are
// semantically integers but are carried as float64; no coercion is applied.
type FeatureVector struct {
	Age                 float64 `json:"age"`
	Income              float64 `json:"income"`
	UPITxnCount         float64 `json:"upi_txn_count"`
	BillPaymentScore    float64 `json:"bill_payment_score"`
	MobileRechargeScore float64 `json:"mobile_recharge_score"`
	EcommerceSpend      float64 `json:"ecommerce_spend"`
}

// Values returns the features in canonical order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.Age,
		f.Income,
		f.UPITxnCount,
		f.BillPaymentScore,
		f.MobileRechargeScore,
		f.EcommerceSpend,
	}
}

// Map returns the features keyed by their JSON names.
func (f FeatureVector) Map() map[string]interface{} {
	return map[string]interface{}{
		FeatureAge:                 f.Age,
		FeatureIncome:              f.Income,
		FeatureUPITxnCount:         f.UPITxnCount,
		FeatureBillPaymentScore:    f.BillPaymentScore,
		FeatureMobileRechargeScore: f.MobileRechargeScore,
		FeatureEcommerceSpend:      f.EcommerceSpend,
	}
}

// FeatureVectorFromValues is the inverse of Values. It panics if values does
// not hold exactly six entries.
func FeatureVectorFromValues(values []float64) FeatureVector {
	if len(values) != len(FeatureNames()) {
		panic("models: feature vector requires six values")
	}
	return FeatureVector{
		Age:                 values[0],
		Income:              values[1],
		UPITxnCount:         values[2],
		BillPaymentScore:    values[3],
		MobileRechargeScore: values[4],
		EcommerceSpend:      values[5],
	}
}

// LabeledApplicant is one row of the offline training dataset.
type LabeledApplicant struct {
	Features    FeatureVector `json:"features"`
	LoanDefault bool          `json:"loan_default"`
}
