package schema

// NFTPaymentRefundTable represents the 'nft.paymentrefund' table
type NFTPaymentRefundTable struct {
	Table     string
	ID        string
	Account   string
	Amount    string
	Reason    string
	CreatedAt string
}

// NFTPaymentRefund is the schema definition for nft.paymentrefund
var NFTPaymentRefund = NFTPaymentRefundTable{
	Table:     "nft.paymentrefund",
	ID:        "id",
	Account:   "account",
	Amount:    "amount",
	Reason:    "reason",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t NFTPaymentRefundTable) Columns() []string {
	return []string{
		t.ID, t.Account, t.Amount, t.Reason, t.CreatedAt,
	}
}
