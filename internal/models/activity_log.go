package models

// ActivityLog records each ledger operation applied to the portfolio.
type ActivityLog struct {
	Base
	Action    string `gorm:"not null;index" json:"action"`
	AssetID   int64  `json:"asset_id,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	Details   string `gorm:"type:text" json:"details,omitempty"`
}

// Activity actions.
const (
	ActionAddWallet   = "add_wallet"
	ActionBuy         = "buy"
	ActionSell        = "sell"
	ActionExchange    = "exchange"
	ActionDeposit     = "deposit"
	ActionWithdraw    = "withdraw"
	ActionDelete      = "delete"
	ActionImport      = "import"
	ActionConsolidate = "consolidate"
)
