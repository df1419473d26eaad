// Package model defines the persisted entities. Every user-owned row
// carries a user_id column; repository queries must always filter on it.
package model

import "time"

// Asset is a user-owned holding (gold, FX, crypto, ...).
type Asset struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        string     `gorm:"column:user_id;index;not null" json:"user_id"`
	Name          string     `gorm:"column:name;not null" json:"name"`
	Category      string     `gorm:"column:category;not null" json:"category"`
	Quantity      float64    `gorm:"column:quantity;not null" json:"quantity"`
	PurchasePrice float64    `gorm:"column:purchase_price;not null" json:"purchase_price"`
	PurchaseDate  *time.Time `gorm:"column:purchase_date" json:"purchase_date,omitempty"`
	CurrentPrice  *float64   `gorm:"column:current_price" json:"current_price,omitempty"`
	Currency      string     `gorm:"column:currency;not null" json:"currency"`
	IsSold        *bool      `gorm:"column:is_sold" json:"is_sold,omitempty"`
	SoldPrice     *float64   `gorm:"column:sold_price" json:"sold_price,omitempty"`
	SoldDate      *time.Time `gorm:"column:sold_date" json:"sold_date,omitempty"`
	Notes         string     `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

// Transaction records a buy or sell against a holding.
type Transaction struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          string     `gorm:"column:user_id;index;not null" json:"user_id"`
	AssetID         *uint      `gorm:"column:asset_id" json:"asset_id,omitempty"`
	AssetName       string     `gorm:"column:asset_name;not null" json:"asset_name"`
	TransactionType string     `gorm:"column:transaction_type;not null" json:"transaction_type"`
	Quantity        float64    `gorm:"column:quantity;not null" json:"quantity"`
	PricePerUnit    float64    `gorm:"column:price_per_unit;not null" json:"price_per_unit"`
	TotalAmount     float64    `gorm:"column:total_amount;not null" json:"total_amount"`
	Currency        string     `gorm:"column:currency;not null" json:"currency"`
	ProfitLoss      *float64   `gorm:"column:profit_loss" json:"profit_loss,omitempty"`
	TransactionDate *time.Time `gorm:"column:transaction_date" json:"transaction_date,omitempty"`
	Notes           string     `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

// PriceAlert fires when a watched instrument crosses a target price.
// Only the triggered-state transition lives here; delivery is external.
type PriceAlert struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        string     `gorm:"column:user_id;index;not null" json:"user_id"`
	AssetName     string     `gorm:"column:asset_name;not null" json:"asset_name"`
	AssetCategory string     `gorm:"column:asset_category" json:"asset_category,omitempty"`
	TargetPrice   float64    `gorm:"column:target_price;not null" json:"target_price"`
	Condition     string     `gorm:"column:condition;not null" json:"condition"`
	Currency      string     `gorm:"column:currency;not null" json:"currency"`
	IsActive      *bool      `gorm:"column:is_active" json:"is_active,omitempty"`
	IsTriggered   *bool      `gorm:"column:is_triggered" json:"is_triggered,omitempty"`
	TriggeredAt   *time.Time `gorm:"column:triggered_at" json:"triggered_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PriceAlert) TableName() string { return "price_alerts" }

// PortfolioPosition is an aggregated position keyed by canonical asset key.
type PortfolioPosition struct {
	ID        uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    string     `gorm:"column:user_id;index;not null" json:"user_id"`
	AssetKey  string     `gorm:"column:asset_key;index;not null" json:"asset_key"`
	AssetName string     `gorm:"column:asset_name;not null" json:"asset_name"`
	AssetType string     `gorm:"column:asset_type;not null" json:"asset_type"`
	Quantity  float64    `gorm:"column:quantity;not null" json:"quantity"`
	AvgCost   float64    `gorm:"column:avg_cost;not null" json:"avg_cost"`
	Currency  string     `gorm:"column:currency;not null;default:TRY" json:"currency"`
	OpenedAt  *time.Time `gorm:"column:opened_at" json:"opened_at,omitempty"`
	Notes     string     `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PortfolioPosition) TableName() string { return "portfolio_positions" }

// PortfolioSnapshot is a per-day valuation of a user's portfolio.
type PortfolioSnapshot struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        string    `gorm:"column:user_id;index;not null" json:"user_id"`
	TotalValueTRY float64   `gorm:"column:total_value_try;not null" json:"total_value_try"`
	TotalValueUSD *float64  `gorm:"column:total_value_usd" json:"total_value_usd,omitempty"`
	TotalValueEUR *float64  `gorm:"column:total_value_eur" json:"total_value_eur,omitempty"`
	GoldValue     *float64  `gorm:"column:gold_value" json:"gold_value,omitempty"`
	CryptoValue   *float64  `gorm:"column:crypto_value" json:"crypto_value,omitempty"`
	CurrencyValue *float64  `gorm:"column:currency_value" json:"currency_value,omitempty"`
	OtherValue    *float64  `gorm:"column:other_value" json:"other_value,omitempty"`
	SnapshotDate  time.Time `gorm:"column:snapshot_date;index;not null" json:"snapshot_date"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PortfolioSnapshot) TableName() string { return "portfolio_snapshots" }

// WatchlistItem pins a catalog instrument to a user's watchlist.
type WatchlistItem struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;index:idx_watchlist_user_asset,unique;not null" json:"user_id"`
	AssetKey  string    `gorm:"column:asset_key;index:idx_watchlist_user_asset,unique;not null" json:"asset_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WatchlistItem) TableName() string { return "user_watchlist" }

// UserSetting stores per-user display and security preferences.
type UserSetting struct {
	ID                   uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID               string    `gorm:"column:user_id;index;not null" json:"user_id"`
	BaseCurrency         string    `gorm:"column:base_currency;not null;default:TRY" json:"base_currency"`
	PinCode              string    `gorm:"column:pin_code" json:"pin_code,omitempty"`
	PinEnabled           *bool     `gorm:"column:pin_enabled" json:"pin_enabled,omitempty"`
	Theme                string    `gorm:"column:theme" json:"theme,omitempty"`
	NotificationsEnabled *bool     `gorm:"column:notifications_enabled" json:"notifications_enabled,omitempty"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserSetting) TableName() string { return "user_settings" }

// Subscription mirrors the user's billing state. Payment-provider
// integration is an external collaborator; this row is plain user data.
type Subscription struct {
	ID                   uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID               string     `gorm:"column:user_id;index;not null" json:"user_id"`
	PlanType             string     `gorm:"column:plan_type;not null" json:"plan_type"`
	IsPro                bool       `gorm:"column:is_pro;not null" json:"is_pro"`
	ProviderCustomerID   string     `gorm:"column:provider_customer_id" json:"provider_customer_id,omitempty"`
	ProviderSubscription string     `gorm:"column:provider_subscription_id" json:"provider_subscription_id,omitempty"`
	SubscriptionStart    *time.Time `gorm:"column:subscription_start" json:"subscription_start,omitempty"`
	SubscriptionEnd      *time.Time `gorm:"column:subscription_end" json:"subscription_end,omitempty"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// PriceHistory is one stored market price point. At most one row exists
// per (asset_key, interval_bucket) within a bucket window.
type PriceHistory struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AssetKey       string    `gorm:"column:asset_key;index;not null" json:"asset_key"`
	AssetName      string    `gorm:"column:asset_name;not null" json:"asset_name"`
	AssetType      string    `gorm:"column:asset_type;not null" json:"asset_type"`
	IntervalBucket string    `gorm:"column:interval_bucket;index;not null;default:5m" json:"interval_bucket"`
	Price          float64   `gorm:"column:price;not null" json:"price"`
	Currency       string    `gorm:"column:currency;not null;default:TRY" json:"currency"`
	Timestamp      time.Time `gorm:"column:timestamp;index;not null" json:"timestamp"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PriceHistory) TableName() string { return "asset_price_history" }
