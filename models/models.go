package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an authenticated back-office user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by the auth middleware and login handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	User      User      `bun:"rel:belongs-to,join:user_id=id"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PriceEntry is one row of the price book, keyed by pricing code.
//
// Entries come from the remote sheet (or the bundled snapshot) and can be
// edited from the admin screen afterwards.
type PriceEntry struct {
	bun.BaseModel `bun:"table:price_entries,alias:pe"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Code        string    `bun:"code,notnull,unique"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Unit        string    `bun:"unit,notnull"`
	Price       float64   `bun:"price,notnull"`
	Vendor      string    `bun:"vendor"`
	Material    string    `bun:"material"`
	Color       string    `bun:"color"`
	Thickness   string    `bun:"thickness"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Quote is a visitor's working estimate. Drafts are keyed by an opaque
// cookie token; a quote leaves draft status only after the intake endpoint
// confirms receipt.
type Quote struct {
	bun.BaseModel `bun:"table:quotes,alias:q"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Token       string     `bun:"token,notnull,unique"`
	Reference   string     `bun:"reference,notnull"`
	Status      string     `bun:"status,notnull,default:'draft'"`
	ProMode     bool       `bun:"pro_mode,notnull,default:false"`
	Name        string     `bun:"name"`
	Email       string     `bun:"email"`
	Phone       string     `bun:"phone"`
	Notes       string     `bun:"notes"`
	Region      string     `bun:"region"`
	Zip         string     `bun:"zip"`
	Subtotal    float64    `bun:"subtotal,notnull,default:0"`
	Profit      float64    `bun:"profit,notnull,default:0"`
	Total       float64    `bun:"total,notnull,default:0"`
	SubmittedAt *time.Time `bun:"submitted_at"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// Quote statuses.
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSubmitted = "submitted"
)

// QuoteItem is one priced line of a quote. Codes are unique within a quote;
// adding a code that is already present is rejected as a duplicate.
type QuoteItem struct {
	bun.BaseModel `bun:"table:quote_items,alias:qi"`

	ID        int64     `bun:"id,pk,autoincrement"`
	QuoteID   int64     `bun:"quote_id,notnull"`
	Code      string    `bun:"code,notnull"`
	Category  string    `bun:"category,notnull"`
	Quantity  float64   `bun:"quantity,notnull"`
	Cost      float64   `bun:"cost,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
