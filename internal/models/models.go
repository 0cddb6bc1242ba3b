package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName    string     `gorm:"size:30;not null"          json:"first_name"`
	LastName     string     `gorm:"size:30;not null"          json:"last_name"`
	Phone        string     `gorm:"size:15;index"             json:"phone"`
	BirthDate    *time.Time `                                 json:"birth_date"`
	Roles        Roles      `gorm:"not null"                  json:"roles"`
	IsActive     bool       `gorm:"not null"                  json:"is_active"`
	PasswordHash string     `gorm:"not null"                  json:"-"`
	CreatedAt    time.Time  `                                 json:"created_at"`
	UpdatedAt    time.Time  `                                 json:"updated_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"            json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"  json:"-"`
	UserID    uint      `gorm:"index;not null"        json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null"  json:"jti"`
	ExpiresAt time.Time `gorm:"not null"              json:"expires_at"`
	Revoked   bool      `gorm:"default:false"         json:"revoked"`
}

type ResetChannel string

const (
	ResetByEmail ResetChannel = "email"
	ResetByPhone ResetChannel = "phone"
)

type PasswordResetToken struct {
	ID        uint         `gorm:"primaryKey"           json:"id"`
	TokenHash string       `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint         `gorm:"index;not null"       json:"user_id"`
	Channel   ResetChannel `gorm:"size:10;not null"     json:"channel"`
	ExpiresAt time.Time    `gorm:"not null"             json:"expires_at"`
	UsedAt    *time.Time   `                            json:"used_at"`
	CreatedAt time.Time    `                            json:"created_at"`
}

type RestaurantCategory struct {
	ID   uint   `gorm:"primaryKey"        json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type MenuItemCategory struct {
	ID   uint   `gorm:"primaryKey"        json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type Restaurant struct {
	ID         uint       `gorm:"primaryKey"        json:"id"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Address    string     `gorm:"size:255;not null" json:"address"`
	Phone      string     `gorm:"size:15;not null"  json:"phone"`
	CategoryID *uint      `gorm:"index"             json:"category_id"`
	MenuItems  []MenuItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `                         json:"created_at"`
	UpdatedAt  time.Time  `                         json:"updated_at"`
}

type MenuItem struct {
	ID           uint      `gorm:"primaryKey"        json:"id"`
	RestaurantID uint      `gorm:"index;not null"    json:"restaurant_id"`
	CategoryID   *uint     `gorm:"index"             json:"category_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Description  string    `gorm:"type:text"         json:"description"`
	Price        Money     `gorm:"not null"          json:"price"`
	ImageKey     string    `gorm:"size:255"          json:"image_key"`
	CreatedAt    time.Time `                         json:"created_at"`
	UpdatedAt    time.Time `                         json:"updated_at"`
}

type Cart struct {
	ID        uint       `gorm:"primaryKey"           json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `                            json:"created_at"`
	UpdatedAt time.Time  `                            json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product"     json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product"     json:"product_id"`
	Product   MenuItem  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int       `gorm:"not null;check:quantity > 0"               json:"quantity"`
	Price     Money     `gorm:"not null"                                  json:"price"`
	CreatedAt time.Time `                                                 json:"created_at"`
	UpdatedAt time.Time `                                                 json:"updated_at"`
}

type Order struct {
	ID         uint        `gorm:"primaryKey"     json:"id"`
	UserID     uint        `gorm:"index;not null" json:"user_id"`
	TotalPrice Money       `gorm:"not null"       json:"total_price"`
	Items      []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time   `                      json:"created_at"`
	UpdatedAt  time.Time   `                      json:"updated_at"`
}

type OrderItem struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	OrderID     uint      `gorm:"index;not null"    json:"order_id"`
	ProductName string    `gorm:"size:255;not null" json:"product_name"`
	Quantity    int       `gorm:"not null"          json:"quantity"`
	Price       Money     `gorm:"not null"          json:"price"`
	CreatedAt   time.Time `                         json:"created_at"`
	UpdatedAt   time.Time `                         json:"updated_at"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&PasswordResetToken{},
		&RestaurantCategory{},
		&MenuItemCategory{},
		&Restaurant{},
		&MenuItem{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
