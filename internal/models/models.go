package models

import (
	"time"
)

// Book is a catalog entry joined with the names of its author, category and publisher
type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	ISBN          string     `json:"isbn"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price"`
	Stock         int        `json:"stock"`
	CoverURL      string     `json:"coverUrl,omitempty"`
	AuthorID      string     `json:"authorId"`
	AuthorName    string     `json:"authorName,omitempty"`
	CategoryID    string     `json:"categoryId"`
	CategoryName  string     `json:"categoryName,omitempty"`
	PublisherID   string     `json:"publisherId"`
	PublisherName string     `json:"publisherName,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BookInput is the writable part of a book
type BookInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	ISBN        string     `json:"isbn" validate:"required,max=20"`
	Description string     `json:"description" validate:"max=5000"`
	Price       float64    `json:"price" validate:"gte=0"`
	Stock       int        `json:"stock" validate:"gte=0"`
	CoverURL    string     `json:"coverUrl" validate:"omitempty,url"`
	AuthorID    string     `json:"authorId" validate:"required,uuid"`
	CategoryID  string     `json:"categoryId" validate:"required,uuid"`
	PublisherID string     `json:"publisherId" validate:"required,uuid"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// ReferenceKind names one of the reference-data families attached to books
type ReferenceKind string

const (
	KindAuthor    ReferenceKind = "authors"
	KindCategory  ReferenceKind = "categories"
	KindPublisher ReferenceKind = "publishers"
)

// Reference is an author, category or publisher
type Reference struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BookCount   int       `json:"bookCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReferenceInput is the writable part of a reference record
type ReferenceInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// User is a store customer or administrator profile
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserUpdate is the admin-editable part of a user profile
type UserUpdate struct {
	FullName string `json:"fullName" validate:"omitempty,max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=customer admin"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CartItem is one line of a shopping cart joined with its book
type CartItem struct {
	BookID    string  `json:"bookId"`
	Title     string  `json:"title"`
	CoverURL  string  `json:"coverUrl,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	Subtotal  float64 `json:"subtotal"`
}

// Cart is the materialized cart of one user
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"itemCount"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItemInput adds or updates a cart line
type CartItemInput struct {
	BookID   string `json:"bookId" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=99"`
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is a purchased line captured at checkout price
type OrderItem struct {
	BookID    string  `json:"bookId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is a placed order
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	UserEmail       string      `json:"userEmail,omitempty"`
	Status          OrderStatus `json:"status"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CheckoutRequest turns the caller's cart into an order
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,max=500"`
}

// StatusUpdate changes an order status
type StatusUpdate struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// DashboardStats is the admin overview aggregate
type DashboardStats struct {
	TotalBooks    int       `json:"totalBooks"`
	TotalUsers    int       `json:"totalUsers"`
	TotalOrders   int       `json:"totalOrders"`
	PendingOrders int       `json:"pendingOrders"`
	TotalRevenue  float64   `json:"totalRevenue"`
	LowStockBooks []Book    `json:"lowStockBooks"`
	RecentOrders  []Order   `json:"recentOrders"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total rows
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Page is a paginated listing
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
