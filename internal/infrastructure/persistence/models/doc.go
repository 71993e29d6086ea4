// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel) and nullable id helpers
//   - catalog.go: products and product categories
//   - partner.go: suppliers and customers
//   - trade.go: purchase orders, sales, sale items, payment methods, delivery media
//   - finance.go: finance records
package models
