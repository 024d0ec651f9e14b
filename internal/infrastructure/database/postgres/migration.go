// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/promotion"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&store.Store{},
		&product.Product{},
		&promotion.Promotion{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Store indexes
		"CREATE INDEX IF NOT EXISTS idx_stores_active ON stores(is_active)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_store_active ON products(store_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_kind ON products(kind)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Promotion indexes
		"CREATE INDEX IF NOT EXISTS idx_promotions_product_window ON promotions(product_id, active, starts_at, ends_at)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer_status ON orders(buyer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_store_status ON orders(store_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order item indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_store ON order_items(store_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedTestAccounts(); err != nil {
		return fmt.Errorf("failed to seed test accounts: %w", err)
	}

	if err := m.seedTestCatalog(); err != nil {
		return fmt.Errorf("failed to seed test catalog: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedAdminUser creates the default admin account
func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Name:         "Administrator",
		Email:        "admin@marketplace.local",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("👤 Seeded admin user: admin@marketplace.local")
	return nil
}

// seedTestAccounts creates a buyer and a shop with its store
func (m *Migration) seedTestAccounts() error {
	var count int64
	m.db.Model(&user.User{}).Where("email = ?", "buyer@marketplace.local").Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("test123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	buyer := user.User{
		Name:         "Test Buyer",
		Email:        "buyer@marketplace.local",
		PasswordHash: string(hash),
		Role:         user.RoleBuyer,
		IsActive:     true,
	}
	if err := m.db.Create(&buyer).Error; err != nil {
		return err
	}

	shop := user.User{
		Name:         "Test Shop",
		Email:        "shop@marketplace.local",
		PasswordHash: string(hash),
		Role:         user.RoleShop,
		IsActive:     true,
	}
	if err := m.db.Create(&shop).Error; err != nil {
		return err
	}

	st := store.Store{
		OwnerID:     shop.ID,
		Name:        "Test Store",
		Description: "Seeded store for development",
		IsActive:    true,
	}
	if err := m.db.Create(&st).Error; err != nil {
		return err
	}

	if err := m.db.Model(&shop).Update("store_id", st.ID).Error; err != nil {
		return err
	}

	log.Println("👤 Seeded test buyer and shop accounts")
	return nil
}

// seedTestCatalog creates sample products and a running promotion
func (m *Migration) seedTestCatalog() error {
	var count int64
	m.db.Model(&product.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	var st store.Store
	if err := m.db.First(&st).Error; err != nil {
		return err
	}

	products := []product.Product{
		{
			StoreID:     st.ID,
			Name:        "Desk Lamp",
			Description: "Adjustable LED desk lamp",
			UnitPrice:   decimal.NewFromInt(12500),
			Kind:        product.KindPhysicalGood,
			Stock:       40,
			Deliverable: true,
			IsActive:    true,
		},
		{
			StoreID:     st.ID,
			Name:        "Wool Rug",
			Description: "Handwoven wool rug, 2x3m",
			UnitPrice:   decimal.NewFromInt(45000),
			Kind:        product.KindPhysicalGood,
			Stock:       8,
			Deliverable: true,
			IsActive:    true,
		},
		{
			StoreID:     st.ID,
			Name:        "Home Cleaning",
			Description: "Three hour home cleaning service",
			UnitPrice:   decimal.NewFromInt(15000),
			Kind:        product.KindService,
			IsActive:    true,
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	promo := promotion.Promotion{
		ProductID: products[0].ID,
		Kind:      promotion.KindPercentage,
		Magnitude: decimal.NewFromInt(10),
		Active:    true,
		StartsAt:  now.AddDate(0, 0, -1),
		EndsAt:    now.AddDate(0, 1, 0),
	}
	if err := m.db.Create(&promo).Error; err != nil {
		return err
	}

	log.Printf("📦 Seeded %d products and 1 promotion", len(products))
	return nil
}

// GetTableInfo logs row counts per table, useful in development
func (m *Migration) GetTableInfo() {
	tables := []string{"users", "stores", "products", "promotions", "carts", "cart_items", "orders", "order_items"}

	log.Println("📊 Table row counts:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d", table, count)
	}
}
