// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/domain/market"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
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

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},
		&user.Address{},

		// Market and product domain
		&market.Market{},
		&product.Product{},

		// Coupon domain
		&coupon.Coupon{},

		// Cart domain
		&cart.Cart{},
		&cart.CartItem{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
	}

	// Run auto-migration for each model
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
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Address indexes
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		// Market indexes
		"CREATE INDEX IF NOT EXISTS idx_markets_active ON markets(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_markets_city_state ON markets(city, state)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_market_active ON products(market_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",

		// Coupon indexes
		"CREATE INDEX IF NOT EXISTS idx_coupons_active_valid ON coupons(is_active, valid_until)",
		"CREATE INDEX IF NOT EXISTS idx_coupons_market ON coupons(market_id)",

		// Cart indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_market ON carts(user_id, market_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_updated_at ON cart_items(updated_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_market_status ON orders(market_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_deliverer ON orders(deliverer_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
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

	// Create default admin user
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Create test users for development
	if err := m.seedTestUsers(); err != nil {
		return fmt.Errorf("failed to seed test users: %w", err)
	}

	// Create sample markets with products
	if err := m.seedMarkets(); err != nil {
		return fmt.Errorf("failed to seed markets: %w", err)
	}

	// Create sample coupons
	if err := m.seedCoupons(); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:    "admin@example.com",
			Password: string(hashedPassword),
			Name:     "Administrador",
			Role:     user.RoleAdmin,
			IsActive: true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUsers() error {
	log.Println("👤 Seeding test users...")

	testUsers := []struct {
		email    string
		password string
		name     string
		phone    string
		role     user.Role
	}{
		{"cliente@example.com", "cliente123", "Cliente de Teste", "+5511999990001", user.RoleCustomer},
		{"entregador@example.com", "entrega123", "Entregador de Teste", "+5511999990002", user.RoleDeliverer},
	}

	for _, tu := range testUsers {
		var existing user.User
		result := m.db.Where("email = ?", tu.email).First(&existing)
		if result.Error == nil {
			log.Printf("⏭️ User already exists: %s", tu.email)
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tu.password), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		u := user.User{
			Email:    tu.email,
			Password: string(hashedPassword),
			Name:     tu.name,
			Phone:    tu.phone,
			Role:     tu.role,
			IsActive: true,
		}
		if err := m.db.Create(&u).Error; err != nil {
			return err
		}
		log.Printf("✅ Created user: %s (password: %s)", tu.email, tu.password)
	}

	return nil
}

// seedMarkets creates sample markets with a few products each
func (m *Migration) seedMarkets() error {
	log.Println("🏪 Seeding markets...")

	var marketCount int64
	m.db.Model(&market.Market{}).Count(&marketCount)
	if marketCount > 0 {
		log.Println("⏭️ Markets already exist")
		return nil
	}

	markets := []struct {
		market   market.Market
		products []product.Product
	}{
		{
			market: market.Market{
				Name:        "Mercado Central",
				Description: "Hortifruti e mercearia no centro da cidade",
				Phone:       "+5511333330001",
				Address:     "Rua das Flores, 100",
				City:        "São Paulo",
				State:       "SP",
				IsActive:    true,
			},
			products: []product.Product{
				{Name: "Arroz Branco 5kg", Description: "Arroz tipo 1", Price: 24.90, Unit: "un", IsActive: true},
				{Name: "Feijão Carioca 1kg", Description: "Feijão carioca tipo 1", Price: 8.50, Unit: "un", IsActive: true},
				{Name: "Banana Prata", Description: "Banana prata fresca", Price: 6.99, Unit: "kg", IsActive: true},
				{Name: "Leite Integral 1L", Description: "Leite integral UHT", Price: 5.49, Unit: "l", IsActive: true},
			},
		},
		{
			market: market.Market{
				Name:        "Empório do Bairro",
				Description: "Produtos selecionados e atendimento rápido",
				Phone:       "+5511333330002",
				Address:     "Avenida Paulista, 2000",
				City:        "São Paulo",
				State:       "SP",
				IsActive:    true,
			},
			products: []product.Product{
				{Name: "Café Torrado 500g", Description: "Café torrado e moído", Price: 18.90, Unit: "un", IsActive: true},
				{Name: "Queijo Mussarela", Description: "Queijo mussarela fatiado", Price: 42.00, Unit: "kg", IsActive: true},
				{Name: "Pão Francês", Description: "Pão francês fresco", Price: 16.90, Unit: "kg", IsActive: true},
			},
		},
	}

	for _, entry := range markets {
		mk := entry.market
		if err := m.db.Create(&mk).Error; err != nil {
			return err
		}
		log.Printf("✅ Created market: %s", mk.Name)

		for _, p := range entry.products {
			p.MarketID = mk.ID
			if err := m.db.Create(&p).Error; err != nil {
				log.Printf("⚠️ Failed to create product %s: %v", p.Name, err)
			}
		}
	}

	return nil
}

// seedCoupons creates sample coupons for development
func (m *Migration) seedCoupons() error {
	log.Println("🎟️ Seeding coupons...")

	var couponCount int64
	m.db.Model(&coupon.Coupon{}).Count(&couponCount)
	if couponCount > 0 {
		log.Println("⏭️ Coupons already exist")
		return nil
	}

	minOrder := 50.0
	maxDiscount := 20.0
	usageLimit := 100

	coupons := []coupon.Coupon{
		{
			Code:        "BEMVINDO10",
			Type:        coupon.DiscountPercentage,
			Value:       10,
			MaxDiscount: &maxDiscount,
			UsageLimit:  &usageLimit,
			IsActive:    true,
		},
		{
			Code:          "FRETE5",
			Type:          coupon.DiscountFixed,
			Value:         5,
			MinOrderValue: &minOrder,
			IsActive:      true,
		},
	}

	for _, c := range coupons {
		if err := m.db.Create(&c).Error; err != nil {
			log.Printf("⚠️ Failed to create coupon %s: %v", c.Code, err)
		} else {
			log.Printf("✅ Created coupon: %s", c.Code)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"coupons",
		"products",
		"markets",
		"addresses",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	// Get list of tables
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}
