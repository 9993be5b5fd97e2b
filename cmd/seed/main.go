package main

import (
	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/provider"
	"github.com/tienda-next/internal/repository"
	"github.com/tienda-next/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.App.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.Open(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	c := provider.NewContainer(cfg, db)

	// 根分类名单来自配置，按名称幂等创建
	for position, name := range cfg.Catalog.RootCategories {
		existing, err := c.CategoryRepo.GetRootByName(name)
		if err != nil {
			stdLog.Fatalf("Failed to look up root category %s: %v", name, err)
		}
		if existing != nil {
			stdLog.Printf("Root category already exists: %s", name)
			continue
		}
		if _, err := c.CategoryService.Create(service.CreateCategoryInput{
			Name:     name,
			Position: position,
			IsActive: true,
		}); err != nil {
			stdLog.Fatalf("Failed to create root category %s: %v", name, err)
		}
		stdLog.Printf("Created root category: %s", name)
	}

	// 演示用户
	users := []models.User{
		{Email: "admin@tienda.local", Name: "Administrador", Role: constants.UserRoleAdmin, IsActive: true},
		{Email: "cliente@tienda.local", Name: "Cliente Demo", Role: constants.UserRoleCustomer, IsActive: true},
	}
	for _, user := range users {
		existing, err := c.UserRepo.GetByEmail(user.Email)
		if err != nil {
			stdLog.Fatalf("Failed to look up user %s: %v", user.Email, err)
		}
		if existing != nil {
			stdLog.Printf("User already exists: %s", user.Email)
			continue
		}
		u := user
		if err := c.UserRepo.Create(&u); err != nil {
			stdLog.Fatalf("Failed to create user %s: %v", user.Email, err)
		}
		stdLog.Printf("Created user: %s", user.Email)
	}

	// 演示商品：走完整装配路径（根分类解析 + 子分类懒建 + 规格/库存）
	demoSKU := "ZAP-RUN-001"
	products, _, err := c.ProductService.ListProducts(repository.ProductListFilter{Search: "Zapatilla Runner", PageSize: 1})
	if err != nil {
		stdLog.Fatalf("Failed to list products: %v", err)
	}
	if len(products) > 0 {
		stdLog.Printf("Demo product already exists")
		return
	}

	stock := 10
	product, err := c.ProductService.CreateProduct(service.CreateProductInput{
		Name:           "Zapatilla Runner",
		SKU:            &demoSKU,
		Price:          models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
		BrandName:      "Andes",
		Description:    "Zapatilla liviana para running",
		ParentCategory: "Hombre",
		SubCategory:    "Running",
		IsActive:       true,
		Options: []service.CreateProductOptionInput{
			{Size: "42", Color: "Negro", Material: "Malla", Stock: &stock},
			{Size: "43", Color: "Negro", Material: "Malla", Stock: &stock},
		},
	})
	if err != nil {
		stdLog.Fatalf("Failed to create demo product: %v", err)
	}
	stdLog.Printf("Created demo product: %s (id=%d)", product.Name, product.ID)
}
