package provider

import (
	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/repository"
	"github.com/tienda-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器。
// 数据库句柄显式注入各仓库与服务，不依赖包级全局状态。
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	// Repositories
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	OptionRepo   repository.ProductOptionRepository
	StockRepo    repository.StockRepository
	OrderRepo    repository.OrderRepository
	UserRepo     repository.UserRepository
	StatsRepo    repository.StatsRepository

	// Services
	CategoryService *service.CategoryService
	StockService    *service.StockService
	ProductService  *service.ProductService
	OrderService    *service.OrderService
}

// NewContainer 装配全部仓库与服务
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	optionRepo := repository.NewProductOptionRepository(db)
	stockRepo := repository.NewStockRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	categoryService := service.NewCategoryService(categoryRepo)
	stockService := service.NewStockService(stockRepo)
	productService := service.NewProductService(db, productRepo, optionRepo, stockRepo, categoryRepo, categoryService)
	orderService := service.NewOrderService(db, orderRepo, optionRepo, userRepo, statsRepo, stockService)

	return &Container{
		Config: cfg,
		DB:     db,

		CategoryRepo: categoryRepo,
		ProductRepo:  productRepo,
		OptionRepo:   optionRepo,
		StockRepo:    stockRepo,
		OrderRepo:    orderRepo,
		UserRepo:     userRepo,
		StatsRepo:    statsRepo,

		CategoryService: categoryService,
		StockService:    stockService,
		ProductService:  productService,
		OrderService:    orderService,
	}
}
