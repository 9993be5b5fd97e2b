package service

import (
	"fmt"
	"strings"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"
)

// CategoryService 分类树业务服务。
// 维护自引用父子关系：无环、根分类不挂商品、同一父级下名称唯一。
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategoryInput 创建分类输入
type CreateCategoryInput struct {
	Name     string
	ParentID *uint
	Position int
	IsActive bool
}

// UpdateCategoryInput 更新分类输入
type UpdateCategoryInput struct {
	Name     *string
	Position *int
	IsActive *bool
}

// Create 创建分类
func (s *CategoryService) Create(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrBadRequest)
	}
	if input.ParentID != nil {
		parent, err := s.repo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, *input.ParentID)
		}
	}

	count, err := s.repo.CountByNameAndParent(name, input.ParentID, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameExists
	}

	category := models.Category{
		Name:     name,
		ParentID: input.ParentID,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return s.GetByID(category.ID)
}

// GetByID 获取分类（含父分类与子分类数量）
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	childCount, err := s.repo.CountActiveChildren(category.ID)
	if err != nil {
		return nil, err
	}
	category.ChildCount = childCount
	return category, nil
}

// UpsertByNameUnderParent 幂等获取或创建指定父级下的子分类。
// 商品创建流程借此懒建子分类，重复调用返回同一条记录。
func (s *CategoryService) UpsertByNameUnderParent(name string, parentID uint) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrBadRequest)
	}
	parent, err := s.repo.GetByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, parentID)
	}

	existing, err := s.repo.GetByNameAndParent(name, &parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	category := models.Category{
		Name:     name,
		ParentID: &parentID,
		Position: constants.DefaultCategoryPosition,
		IsActive: true,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	logger.Infow("category_lazy_created",
		"category_id", category.ID,
		"name", category.Name,
		"parent_id", parentID,
	)
	return &category, nil
}

// Reparent 调整分类父级。
// 环检测：自新父级沿 parent_id 向上遍历，途中遇到目标分类即拒绝；
// 步数以分类总数为上界，数据已成环时也能终止。
func (s *CategoryService) Reparent(categoryID, newParentID uint) (*models.Category, error) {
	if categoryID == newParentID {
		return nil, ErrSelfParent
	}
	category, err := s.repo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	parent, err := s.repo.GetByID(newParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, newParentID)
	}

	if err := s.ensureNotDescendant(categoryID, parent); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByNameAndParent(category.Name, &newParentID, &categoryID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameExists
	}

	category.ParentID = &newParentID
	category.Parent = nil
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return s.GetByID(categoryID)
}

// ensureNotDescendant 确认 start 的祖先链中不包含 categoryID
func (s *CategoryService) ensureNotDescendant(categoryID uint, start *models.Category) error {
	maxSteps, err := s.repo.CountAll()
	if err != nil {
		return err
	}
	current := start
	for steps := int64(0); current != nil; steps++ {
		if steps > maxSteps {
			logger.Errorw("category_ancestor_walk_exceeded",
				"category_id", categoryID,
				"start_id", start.ID,
				"max_steps", maxSteps,
			)
			return ErrCategoryCycle
		}
		if current.ID == categoryID {
			return ErrCategoryCycle
		}
		if current.ParentID == nil {
			return nil
		}
		next, err := s.repo.GetByID(*current.ParentID)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}

// Update 更新分类（改名/排序/启停）
func (s *CategoryService) Update(id uint, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name is required", ErrBadRequest)
		}
		count, err := s.repo.CountByNameAndParent(name, category.ParentID, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategoryNameExists
		}
		category.Name = name
	}
	if input.Position != nil {
		category.Position = *input.Position
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	category.Parent = nil
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Deactivate 停用分类。
// 仍有启用子分类或挂有商品时拒绝；历史与订单项依赖分类行存在，永不物理删除。
func (s *CategoryService) Deactivate(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}

	childCount, err := s.repo.CountActiveChildren(id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return ErrCategoryInUse
	}
	productCount, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Deactivate(id)
}

// Tree 物化分类树。
// 一次取全量后按 parent_id 分组，自根节点迭代挂接子级；
// 各层按 position 升序、name 升序排列。
func (s *CategoryService) Tree(onlyActive bool) ([]models.Category, error) {
	all, err := s.repo.ListAll(onlyActive)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Category, len(all))
	for i := range all {
		all[i].Children = []models.Category{}
		byID[all[i].ID] = &all[i]
	}

	childIDs := make(map[uint][]uint, len(all))
	var rootIDs []uint
	for i := range all {
		node := &all[i]
		if node.ParentID == nil {
			rootIDs = append(rootIDs, node.ID)
			continue
		}
		if _, ok := byID[*node.ParentID]; !ok {
			// 父级被过滤或缺失的孤儿节点不进树
			continue
		}
		childIDs[*node.ParentID] = append(childIDs[*node.ParentID], node.ID)
	}

	// 自底向上挂接：后序处理保证子树先于父节点装配完成。
	order := make([]uint, 0, len(all))
	visited := make(map[uint]bool, len(all))
	stack := make([]uint, 0, len(all))
	stack = append(stack, rootIDs...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)
		stack = append(stack, childIDs[id]...)
	}
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		node := byID[id]
		for _, childID := range childIDs[id] {
			node.Children = append(node.Children, *byID[childID])
		}
		node.ChildCount = int64(len(node.Children))
	}

	roots := make([]models.Category, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, *byID[id])
	}
	return roots, nil
}

// ListRoots 获取启用状态的根分类
func (s *CategoryService) ListRoots() ([]models.Category, error) {
	return s.repo.ListRoots(true)
}

// ListChildren 获取启用状态的子分类
func (s *CategoryService) ListChildren(parentID uint) ([]models.Category, error) {
	parent, err := s.repo.GetByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}
	return s.repo.ListChildren(parentID, true)
}
