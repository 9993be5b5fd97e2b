package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newCategoryService(t *testing.T, name string) (*CategoryService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t, name)
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func mustCreateCategory(t *testing.T, svc *CategoryService, name string, parentID *uint) *models.Category {
	t.Helper()
	category, err := svc.Create(CreateCategoryInput{Name: name, ParentID: parentID, IsActive: true})
	if err != nil {
		t.Fatalf("create category %s failed: %v", name, err)
	}
	return category
}

func TestCreateCategoryRejectsDuplicateNameUnderSameParent(t *testing.T) {
	svc, _ := newCategoryService(t, "category_dup_name")

	root := mustCreateCategory(t, svc, "Hombre", nil)
	mustCreateCategory(t, svc, "Zapatillas", &root.ID)

	_, err := svc.Create(CreateCategoryInput{Name: "Zapatillas", ParentID: &root.ID, IsActive: true})
	if !errors.Is(err, ErrCategoryNameExists) {
		t.Fatalf("expected ErrCategoryNameExists, got: %v", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected duplicate name to classify as conflict, got: %v", err)
	}
}

func TestCreateCategoryAllowsSameNameUnderDifferentParents(t *testing.T) {
	svc, _ := newCategoryService(t, "category_name_scope")

	hombre := mustCreateCategory(t, svc, "Hombre", nil)
	mujer := mustCreateCategory(t, svc, "Mujer", nil)

	a := mustCreateCategory(t, svc, "Zapatillas", &hombre.ID)
	b := mustCreateCategory(t, svc, "Zapatillas", &mujer.ID)
	if a.ID == b.ID {
		t.Fatalf("expected two distinct categories, got same id %d", a.ID)
	}
}

func TestCreateCategoryRejectsMissingParent(t *testing.T) {
	svc, _ := newCategoryService(t, "category_missing_parent")

	missing := uint(999)
	_, err := svc.Create(CreateCategoryInput{Name: "Huerfana", ParentID: &missing, IsActive: true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got: %v", err)
	}
}

func TestUpsertByNameUnderParentIsIdempotent(t *testing.T) {
	svc, _ := newCategoryService(t, "category_upsert")

	root := mustCreateCategory(t, svc, "Mujer", nil)

	first, err := svc.UpsertByNameUnderParent("Vestidos", root.ID)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	second, err := svc.UpsertByNameUnderParent("Vestidos", root.ID)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected upsert to return same category, got %d and %d", first.ID, second.ID)
	}

	children, err := svc.ListChildren(root.ID)
	if err != nil {
		t.Fatalf("list children failed: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("expected exactly one child after repeated upsert, got %d", len(children))
	}
}

func TestReparentRejectsSelfParent(t *testing.T) {
	svc, _ := newCategoryService(t, "category_self_parent")

	root := mustCreateCategory(t, svc, "Accesorios", nil)
	if _, err := svc.Reparent(root.ID, root.ID); !errors.Is(err, ErrSelfParent) {
		t.Fatalf("expected ErrSelfParent, got: %v", err)
	}
}

func TestReparentRejectsDescendant(t *testing.T) {
	svc, _ := newCategoryService(t, "category_cycle")

	// Hombre -> Zapatillas -> Running
	hombre := mustCreateCategory(t, svc, "Hombre", nil)
	zapatillas := mustCreateCategory(t, svc, "Zapatillas", &hombre.ID)
	running := mustCreateCategory(t, svc, "Running", &zapatillas.ID)

	if _, err := svc.Reparent(hombre.ID, running.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle for reparent to descendant, got: %v", err)
	}
	if _, err := svc.Reparent(zapatillas.ID, running.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle for reparent to direct child, got: %v", err)
	}

	// 未被改动
	got, err := svc.GetByID(zapatillas.ID)
	if err != nil {
		t.Fatalf("get category failed: %v", err)
	}
	if got.ParentID == nil || *got.ParentID != hombre.ID {
		t.Fatalf("expected parent unchanged after rejected reparent, got: %+v", got.ParentID)
	}
}

func TestReparentMovesSubtree(t *testing.T) {
	svc, _ := newCategoryService(t, "category_reparent")

	hombre := mustCreateCategory(t, svc, "Hombre", nil)
	mujer := mustCreateCategory(t, svc, "Mujer", nil)
	zapatillas := mustCreateCategory(t, svc, "Zapatillas", &hombre.ID)
	running := mustCreateCategory(t, svc, "Running", &zapatillas.ID)

	moved, err := svc.Reparent(zapatillas.ID, mujer.ID)
	if err != nil {
		t.Fatalf("reparent failed: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != mujer.ID {
		t.Fatalf("expected new parent %d, got: %+v", mujer.ID, moved.ParentID)
	}

	// 子孙跟随迁移
	child, err := svc.GetByID(running.ID)
	if err != nil {
		t.Fatalf("get descendant failed: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != zapatillas.ID {
		t.Fatalf("expected descendant to keep its parent, got: %+v", child.ParentID)
	}
}

func TestReparentRejectsNameConflictAtDestination(t *testing.T) {
	svc, _ := newCategoryService(t, "category_reparent_name")

	hombre := mustCreateCategory(t, svc, "Hombre", nil)
	mujer := mustCreateCategory(t, svc, "Mujer", nil)
	moving := mustCreateCategory(t, svc, "Zapatillas", &hombre.ID)
	mustCreateCategory(t, svc, "Zapatillas", &mujer.ID)

	if _, err := svc.Reparent(moving.ID, mujer.ID); !errors.Is(err, ErrCategoryNameExists) {
		t.Fatalf("expected ErrCategoryNameExists at destination, got: %v", err)
	}
}

func TestDeactivateCategoryBlockedByActiveChildren(t *testing.T) {
	svc, _ := newCategoryService(t, "category_deactivate_children")

	root := mustCreateCategory(t, svc, "Hombre", nil)
	child := mustCreateCategory(t, svc, "Camisas", &root.ID)

	if err := svc.Deactivate(root.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse with active child, got: %v", err)
	}

	if err := svc.Deactivate(child.ID); err != nil {
		t.Fatalf("deactivate leaf failed: %v", err)
	}
	if err := svc.Deactivate(root.ID); err != nil {
		t.Fatalf("deactivate root after child deactivated failed: %v", err)
	}

	// 软停用，行仍然存在
	got, err := svc.GetByID(root.ID)
	if err != nil {
		t.Fatalf("get deactivated category failed: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected category to be inactive")
	}
}

func TestDeactivateCategoryBlockedByProducts(t *testing.T) {
	svc, db := newCategoryService(t, "category_deactivate_products")

	root := mustCreateCategory(t, svc, "Hombre", nil)
	leaf := mustCreateCategory(t, svc, "Camisas", &root.ID)

	product := models.Product{Name: "Camisa Oxford", CategoryID: leaf.ID, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if err := svc.Deactivate(leaf.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse with products attached, got: %v", err)
	}
}

func TestTreeMaterializesHierarchyInOrder(t *testing.T) {
	svc, _ := newCategoryService(t, "category_tree")

	hombre, err := svc.Create(CreateCategoryInput{Name: "Hombre", Position: 1, IsActive: true})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	mujer, err := svc.Create(CreateCategoryInput{Name: "Mujer", Position: 0, IsActive: true})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	zapatillas := mustCreateCategory(t, svc, "Zapatillas", &hombre.ID)
	mustCreateCategory(t, svc, "Camisas", &hombre.ID)
	mustCreateCategory(t, svc, "Running", &zapatillas.ID)
	_ = mujer

	tree, err := svc.Tree(true)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	// position 升序：Mujer(0) 先于 Hombre(1)
	if tree[0].Name != "Mujer" || tree[1].Name != "Hombre" {
		t.Fatalf("unexpected root order: %s, %s", tree[0].Name, tree[1].Name)
	}

	hombreNode := tree[1]
	if len(hombreNode.Children) != 2 {
		t.Fatalf("expected 2 children under Hombre, got %d", len(hombreNode.Children))
	}
	// 同 position 按名称升序：Camisas 先于 Zapatillas
	if hombreNode.Children[0].Name != "Camisas" || hombreNode.Children[1].Name != "Zapatillas" {
		t.Fatalf("unexpected child order: %s, %s", hombreNode.Children[0].Name, hombreNode.Children[1].Name)
	}
	if hombreNode.ChildCount != 2 {
		t.Fatalf("expected child count 2, got %d", hombreNode.ChildCount)
	}

	zapNode := hombreNode.Children[1]
	if len(zapNode.Children) != 1 || zapNode.Children[0].Name != "Running" {
		t.Fatalf("expected Running under Zapatillas, got: %+v", zapNode.Children)
	}
}

func TestReparentTerminatesOnCorruptedAncestry(t *testing.T) {
	svc, db := newCategoryService(t, "category_corrupt")

	a := mustCreateCategory(t, svc, "A", nil)
	b := mustCreateCategory(t, svc, "B", &a.ID)
	target := mustCreateCategory(t, svc, "C", nil)

	// 人为制造 A <-> B 环，祖先链遍历必须在步数上界处终止
	if err := db.Model(&models.Category{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error; err != nil {
		t.Fatalf("corrupt ancestry failed: %v", err)
	}

	if _, err := svc.Reparent(target.ID, b.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle on corrupted ancestry, got: %v", err)
	}
}

func TestTreeExcludesInactiveWhenFiltered(t *testing.T) {
	svc, _ := newCategoryService(t, "category_tree_active")

	root := mustCreateCategory(t, svc, "Hombre", nil)
	child := mustCreateCategory(t, svc, "Camisas", &root.ID)
	if err := svc.Deactivate(child.ID); err != nil {
		t.Fatalf("deactivate child failed: %v", err)
	}

	tree, err := svc.Tree(true)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if len(tree) != 1 || len(tree[0].Children) != 0 {
		t.Fatalf("expected inactive child filtered out, got: %+v", tree)
	}

	full, err := svc.Tree(false)
	if err != nil {
		t.Fatalf("full tree failed: %v", err)
	}
	if len(full) != 1 || len(full[0].Children) != 1 {
		t.Fatalf("expected inactive child included in full tree, got: %+v", full)
	}
}
