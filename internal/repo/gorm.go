package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-shoplist/internal/domain"
	"go-shoplist/pkg/utils"
)

// Gorm DB 实盘的资源库（mysql / postgres，驱动由配置决定）。
// PATCH 走「读出 → JSON merge → Save」，保持与内存实现一致的合并语义。
type Gorm struct{ db *gorm.DB }

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{db: db} }

func (g *Gorm) AutoMigrate() error {
	return g.db.AutoMigrate(&domain.User{}, &domain.ShoppingList{}, &domain.ShoppingItem{})
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// ---------- users ----------

func (g *Gorm) ListUsers(ctx context.Context, f UserFilter) ([]domain.User, error) {
	q := g.db.WithContext(ctx).Model(&domain.User{}).Order("created_at asc")
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.Cell != "" {
		q = q.Where("cell = ?", f.Cell)
	}
	var out []domain.User
	return out, q.Find(&out).Error
}

func (g *Gorm) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := g.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (g *Gorm) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	return u, g.db.WithContext(ctx).Create(&u).Error
}

func (g *Gorm) PatchUser(ctx context.Context, id string, patch map[string]any) (*domain.User, error) {
	u, err := g.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := mergePatch(*u, patch)
	if err != nil {
		return nil, err
	}
	merged.ID = id
	if err := g.db.WithContext(ctx).Save(&merged).Error; err != nil {
		return nil, err
	}
	return &merged, nil
}

func (g *Gorm) PutUser(ctx context.Context, id string, u domain.User) (*domain.User, error) {
	if _, err := g.GetUser(ctx, id); err != nil {
		return nil, err
	}
	u.ID = id
	if err := g.db.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ---------- lists ----------

func (g *Gorm) ListLists(ctx context.Context, f ListFilter) ([]domain.ShoppingList, error) {
	q := g.db.WithContext(ctx).Model(&domain.ShoppingList{}).Order("created_at asc")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ShareToken != "" {
		q = q.Where("share_token = ?", f.ShareToken)
	}
	var out []domain.ShoppingList
	return out, q.Find(&out).Error
}

func (g *Gorm) GetList(ctx context.Context, id string) (*domain.ShoppingList, error) {
	var l domain.ShoppingList
	if err := g.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &l, nil
}

func (g *Gorm) CreateList(ctx context.Context, l domain.ShoppingList) (domain.ShoppingList, error) {
	if l.ID == "" {
		l.ID = utils.NewID()
	}
	return l, g.db.WithContext(ctx).Create(&l).Error
}

func (g *Gorm) PatchList(ctx context.Context, id string, patch map[string]any) (*domain.ShoppingList, error) {
	l, err := g.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := mergePatch(*l, patch)
	if err != nil {
		return nil, err
	}
	merged.ID = id
	if err := g.db.WithContext(ctx).Save(&merged).Error; err != nil {
		return nil, err
	}
	return &merged, nil
}

func (g *Gorm) PutList(ctx context.Context, id string, l domain.ShoppingList) (*domain.ShoppingList, error) {
	if _, err := g.GetList(ctx, id); err != nil {
		return nil, err
	}
	l.ID = id
	if err := g.db.WithContext(ctx).Save(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (g *Gorm) DeleteList(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ShoppingList{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---------- items ----------

func (g *Gorm) ListItems(ctx context.Context, f ItemFilter) ([]domain.ShoppingItem, error) {
	q := g.db.WithContext(ctx).Model(&domain.ShoppingItem{}).Order("created_at asc")
	if f.ListID != "" {
		q = q.Where("list_id = ?", f.ListID)
	}
	var out []domain.ShoppingItem
	return out, q.Find(&out).Error
}

func (g *Gorm) GetItem(ctx context.Context, id string) (*domain.ShoppingItem, error) {
	var it domain.ShoppingItem
	if err := g.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &it, nil
}

func (g *Gorm) CreateItem(ctx context.Context, it domain.ShoppingItem) (domain.ShoppingItem, error) {
	if it.ID == "" {
		it.ID = utils.NewID()
	}
	return it, g.db.WithContext(ctx).Create(&it).Error
}

func (g *Gorm) PatchItem(ctx context.Context, id string, patch map[string]any) (*domain.ShoppingItem, error) {
	it, err := g.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := mergePatch(*it, patch)
	if err != nil {
		return nil, err
	}
	merged.ID = id
	if err := g.db.WithContext(ctx).Save(&merged).Error; err != nil {
		return nil, err
	}
	return &merged, nil
}

func (g *Gorm) PutItem(ctx context.Context, id string, it domain.ShoppingItem) (*domain.ShoppingItem, error) {
	if _, err := g.GetItem(ctx, id); err != nil {
		return nil, err
	}
	it.ID = id
	if err := g.db.WithContext(ctx).Save(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (g *Gorm) DeleteItem(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ShoppingItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
