package domain

// 时间戳统一使用 RFC3339 字符串，排序按字典序比较（与后端存储格式一致）。

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191" json:"email"`
	PasswordHash string `gorm:"size:191" json:"passwordHash"`
	Name         string `gorm:"size:64" json:"name"`
	Surname      string `gorm:"size:64" json:"surname"`
	Cell         string `gorm:"size:32" json:"cell"`
	CreatedAt    string `gorm:"size:40" json:"createdAt"`
	UpdatedAt    string `gorm:"size:40" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// SafeUser 去掉密码哈希后的用户（会话里只存这个）
type SafeUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Cell      string `json:"cell"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Sanitize 剥离 passwordHash
func (u User) Sanitize() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Surname:   u.Surname,
		Cell:      u.Cell,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ShoppingList struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	UserID     string `gorm:"index;size:36" json:"userId"`
	Name       string `gorm:"size:191" json:"name"`
	ShareToken string `gorm:"index;size:64" json:"shareToken,omitempty"`
	CreatedAt  string `gorm:"size:40" json:"createdAt"`
	UpdatedAt  string `gorm:"size:40" json:"updatedAt"`
}

func (ShoppingList) TableName() string { return "lists" }

type ShoppingItem struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ListID    string `gorm:"index;size:36" json:"listId"`
	UserID    string `gorm:"index;size:36" json:"userId"`
	Name      string `gorm:"size:191" json:"name"`
	Quantity  int    `json:"quantity"`
	Notes     string `gorm:"size:500" json:"notes"`
	Category  string `gorm:"size:64" json:"category"`
	ImageURL  string `gorm:"size:500" json:"imageUrl"`
	CreatedAt string `gorm:"size:40" json:"createdAt"`
	UpdatedAt string `gorm:"size:40" json:"updatedAt"`
}

func (ShoppingItem) TableName() string { return "items" }

// DefaultCategory 未指定分类时的兜底值
const DefaultCategory = "Other"

// Categories 前端下拉框用的内置分类（可自定义，非白名单）
var Categories = []string{
	"Groceries", "Drinks", "Fruits", "Veggies", "Snacks",
	"Stationary", "Appliances", "Cosmetic", "Home Deco",
	"Clothes", "Shoes", "Hair care", "Other",
}
