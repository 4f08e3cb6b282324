package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-shoplist/internal/domain"
)

// 表单载荷统一经过这里的构造器：必填字段、数量强转全部在发请求之前
// 完成，store 层不再接受松散输入。

func nowISO() string { return time.Now().UTC().Format(time.RFC3339) }

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}

// ParseQuantity 把表单里的数量强转成正整数
func ParseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, validationErr("quantity must be a positive integer")
	}
	return n, nil
}

// RegisterRequest 注册载荷
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Cell     string
}

func NewRegisterRequest(email, password, name, surname, cell string) (RegisterRequest, error) {
	r := RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
		Name:     strings.TrimSpace(name),
		Surname:  strings.TrimSpace(surname),
		Cell:     strings.TrimSpace(cell),
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return RegisterRequest{}, validationErr("a valid email is required")
	}
	if r.Password == "" {
		return RegisterRequest{}, validationErr("password is required")
	}
	if r.Name == "" {
		return RegisterRequest{}, validationErr("name is required")
	}
	return r, nil
}

// AddItemRequest 新增条目载荷。quantity 接收原始字符串，在这里强转。
type AddItemRequest struct {
	UserID   string
	ListID   string
	Name     string
	Quantity int
	Category string
	Notes    string
	ImageURL string
}

func NewAddItemRequest(userID, listID, name, quantity, category, notes, imageURL string) (AddItemRequest, error) {
	r := AddItemRequest{
		UserID:   userID,
		ListID:   listID,
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Notes:    strings.TrimSpace(notes),
		ImageURL: strings.TrimSpace(imageURL),
	}
	if r.UserID == "" || r.ListID == "" {
		return AddItemRequest{}, validationErr("user and list are required")
	}
	if r.Name == "" {
		return AddItemRequest{}, validationErr("item name is required")
	}
	q, err := ParseQuantity(quantity)
	if err != nil {
		return AddItemRequest{}, err
	}
	r.Quantity = q
	if r.Category == "" {
		r.Category = domain.DefaultCategory
	}
	return r, nil
}

// ItemPatch 条目部分更新。nil 字段不下发；quantity 仍按字符串进强转。
type ItemPatch struct {
	Name     *string
	Quantity *string
	Notes    *string
	Category *string
	ImageURL *string
}

// build 产出 PATCH 文档，顺带盖新的 updatedAt
func (p ItemPatch) build() (map[string]any, error) {
	doc := map[string]any{"updatedAt": nowISO()}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, validationErr("item name is required")
		}
		doc["name"] = name
	}
	if p.Quantity != nil {
		q, err := ParseQuantity(*p.Quantity)
		if err != nil {
			return nil, err
		}
		doc["quantity"] = q
	}
	if p.Notes != nil {
		doc["notes"] = strings.TrimSpace(*p.Notes)
	}
	if p.Category != nil {
		cat := strings.TrimSpace(*p.Category)
		if cat == "" {
			cat = domain.DefaultCategory
		}
		doc["category"] = cat
	}
	if p.ImageURL != nil {
		doc["imageUrl"] = strings.TrimSpace(*p.ImageURL)
	}
	return doc, nil
}
