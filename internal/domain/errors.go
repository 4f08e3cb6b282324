package domain

import "errors"

// 业务错误分类：校验错误在发请求前拦截；远端错误统一 ErrRemote 包装。
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicatePhone     = errors.New("cell number already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrRemote             = errors.New("remote request failed")
)
