package utils

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// NewID 生成实体 ID（客户端生成后随 POST 提交）
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ShareTokenLen 分享 token 固定长度
const ShareTokenLen = 12

// NewShareToken 生成定长随机 token（碰撞概率可忽略，服务端不做唯一性保证）
func NewShareToken() string {
	buf := make([]byte, ShareTokenLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand 不可用时退回 uuid
		return NewID()[:ShareTokenLen]
	}
	var b strings.Builder
	b.Grow(ShareTokenLen)
	for _, c := range buf {
		b.WriteByte(tokenAlphabet[int(c)%len(tokenAlphabet)])
	}
	return b.String()
}
