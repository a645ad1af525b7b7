package util

import (
	"Atrium/internal/pkg/consts"
	"math/rand"
	"strings"
	"time"
)

const digits = "0123456789"

// GenerateCode 生成指定长度的数字验证码
func GenerateCode(length int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := make([]byte, length)
	for i := range code {
		code[i] = digits[r.Intn(len(digits))]
	}
	return string(code)
}

// NormalizePagination 纠正非法分页参数
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = consts.DefaultPage
	}
	if limit < 1 || limit > consts.MaxLimit {
		limit = consts.DefaultLimit
	}
	return page, limit
}

// UniqueStrings 去重并保持原有顺序
func UniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}
