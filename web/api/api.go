package api

import (
	"github.com/afumu/wereport/store"
)

// API 封装了 API 处理器所需的所有依赖。
type API struct {
	Store store.Store
}

// NewAPI 创建一个新的 API 处理器。
func NewAPI(s store.Store) *API {
	return &API{Store: s}
}
