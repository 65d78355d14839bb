package web

import (
	"github.com/gin-gonic/gin"
)

// setupRoutes 初始化所有应用程序路由。
func (s *Service) setupRoutes() {
	// API v1 路由组, 使用在 service 中初始化的处理器
	v1 := s.router.Group("/api/v1")
	{
		// 年度报告路由
		v1.GET("/report", s.api.GetAnnualReport)
		v1.GET("/report/years", s.api.GetReportYears)
	}

	// 健康检查
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
