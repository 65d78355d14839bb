package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/afumu/wereport/web/transport"
	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetAnnualReport 获取年度报告。
// 报告生成是确定性的, 因此对序列化结果做内容哈希作为 ETag,
// 客户端带 If-None-Match 命中时直接返回 304。
func (a *API) GetAnnualReport(c *gin.Context) {
	yearStr := c.Query("year")
	year := time.Now().Year()

	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 2000 || y > 2100 {
			transport.BadRequest(c, "无效的年份参数")
			return
		}
		year = y
	}

	report, err := a.Store.GenerateReport(c.Request.Context(), year)
	if err != nil {
		log.Error().Err(err).Int("year", year).Msg("生成年度报告失败")
		transport.SendStoreError(c, err)
		return
	}

	payload, err := json.Marshal(transport.Response{Success: true, Data: report})
	if err != nil {
		transport.InternalServerError(c, "序列化年度报告失败")
		return
	}

	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(payload))
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// GetReportYears 获取存在消息数据的年份列表
func (a *API) GetReportYears(c *gin.Context) {
	years, err := a.Store.AvailableYears(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("获取可用年份失败")
		transport.SendStoreError(c, err)
		return
	}
	transport.SendSuccess(c, years)
}
