package round

import (
	"errors"
	"net/http"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateRequestBody 定义了新建Runde时请求体的JSON结构
type CreateRequestBody struct {
	Name         string `json:"name" binding:"required,max=100"`
	Location     string `json:"location" binding:"required,max=100"`
	PointsConfig string `json:"points_config" binding:"omitempty,max=100"`
}

// Response 是Runde的API响应模型
type Response struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Location     string               `json:"location"`
	PointsConfig scoring.PointsConfig `json:"points_config"`
	CreatedAt    time.Time            `json:"created_at"`
}

func toResponse(r Round) Response {
	return Response{
		ID:           r.ID,
		Name:         r.Name,
		Location:     r.Location,
		PointsConfig: r.PointsConfig.Scoring(),
		CreatedAt:    r.CreatedAt,
	}
}

// ListPointsConfigs 返回所有计分表
func ListPointsConfigs(c *gin.Context) {
	pcs, err := PointsConfigs(c.Request.Context())
	if err != nil {
		logger.Log.Error("读取计分表失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Punktekonfigurationen konnten nicht geladen werden."})
		return
	}
	responses := make([]scoring.PointsConfig, 0, len(pcs))
	for _, pc := range pcs {
		responses = append(responses, pc.Scoring())
	}
	c.JSON(http.StatusOK, responses)
}

// ListRounds 返回所有活跃的Runden
func ListRounds(c *gin.Context) {
	rs, err := List(c.Request.Context())
	if err != nil {
		logger.Log.Error("读取Runden失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Runden konnten nicht geladen werden."})
		return
	}
	responses := make([]Response, 0, len(rs))
	for _, r := range rs {
		responses = append(responses, toResponse(r))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateRound 新建一个Runde
func CreateRound(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Anfrage: " + err.Error()})
		return
	}

	r, err := Create(c.Request.Context(), body.Name, body.Location, body.PointsConfig)
	switch {
	case errors.Is(err, ErrUnknownPointsConfig):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"messages": []string{"Unbekannte Punktekonfiguration: " + body.PointsConfig + "."}})
		return
	case err != nil:
		logger.Log.Error("新建Runde失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Runde konnte nicht gespeichert werden."})
		return
	}

	logger.Log.Info("新建Runde", zap.Uint("roundID", r.ID), zap.String("name", r.Name))
	c.JSON(http.StatusCreated, toResponse(r))
}
