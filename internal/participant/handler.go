package participant

import (
	"errors"
	"net/http"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateRequestBody 定义了新建参与者时请求体的JSON结构
type CreateRequestBody struct {
	FirstName string `json:"first_name" binding:"required,max=64,personname"`
	LastName  string `json:"last_name" binding:"required,max=64,personname"`
}

// Response 是参与者的API响应模型
type Response struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
}

func toResponse(p Participant) Response {
	return Response{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Name: p.Name}
}

// ListParticipants 返回所有参与者
func ListParticipants(c *gin.Context) {
	ps, err := List(c.Request.Context())
	if err != nil {
		logger.Log.Error("读取参与者列表失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Teilnehmer konnten nicht geladen werden."})
		return
	}
	responses := make([]Response, 0, len(ps))
	for _, p := range ps {
		responses = append(responses, toResponse(p))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateParticipant 新建一名参与者
func CreateParticipant(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Anfrage: " + err.Error()})
		return
	}

	p, err := Create(c.Request.Context(), body.FirstName, body.LastName)
	switch {
	case errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Log.Error("新建参与者失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Teilnehmer konnte nicht gespeichert werden."})
		return
	}

	logger.Log.Info("新建参与者", zap.Uint("participantID", p.ID), zap.String("name", p.Name))
	c.JSON(http.StatusCreated, toResponse(p))
}
