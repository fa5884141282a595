package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/token"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfirmRequestBody 定义了提交一局Spiel时请求体的JSON结构
type ConfirmRequestBody struct {
	Raw       json.RawMessage `json:"raw" binding:"required"`
	Token     string          `json:"token" binding:"required,uuid"`
	Signature string          `json:"signature" binding:"required"`
}

// --- API响应模型 ---
type ResultResponse struct {
	ParticipantID uint    `json:"participant_id"`
	Name          string  `json:"name"`
	Eyes          int     `json:"eyes"`
	Points        float64 `json:"points"`
	Won           bool    `json:"won"`
}
type DoublingResponse struct {
	ParticipantID uint   `json:"participant_id"`
	Kind          string `json:"kind"`
}
type GameResponse struct {
	ID          uint               `json:"id"`
	RoundID     uint               `json:"round_id"`
	GameType    string             `json:"game_type"`
	AnnouncerID *uint              `json:"announcer_id"`
	PartnerID   *uint              `json:"partner_id"`
	DealerID    uint               `json:"dealer_id"`
	SeatIDs     [4]uint            `json:"seat_ids"`
	Suit        string             `json:"suit,omitempty"`
	Laufende    int                `json:"laufende"`
	Schneider   bool               `json:"schneider"`
	Schwarz     bool               `json:"schwarz"`
	Durchmarsch bool               `json:"durchmarsch"`
	Tout        bool               `json:"tout"`
	Points      float64            `json:"points"`
	CreatedAt   time.Time          `json:"created_at"`
	Results     []ResultResponse   `json:"results"`
	Doublings   []DoublingResponse `json:"doublings"`
}

// Handler 是game模块的HTTP入口
type Handler struct {
	svc *Service
}

// NewHandler 创建Handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) formatGame(c *gin.Context, g Game) GameResponse {
	resp := GameResponse{
		ID:          g.ID,
		RoundID:     g.RoundID,
		GameType:    g.GameType,
		AnnouncerID: g.AnnouncerID,
		PartnerID:   g.PartnerID,
		DealerID:    g.DealerID,
		SeatIDs:     g.Seats(),
		Suit:        g.Suit,
		Laufende:    g.Laufende,
		Schneider:   g.Schneider,
		Schwarz:     g.Schwarz,
		Durchmarsch: g.Durchmarsch,
		Tout:        g.Tout,
		Points:      g.Points,
		CreatedAt:   g.CreatedAt,
		Results:     make([]ResultResponse, 0, len(g.Results)),
		Doublings:   make([]DoublingResponse, 0, len(g.Doublings)),
	}
	for _, r := range g.Results {
		resp.Results = append(resp.Results, ResultResponse{
			ParticipantID: r.ParticipantID,
			Name:          h.svc.lookup.PlayerName(c.Request.Context(), r.ParticipantID),
			Eyes:          r.Eyes,
			Points:        r.Points,
			Won:           r.Won,
		})
	}
	for _, d := range g.Doublings {
		resp.Doublings = append(resp.Doublings, DoublingResponse{ParticipantID: d.ParticipantID, Kind: d.Kind})
	}
	return resp
}

// writeError 把服务层的错误映射为HTTP响应
func writeError(c *gin.Context, err error) {
	var ve *scoring.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"messages": ve.Messages})
	case errors.Is(err, ErrMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, token.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Signatur. Bitte das Spiel erneut berechnen."})
	case errors.Is(err, ErrUnknownVariant), errors.Is(err, round.ErrNotFound),
		errors.Is(err, ErrNoGames), errors.Is(err, ErrNoActiveGame):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Log.Error("请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Interner Fehler."})
	}
}

func variantParam(c *gin.Context) (scoring.Variant, bool) {
	v, ok := scoring.ParseVariant(c.Param("variant"))
	if !ok {
		writeError(c, ErrUnknownVariant)
	}
	return v, ok
}

func roundIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Runden-ID."})
		return 0, false
	}
	return uint(id), true
}

// PreviewGame 试算一局Spiel。请求体即该变体的原始录入。
func (h *Handler) PreviewGame(c *gin.Context) {
	variant, ok := variantParam(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Anfrage: " + err.Error()})
		return
	}

	preview, err := h.svc.Preview(c.Request.Context(), variant, body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// ConfirmGame 写入一局之前试算过的Spiel
func (h *Handler) ConfirmGame(c *gin.Context) {
	variant, ok := variantParam(c)
	if !ok {
		return
	}
	var body ConfirmRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Anfrage: " + err.Error()})
		return
	}

	id, err := h.svc.Confirm(c.Request.Context(), variant, body.Raw, body.Token, body.Signature)
	if errors.Is(err, ErrReplay) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "game_id": id})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game_id": id})
}

// InactivateLatestGame 作废最新的一局Spiel
func (h *Handler) InactivateLatestGame(c *gin.Context) {
	id, err := h.svc.InactivateLatest(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": id})
}

// ListRoundGames 返回一个Runde中所有活跃的Spiele
func (h *Handler) ListRoundGames(c *gin.Context) {
	roundID, ok := roundIDParam(c)
	if !ok {
		return
	}
	games, err := h.svc.GamesByRound(c.Request.Context(), roundID)
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]GameResponse, 0, len(games))
	for _, g := range games {
		responses = append(responses, h.formatGame(c, g))
	}
	c.JSON(http.StatusOK, responses)
}

// GetNextSeating 返回下一局的座位建议
func (h *Handler) GetNextSeating(c *gin.Context) {
	roundID, ok := roundIDParam(c)
	if !ok {
		return
	}
	seating, err := h.svc.NextSeating(c.Request.Context(), roundID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, seating)
}
