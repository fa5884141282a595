package api

import (
	"github.com/SlpAus/schafkopf-scoring-backend/internal/game"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/config"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, auth config.AuthConfig, games *game.Handler) error {
	if err := participant.RegisterValidations(); err != nil {
		return err
	}

	// 写接口在配置了账号时需要Basic Auth
	write := []gin.HandlerFunc{}
	if auth.Username != "" {
		write = append(write, gin.BasicAuth(gin.Accounts{auth.Username: auth.Password}))
	}
	with := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), h)
	}

	api := router.Group("/api")
	{
		// 参与者
		api.GET("/participants", participant.ListParticipants)
		api.POST("/participants", with(participant.CreateParticipant)...)

		// 计分表和Runden
		api.GET("/points-configs", round.ListPointsConfigs)
		api.GET("/rounds", round.ListRounds)
		api.POST("/rounds", with(round.CreateRound)...)
		api.GET("/rounds/:id/games", games.ListRoundGames)
		api.GET("/rounds/:id/next-seating", games.GetNextSeating)

		// Spiele
		api.POST("/games/:variant/preview", games.PreviewGame)
		api.POST("/games/:variant", with(games.ConfirmGame)...)
		api.DELETE("/games/latest", with(games.InactivateLatestGame)...)
	}
	return nil
}
