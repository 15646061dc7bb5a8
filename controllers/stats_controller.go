package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

// StatsController provides site statistics.
type StatsController struct {
	stats *services.StatsService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

// GetStats returns user, post and comment totals.
func (s *StatsController) GetStats(ctx *gin.Context) {
	st, err := s.stats.Totals(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"user_count":    st.Users,
		"post_count":    st.Posts,
		"comment_count": st.Comments,
	})
}
