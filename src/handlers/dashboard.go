package handlers

import (
	"net/http"
	"quest/src/errs"
	"quest/src/models"
	"quest/src/repository"
	"quest/src/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GoalDashboards are appended to the admin site's routes, in index order.
var GoalDashboards = []AdminView{
	{Path: "/goal_dashboard_python/", Title: "Top goals (counted in app)", Handler: GoalsDashboardInApp},
	{Path: "/goal_dashboard_sql/", Title: "Top goals (counted in SQL)", Handler: GoalsDashboardSQL},
	{Path: "/goal_dashboard_with_avg_completions/", Title: "Top goals with average completions", Handler: GoalsAvgCompletions},
}

// GoalsDashboardInApp counts completions one goal at a time and ranks the
// result in memory. It issues one query per goal and is kept as the slow
// baseline the SQL dashboards are compared against.
func GoalsDashboardInApp(c *gin.Context) {
	goals, queries, err := repository.FetchGoalsCountedInApp(c.Request.Context())
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	zap.L().Debug("Goal dashboard counted in app",
		zap.Int("goals", len(goals)),
		zap.Int("queries", queries),
	)

	top := models.RankByCompletions(goals, models.TopGoalsLimit)
	renderGoalDashboard(c, "Top goals (counted in app)", top, nil)
}

func GoalsDashboardSQL(c *gin.Context) {
	top, err := repository.FetchTopGoalsByCompletions(c.Request.Context(), models.TopGoalsLimit)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	renderGoalDashboard(c, "Top goals (counted in SQL)", top, nil)
}

func GoalsAvgCompletions(c *gin.Context) {
	ctx := c.Request.Context()

	top, err := repository.FetchTopGoalsByCompletions(ctx, models.TopGoalsLimit)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	// averaged over every goal, not just the ten shown
	avg, err := repository.FetchAverageCompletions(ctx)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	renderGoalDashboard(c, "Top goals with average completions", top, models.AverageCompletionsStats(avg))
}

func renderGoalDashboard(c *gin.Context, title string, goals []models.GoalWithCompletions, stats []models.OtherStat) {
	dto := models.GoalDashboardToDTO(goals, stats)

	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEHTML:
		c.HTML(http.StatusOK, templates.GoalDashboard, pageData(c, title, gin.H{
			"goals":       dto.Goals,
			"other_stats": dto.OtherStats,
		}))
	case gin.MIMEJSON:
		c.JSON(http.StatusOK, dto)
	default:
		c.Error(errs.NotAcceptable)
	}
}
