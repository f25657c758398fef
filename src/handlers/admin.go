package handlers

import (
	"net/http"
	"quest/src/security"
	"quest/src/templates"
	"quest/src/utils"

	"github.com/gin-gonic/gin"
)

// AdminView is one page appended to the admin site's route table.
type AdminView struct {
	Path    string
	Title   string
	Handler gin.HandlerFunc
}

type adminLink struct {
	Path  string
	Title string
}

// common template context shared by every admin page
func pageData(c *gin.Context, title string, extra gin.H) gin.H {
	data := gin.H{
		"site_title":   utils.Config.Admin.SiteTitle,
		"title":        title,
		"admin_prefix": utils.AdminPath(""),
	}
	if v, ok := c.Get(security.TokenKey); ok {
		if token, ok := v.(*security.AccessToken); ok {
			data["user"] = token.Username
		}
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func AdminIndex(c *gin.Context) {
	links := make([]adminLink, len(GoalDashboards))
	for i, view := range GoalDashboards {
		links[i] = adminLink{Path: utils.AdminPath(view.Path), Title: view.Title}
	}

	if !security.WantsHTML(c) {
		c.JSON(http.StatusOK, gin.H{"dashboards": links})
		return
	}

	c.HTML(http.StatusOK, templates.Index, pageData(c, "Site administration", gin.H{
		"dashboards": links,
	}))
}
