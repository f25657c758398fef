package handlers

import (
	"errors"
	"math"
	"net/http"
	"quest/src/errs"
	"quest/src/models"
	"quest/src/repository"
	"quest/src/security"
	"quest/src/templates"
	"quest/src/utils"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

func renderLogin(c *gin.Context, code int, username string, next string, messages []string) {
	c.HTML(code, templates.Login, pageData(c, "Log in", gin.H{
		"username": username,
		"next":     next,
		"errors":   messages,
	}))
}

// failLogin answers a rejected login in the format the client asked for
func failLogin(c *gin.Context, err error, credentials models.LoginDTO) {
	var appErr *errs.AppError
	if !security.WantsHTML(c) || !errors.As(err, &appErr) || appErr.Internal() {
		c.Error(err)
		return
	}

	renderLogin(c, appErr.Code, credentials.Username, credentials.Next, appErr.Messages)
}

func LoginPage(c *gin.Context) {
	next := c.Query("next")

	// already signed in admins go straight on
	if token, err := security.ValidateToken(security.RequestToken(c)); err == nil && token.IsAdmin {
		c.Redirect(http.StatusFound, utils.SafeRedirect(next, utils.AdminPath("/")))
		return
	}

	renderLogin(c, http.StatusOK, "", next, nil)
}

func Login(c *gin.Context) {
	var credentials models.LoginDTO
	if err := utils.ValidateForm(c, &credentials); err != nil {
		failLogin(c, err, credentials)
		return
	}

	user, err := repository.FindUserByUsername(c.Request.Context(), credentials.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			failLogin(c, errs.InvalidCredentials, credentials)
			return
		}

		c.Error(errs.InternalError(err))
		return
	}

	match, err := argon2id.ComparePasswordAndHash(credentials.Password, user.Password)
	if err != nil {
		// seeded accounts carry an unusable password that is not a hash
		if errors.Is(err, argon2id.ErrInvalidHash) {
			failLogin(c, errs.InvalidCredentials, credentials)
			return
		}

		c.Error(errs.InternalError(err))
		return
	}

	// only admins may use the admin site
	if !match || !user.IsAdmin {
		failLogin(c, errs.InvalidCredentials, credentials)
		return
	}

	access, err := security.NewAccessToken(user.Id, user.Username, user.IsAdmin)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	maxAge := int(math.Round(utils.Config.JWT.AccessExpiration.Seconds()))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.Config.Admin.CookieName, access, maxAge, "/", "", utils.Config.Admin.SecureCookie, true)

	if security.WantsHTML(c) {
		c.Redirect(http.StatusFound, utils.SafeRedirect(credentials.Next, utils.AdminPath("/")))
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": access, "user": user.ToDTO()})
}

func LogOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.Config.Admin.CookieName, "", -1, "/", "", utils.Config.Admin.SecureCookie, true)

	if security.WantsHTML(c) {
		c.Redirect(http.StatusFound, security.LoginURL(""))
		return
	}

	c.Status(http.StatusNoContent)
}
