package cli

import (
	"fmt"
	"quest/src/errs"
	"quest/src/handlers"
	"quest/src/security"
	"quest/src/templates"
	"quest/src/utils"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, cleanup := bootstrap()
	defer cleanup()

	utils.InitValidator()
	security.InitJWT(utils.Config.KeysDir)

	if utils.Config.DisableRateLimits {
		logger.Warn("Rate limits disabled! Is it intentional?")
	} else {
		utils.InitCache(utils.Config.RedisUrl)
		defer utils.CloseCache()
	}
	if utils.Config.Maintenance {
		logger.Warn("Maintenance mode toggled! Is it intentional?")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := newRouter(logger)
	if err != nil {
		return err
	}

	logger.Info("Admin site is available", zap.String("addr", utils.Config.ListenAddr), zap.String("prefix", utils.Config.Admin.Prefix))
	if err := r.Run(utils.Config.ListenAddr); err != nil {
		return fmt.Errorf("failed to start the server: %w", err)
	}
	return nil
}

func newRouter(logger *zap.Logger) (*gin.Engine, error) {
	r := gin.New()

	r.Use(gin.Recovery())

	// the admin site is same-origin, cors only matters for a separate frontend
	if utils.Config.CorsOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{utils.Config.CorsOrigin},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "Set-Cookie"},
			AllowCredentials: true,
		}))
	}

	r.Use(security.LoggerMiddleware(logger), errs.ErrorHandler(logger), security.RateLimitMiddleware(100, time.Minute))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	handlers.SetupRoutes(r)
	return r, nil
}
