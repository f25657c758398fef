package errs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// describes the postgres error class in words operators can act on
func pgHint(code string) string {
	switch {
	case code == pgerrcode.UndefinedTable || code == pgerrcode.UndefinedColumn:
		return "database schema is missing or outdated, run migrations"
	case pgerrcode.IsConnectionException(code):
		return "database connection failure"
	case pgerrcode.IsInsufficientResources(code):
		return "database is out of resources"
	case pgerrcode.IsIntegrityConstraintViolation(code):
		return "integrity constraint violated"
	case code == pgerrcode.SyntaxError || code == pgerrcode.InsufficientPrivilege:
		return "query rejected by the database"
	}
	return "database error"
}

func logInternalError(logger *zap.Logger, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Error("Row not found error", zap.Error(err))
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		logger.Error("Database error occurred",
			zap.String("sqlstate", pgErr.Code),
			zap.String("hint", pgHint(pgErr.Code)),
			zap.Error(err),
		)
		return
	}

	logger.Error("Unexpected error occurred", zap.Error(err))
}

func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		errs := c.Errors
		if len(errs) == 0 {
			return
		}

		// take the last error
		err := errs.Last().Err

		var appErr *AppError
		if ok := errors.As(err, &appErr); ok {
			if appErr.Internal() {
				logInternalError(logger, appErr.Err)
			}

			// a handler may have started the body before failing
			if c.Writer.Written() {
				return
			}

			msgs := appErr.Messages
			body := gin.H{"errors": msgs}
			if len(msgs) == 1 {
				body = gin.H{"error": msgs[0]}
			}

			c.JSON(appErr.Code, body)
		} else {
			logger.Error("Unhandled non-app error occurred", zap.Error(err))
			if c.Writer.Written() {
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unhandled server error! Please report to service administrator."})
		}
	}
}
