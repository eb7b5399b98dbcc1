package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalToken      string
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	resolver PrincipalResolver,
	logger *logging.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	auth := func(next http.Handler) http.Handler {
		return OptionalAuth(verifier, resolver, logger, next)
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerVoterRoutes(mux, handler, auth)
	registerAdminRoutes(mux, handler, auth)
	registerInternalRoutes(mux, handler, cfg.InternalToken)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
