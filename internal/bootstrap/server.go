package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/api"
	"github.com/alfredjmgdev/darien-technology-test/config"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/reservations"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/spaces"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/users"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	tokens api.TokenVerifier,
	userSvc users.UserUseCase,
	spaceSvc spaces.SpaceUseCase,
	reservationSvc reservations.ReservationUseCase,
) error {
	router := NewRouter(tokens, userSvc, spaceSvc, reservationSvc)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine: public auth routes plus JWT-protected
// space and reservation routes under /api.
func NewRouter(
	tokens api.TokenVerifier,
	userSvc users.UserUseCase,
	spaceSvc spaces.SpaceUseCase,
	reservationSvc reservations.ReservationUseCase,
) *gin.Engine {
	router := gin.Default()
	router.Use(api.CORSMiddleware())

	root := router.Group("/api")

	authHandler := api.NewAuthHandler(userSvc)
	authHandler.Register(root.Group("/auth"))

	protected := root.Group("/")
	protected.Use(api.AuthMiddleware(tokens))

	spaceHandler := api.NewSpaceHandler(spaceSvc)
	spaceHandler.Register(protected.Group("/spaces"))

	reservationHandler := api.NewReservationHandler(reservationSvc)
	reservationHandler.Register(protected.Group("/reservations"))

	return router
}
