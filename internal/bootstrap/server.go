package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/api"
	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/calendar"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, reservationSvc reservation.ReservationUseCase, calendarSvc calendar.CalendarUseCase) error {
	router := newRouter(cfg, reservationSvc, calendarSvc)
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, reservationSvc reservation.ReservationUseCase, calendarSvc calendar.CalendarUseCase) *gin.Engine {
	router := gin.Default()

	api.NewAvailabilityHandler(reservationSvc, calendarSvc).Register(router)
	api.NewBookingHandler(reservationSvc, calendarSvc).Register(router.Group("/bookings"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerFile != "" {
		router.StaticFile("/swagger/doc.json", cfg.HTTP.SwaggerFile)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	return router
}
