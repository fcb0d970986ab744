package api

import (
	"github.com/DIEGUS15/parkinglot/internal/api/handler"
	"github.com/DIEGUS15/parkinglot/internal/api/middleware"
	"github.com/DIEGUS15/parkinglot/internal/config"
	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRouter(
	cfg *config.Config,
	as *service.AuthService,
	ls *service.ParkingLotService,
	vs *service.VehicleService,
	authMw *middleware.AuthMiddleware,
	rdb *redis.Client,
) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	r.Use(middleware.RateLimit(cfg.RateLimit, rdb))

	authHandler := handler.NewAuthHandler(as)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		// Only an admin may create accounts; there is no open sign-up.
		authRoutes.POST("/register",
			authMw.Authenticate(), authMw.AuthorizeRole(domain.RoleAdmin), authHandler.Register)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		lotH := handler.NewParkingLotHandler(ls)
		lotRoutes := v1.Group("/parking-lots")
		{
			lotRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), lotH.Create)
			lotRoutes.GET("", lotH.List)
			lotRoutes.GET("/:id", lotH.GetByID)
			lotRoutes.GET("/owner/:ownerId", lotH.ListByOwner)
			lotRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), lotH.Update)
			lotRoutes.PATCH("/:id/activate", authMw.AuthorizeRole(domain.RoleAdmin), lotH.Activate)
			lotRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), lotH.Deactivate)
			lotRoutes.DELETE("/:id/permanent", authMw.AuthorizeRole(domain.RoleAdmin), lotH.Delete)
		}

		vehicleH := handler.NewVehicleHandler(vs)
		vehicleRoutes := v1.Group("/vehicles")
		{
			vehicleRoutes.POST("/check-in", vehicleH.CheckIn)
			vehicleRoutes.POST("/check-out", vehicleH.CheckOut)
			vehicleRoutes.GET("/parking-lot/:lotId", vehicleH.ListByLot)
			vehicleRoutes.GET("/top-frequent", vehicleH.TopFrequent)
			vehicleRoutes.GET("/top-frequent/parking-lot/:lotId", vehicleH.TopFrequentByLot)
			vehicleRoutes.GET("/first-time/parking-lot/:lotId", vehicleH.FirstTimeByLot)
			vehicleRoutes.GET("/revenue/:period/parking-lot/:lotId", vehicleH.Revenue)
			vehicleRoutes.GET("/search", vehicleH.Search)
		}
	}
	return r
}
