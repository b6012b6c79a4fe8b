package routes

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/config"
	"github.com/ejggaming/jueteng-backend/internal/handlers"
	"github.com/ejggaming/jueteng-backend/internal/middleware"
	"github.com/ejggaming/jueteng-backend/internal/notify"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers wired in main
type Handlers struct {
	Auth       *handlers.AuthHandler
	Draw       *handlers.DrawHandler
	Bet        *handlers.BetHandler
	Payout     *handlers.PayoutHandler
	Wallet     *handlers.WalletHandler
	GameConfig *handlers.GameConfigHandler
	Agent      *handlers.AgentHandler
	Report     *handlers.ReportHandler
	Audit      *handlers.AuditHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, hub *notify.Hub) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ResponseTimeMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", h.Auth.Login)

		// Live draw event stream
		public.GET("/ws", func(c *gin.Context) {
			hub.ServeWS(c.Writer, c.Request)
		})
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.POST("/auth/operators", middleware.RequireRole("ADMIN"), h.Auth.CreateOperator)

		// Draw lifecycle
		draws := protected.Group("/draws")
		{
			draws.GET("", h.Draw.GetDraws)
			draws.GET("/:id", h.Draw.GetDrawByID)
			draws.POST("", h.Draw.ScheduleDraw)
			draws.POST("/:id/open", h.Draw.OpenDraw)
			draws.POST("/:id/close", h.Draw.CloseDraw)
			draws.POST("/:id/result", h.Draw.RecordResult)
			draws.POST("/:id/settle", h.Draw.SettleDraw)
			draws.GET("/:id/bets", h.Bet.GetBetsByDraw)
			draws.GET("/:id/payouts", h.Payout.GetPayoutsByDraw)
		}

		// Payout disbursement
		payouts := protected.Group("/payouts")
		{
			payouts.POST("/:id/pay", h.Payout.MarkPaid)
			payouts.POST("/:id/claim", h.Payout.MarkClaimed)
		}

		// Wallets
		wallets := protected.Group("/wallets")
		{
			wallets.GET("/:id", h.Wallet.GetWallet)
			wallets.GET("/:id/transactions", h.Wallet.GetTransactions)
			wallets.POST("/:id/deposit", h.Wallet.Deposit)
			wallets.POST("/:id/withdraw", h.Wallet.Withdraw)
		}

		// Game configurations
		configs := protected.Group("/configs")
		{
			configs.GET("", h.GameConfig.GetConfigs)
			configs.GET("/active", h.GameConfig.GetActiveConfig)
			configs.POST("", h.GameConfig.CreateConfig)
			configs.POST("/:id/activate", h.GameConfig.ActivateConfig)
		}

		// Agents
		agents := protected.Group("/agents")
		{
			agents.GET("", h.Agent.GetAgents)
			agents.GET("/:id", h.Agent.GetAgentByID)
			agents.POST("", h.Agent.CreateAgent)
			agents.PUT("/:id/status", h.Agent.UpdateAgentStatus)
		}

		// Reports
		reports := protected.Group("/reports")
		{
			reports.GET("/draws", h.Report.GetDrawSummary)
			reports.GET("/agents/:id/commissions", h.Report.GetAgentCommissions)
		}

		// Audit chain
		audit := protected.Group("/audit")
		{
			audit.GET("/verify", h.Audit.VerifyChain)
			audit.GET("/:resource/:id", h.Audit.GetTrail)
		}
	}

	return router
}
