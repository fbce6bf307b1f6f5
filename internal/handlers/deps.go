package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/stak-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
	SwipeSvc        swipeService
	NewsSvc         newsService
	TrendSvc        trendService
	IntelSvc        intelService
	StockSvc        stockService
}
