package handlers

import (
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/state"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService      *service.UserService
	trainService     *service.TrainService
	fareService      *service.FareService
	inventoryService *service.InventoryService
	bookingService   *service.BookingService
	stateManager     *state.Manager
	logger           *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	trainService *service.TrainService,
	fareService *service.FareService,
	inventoryService *service.InventoryService,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:      userService,
		trainService:     trainService,
		fareService:      fareService,
		inventoryService: inventoryService,
		bookingService:   bookingService,
		stateManager:     stateManager,
		logger:           logger,
	}
}
