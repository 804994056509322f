package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfflineGateway шлюз для локального запуска без ключей Razorpay.
// Заказы создаются локально, подпись проверяется тем же HMAC.
type OfflineGateway struct {
	secret string
	logger *zap.Logger
}

func NewOfflineGateway(secret string, logger *zap.Logger) *OfflineGateway {
	return &OfflineGateway{secret: secret, logger: logger}
}

func (g *OfflineGateway) Name() string {
	return "offline"
}

func (g *OfflineGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*model.PaymentOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", model.ErrPaymentGateway)
	}

	id := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	g.logger.Debug("Offline payment order created",
		zap.String("order_id", id),
		zap.String("receipt", receipt),
		zap.Int64("amount", amount),
	)

	return &model.PaymentOrder{ID: id, Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (g *OfflineGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.secret, orderID, paymentID, signature)
}

// SignatureFor подпись, которую вернул бы checkout
func (g *OfflineGateway) SignatureFor(orderID, paymentID string) string {
	return Sign(g.secret, orderID, paymentID)
}
