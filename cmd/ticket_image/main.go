package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/document"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

func main() {
	// Создаем тестовые данные
	now := time.Now()
	journeyDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 14)

	train := &model.Train{
		ID:      1,
		Number:  "12951",
		Name:    "Mumbai Rajdhani",
		Classes: model.FareClasses,
	}

	booking := &model.Booking{
		ID:          1,
		PNR:         "4F2A9C01BE",
		UserID:      1,
		TrainID:     train.ID,
		JourneyDate: journeyDate,
		FromStation: "MMCT",
		ToStation:   "NDLS",
		Class:       model.Class3A,
		Status:      model.BookingStatusConfirmed,
		TotalAmount: 690000,
		OrderID:     "order_sample",
		CreatedAt:   now,
		Passengers: []*model.Passenger{
			{Name: "Asha Rao", Age: 34, Gender: model.GenderFemale, CoachType: model.Class3A, SeatNumber: model.Class3A.SeatNumber(0)},
			{Name: "Vikram Rao", Age: 36, Gender: model.GenderMale, CoachType: model.Class3A, SeatNumber: model.Class3A.SeatNumber(1)},
		},
	}

	payment := &model.Payment{
		ID:            1,
		BookingID:     booking.ID,
		TransactionID: "pay_sample",
		OrderID:       booking.OrderID,
		Amount:        booking.TotalAmount,
		Currency:      "INR",
		Status:        model.PaymentStatusSuccess,
		Method:        "upi",
		Provider:      "offline",
		CreatedAt:     now,
	}

	renderer := document.NewRenderer()

	ticket, err := renderer.Ticket(booking, train)
	if err != nil {
		fmt.Printf("Ошибка генерации билета: %v\n", err)
		os.Exit(1)
	}
	write("ticket_sample.png", ticket)

	invoice, err := renderer.Invoice(booking, payment, train)
	if err != nil {
		fmt.Printf("Ошибка генерации счёта: %v\n", err)
		os.Exit(1)
	}
	write("invoice_sample.png", invoice)
}

func write(name string, data []byte) {
	if err := os.WriteFile(name, data, 0644); err != nil {
		fmt.Printf("Ошибка сохранения %s: %v\n", name, err)
		os.Exit(1)
	}
	fmt.Printf("✅ %s (%d bytes)\n", name, len(data))
}
