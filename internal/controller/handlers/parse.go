package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/controller/formatting"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/service"
)

// commandArgs аргументы команды без самой команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func usageError(usage string) error {
	return fmt.Errorf("%w: usage: %s", model.ErrValidation, usage)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", model.ErrValidation, what)
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(formatting.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must look like 2026-11-02", model.ErrValidation)
	}
	return date, nil
}

func parsePositiveFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", model.ErrValidation, what)
	}
	return v, nil
}

func parseTrainsArgs(args []string) (from, to string, err error) {
	if len(args) != 2 {
		return "", "", usageError(usageTrains)
	}
	return strings.ToUpper(args[0]), strings.ToUpper(args[1]), nil
}

func parseFareArgs(args []string) (model.FareClass, float64, error) {
	if len(args) != 2 {
		return "", 0, usageError(usageFare)
	}
	class, err := model.ParseFareClass(args[0])
	if err != nil {
		return "", 0, err
	}
	km, err := parsePositiveFloat(args[1], "distance")
	if err != nil {
		return "", 0, err
	}
	return class, km, nil
}

func parseSeatsArgs(args []string) (int64, time.Time, error) {
	if len(args) != 2 {
		return 0, time.Time{}, usageError(usageSeats)
	}
	trainID, err := parseID(args[0], "train id")
	if err != nil {
		return 0, time.Time{}, err
	}
	date, err := parseDate(args[1])
	if err != nil {
		return 0, time.Time{}, err
	}
	return trainID, date, nil
}

// parseBookArgs TRAIN_ID DATE CLASS FROM TO TOTAL PASSENGERS
func parseBookArgs(args []string) (service.CreateBookingRequest, error) {
	var req service.CreateBookingRequest
	if len(args) != 7 {
		return req, usageError(usageBook)
	}

	trainID, err := parseID(args[0], "train id")
	if err != nil {
		return req, err
	}
	date, err := parseDate(args[1])
	if err != nil {
		return req, err
	}
	total, err := parsePositiveFloat(args[5], "total")
	if err != nil {
		return req, err
	}
	passengers, err := parsePassengers(args[6])
	if err != nil {
		return req, err
	}

	return service.CreateBookingRequest{
		TrainID:     trainID,
		JourneyDate: date,
		Class:       args[2],
		FromStation: args[3],
		ToStation:   args[4],
		TotalAmount: total,
		Passengers:  passengers,
	}, nil
}

// parsePassengers "Asha_Rao:34:F,Vikram:36:M"
func parsePassengers(s string) ([]service.PassengerInput, error) {
	var out []service.PassengerInput
	for i, item := range strings.Split(s, ",") {
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: passenger %d must be NAME:AGE:GENDER", model.ErrValidation, i+1)
		}
		age, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: passenger %d age is not a number", model.ErrValidation, i+1)
		}
		out = append(out, service.PassengerInput{
			Name:   strings.TrimSpace(strings.ReplaceAll(parts[0], "_", " ")),
			Age:    age,
			Gender: parts[2],
		})
	}
	return out, nil
}

func parsePayArgs(args []string) (int64, string, string, error) {
	if len(args) != 3 {
		return 0, "", "", usageError(usagePay)
	}
	bookingID, err := parseID(args[0], "booking id")
	if err != nil {
		return 0, "", "", err
	}
	return bookingID, args[1], args[2], nil
}

func parseAddFareArgs(args []string) (model.FareClass, float64, float64, error) {
	if len(args) != 3 {
		return "", 0, 0, usageError(usageAddFare)
	}
	class, err := model.ParseFareClass(args[0])
	if err != nil {
		return "", 0, 0, err
	}
	km, err := parsePositiveFloat(args[1], "distance")
	if err != nil {
		return "", 0, 0, err
	}
	price, err := parsePositiveFloat(args[2], "price")
	if err != nil {
		return "", 0, 0, err
	}
	return class, km, price, nil
}

type releaseArgs struct {
	trainID int64
	date    time.Time
	class   model.FareClass
	count   int
}

func parseReleaseArgs(args []string) (releaseArgs, error) {
	if len(args) != 4 {
		return releaseArgs{}, usageError(usageRelease)
	}
	trainID, date, err := parseSeatsArgs(args[:2])
	if err != nil {
		return releaseArgs{}, err
	}
	class, err := model.ParseFareClass(args[2])
	if err != nil {
		return releaseArgs{}, err
	}
	n, err := strconv.Atoi(args[3])
	if err != nil || n <= 0 {
		return releaseArgs{}, fmt.Errorf("%w: seat count must be a positive number", model.ErrValidation)
	}
	return releaseArgs{trainID: trainID, date: date, class: class, count: n}, nil
}
