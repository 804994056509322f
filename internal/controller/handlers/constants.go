package handlers

// Подсказки по формату команд
const (
	usageTrains  = "/trains FROM TO, e.g. /trains NDLS BPL"
	usageFare    = "/fare CLASS KM, e.g. /fare 3A 450"
	usageSeats   = "/seats TRAIN_ID YYYY-MM-DD"
	usageBook    = "/book TRAIN_ID YYYY-MM-DD CLASS FROM TO TOTAL NAME:AGE:G[,NAME:AGE:G...]\nUse _ for spaces in names, gender is M, F or T"
	usagePay     = "/pay BOOKING_ID PAYMENT_ID SIGNATURE"
	usageCancel  = "/cancel [BOOKING_ID]"
	usageTicket  = "/ticket PNR"
	usageAddFare = "/addfare CLASS KM PRICE"
	usageRelease = "/release TRAIN_ID YYYY-MM-DD CLASS N"
)

// Ограничение списка /mybookings
const myBookingsLimit = 15
