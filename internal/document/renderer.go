package document

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth    = 900
	headerHeight  = 90
	marginX       = 40.0
	lineHeight    = 26.0
	rowHeight     = 30.0
	footerHeight  = 60
	textScale     = 1.5
	titleScale    = 2.5
	minBodyHeight = 360
)

// Цветовая схема
var (
	bgColor        = color.RGBA{250, 250, 247, 255}
	headerColor    = color.RGBA{28, 63, 110, 255}
	headerText     = color.RGBA{255, 255, 255, 255}
	textColor      = color.RGBA{40, 44, 52, 255}
	mutedColor     = color.RGBA{110, 115, 120, 255}
	ruleColor      = color.NRGBA{180, 180, 180, 255}
	confirmedColor = color.RGBA{46, 139, 87, 255}
	waitingColor   = color.RGBA{218, 145, 0, 255}
	cancelledColor = color.RGBA{178, 34, 34, 255}
	tableHeadColor = color.NRGBA{230, 234, 240, 255}
)

// Renderer рисует билет и счёт в PNG
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// Ticket билет с маршрутом и пассажирами
func (r *Renderer) Ticket(booking *model.Booking, train *model.Train) ([]byte, error) {
	if booking == nil {
		return nil, fmt.Errorf("%w: booking is required", model.ErrValidation)
	}

	height := headerHeight + minBodyHeight + int(rowHeight)*len(booking.Passengers) + footerHeight
	dc := createCanvas(height)

	drawHeader(dc, "E-TICKET", "PNR "+booking.PNR)

	y := float64(headerHeight) + 40
	drawStatus(dc, booking.Status, y)

	y = drawFields(dc, y, [][2]string{
		{"Train", trainLabel(booking.TrainID, train)},
		{"Date", booking.JourneyDate.Format("Mon, 02 Jan 2006")},
		{"From", booking.FromStation},
		{"To", booking.ToStation},
		{"Class", string(booking.Class)},
		{"Total", model.FormatAmountASCII(booking.TotalAmount)},
	})

	y += 20
	drawPassengerTable(dc, y, booking.Passengers)

	drawFooter(dc, height, fmt.Sprintf("Issued %s. Carry a valid photo ID.", r.now().Format("02 Jan 2006 15:04")))

	return encodeImage(dc)
}

// Invoice счёт об оплате
func (r *Renderer) Invoice(booking *model.Booking, payment *model.Payment, train *model.Train) ([]byte, error) {
	if booking == nil || payment == nil {
		return nil, fmt.Errorf("%w: booking and payment are required", model.ErrValidation)
	}

	height := headerHeight + minBodyHeight + footerHeight
	dc := createCanvas(height)

	drawHeader(dc, "PAYMENT RECEIPT", "PNR "+booking.PNR)

	y := float64(headerHeight) + 40
	fields := [][2]string{
		{"Train", trainLabel(booking.TrainID, train)},
		{"Journey", fmt.Sprintf("%s -> %s, %s", booking.FromStation, booking.ToStation, booking.JourneyDate.Format(time.DateOnly))},
		{"Passengers", fmt.Sprintf("%d x %s", len(booking.Passengers), booking.Class)},
		{"Amount", model.FormatAmountASCII(payment.Amount) + " " + payment.Currency},
		{"Provider", payment.Provider},
		{"Order", payment.OrderID},
		{"Payment", payment.TransactionID},
	}
	if payment.Method != "" {
		fields = append(fields, [2]string{"Method", payment.Method})
	}
	drawFields(dc, y, fields)

	drawFooter(dc, height, fmt.Sprintf("Generated %s", r.now().Format("02 Jan 2006 15:04")))

	return encodeImage(dc)
}

func trainLabel(trainID int64, train *model.Train) string {
	if train == nil {
		return fmt.Sprintf("#%d", trainID)
	}
	return fmt.Sprintf("%s %s", train.Number, train.Name)
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas(height int) *gg.Context {
	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawText рисует строку встроенным шрифтом с масштабом
func drawText(dc *gg.Context, s string, x, y, scale, ax float64) {
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(scale, scale)
	dc.DrawStringAnchored(s, 0, 0, ax, 0)
	dc.Pop()
}

func drawHeader(dc *gg.Context, title, subtitle string) {
	dc.SetColor(headerColor)
	dc.DrawRectangle(0, 0, imageWidth, headerHeight)
	dc.Fill()

	dc.SetColor(headerText)
	drawText(dc, title, marginX, headerHeight/2+10, titleScale, 0)
	drawText(dc, subtitle, imageWidth-marginX, headerHeight/2+10, textScale+0.5, 1)
}

func drawStatus(dc *gg.Context, status model.BookingStatus, y float64) {
	switch status {
	case model.BookingStatusConfirmed:
		dc.SetColor(confirmedColor)
	case model.BookingStatusCancelled:
		dc.SetColor(cancelledColor)
	default:
		dc.SetColor(waitingColor)
	}
	drawText(dc, strings.ToUpper(string(status)), imageWidth-marginX, y, textScale+0.5, 1)
}

// drawFields рисует пары "метка: значение", возвращает y после последней строки
func drawFields(dc *gg.Context, y float64, fields [][2]string) float64 {
	for _, f := range fields {
		dc.SetColor(mutedColor)
		drawText(dc, f[0], marginX, y, textScale, 0)
		dc.SetColor(textColor)
		drawText(dc, f[1], marginX+160, y, textScale, 0)
		y += lineHeight
	}
	return y
}

func drawPassengerTable(dc *gg.Context, y float64, passengers []*model.Passenger) {
	columns := []float64{marginX + 10, marginX + 60, marginX + 420, marginX + 500, marginX + 600}

	dc.SetColor(tableHeadColor)
	dc.DrawRectangle(marginX, y-20, imageWidth-2*marginX, rowHeight)
	dc.Fill()

	dc.SetColor(textColor)
	for i, title := range []string{"#", "Name", "Age", "Sex", "Seat"} {
		drawText(dc, title, columns[i], y, textScale, 0)
	}

	dc.SetLineWidth(0.5)
	for i, p := range passengers {
		y += rowHeight
		drawText(dc, fmt.Sprintf("%d", i+1), columns[0], y, textScale, 0)
		drawText(dc, p.Name, columns[1], y, textScale, 0)
		drawText(dc, fmt.Sprintf("%d", p.Age), columns[2], y, textScale, 0)
		drawText(dc, string(p.Gender), columns[3], y, textScale, 0)
		drawText(dc, fmt.Sprintf("%s/%s", p.CoachType, p.SeatNumber), columns[4], y, textScale, 0)

		dc.SetColor(ruleColor)
		dc.DrawLine(marginX, y+10, imageWidth-marginX, y+10)
		dc.Stroke()
		dc.SetColor(textColor)
	}
}

func drawFooter(dc *gg.Context, height int, note string) {
	dc.SetColor(ruleColor)
	dc.SetLineWidth(1)
	dc.DrawLine(marginX, float64(height-footerHeight), imageWidth-marginX, float64(height-footerHeight))
	dc.Stroke()

	dc.SetColor(mutedColor)
	drawText(dc, note, marginX, float64(height-footerHeight/2+5), 1.2, 0)
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
