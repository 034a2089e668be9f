package bookinglog

import (
	"context"
	"fmt"

	gsheets "google.golang.org/api/sheets/v4"

	"github.com/exaland/CalendarSlackBot/models"
)

// Sheet columns: A date, B start, C end, D subject, E requester,
// F booking ID, G calendar event ID. The event ID doubles as the
// idempotency key for retried appends.
const (
	logRange      = "A2:G"
	eventIDColumn = 6
)

// SheetsLogRepo appends one row per committed booking to a Google Sheet tab.
type SheetsLogRepo struct {
	svc           *gsheets.Service
	spreadsheetID string
	tab           string
}

func NewSheetsLogRepo(svc *gsheets.Service, spreadsheetID, tab string) *SheetsLogRepo {
	return &SheetsLogRepo{svc: svc, spreadsheetID: spreadsheetID, tab: tab}
}

func (r *SheetsLogRepo) Append(ctx context.Context, booking models.Booking) error {
	row := []interface{}{
		booking.Slot.Start.Format("2006-01-02"),
		booking.Slot.Start.Format("15:04"),
		booking.Slot.End.Format("15:04"),
		booking.Subject,
		booking.Requester,
		booking.ID,
		booking.EventID,
	}
	_, err := r.svc.Spreadsheets.Values.
		Append(r.spreadsheetID, r.tab+"!"+logRange, &gsheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append booking row: %w", err)
	}
	return nil
}

func (r *SheetsLogRepo) Has(ctx context.Context, eventID string) (bool, error) {
	resp, err := r.svc.Spreadsheets.Values.
		Get(r.spreadsheetID, r.tab+"!"+logRange).
		Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read booking rows: %w", err)
	}
	for _, row := range resp.Values {
		if len(row) > eventIDColumn && fmt.Sprintf("%v", row[eventIDColumn]) == eventID {
			return true, nil
		}
	}
	return false, nil
}
