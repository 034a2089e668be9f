package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/utils"
)

// Sheet columns: A weekday, B window start, C window end, D slot duration
// (minutes), E active. Row 1 is the header.
const (
	ruleRange    = "A2:E"
	firstDataRow = 2
)

// SheetsRuleRepo stores availability rules in a Google Sheet tab, one row
// per weekday.
type SheetsRuleRepo struct {
	svc           *gsheets.Service
	spreadsheetID string
	tab           string
}

func NewSheetsRuleRepo(svc *gsheets.Service, spreadsheetID, tab string) *SheetsRuleRepo {
	return &SheetsRuleRepo{svc: svc, spreadsheetID: spreadsheetID, tab: tab}
}

func (r *SheetsRuleRepo) List(ctx context.Context) ([]models.AvailabilityRule, error) {
	logger := utils.GetLogger()

	resp, err := r.svc.Spreadsheets.Values.
		Get(r.spreadsheetID, r.tab+"!"+ruleRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read rule rows: %w", err)
	}

	var out []models.AvailabilityRule
	for i, row := range resp.Values {
		rule, err := ParseRuleRow(row)
		if err != nil {
			logger.Warn("skipping malformed rule row",
				zap.Int("row", firstDataRow+i), zap.Error(err))
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

// Upsert replaces the row whose weekday matches, else appends a new row.
func (r *SheetsRuleRepo) Upsert(ctx context.Context, rule models.AvailabilityRule) error {
	resp, err := r.svc.Spreadsheets.Values.
		Get(r.spreadsheetID, r.tab+"!"+ruleRange).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read rule rows: %w", err)
	}

	values := &gsheets.ValueRange{Values: [][]interface{}{FormatRuleRow(rule)}}

	for i, row := range resp.Values {
		existing, err := ParseRuleRow(row)
		if err != nil || existing.Weekday != rule.Weekday {
			continue
		}
		rowNum := firstDataRow + i
		_, err = r.svc.Spreadsheets.Values.
			Update(r.spreadsheetID, fmt.Sprintf("%s!A%d:E%d", r.tab, rowNum, rowNum), values).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update rule row %d: %w", rowNum, err)
		}
		return nil
	}

	_, err = r.svc.Spreadsheets.Values.
		Append(r.spreadsheetID, r.tab+"!"+ruleRange, values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append rule row: %w", err)
	}
	return nil
}

// ParseRuleRow converts one sheet row into a rule. The sheet is edited by
// hand as well as by the bot, so anything short of five sane cells is an
// error the caller skips.
func ParseRuleRow(row []interface{}) (models.AvailabilityRule, error) {
	if len(row) < 5 {
		return models.AvailabilityRule{}, fmt.Errorf("expected 5 cells, got %d", len(row))
	}

	weekday, err := models.ParseWeekday(cell(row[0]))
	if err != nil {
		return models.AvailabilityRule{}, err
	}
	start, err := models.ParseClock(cell(row[1]))
	if err != nil {
		return models.AvailabilityRule{}, err
	}
	end, err := models.ParseClock(cell(row[2]))
	if err != nil {
		return models.AvailabilityRule{}, err
	}
	duration, err := strconv.Atoi(strings.TrimSpace(cell(row[3])))
	if err != nil {
		return models.AvailabilityRule{}, fmt.Errorf("invalid slot duration %q", cell(row[3]))
	}

	rule := models.AvailabilityRule{
		Weekday:      weekday,
		WindowStart:  start,
		WindowEnd:    end,
		SlotDuration: duration,
		Active:       parseActive(cell(row[4])),
	}
	if err := rule.Validate(); err != nil {
		return models.AvailabilityRule{}, err
	}
	return rule, nil
}

// FormatRuleRow is the inverse of ParseRuleRow.
func FormatRuleRow(rule models.AvailabilityRule) []interface{} {
	return []interface{}{
		rule.Weekday.String(),
		rule.WindowStart.String(),
		rule.WindowEnd.String(),
		strconv.Itoa(rule.SlotDuration),
		formatActive(rule.Active),
	}
}

func parseActive(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "oui":
		return true
	}
	return false
}

func formatActive(active bool) string {
	if active {
		return "yes"
	}
	return "no"
}

func cell(v interface{}) string {
	return fmt.Sprintf("%v", v)
}
