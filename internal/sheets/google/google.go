package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"budget/internal/cache"
	ports "budget/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Google Sheets rejects cell contents longer than this.
const maxCellChars = 50000

// Row positions are cached for a while so writes can skip the read; rows
// moved by hand in the sheet are picked up once the entry expires.
const (
	rowCacheSize = 64
	rowCacheTTL  = 10 * time.Minute
)

var (
	ErrValueTooLarge     = errors.New("slot value exceeds sheet cell limit")
	errSvcNotInitialized = errors.New("sheets service not initialized")
)

// Client stores slots in one tab of a spreadsheet: the slot key in column A
// and its value in column B, one row per slot.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	rows          *cache.LRUCache[int]
}

var (
	_ ports.SlotStore     = (*Client)(nil)
	_ ports.SlotInspector = (*Client)(nil)
)

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// New creates a Sheets-backed slot store.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Budget"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		rows:          cache.NewLRUCache[int](rowCacheSize, rowCacheTTL),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when neither JSON nor file is configured.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Get implements sheets.SlotReader
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	rows, err := c.readSlots(ctx)
	if err != nil {
		return "", err
	}
	c.rememberRows(rows)
	_, value, ok := findSlot(rows, key)
	if !ok {
		return "", ports.ErrNotFound
	}
	return value, nil
}

// Set implements sheets.SlotWriter. An existing row is overwritten in place;
// a new slot goes to the first row after the last used one.
func (c *Client) Set(ctx context.Context, key, value string) error {
	if len(value) > maxCellChars {
		return fmt.Errorf("slot %s (%d chars): %w", key, len(value), ErrValueTooLarge)
	}
	if c.svc == nil {
		return errSvcNotInitialized
	}
	row, ok := c.cachedRow(key)
	if !ok {
		rows, err := c.readSlots(ctx)
		if err != nil {
			return err
		}
		c.rememberRows(rows)
		if row, _, ok = findSlot(rows, key); !ok {
			row = len(rows) + 1
		}
	}

	rng := slotRange(c.sheetName, row)
	vr := &gsheet.ValueRange{Values: [][]interface{}{{key, value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		c.forgetRow(key)
		return fmt.Errorf("failed to update %s: %w", rng, err)
	}
	c.rememberRow(key, row)
	slog.DebugContext(ctx, "Slot saved to Google Sheets", "key", key, "range", rng)
	return nil
}

// Ping checks that the tab can be read with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.readSlots(ctx)
	return err
}

// Keys returns the slot keys found in column A, in row order.
func (c *Client) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.readSlots(ctx)
	if err != nil {
		return nil, err
	}
	c.rememberRows(rows)
	var keys []string
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		if key := strings.TrimSpace(fmt.Sprint(r[0])); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (c *Client) readSlots(ctx context.Context) ([][]interface{}, error) {
	if c == nil || c.svc == nil {
		return nil, errSvcNotInitialized
	}
	rng := fmt.Sprintf("%s!A:B", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// findSlot returns the 1-based row holding key and its value.
func findSlot(rows [][]interface{}, key string) (row int, value string, ok bool) {
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(r[0])) != key {
			continue
		}
		if len(r) > 1 {
			value = fmt.Sprint(r[1])
		}
		return i + 1, value, true
	}
	return 0, "", false
}

func slotRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:B%d", sheet, row, row)
}

// rememberRows indexes every slot key found in rows.
func (c *Client) rememberRows(rows [][]interface{}) {
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if key := strings.TrimSpace(fmt.Sprint(r[0])); key != "" {
			c.rememberRow(key, i+1)
		}
	}
}

func (c *Client) rememberRow(key string, row int) {
	if c.rows != nil {
		c.rows.Set(key, row)
	}
}

func (c *Client) forgetRow(key string) {
	if c.rows != nil {
		c.rows.Delete(key)
	}
}

func (c *Client) cachedRow(key string) (int, bool) {
	if c.rows == nil {
		return 0, false
	}
	return c.rows.Get(key)
}
