package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	pageSize   = 300
	sampleSize = 10

	customQuestionPrefix = "custom_q_"
)

// FixedHeaders is the column set every registration sheet carries, in
// order. Custom question columns are appended after it.
var FixedHeaders = []string{
	"Timestamp", "Category", "Is IEEE Member",
	"Name", "Email", "Phone",
	"College", "Roll No", "Year", "Branch", "Section",
	"Department",
	"Transaction ID", "Membership ID",
	"Proof URL (Screenshot/Card)", "Verification Status",
}

// Document is one registration record as the Firestore REST API
// returns it.
type Document struct {
	Name   string               `json:"name"`
	Fields map[string]*RawValue `json:"fields"`
}

type listResponse struct {
	Documents     []Document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

// Client pulls a registration collection page by page over the
// Firestore REST API and flattens it into spreadsheet rows.
type Client struct {
	// BaseURL is the REST root, settable for tests. The default points
	// at the production endpoint.
	BaseURL    string
	ProjectID  string
	Collection string
	Token      string
	Zone       *time.Location

	HTTP *http.Client
	Log  zerolog.Logger
}

func NewClient(projectID, collection, token string, zone *time.Location, log zerolog.Logger) *Client {
	return &Client{
		BaseURL:    "https://firestore.googleapis.com/v1",
		ProjectID:  projectID,
		Collection: collection,
		Token:      token,
		Zone:       zone,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		Log:        log,
	}
}

func (c *Client) collectionURL() string {
	return c.BaseURL + "/projects/" + c.ProjectID +
		"/databases/(default)/documents/" + c.Collection
}

func (c *Client) fetchPage(ctx context.Context, size int, pageToken string) (*listResponse, error) {
	q := url.Values{}
	q.Set("pageSize", fmt.Sprint(size))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch page: status %d: %s", resp.StatusCode, body)
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}

// CustomQuestionHeaders scans a small sample of documents for keys with
// the custom question prefix and returns their display headers, sorted.
// Underscores in the stored key stand for spaces in the header.
func (c *Client) CustomQuestionHeaders(ctx context.Context) ([]string, error) {
	page, err := c.fetchPage(ctx, sampleSize, "")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, doc := range page.Documents {
		for key := range doc.Fields {
			if strings.HasPrefix(key, customQuestionPrefix) {
				seen[strings.ReplaceAll(key, "_", " ")] = true
			}
		}
	}

	headers := make([]string, 0, len(seen))
	for h := range seen {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers, nil
}

func (c *Client) field(doc Document, name string) FieldValue {
	return Decode(doc.Fields[name])
}

func (c *Client) cell(doc Document, name string) string {
	return c.field(doc, name).Render(c.Zone)
}

func (c *Client) row(doc Document, customHeaders []string) []string {
	category := c.cell(doc, "participantCategory")
	if category == "" {
		category = "student"
	}

	student := func(name string) string {
		if category == "student" {
			return c.cell(doc, name)
		}
		return ""
	}
	faculty := func(name string) string {
		if category == "faculty" {
			return c.cell(doc, name)
		}
		return ""
	}

	proof := c.cell(doc, "screenshotURL")
	if proof == "" {
		proof = c.cell(doc, "membershipCardURL")
	}

	row := []string{
		c.cell(doc, "timeStamp"),
		category,
		c.cell(doc, "isIeeeMember"),
		c.cell(doc, "p1_name"),
		c.cell(doc, "p1_email"),
		c.cell(doc, "p1_phone"),
		student("p1_college"),
		student("p1_roll"),
		student("p1_year"),
		student("p1_branch"),
		student("p1_section"),
		faculty("p1_dept"),
		c.cell(doc, "transactionId"),
		c.cell(doc, "membershipId"),
		proof,
		c.cell(doc, "verificationStatus"),
	}

	for _, header := range customHeaders {
		row = append(row, c.cell(doc, strings.ReplaceAll(header, " ", "_")))
	}
	return row
}

// Export walks the whole collection and writes one sheet with the fixed
// headers plus the discovered custom question columns. It returns the
// workbook and the number of imported records.
func (c *Client) Export(ctx context.Context) (*excelize.File, int, error) {
	customHeaders, err := c.CustomQuestionHeaders(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("discover custom question columns: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := append(append([]string{}, FixedHeaders...), customHeaders...)
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, 0, err
	}

	total := 0
	pageToken := ""
	for {
		page, err := c.fetchPage(ctx, pageSize, pageToken)
		if err != nil {
			return nil, 0, err
		}

		for _, doc := range page.Documents {
			total++
			if err := writeRow(f, sheet, total+1, c.row(doc, customHeaders)); err != nil {
				return nil, 0, err
			}
		}

		c.Log.Info().Int("page_records", len(page.Documents)).Int("total", total).Msg("page imported")

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return f, total, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
