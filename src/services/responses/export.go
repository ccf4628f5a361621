package responses

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExportCSV renders every response of a flow as CSV: one row per response,
// one column per question in navigation order, plus bookkeeping columns.
// Multi-value answers are joined with "; ".
func ExportCSV(ctx context.Context, flow *models.Flow) ([]byte, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: 1}})
	cursor, err := responseCollection.Find(ctx, bson.M{"flowId": flow.ID}, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list responses for export", err)
	}
	defer cursor.Close(ctx)

	var list []models.Response
	if err = cursor.All(ctx, &list); err != nil {
		return nil, apperror.NewDatabaseError("failed to decode responses for export", err)
	}

	var questions []models.Question
	for _, section := range flow.SortedSections() {
		questions = append(questions, section.Questions...)
	}

	header := []string{"responseId", "userId", "startedAt", "completedAt"}
	for _, q := range questions {
		header = append(header, q.Text)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, response := range list {
		row := []string{
			response.ID.Hex(),
			response.UserID,
			response.StartedAt.Format(time.RFC3339),
			formatCompletedAt(response.CompletedAt),
		}
		for _, q := range questions {
			ans, ok := response.Answers[q.ID]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(ans.Value))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCompletedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, "; ")
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("%v", v)
}

// ExportFilename builds the attachment name for a flow export.
func ExportFilename(flow *models.Flow) string {
	title := strings.ToLower(strings.ReplaceAll(flow.Title, " ", "-"))
	return fmt.Sprintf("%s-responses-%s.csv", title, time.Now().Format("2006-01-02"))
}
