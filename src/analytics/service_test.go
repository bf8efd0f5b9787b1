package analytics

import (
	"budgee-analytics/src/engine"
	"encoding/json"
	"testing"
	"time"
)

func TestCycleReport(t *testing.T) {
	got := cycleReport(10, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	if got.Current.Start.Format("2006-01-02") != "2024-02-10" || got.Current.End.Format("2006-01-02") != "2024-03-10" {
		t.Fatalf("current = %+v", got.Current)
	}
	if got.Previous.End != got.Current.Start {
		t.Fatalf("previous %+v does not end where current starts", got.Previous)
	}
	if got.Days != 29 {
		t.Fatalf("Days = %d, want 29", got.Days)
	}
}

func TestBurnReport_JSON(t *testing.T) {
	today := time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC)
	report := BurnReport{
		BurnProjection: engine.ProjectBurnRateAt(500, 10, 0, today),
		Balance:        500,
		BalanceSource:  "budget",
	}
	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["status"] != "safe" || out["days_until_zero"] != nil || out["balance_source"] != "budget" {
		t.Fatalf("encoded report = %s", b)
	}
	if _, ok := out["inputs"]; !ok {
		t.Fatalf("inputs missing from %s", b)
	}
}
