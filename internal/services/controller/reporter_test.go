package controller

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

func statusRecord() model.StatusRecord {
	return model.StatusRecord{
		FieldID:     "field1",
		SensorID:    "sensor1",
		Moisture:    18.04,
		Acidity:     6.01,
		Phosphorus:  true,
		Potassium:   false,
		Temperature: 22.46,
		PumpState:   string(model.PumpOn),
		ReasonCode:  string(model.ReasonIrrigateReducedBenefit),
		Reason:      model.ReasonIrrigateReducedBenefit.Text(model.DefaultThresholds()),
		Valid:       true,
		Timestamp:   time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestLineReporterFormat(t *testing.T) {
	var sb strings.Builder
	r := NewLineReporter(&sb)

	if err := r.Report(statusRecord()); err != nil {
		t.Fatal(err)
	}

	got := sb.String()
	want := "moisture=18.0% pH=6.0 P=yes K=no temp=22.5C | pump on: moisture low, pH ideal, P or K present (reduced benefit) | pump=ON\n"
	if got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestLineReporterFaultNotice(t *testing.T) {
	var sb strings.Builder
	r := NewLineReporter(&sb)

	rec := statusRecord()
	rec.Valid = false
	rec.Moisture = 0
	rec.Temperature = 0
	rec.PumpState = string(model.PumpOff)
	rec.ReasonCode = string(model.ReasonSensorFault)
	rec.Reason = model.ReasonSensorFault.Text(model.DefaultThresholds())

	if err := r.Report(rec); err != nil {
		t.Fatal(err)
	}

	got := sb.String()
	if !strings.HasPrefix(got, "!! ") {
		t.Errorf("fault notice not flagged: %q", got)
	}
	if !strings.Contains(got, "sensor fault") || !strings.Contains(got, "pump=OFF") {
		t.Errorf("fault notice incomplete: %q", got)
	}
	if strings.Contains(got, "moisture=") {
		t.Errorf("fault notice must not present a moisture value: %q", got)
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	a := &recordingReporter{}
	b := &recordingReporter{}
	m := MultiReporter{a, b}

	if err := m.Report(statusRecord()); err != nil {
		t.Fatal(err)
	}
	if len(a.records) != 1 || len(b.records) != 1 {
		t.Errorf("fan-out reached %d/%d reporters, want 1/1", len(a.records), len(b.records))
	}
}

type failingReporter struct{}

func (failingReporter) Report(model.StatusRecord) error {
	return errors.New("broker down")
}

func TestMultiReporterContinuesPastFailures(t *testing.T) {
	ok := &recordingReporter{}
	m := MultiReporter{failingReporter{}, ok}

	if err := m.Report(statusRecord()); err != nil {
		t.Fatalf("MultiReporter must swallow reporter errors, got %v", err)
	}
	if len(ok.records) != 1 {
		t.Error("failure short-circuited the remaining reporters")
	}
}
