package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}

	// Verify all metric fields are initialized
	if m.ChatMessagesTotal == nil {
		t.Error("ChatMessagesTotal is nil")
	}
	if m.ChatDurationSeconds == nil {
		t.Error("ChatDurationSeconds is nil")
	}
	if m.AIRequestsTotal == nil {
		t.Error("AIRequestsTotal is nil")
	}
	if m.AIDurationSeconds == nil {
		t.Error("AIDurationSeconds is nil")
	}
	if m.StoreQueryDuration == nil {
		t.Error("StoreQueryDuration is nil")
	}
	if m.StoreIntegrity == nil {
		t.Error("StoreIntegrity is nil")
	}
	if m.HTTPErrorsTotal == nil {
		t.Error("HTTPErrorsTotal is nil")
	}
	if m.AuthAttemptsTotal == nil {
		t.Error("AuthAttemptsTotal is nil")
	}
	if m.RateLimiterDropped == nil {
		t.Error("RateLimiterDropped is nil")
	}
	if m.SingleflightDedupTotal == nil {
		t.Error("SingleflightDedupTotal is nil")
	}
	if m.BackupRunsTotal == nil {
		t.Error("BackupRunsTotal is nil")
	}
	if m.BackupDuration == nil {
		t.Error("BackupDuration is nil")
	}
}

func TestRecordChatMessage(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordChatMessage("classroom", "success", 0.01)
	m.RecordChatMessage("library", "success", 0.005)
	m.RecordChatMessage("fallback", "error", 2.0)
}

func TestRecordAIRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordAIRequest("gemini", "success", 1.5)
	m.RecordAIRequest("groq", "quota", 0.3)
	m.RecordAIRequest("cerebras", "timeout", 20.0)
}

func TestRecordStoreIntegrityIssue(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordStoreIntegrityIssue("occupied_exceeds_total")
	m.RecordStoreIntegrityIssue("occupied_exceeds_total")
}

func TestRecordHTTPError(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordHTTPError("timeout", "chat")
	m.RecordHTTPError("rate_limit", "chat")
	m.RecordHTTPError("unauthorized", "auth")
}

func TestRecordAuthAttempt(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordAuthAttempt("success")
	m.RecordAuthAttempt("bad_credentials")
}

func TestRecordRateLimiterDrop(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordRateLimiterDrop("user")
	m.RecordRateLimiterDrop("llm")
	m.RecordRateLimiterDrop("global")
}

func TestRecordBackupRun(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordBackupRun("success", 12.5)
	m.RecordBackupRun("error", 1.0)
}

func TestMetrics_WithDefaultRegistry(t *testing.T) {
	// Test that metrics can be created with a new registry
	// without conflicting with default registry
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Record some metrics
	m.RecordChatMessage("classroom", "success", 0.01)
	m.RecordAIRequest("gemini", "success", 1.0)
	m.RecordStoreQuery("GetAvailableClassrooms", 0.002)

	// Gather metrics to verify they were recorded
	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	// Should have metrics registered
	if len(metricFamilies) == 0 {
		t.Error("No metrics were gathered")
	}

	// Check for specific metric names
	expectedMetrics := map[string]bool{
		"campus_chat_messages_total":          false,
		"campus_chat_duration_seconds":        false,
		"campus_ai_requests_total":            false,
		"campus_ai_duration_seconds":          false,
		"campus_store_query_duration_seconds": false,
	}

	for _, mf := range metricFamilies {
		if _, ok := expectedMetrics[mf.GetName()]; ok {
			expectedMetrics[mf.GetName()] = true
		}
	}

	for name, found := range expectedMetrics {
		if !found {
			t.Errorf("Expected metric %q not found", name)
		}
	}
}
