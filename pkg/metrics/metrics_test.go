package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncrementFormSubmission(t *testing.T) {
	before := testutil.ToFloat64(FormSubmissions.WithLabelValues("contact", "delivered"))
	IncrementFormSubmission("contact", "delivered")
	IncrementFormSubmission("contact", "delivered")
	assert.Equal(t, before+2, testutil.ToFloat64(FormSubmissions.WithLabelValues("contact", "delivered")))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	IncrementEmailAttempt("resend", "success")
	RecordEmailDispatchDuration("resend", "success", 120*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "forms_email_attempts_total")
	assert.Contains(t, body, "forms_email_dispatch_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
