package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesInstruments(t *testing.T) {
	ObserveCall("relational", "deposit", time.Now(), nil)
	ObserveCall("relational", "deposit", time.Now(), errors.New("boom"))
	OperationStarted("ledger")
	OperationSettled("ledger", "deposit", "confirmed")
	ObserveHTTP("GET", "/api/goals", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`savings_backend_calls_total{mode="relational",op="deposit",result="ok"} 1`,
		`savings_backend_calls_total{mode="relational",op="deposit",result="error"} 1`,
		`savings_operations_settled_total{kind="deposit",mode="ledger",state="confirmed"} 1`,
		`savings_http_requests_total{method="GET",route="/api/goals",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
