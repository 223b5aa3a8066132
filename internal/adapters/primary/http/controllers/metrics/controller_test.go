package metricsController

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/admin/tg-bots/shop-bot/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMetricsEndpoint(t *testing.T) {
	metrics.InvoicesTotal.WithLabelValues("created").Inc()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	New().RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `payment_invoices_total{result="created"}`)
	assert.Contains(t, w.Body.String(), "payment_pending_orders")
}
