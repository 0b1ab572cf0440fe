package googleads

import (
	"errors"
	"strings"
	"testing"

	errorsx "github.com/yungbote/searchlift-backend/internal/pkg/errors"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	return log
}

func setCreds(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLEADS_DEVELOPER_TOKEN", "dev-token")
	t.Setenv("GOOGLEADS_CLIENT_ID", "client-id")
	t.Setenv("GOOGLEADS_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLEADS_REFRESH_TOKEN", "refresh-token")
	t.Setenv("GOOGLEADS_CUSTOMER_ID", "123-456-7890")
}

func TestNewClientMissingCredentialNamed(t *testing.T) {
	setCreds(t)
	t.Setenv("GOOGLEADS_REFRESH_TOKEN", "")

	_, err := NewClient(testLogger(t))
	if err == nil {
		t.Fatal("expected error for missing credential")
	}
	if !errors.Is(err, errorsx.ErrMissingCredentials) {
		t.Fatalf("error not tagged ErrMissingCredentials: %v", err)
	}
	if !strings.Contains(err.Error(), "GOOGLEADS_REFRESH_TOKEN") {
		t.Fatalf("error does not name the missing field: %v", err)
	}
}

func TestNewClientNormalizesCustomerID(t *testing.T) {
	setCreds(t)

	c, err := NewClient(testLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	impl, ok := c.(*client)
	if !ok {
		t.Fatalf("unexpected client type %T", c)
	}
	if impl.customerID != "1234567890" {
		t.Fatalf("customerID = %q, want dashes stripped", impl.customerID)
	}
}
