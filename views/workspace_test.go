package views

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

func TestNewWorkspaceSharesCredentials(t *testing.T) {
	ctx := context.Background()
	creds := credential.Memory()
	client := api.NewClient("http://127.0.0.1:1", time.Second, creds, nil)
	ws := NewWorkspace("sid-1", client, WorkspaceOptions{
		SearchDebounce:            500 * time.Millisecond,
		DefaultFinancialYear:      "2024-2025",
		ForceLogoutOnUnauthorized: true,
	}, nil)
	defer ws.Close()

	assert.Equal(t, LoginPath, ws.Shell.Check(ctx))
	creds.Set(ctx, "tok")
	assert.Equal(t, "", ws.Shell.Check(ctx))
	assert.Equal(t, "2024-2025", ws.Analytics.State().FinancialYear)
	assert.Equal(t, TabSearch, ws.Dashboard.Active())
}
