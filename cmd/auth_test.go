package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanalyzer/spanalyzer/internal/session"
	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

func TestAuthLoginLogic_AlreadyLoggedIn(t *testing.T) {
	a, out := newTestApp(t, &MockSDK{})
	a.Config.Token = graph.Token{AccessToken: "existing"}

	require.NoError(t, authLoginLogic(a))
	assert.Contains(t, out.String(), "already logged in")
}

func TestAuthLoginLogic_PendingLoginRepeatsInstructions(t *testing.T) {
	a, out := newTestApp(t, &MockSDK{})
	require.NoError(t, a.Sessions.Save(&session.AuthState{
		DeviceCode:      "dev-1",
		UserCode:        "ABCD-1234",
		VerificationURI: "https://microsoft.com/devicelogin",
		ExpiresAt:       time.Now().Add(10 * time.Minute),
	}))

	require.NoError(t, authLoginLogic(a))
	output := out.String()
	assert.Contains(t, output, "already pending")
	assert.Contains(t, output, "ABCD-1234")
	assert.Contains(t, output, "https://microsoft.com/devicelogin")
}

func TestAuthStatusLogic(t *testing.T) {
	sdk := &MockSDK{
		GetMeFunc: func(ctx context.Context) (graph.User, error) {
			return graph.User{DisplayName: "Megan Bowen", UserPrincipalName: "megan@contoso.com"}, nil
		},
	}
	a, out := newTestApp(t, sdk)

	require.NoError(t, authStatusLogic(a, newTestCommand(t)))
	assert.Contains(t, out.String(), "Megan Bowen")
	assert.Contains(t, out.String(), "megan@contoso.com")
}

func TestAuthStatusLogic_APIError(t *testing.T) {
	sdk := &MockSDK{
		GetMeFunc: func(ctx context.Context) (graph.User, error) {
			return graph.User{}, errors.New("boom")
		},
	}
	a, _ := newTestApp(t, sdk)

	err := authStatusLogic(a, newTestCommand(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving user information")
}

func TestAuthCheckLogic_AllPass(t *testing.T) {
	sdk := &MockSDK{
		GetMeFunc: func(ctx context.Context) (graph.User, error) {
			return graph.User{DisplayName: "Megan Bowen"}, nil
		},
		GetSiteFunc: func(ctx context.Context, siteID string) (graph.Site, error) {
			assert.Equal(t, "root", siteID)
			return graph.Site{ID: "root-id", DisplayName: "Contoso"}, nil
		},
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return []graph.Site{{ID: "s1"}, {ID: "s2"}}, nil
		},
		ListLibrariesFunc: func(ctx context.Context, siteID string) ([]graph.Library, error) {
			return []graph.Library{{ID: "lib1", Name: "Documents"}}, nil
		},
	}
	a, out := newTestApp(t, sdk)

	require.NoError(t, authCheckLogic(a, newTestCommand(t)))
	output := out.String()
	assert.Contains(t, output, "ok   signed-in user: Megan Bowen")
	assert.Contains(t, output, "ok   root site: Contoso")
	assert.Contains(t, output, "ok   site discovery: 2 site(s)")
	assert.Contains(t, output, "ok   document libraries: 1 library(ies)")
	assert.Contains(t, output, "All access checks passed.")
}

func TestAuthCheckLogic_ReportsFailures(t *testing.T) {
	sdk := &MockSDK{
		GetMeFunc: func(ctx context.Context) (graph.User, error) {
			return graph.User{DisplayName: "Megan Bowen"}, nil
		},
		GetSiteFunc: func(ctx context.Context, siteID string) (graph.Site, error) {
			return graph.Site{}, graph.ErrAccessDenied
		},
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return []graph.Site{{ID: "s1"}}, nil
		},
	}
	a, out := newTestApp(t, sdk)

	err := authCheckLogic(a, newTestCommand(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 access checks failed")

	output := out.String()
	assert.Contains(t, output, "FAIL root site")
	assert.Contains(t, output, "ok   signed-in user: Megan Bowen")
	assert.Contains(t, output, "Sites.Read.All")
}

func TestLogout_ClearsTokenAndPendingLogin(t *testing.T) {
	a, _ := newTestApp(t, &MockSDK{})
	a.Config.Token = graph.Token{AccessToken: "abc", RefreshToken: "def"}
	require.NoError(t, a.Config.Save())
	require.NoError(t, a.Sessions.Save(&session.AuthState{
		DeviceCode: "dev-1",
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}))

	require.NoError(t, a.Logout())

	assert.Empty(t, a.Config.Token.AccessToken)
	state, err := a.Sessions.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}
