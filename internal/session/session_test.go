package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
)

// fakeProvider is an in-memory identity provider for exercising the store.
type fakeProvider struct {
	identity   *auth.Identity
	token      string
	sessionErr error
	signInErr  error
	signUpErr  error
	signOutErr error

	signedUp  []string
	revoked   []string
	signedIns int
}

func (p *fakeProvider) CurrentSession(_ context.Context, token string) (*auth.Identity, error) {
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	if token != p.token || token == "" {
		return nil, nil
	}
	return p.identity, nil
}

func (p *fakeProvider) SignUp(_ context.Context, email, _ string) (*auth.Identity, error) {
	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	p.signedUp = append(p.signedUp, email)
	return p.identity, nil
}

func (p *fakeProvider) SignIn(_ context.Context, _, _ string) (string, *auth.Identity, error) {
	if p.signInErr != nil {
		return "", nil, p.signInErr
	}
	p.signedIns++
	return p.token, p.identity, nil
}

func (p *fakeProvider) SignOut(_ context.Context, token string) error {
	p.revoked = append(p.revoked, token)
	return p.signOutErr
}

func liveProvider() *fakeProvider {
	return &fakeProvider{
		identity: &auth.Identity{UserID: "u1", Email: "a@example.com"},
		token:    "tok-1",
	}
}

func TestResolveLiveSession(t *testing.T) {
	store := NewStore(liveProvider())

	identity, err := store.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "u1", identity.UserID)
}

func TestResolveEmptyAndUnknownTokens(t *testing.T) {
	store := NewStore(liveProvider())
	ctx := context.Background()

	identity, err := store.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = store.Resolve(ctx, "garbage")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolveProviderFailureMeansNoSession(t *testing.T) {
	provider := liveProvider()
	provider.sessionErr = errors.New("store down")
	store := NewStore(provider)

	identity, err := store.Resolve(context.Background(), "tok-1")
	assert.Error(t, err)
	assert.Nil(t, identity, "a failed check must never yield a session")
}

func TestSignInRecordsSession(t *testing.T) {
	provider := liveProvider()
	store := NewStore(provider)

	token, err := store.SignIn(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	identity, err := store.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, identity)
}

func TestSignInFailure(t *testing.T) {
	provider := liveProvider()
	provider.signInErr = auth.ErrInvalidCredentials
	store := NewStore(provider)

	token, err := store.SignIn(context.Background(), "a@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestSignUpSignsIn(t *testing.T) {
	provider := liveProvider()
	store := NewStore(provider)

	token, err := store.SignUp(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, []string{"a@example.com"}, provider.signedUp)
	assert.Equal(t, 1, provider.signedIns, "sign-up should be followed by an immediate sign-in")
}

func TestSignUpFailureDoesNotSignIn(t *testing.T) {
	provider := liveProvider()
	provider.signUpErr = auth.ErrEmailTaken
	store := NewStore(provider)

	_, err := store.SignUp(context.Background(), "a@example.com", "password123")
	require.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.Zero(t, provider.signedIns)
}

func TestSignOutRevokes(t *testing.T) {
	provider := liveProvider()
	store := NewStore(provider)

	token, _ := store.SignIn(context.Background(), "a@example.com", "password123")
	require.NoError(t, store.SignOut(context.Background(), token))
	assert.Equal(t, []string{"tok-1"}, provider.revoked)
}

func TestSignOutEndsSessionEvenWhenRevocationFails(t *testing.T) {
	provider := liveProvider()
	provider.signOutErr = errors.New("store down")
	store := NewStore(provider)

	token, _ := store.SignIn(context.Background(), "a@example.com", "password123")

	ch, cancel := store.Subscribe()
	defer cancel()

	err := store.SignOut(context.Background(), token)
	require.Error(t, err)

	change := <-ch
	assert.Nil(t, change.Identity, "local session must end even if revocation fails")
}

func TestSubscribeObservesTransitions(t *testing.T) {
	provider := liveProvider()
	store := NewStore(provider)

	ch, cancel := store.Subscribe()
	defer cancel()

	token, err := store.SignIn(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	change := <-ch
	require.NotNil(t, change.Identity)
	assert.Equal(t, "u1", change.Identity.UserID)

	require.NoError(t, store.SignOut(context.Background(), token))
	change = <-ch
	assert.Nil(t, change.Identity)
}

func TestResolveDetectsExternalSignOut(t *testing.T) {
	provider := liveProvider()
	store := NewStore(provider)

	token, _ := store.SignIn(context.Background(), "a@example.com", "password123")

	ch, cancel := store.Subscribe()
	defer cancel()

	// The token is revoked behind the store's back; the next resolution
	// observes the sign-out and notifies.
	provider.token = ""
	identity, err := store.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, identity)

	change := <-ch
	assert.Nil(t, change.Identity)

	// Only the transition notifies; resolving the dead token again is quiet.
	store.Resolve(context.Background(), token)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected change for an already-dead session: %+v", extra)
	default:
	}
}

func TestResolveNotifiesOnNewSession(t *testing.T) {
	store := NewStore(liveProvider())

	ch, cancel := store.Subscribe()
	defer cancel()

	// A valid token from a previous server run resolves into a session the
	// store has not seen before.
	_, err := store.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)

	change := <-ch
	require.NotNil(t, change.Identity)
	assert.Equal(t, "u1", change.Identity.UserID)
}

func TestCancelledSubscriptionStopsNotifying(t *testing.T) {
	store := NewStore(liveProvider())

	ch, cancel := store.Subscribe()
	cancel()
	// Double cancel is safe.
	cancel()

	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")

	_, err := store.SignIn(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
}
