package account

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/provider"
)

// fakeProvider scripts the provider responses for one test.
type fakeProvider struct {
	domains   []provider.Domain
	createErr error
	loginErr  error
	token     string

	createdAddress string
	createdSecret  string
	loginAddress   string
	loginSecret    string
	createCalls    int
	loginCalls     int
}

func (f *fakeProvider) ListDomains(_ context.Context) ([]provider.Domain, error) {
	if len(f.domains) == 0 {
		return []provider.Domain{{ID: "1", Domain: "example.com"}}, nil
	}
	return f.domains, nil
}

func (f *fakeProvider) CreateAccount(_ context.Context, address, secret string) (*provider.Account, error) {
	f.createCalls++
	f.createdAddress = address
	f.createdSecret = secret
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &provider.Account{ID: "acc-1", Address: address}, nil
}

func (f *fakeProvider) Login(_ context.Context, address, secret string) (string, error) {
	f.loginCalls++
	f.loginAddress = address
	f.loginSecret = secret
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if f.token == "" {
		return "tok", nil
	}
	return f.token, nil
}

// fakeDirectory records appended account records.
type fakeDirectory struct {
	records []model.AccountRecord
	err     error
}

func (f *fakeDirectory) Append(_ context.Context, rec model.AccountRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

var tempAddressPattern = regexp.MustCompile(`^user\d{5}@example\.com$`)

func TestCreateTemp(t *testing.T) {
	fp := &fakeProvider{}
	svc := New(fp, nil)

	id, err := svc.CreateTemp(context.Background())
	require.NoError(t, err)

	assert.Regexp(t, tempAddressPattern, id.Address)
	assert.Len(t, id.Secret, 10)
	assert.Equal(t, "tok", id.Token)

	// Creation and login use the same credentials.
	assert.Equal(t, fp.createdAddress, fp.loginAddress)
	assert.Equal(t, fp.createdSecret, fp.loginSecret)
}

func TestCreateTempConflictFallsThroughToLogin(t *testing.T) {
	fp := &fakeProvider{createErr: provider.ErrAlreadyExists}
	svc := New(fp, nil)

	id, err := svc.CreateTemp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", id.Token)
	assert.Equal(t, 1, fp.loginCalls)
}

func TestCreateCustom(t *testing.T) {
	fp := &fakeProvider{}
	dir := &fakeDirectory{}
	svc := New(fp, dir)

	id, err := svc.CreateCustom(context.Background(), "alice", "hunter2", "")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", id.Address)
	assert.Equal(t, "hunter2", id.Secret)
	assert.Equal(t, "tok", id.Token)

	require.Len(t, dir.records, 1)
	assert.Equal(t, "alice@example.com", dir.records[0].Email)
	assert.Equal(t, "hunter2", dir.records[0].Secret)
	assert.False(t, dir.records[0].CreatedAt.IsZero())
}

func TestCreateCustomSanitizesPrefix(t *testing.T) {
	fp := &fakeProvider{}
	svc := New(fp, nil)

	id, err := svc.CreateCustom(context.Background(), "My Name", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "myname@example.com", id.Address)
}

func TestCreateCustomRejectsEmptyPrefix(t *testing.T) {
	svc := New(&fakeProvider{}, nil)

	_, err := svc.CreateCustom(context.Background(), "!!!", "secret", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateCustomRejectsEmptySecret(t *testing.T) {
	svc := New(&fakeProvider{}, nil)

	_, err := svc.CreateCustom(context.Background(), "alice", "", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateCustomConflictReentersExisting(t *testing.T) {
	fp := &fakeProvider{createErr: provider.ErrAlreadyExists}
	dir := &fakeDirectory{}
	svc := New(fp, dir)

	id, err := svc.CreateCustom(context.Background(), "alice", "hunter2", "")
	require.NoError(t, err)

	// Same secret is tried on login, never guessed or regenerated.
	assert.Equal(t, "hunter2", fp.loginSecret)
	assert.Equal(t, "tok", id.Token)
}

func TestCreateCustomConflictWithWrongSecret(t *testing.T) {
	fp := &fakeProvider{
		createErr: provider.ErrAlreadyExists,
		loginErr:  provider.ErrAuthFailed,
	}
	svc := New(fp, nil)

	_, err := svc.CreateCustom(context.Background(), "alice", "wrong", "")
	assert.ErrorIs(t, err, provider.ErrAuthFailed)
}

func TestCreateCustomRateLimited(t *testing.T) {
	fp := &fakeProvider{createErr: provider.ErrRateLimited}
	svc := New(fp, nil)

	_, err := svc.CreateCustom(context.Background(), "alice", "secret", "")
	assert.ErrorIs(t, err, provider.ErrRateLimited)
	assert.Equal(t, 0, fp.loginCalls)
}

func TestCreateCustomDirectoryFailureIsBestEffort(t *testing.T) {
	fp := &fakeProvider{}
	dir := &fakeDirectory{err: assert.AnError}
	svc := New(fp, dir)

	id, err := svc.CreateCustom(context.Background(), "alice", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Address)
}

func TestCreateCustomExplicitDomain(t *testing.T) {
	fp := &fakeProvider{}
	svc := New(fp, nil)

	id, err := svc.CreateCustom(context.Background(), "alice", "secret", "other.net")
	require.NoError(t, err)
	assert.Equal(t, "alice@other.net", id.Address)
}
