package auth

import (
	"context"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

var _ Provider = &DescopeProvider{}

// DescopeProvider signs users in with Descope passwords. Creating users needs
// a management key.
type DescopeProvider struct {
	client *client.DescopeClient
}

func NewDescopeProvider(projectID, managementKey string) (*DescopeProvider, error) {
	if projectID == "" {
		return nil, errs.NewConfigMissingError("DESCOPE_PROJECT_ID")
	}
	c, err := client.NewWithConfig(&client.Config{
		ProjectID:     projectID,
		ManagementKey: managementKey,
	})
	if err != nil {
		return nil, errs.NewServiceUnavailableError("descope", err)
	}
	return &DescopeProvider{client: c}, nil
}

func (p *DescopeProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	info, err := p.client.Auth.Password().SignIn(ctx, normalizeEmail(email), password, nil)
	if err != nil {
		return Identity{}, errs.NewInvalidCredentialsError(err)
	}
	if info == nil || info.User == nil {
		return Identity{}, errs.NewInvalidCredentialsError(nil)
	}
	return Identity{UserID: info.User.UserID, Email: info.User.Email}, nil
}

func (p *DescopeProvider) CreateUser(ctx context.Context, email, password string) (Identity, error) {
	loginID := normalizeEmail(email)
	user, err := p.client.Management.User().Create(ctx, loginID, &descope.UserRequest{
		User: descope.User{Email: loginID},
	})
	if err != nil {
		return Identity{}, errs.NewVendorError("descope", 0, err.Error())
	}
	if err := p.client.Management.User().SetActivePassword(ctx, loginID, password); err != nil {
		return Identity{}, errs.NewVendorError("descope", 0, err.Error())
	}
	return Identity{UserID: user.UserID, Email: loginID}, nil
}
