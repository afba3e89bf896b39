package casdoor

import (
	"context"
	"net/http"
)

type Organization struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`

	DisplayName        string     `json:"displayName"`
	WebsiteURL         string     `json:"websiteUrl"`
	Favicon            string     `json:"favicon"`
	PasswordType       string     `json:"passwordType"`
	PasswordSalt       string     `json:"passwordSalt"`
	PasswordOptions    []string   `json:"passwordOptions"`
	CountryCodes       []string   `json:"countryCodes"`
	DefaultAvatar      string     `json:"defaultAvatar"`
	DefaultApplication string     `json:"defaultApplication"`
	Tags               []string   `json:"tags"`
	Languages          []string   `json:"languages"`
	ThemeData          *ThemeData `json:"themeData"`
	MasterPassword     string     `json:"masterPassword"`
	InitScore          int        `json:"initScore"`
	EnableSoftDeletion bool       `json:"enableSoftDeletion"`
	IsProfilePublic    bool       `json:"isProfilePublic"`

	MfaItems     []MfaItem     `json:"mfaItems"`
	AccountItems []AccountItem `json:"accountItems"`
}

func (Organization) Ident() string              { return "organization" }
func (Organization) PluralIdent() string        { return "organizations" }
func (Organization) SupportUpdateColumns() bool { return false }
func (o Organization) GetOwner() string         { return o.Owner }
func (o Organization) GetName() string          { return o.Name }
func (o Organization) GetID() string            { return joinID(o.Owner, o.Name) }

// AccountItem controls who can see and edit one account field.
type AccountItem struct {
	Name       string `json:"name"`
	Visible    bool   `json:"visible"`
	ViewRule   string `json:"viewRule"`
	ModifyRule string `json:"modifyRule"`
}

type ThemeData struct {
	ThemeType    string `json:"themeType"`
	ColorPrimary string `json:"colorPrimary"`
	BorderRadius int    `json:"borderRadius"`
	IsCompact    bool   `json:"isCompact"`
	IsEnabled    bool   `json:"isEnabled"`
}

// MfaItem is an organization MFA policy, e.g. {"name": "app", "rule": "Required"}.
type MfaItem struct {
	Name string `json:"name"`
	Rule string `json:"rule"`
}

// GetDefaultOrganization resolves the organization Casdoor associates with
// the named application.
func (c *Client) GetDefaultOrganization(ctx context.Context, name string) (*Organization, error) {
	return getDefaultModel[Organization](ctx, c, name)
}

func (c *Client) GetOrganizations(ctx context.Context, args OrganizationQueryArgs) (QueryResult[Organization], error) {
	return getModels[Organization](ctx, c, "", args)
}

// GetOrganizationNames lists organizations visible to the application. Only
// Name and DisplayName are populated.
func (c *Client) GetOrganizationNames(ctx context.Context) ([]Organization, error) {
	resp, err := request[[]Organization, struct{}](ctx, c, http.MethodGet, c.urlPath("get-organization-names", true, nil), nil)
	if err != nil {
		return nil, err
	}
	return resp.PrimaryOrDefault()
}
