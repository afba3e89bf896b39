package casdoor

import "context"

// Provider is a third-party integration (OAuth, SMS, email, storage, SAML).
// Several fields are reused per provider type; for WeChat, DisableSSL means
// QR-code login is enabled and Content carries the base64 QR code.
type Provider struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`

	DisplayName       string            `json:"displayName"`
	Category          string            `json:"category"`
	Type              string            `json:"type"`
	SubType           string            `json:"subType"`
	Method            string            `json:"method"`
	ClientID          string            `json:"clientId"`
	ClientSecret      string            `json:"clientSecret"`
	ClientID2         string            `json:"clientId2"`
	ClientSecret2     string            `json:"clientSecret2"`
	Cert              string            `json:"cert"`
	CustomAuthURL     string            `json:"customAuthUrl"`
	CustomTokenURL    string            `json:"customTokenUrl"`
	CustomUserInfoURL string            `json:"customUserInfoUrl"`
	CustomLogo        string            `json:"customLogo"`
	Scopes            string            `json:"scopes"`
	UserMapping       map[string]string `json:"userMapping"`

	Host       string `json:"host"`
	Port       int    `json:"port"`
	DisableSSL bool   `json:"disableSsl"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Receiver   string `json:"receiver"`

	RegionID     string `json:"regionId"`
	SignName     string `json:"signName"`
	TemplateCode string `json:"templateCode"`
	AppID        string `json:"appId"`

	Endpoint         string `json:"endpoint"`
	IntranetEndpoint string `json:"intranetEndpoint"`
	Domain           string `json:"domain"`
	Bucket           string `json:"bucket"`
	PathPrefix       string `json:"pathPrefix"`

	Metadata               string `json:"metadata"`
	IdP                    string `json:"idp"`
	IssuerURL              string `json:"issuerUrl"`
	EnableSignAuthnRequest bool   `json:"enableSignAuthnRequest"`

	ProviderURL string `json:"providerUrl"`
}

func (Provider) Ident() string              { return "provider" }
func (Provider) PluralIdent() string        { return "providers" }
func (Provider) SupportUpdateColumns() bool { return false }
func (p Provider) GetOwner() string         { return p.Owner }
func (p Provider) GetName() string          { return p.Name }
func (p Provider) GetID() string            { return joinID(p.Owner, p.Name) }

func (c *Client) GetProviderByName(ctx context.Context, name string) (*Provider, error) {
	return getModelByName[Provider](ctx, c, name)
}

func (c *Client) GetProviders(ctx context.Context, args QueryArgs) (QueryResult[Provider], error) {
	return getModels[Provider](ctx, c, "", args)
}

func (c *Client) GetGlobalProviders(ctx context.Context, args QueryArgs) (QueryResult[Provider], error) {
	return getModels[Provider](ctx, c, "global", args)
}
