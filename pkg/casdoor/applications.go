package casdoor

import (
	"context"
)

type Application struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`

	DisplayName  string `json:"displayName"`
	Logo         string `json:"logo"`
	HomepageURL  string `json:"homepageUrl"`
	Description  string `json:"description"`
	Organization string `json:"organization"`
	Cert         string `json:"cert"`
	HeaderHTML   string `json:"headerHtml"`

	EnablePassword        bool `json:"enablePassword"`
	EnableSignUp          bool `json:"enableSignUp"`
	EnableSigninSession   bool `json:"enableSigninSession"`
	EnableAutoSignin      bool `json:"enableAutoSignin"`
	EnableCodeSignin      bool `json:"enableCodeSignin"`
	EnableSamlCompress    bool `json:"enableSamlCompress"`
	EnableSamlC14n10      bool `json:"enableSamlC14n10"`
	EnableSamlPostBinding bool `json:"enableSamlPostBinding"`
	UseEmailAsSamlNameID  bool `json:"useEmailAsSamlNameId"`
	EnableWebAuthn        bool `json:"enableWebAuthn"`
	EnableLinkWithEmail   bool `json:"enableLinkWithEmail"`

	OrgChoiceMode   string         `json:"orgChoiceMode"`
	SamlReplyURL    string         `json:"samlReplyUrl"`
	Providers       []ProviderItem `json:"providers"`
	SigninMethods   []SigninMethod `json:"signinMethods"`
	SignupItems     []SignupItem   `json:"signupItems"`
	SigninItems     []SigninItem   `json:"signinItems"`
	GrantTypes      []string       `json:"grantTypes"`
	OrganizationObj *Organization  `json:"organizationObj"`
	CertPublicKey   string         `json:"certPublicKey"`
	Tags            []string       `json:"tags"`
	SamlAttributes  []SamlItem     `json:"samlAttributes"`
	IsShared        bool           `json:"isShared"`

	ClientID             string   `json:"clientId"`
	ClientSecret         string   `json:"clientSecret"`
	RedirectURIs         []string `json:"redirectUris"`
	TokenFormat          string   `json:"tokenFormat"`
	TokenSigningMethod   string   `json:"tokenSigningMethod"`
	TokenFields          []string `json:"tokenFields"`
	ExpireInHours        int      `json:"expireInHours"`
	RefreshExpireInHours int      `json:"refreshExpireInHours"`

	SignupURL         string     `json:"signupUrl"`
	SigninURL         string     `json:"signinUrl"`
	ForgetURL         string     `json:"forgetUrl"`
	AffiliationURL    string     `json:"affiliationUrl"`
	TermsOfUse        string     `json:"termsOfUse"`
	SignupHTML        string     `json:"signupHtml"`
	SigninHTML        string     `json:"signinHtml"`
	ThemeData         *ThemeData `json:"themeData"`
	FooterHTML        string     `json:"footerHtml"`
	FormCSS           string     `json:"formCss"`
	FormCSSMobile     string     `json:"formCssMobile"`
	FormOffset        int        `json:"formOffset"`
	FormSideHTML      string     `json:"formSideHtml"`
	FormBackgroundURL string     `json:"formBackgroundUrl"`

	FailedSigninLimit      int   `json:"failedSigninLimit"`
	FailedSigninFrozenTime int   `json:"failedSigninFrozenTime"`
	CertObj                *Cert `json:"certObj"`
}

func (Application) Ident() string              { return "application" }
func (Application) PluralIdent() string        { return "applications" }
func (Application) SupportUpdateColumns() bool { return false }
func (a Application) GetOwner() string         { return a.Owner }
func (a Application) GetName() string          { return a.Name }
func (a Application) GetID() string            { return joinID(a.Owner, a.Name) }

type ProviderItem struct {
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CanSignUp bool      `json:"canSignUp"`
	CanSignIn bool      `json:"canSignIn"`
	CanUnlink bool      `json:"canUnlink"`
	Prompted  bool      `json:"prompted"`
	AlertType string    `json:"alertType"`
	Rule      string    `json:"rule"`
	Provider  *Provider `json:"provider"`
}

type SignupItem struct {
	Name        string `json:"name"`
	Visible     bool   `json:"visible"`
	Required    bool   `json:"required"`
	Prompted    bool   `json:"prompted"`
	CustomCSS   string `json:"customCss"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Regex       string `json:"regex"`
	Rule        string `json:"rule"`
}

type SigninMethod struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Rule        string `json:"rule"`
}

type SigninItem struct {
	Name        string `json:"name"`
	Visible     bool   `json:"visible"`
	Label       string `json:"label"`
	CustomCSS   string `json:"customCss"`
	Placeholder string `json:"placeholder"`
	Rule        string `json:"rule"`
	IsCustom    bool   `json:"isCustom"`
}

type SamlItem struct {
	Name       string `json:"name"`
	NameFormat string `json:"nameFormat"`
	Value      string `json:"value"`
}

// GetUserApplication returns the application a user signed up through.
func (c *Client) GetUserApplication(ctx context.Context, userName string) (*Application, error) {
	return getModelByID[Application](ctx, c, "get-user-application", c.ID(userName))
}

func (c *Client) GetApplications(ctx context.Context, args ApplicationQueryArgs) (QueryResult[Application], error) {
	return getModels[Application](ctx, c, "", args)
}

// GetOrganizationApplications lists applications belonging to the
// organization named in args, or the configured one.
func (c *Client) GetOrganizationApplications(
	ctx context.Context,
	args ApplicationQueryArgs,
) (QueryResult[Application], error) {
	return getModels[Application](ctx, c, "organization", args)
}
