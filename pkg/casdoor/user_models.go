package casdoor

// User mirrors Casdoor's user object.
type User struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`
	UpdatedTime string `json:"updatedTime"`
	DeletedTime string `json:"deletedTime"`

	ID              string   `json:"id"`
	ExternalID      string   `json:"externalId"`
	Type            string   `json:"type"`
	Password        string   `json:"password"`
	PasswordSalt    string   `json:"passwordSalt"`
	PasswordType    string   `json:"passwordType"`
	DisplayName     string   `json:"displayName"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Avatar          string   `json:"avatar"`
	AvatarType      string   `json:"avatarType"`
	PermanentAvatar string   `json:"permanentAvatar"`
	Email           string   `json:"email"`
	EmailVerified   bool     `json:"emailVerified"`
	Phone           string   `json:"phone"`
	CountryCode     string   `json:"countryCode"`
	Region          string   `json:"region"`
	Location        string   `json:"location"`
	Address         []string `json:"address"`
	Affiliation     string   `json:"affiliation"`
	Title           string   `json:"title"`
	IDCardType      string   `json:"idCardType"`
	IDCard          string   `json:"idCard"`
	Homepage        string   `json:"homepage"`
	Bio             string   `json:"bio"`
	Tag             string   `json:"tag"`
	Language        string   `json:"language"`
	Gender          string   `json:"gender"`
	Birthday        string   `json:"birthday"`
	Education       string   `json:"education"`
	Score           int      `json:"score"`
	Karma           int      `json:"karma"`
	Ranking         int      `json:"ranking"`
	Balance         float64  `json:"balance"`
	Currency        string   `json:"currency"`

	IsDefaultAvatar   bool   `json:"isDefaultAvatar"`
	IsOnline          bool   `json:"isOnline"`
	IsAdmin           bool   `json:"isAdmin"`
	IsForbidden       bool   `json:"isForbidden"`
	IsDeleted         bool   `json:"isDeleted"`
	SignupApplication string `json:"signupApplication"`
	Hash              string `json:"hash"`
	PreHash           string `json:"preHash"`
	AccessKey         string `json:"accessKey"`
	AccessSecret      string `json:"accessSecret"`
	AccessToken       string `json:"accessToken"`

	CreatedIP      string `json:"createdIp"`
	LastSigninTime string `json:"lastSigninTime"`
	LastSigninIP   string `json:"lastSigninIp"`

	// Linked third-party identities, keyed by provider.
	GitHub          string `json:"github"`
	Google          string `json:"google"`
	QQ              string `json:"qq"`
	WeChat          string `json:"wechat"`
	Facebook        string `json:"facebook"`
	DingTalk        string `json:"dingtalk"`
	Weibo           string `json:"weibo"`
	Gitee           string `json:"gitee"`
	LinkedIn        string `json:"linkedin"`
	Wecom           string `json:"wecom"`
	Lark            string `json:"lark"`
	Gitlab          string `json:"gitlab"`
	Adfs            string `json:"adfs"`
	Baidu           string `json:"baidu"`
	Alipay          string `json:"alipay"`
	Casdoor         string `json:"casdoor"`
	Infoflow        string `json:"infoflow"`
	Apple           string `json:"apple"`
	AzureAD         string `json:"azuread"`
	AzureADB2c      string `json:"azureadb2c"`
	Slack           string `json:"slack"`
	Steam           string `json:"steam"`
	Bilibili        string `json:"bilibili"`
	Okta            string `json:"okta"`
	Douyin          string `json:"douyin"`
	Line            string `json:"line"`
	Amazon          string `json:"amazon"`
	Auth0           string `json:"auth0"`
	BattleNet       string `json:"battlenet"`
	Bitbucket       string `json:"bitbucket"`
	Box             string `json:"box"`
	CloudFoundry    string `json:"cloudfoundry"`
	Dailymotion     string `json:"dailymotion"`
	Deezer          string `json:"deezer"`
	DigitalOcean    string `json:"digitalocean"`
	Discord         string `json:"discord"`
	Dropbox         string `json:"dropbox"`
	EveOnline       string `json:"eveonline"`
	Fitbit          string `json:"fitbit"`
	Gitea           string `json:"gitea"`
	Heroku          string `json:"heroku"`
	InfluxCloud     string `json:"influxcloud"`
	Instagram       string `json:"instagram"`
	Intercom        string `json:"intercom"`
	Kakao           string `json:"kakao"`
	Lastfm          string `json:"lastfm"`
	Mailru          string `json:"mailru"`
	Meetup          string `json:"meetup"`
	MicrosoftOnline string `json:"microsoftonline"`
	Naver           string `json:"naver"`
	Nextcloud       string `json:"nextcloud"`
	OneDrive        string `json:"onedrive"`
	Oura            string `json:"oura"`
	Patreon         string `json:"patreon"`
	Paypal          string `json:"paypal"`
	SalesForce      string `json:"salesforce"`
	Shopify         string `json:"shopify"`
	Soundcloud      string `json:"soundcloud"`
	Spotify         string `json:"spotify"`
	Strava          string `json:"strava"`
	Stripe          string `json:"stripe"`
	TikTok          string `json:"tiktok"`
	Tumblr          string `json:"tumblr"`
	Twitch          string `json:"twitch"`
	Twitter         string `json:"twitter"`
	Typetalk        string `json:"typetalk"`
	Uber            string `json:"uber"`
	VK              string `json:"vk"`
	Wepay           string `json:"wepay"`
	Xero            string `json:"xero"`
	Yahoo           string `json:"yahoo"`
	Yammer          string `json:"yammer"`
	Yandex          string `json:"yandex"`
	Zoom            string `json:"zoom"`
	MetaMask        string `json:"metamask"`
	Web3Onboard     string `json:"web3onboard"`
	Custom          string `json:"custom"`

	WebauthnCredentials []string   `json:"webauthnCredentials"`
	PreferredMfaType    string     `json:"preferredMfaType"`
	RecoveryCodes       []string   `json:"recoveryCodes"`
	TotpSecret          string     `json:"totpSecret"`
	MfaPhoneEnabled     bool       `json:"mfaPhoneEnabled"`
	MfaEmailEnabled     bool       `json:"mfaEmailEnabled"`
	MultiFactorAuths    []MfaProps `json:"multiFactorAuths"`
	Invitation          string     `json:"invitation"`
	InvitationCode      string     `json:"invitationCode"`
	FaceIDs             []FaceID   `json:"faceIds"`

	Ldap       string            `json:"ldap"`
	Properties map[string]string `json:"properties"`

	Roles       []Role       `json:"roles"`
	Permissions []Permission `json:"permissions"`
	Groups      []string     `json:"groups"`

	LastSigninWrongTime string `json:"lastSigninWrongTime"`
	SigninWrongTimes    int    `json:"signinWrongTimes"`

	ManagedAccounts    []ManagedAccount `json:"managedAccounts"`
	MfaAccounts        []MfaAccount     `json:"mfaAccounts"`
	NeedUpdatePassword bool             `json:"needUpdatePassword"`
	IPWhitelist        string           `json:"ipWhitelist"`
}

func (User) Ident() string              { return "user" }
func (User) PluralIdent() string        { return "users" }
func (User) SupportUpdateColumns() bool { return true }
func (u User) GetOwner() string         { return u.Owner }
func (u User) GetName() string          { return u.Name }
func (u User) GetID() string            { return joinID(u.Owner, u.Name) }

type FaceID struct {
	Name       string    `json:"name"`
	FaceIDData []float64 `json:"faceIdData"`
}

// MfaAccount is an external authenticator account a user keeps in Casdoor.
type MfaAccount struct {
	AccountName string `json:"accountName"`
	Issuer      string `json:"issuer"`
	SecretKey   string `json:"secretKey"`
}

type ManagedAccount struct {
	Application string `json:"application"`
	Password    string `json:"password"`
	SigninURL   string `json:"signinUrl"`
	Username    string `json:"username"`
}

// Group is a user group. Casdoor calls the endpoints get-groups / get-group.
type Group struct {
	Owner        string   `json:"owner"`
	Name         string   `json:"name"`
	CreatedTime  string   `json:"createdTime"`
	UpdatedTime  string   `json:"updatedTime"`
	DisplayName  string   `json:"displayName"`
	Manager      string   `json:"manager"`
	ContactEmail string   `json:"contactEmail"`
	Type         string   `json:"type"`
	ParentID     string   `json:"parentId"`
	IsTopGroup   bool     `json:"isTopGroup"`
	Users        []string `json:"users"`

	// Populated only when the tree is requested.
	Title    string  `json:"title,omitempty"`
	Key      string  `json:"key,omitempty"`
	Children []Group `json:"children,omitempty"`

	IsEnabled bool `json:"isEnabled"`
}

func (Group) Ident() string              { return "group" }
func (Group) PluralIdent() string        { return "groups" }
func (Group) SupportUpdateColumns() bool { return false }
func (g Group) GetOwner() string         { return g.Owner }
func (g Group) GetName() string          { return g.Name }
func (g Group) GetID() string            { return joinID(g.Owner, g.Name) }

// Userinfo is the OIDC userinfo document Casdoor serves.
type Userinfo struct {
	Sub           string   `json:"sub"`
	Iss           string   `json:"iss"`
	Aud           string   `json:"aud"`
	Name          string   `json:"preferred_username,omitempty"`
	DisplayName   string   `json:"name,omitempty"`
	Email         string   `json:"email,omitempty"`
	EmailVerified *bool    `json:"email_verified,omitempty"`
	Avatar        string   `json:"picture,omitempty"`
	Address       string   `json:"address,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Groups        []string `json:"groups,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
}
