package casdoor

import "context"

// Cert is a signing certificate. Certificate holds the public PEM that
// tokens issued by the owning application verify against.
type Cert struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`

	DisplayName     string `json:"displayName"`
	Scope           string `json:"scope"`
	Type            string `json:"type"`
	CryptoAlgorithm string `json:"cryptoAlgorithm"`
	BitSize         int    `json:"bitSize"`
	ExpireInYears   int    `json:"expireInYears"`

	Certificate            string `json:"certificate"`
	PrivateKey             string `json:"privateKey"`
	AuthorityPublicKey     string `json:"authorityPublicKey"`
	AuthorityRootPublicKey string `json:"authorityRootPublicKey"`
}

func (Cert) Ident() string              { return "cert" }
func (Cert) PluralIdent() string        { return "certs" }
func (Cert) SupportUpdateColumns() bool { return false }
func (c Cert) GetOwner() string         { return c.Owner }
func (c Cert) GetName() string          { return c.Name }
func (c Cert) GetID() string            { return joinID(c.Owner, c.Name) }

func (c *Client) GetCertByName(ctx context.Context, name string) (*Cert, error) {
	return getModelByName[Cert](ctx, c, name)
}

func (c *Client) GetCerts(ctx context.Context, args QueryArgs) (QueryResult[Cert], error) {
	return getModels[Cert](ctx, c, "", args)
}

// GetGlobalCerts lists certificates across all organizations.
func (c *Client) GetGlobalCerts(ctx context.Context, args QueryArgs) (QueryResult[Cert], error) {
	return getModels[Cert](ctx, c, "global", args)
}
