package casdoor

import (
	"context"
	"net/http"
	"slices"
)

// Enforcer binds a Casbin model to a policy adapter.
type Enforcer struct {
	Owner       string            `json:"owner"`
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description"`
	Model       string            `json:"model"`
	Adapter     string            `json:"adapter"`
	ModelCfg    map[string]string `json:"modelCfg"`
	CreatedTime string            `json:"createdTime"`
	UpdatedTime string            `json:"updatedTime"`
}

func (Enforcer) Ident() string              { return "enforcer" }
func (Enforcer) PluralIdent() string        { return "enforcers" }
func (Enforcer) SupportUpdateColumns() bool { return false }
func (e Enforcer) GetOwner() string         { return e.Owner }
func (e Enforcer) GetName() string          { return e.Name }
func (e Enforcer) GetID() string            { return joinID(e.Owner, e.Name) }

type Permission struct {
	Owner        string   `json:"owner"`
	Name         string   `json:"name"`
	CreatedTime  string   `json:"createdTime"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	Users        []string `json:"users"`
	Groups       []string `json:"groups"`
	Roles        []string `json:"roles"`
	Domains      []string `json:"domains"`
	Model        string   `json:"model"`
	Adapter      string   `json:"adapter"`
	ResourceType string   `json:"resourceType"`
	Resources    []string `json:"resources"`
	Actions      []string `json:"actions"`
	Effect       string   `json:"effect"`
	IsEnabled    bool     `json:"isEnabled"`
	Submitter    string   `json:"submitter"`
	Approver     string   `json:"approver"`
	ApproveTime  string   `json:"approveTime"`
	State        string   `json:"state"`
}

func (Permission) Ident() string              { return "permission" }
func (Permission) PluralIdent() string        { return "permissions" }
func (Permission) SupportUpdateColumns() bool { return false }
func (p Permission) GetOwner() string         { return p.Owner }
func (p Permission) GetName() string          { return p.Name }
func (p Permission) GetID() string            { return joinID(p.Owner, p.Name) }

type Role struct {
	Owner       string   `json:"owner"`
	Name        string   `json:"name"`
	CreatedTime string   `json:"createdTime"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	Groups      []string `json:"groups"`
	Roles       []string `json:"roles"`
	Domains     []string `json:"domains"`
	IsEnabled   bool     `json:"isEnabled"`
}

func (Role) Ident() string              { return "role" }
func (Role) PluralIdent() string        { return "roles" }
func (Role) SupportUpdateColumns() bool { return false }
func (r Role) GetOwner() string         { return r.Owner }
func (r Role) GetName() string          { return r.Name }
func (r Role) GetID() string            { return joinID(r.Owner, r.Name) }

// CasbinRule is one policy line. Casdoor serializes it with Go-style field
// names.
type CasbinRule struct {
	ID    int64  `json:"Id"`
	Ptype string `json:"Ptype"`
	V0    string `json:"V0"`
	V1    string `json:"V1"`
	V2    string `json:"V2"`
	V3    string `json:"V3"`
	V4    string `json:"V4"`
	V5    string `json:"V5"`
}

// CasbinRequest is the ordered request tuple, e.g. ["alice", "data1", "read"].
type CasbinRequest []string

type EnforceArgs struct {
	Query   EnforceQueryArgs
	Request CasbinRequest
}

type BatchEnforceArgs struct {
	Query    BatchEnforceQueryArgs
	Requests []CasbinRequest
}

type EnforceResult struct {
	Allow bool `json:"allow"`
}

// BatchEnforceResult holds one decision per request, in request order.
type BatchEnforceResult struct {
	AllowList []bool `json:"allowList"`
}

func (c *Client) GetEnforcers(ctx context.Context, args QueryArgs) (QueryResult[Enforcer], error) {
	return getModels[Enforcer](ctx, c, "", args)
}

func (c *Client) GetEnforcer(ctx context.Context, name string) (*Enforcer, error) {
	return getModelByName[Enforcer](ctx, c, name)
}

// Enforce checks one request. Casdoor answers with a decision per matching
// policy set; the request is allowed when any of them allows it.
func (c *Client) Enforce(ctx context.Context, args EnforceArgs) (EnforceResult, error) {
	path := c.urlPath("enforce", true, args.Query)
	resp, err := request[[]bool, []string](ctx, c, http.MethodPost, path, jsonBody{args.Request})
	if err != nil {
		return EnforceResult{}, err
	}

	allowList, err := resp.PrimaryOrDefault()
	if err != nil {
		return EnforceResult{}, err
	}
	return EnforceResult{Allow: slices.Contains(allowList, true)}, nil
}

// BatchEnforce checks several requests in one call.
func (c *Client) BatchEnforce(ctx context.Context, args BatchEnforceArgs) (BatchEnforceResult, error) {
	path := c.urlPath("batch-enforce", true, args.Query)
	resp, err := request[[][]bool, []string](ctx, c, http.MethodPost, path, jsonBody{args.Requests})
	if err != nil {
		return BatchEnforceResult{}, err
	}

	allowLists, err := resp.PrimaryOrDefault()
	if err != nil {
		return BatchEnforceResult{}, err
	}

	out := BatchEnforceResult{AllowList: make([]bool, len(allowLists))}
	for i, list := range allowLists {
		out.AllowList[i] = slices.Contains(list, true)
	}
	return out, nil
}

// ============================================================================
// Policies
// ============================================================================

func (c *Client) GetPolicies(ctx context.Context, enforcerName string) ([]CasbinRule, error) {
	path := c.urlPath("get-policies", false, pairs{{"id", c.ID(enforcerName)}})
	resp, err := request[[]CasbinRule, struct{}](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return resp.PrimaryOrDefault()
}

func (c *Client) AddPolicy(ctx context.Context, enforcerName string, policy CasbinRule) (bool, error) {
	return c.postPolicy(ctx, "add-policy", enforcerName, policy)
}

func (c *Client) RemovePolicy(ctx context.Context, enforcerName string, policy CasbinRule) (bool, error) {
	return c.postPolicy(ctx, "remove-policy", enforcerName, policy)
}

// UpdatePolicy replaces oldPolicy with newPolicy.
func (c *Client) UpdatePolicy(ctx context.Context, enforcerName string, oldPolicy, newPolicy CasbinRule) (bool, error) {
	return c.postPolicy(ctx, "update-policy", enforcerName, []CasbinRule{oldPolicy, newPolicy})
}

func (c *Client) postPolicy(ctx context.Context, endpoint, enforcerName string, body any) (bool, error) {
	path := c.urlPath(endpoint, false, pairs{{"id", c.ID(enforcerName)}})
	resp, err := request[bool, struct{}](ctx, c, http.MethodPost, path, jsonBody{body})
	if err != nil {
		return false, err
	}
	return resp.PrimaryOrDefault()
}

// ============================================================================
// Permissions & Roles
// ============================================================================

func (c *Client) GetPermissions(ctx context.Context, args QueryArgs) (QueryResult[Permission], error) {
	return getModels[Permission](ctx, c, "", args)
}

// GetPermissionsBySubmitter lists permissions submitted by the calling
// application's user.
func (c *Client) GetPermissionsBySubmitter(ctx context.Context) (QueryResult[Permission], error) {
	return c.permissionList(ctx, c.urlPath("get-permissions-by-submitter", false, nil))
}

func (c *Client) GetPermissionsByRole(ctx context.Context, roleName string) (QueryResult[Permission], error) {
	return c.permissionList(ctx, c.urlPath("get-permissions-by-role", false, pairs{{"id", c.ID(roleName)}}))
}

func (c *Client) permissionList(ctx context.Context, path string) (QueryResult[Permission], error) {
	resp, err := request[[]Permission, int64](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return QueryResult[Permission]{}, err
	}

	items, total, err := resp.ResolveWithDefaults()
	if err != nil {
		return QueryResult[Permission]{}, err
	}
	return QueryResult[Permission]{Items: items, Total: total}, nil
}

func (c *Client) GetRoles(ctx context.Context, args QueryArgs) (QueryResult[Role], error) {
	return getModels[Role](ctx, c, "", args)
}

// GetRolesByUser returns the names of every role held by userID, including
// roles inherited through groups.
func (c *Client) GetRolesByUser(ctx context.Context, userID string) ([]string, error) {
	resp, err := request[[]string, struct{}](ctx, c, http.MethodGet, c.urlPath("get-all-roles", false, pairs{{"userId", userID}}), nil)
	if err != nil {
		return nil, err
	}
	return resp.PrimaryOrDefault()
}
