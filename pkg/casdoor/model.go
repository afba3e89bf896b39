package casdoor

import (
	"context"
	"net/http"
	"strings"
)

// Model is implemented by every Casdoor resource the SDK can list, fetch or
// mutate generically. Methods use value receivers so the zero value of a
// model type can describe its endpoints.
type Model interface {
	// Ident names the resource in URLs, e.g. "user" in /api/get-user.
	Ident() string
	// PluralIdent names the list endpoint, e.g. "users" in /api/get-users.
	PluralIdent() string
	// SupportUpdateColumns reports whether update calls accept a column list.
	SupportUpdateColumns() bool
	GetOwner() string
	GetName() string
	// GetID is "{owner}/{name}".
	GetID() string
}

// QueryResult is one page of a list endpoint plus the server-side total.
type QueryResult[M any] struct {
	Items []M   `json:"items"`
	Total int64 `json:"total"`
}

func joinID(owner, name string) string { return owner + "/" + name }

// getModels lists a resource: GET /api/get-[{scope}-]{plural}?owner={org}&...
// scope is empty for the organization's own objects, or e.g. "global".
func getModels[M Model](ctx context.Context, c *Client, scope string, args queryEncoder) (QueryResult[M], error) {
	var m M
	name := "get-"
	if scope != "" {
		name += scope + "-"
	}
	name += m.PluralIdent()

	resp, err := request[[]M, int64](ctx, c, http.MethodGet, c.urlPath(name, true, args), nil)
	if err != nil {
		return QueryResult[M]{}, err
	}

	items, total, err := resp.ResolveWithDefaults()
	if err != nil {
		return QueryResult[M]{}, err
	}
	return QueryResult[M]{Items: items, Total: total}, nil
}

// getModelByName fetches one object of the configured organization. A miss
// is (nil, nil).
func getModelByName[M Model](ctx context.Context, c *Client, name string) (*M, error) {
	var m M
	return getModelByID[M](ctx, c, "get-"+m.Ident(), c.ID(name))
}

func getDefaultModel[M Model](ctx context.Context, c *Client, name string) (*M, error) {
	var m M
	return getModelByID[M](ctx, c, "get-default-"+m.Ident(), c.ID(name))
}

func getModelByID[M any](ctx context.Context, c *Client, endpoint, id string) (*M, error) {
	resp, err := request[M, struct{}](ctx, c, http.MethodGet, c.urlPath(endpoint, false, pairs{{"id", id}}), nil)
	if err != nil {
		return nil, err
	}
	return resp.Primary()
}

// ============================================================================
// Mutations
// ============================================================================

type modelAction string

const (
	actionAdd    modelAction = "add"
	actionUpdate modelAction = "update"
	actionDelete modelAction = "delete"
)

// unaffected is the data value of a write that changed nothing.
const unaffected = "Unaffected"

// AddModel creates m. The result reports whether the server changed anything.
func AddModel[M Model](ctx context.Context, c *Client, m M) (bool, error) {
	return modifyModel(ctx, c, actionAdd, m, nil)
}

// UpdateModel replaces m, or only the named columns when any are given.
// Columns are rejected for models that do not support partial updates.
func UpdateModel[M Model](ctx context.Context, c *Client, m M, columns ...string) (bool, error) {
	if len(columns) > 0 && !m.SupportUpdateColumns() {
		return false, newError(
			http.StatusBadRequest,
			KindInvalidArgument,
			"model "+m.Ident()+" does not support updating individual columns",
		)
	}
	return modifyModel(ctx, c, actionUpdate, m, columns)
}

func DeleteModel[M Model](ctx context.Context, c *Client, m M) (bool, error) {
	return modifyModel(ctx, c, actionDelete, m, nil)
}

// modifyModel POSTs the model to /api/{action}-{ident}?id={owner}/{name}.
func modifyModel[M Model](
	ctx context.Context,
	c *Client,
	action modelAction,
	m M,
	columns []string,
) (bool, error) {
	query := pairs{{"id", m.GetID()}}
	if action == actionUpdate && len(columns) > 0 {
		query = append(query, [2]string{"columns", strings.Join(columns, ",")})
	}

	path := c.urlPath(string(action)+"-"+m.Ident(), false, query)
	resp, err := request[string, struct{}](ctx, c, http.MethodPost, path, jsonBody{m})
	if err != nil {
		return false, err
	}

	data, err := resp.Primary()
	if err != nil {
		return false, err
	}
	// Casdoor omits data for some successful writes; treat that as affected.
	return data == nil || *data != unaffected, nil
}
