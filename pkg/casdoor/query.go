package casdoor

import (
	"net/url"
	"strconv"
	"strings"
)

// Ptr returns a pointer to v, handy for the optional paging fields.
func Ptr[T any](v T) *T { return &v }

// queryEncoder is implemented by every argument type that contributes
// query parameters to a request.
type queryEncoder interface {
	encodeQuery(q *queryBuilder)
}

// queryBuilder keeps parameters in insertion order. Casdoor does not care
// about order but callers and tests do, and url.Values sorts by key.
type queryBuilder struct {
	parts []string
}

func (q *queryBuilder) add(key, value string) {
	q.parts = append(q.parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
}

// str adds key only when value is non-empty.
func (q *queryBuilder) str(key, value string) {
	if value != "" {
		q.add(key, value)
	}
}

// num adds key only when value is set.
func (q *queryBuilder) num(key string, value *int) {
	if value != nil {
		q.add(key, strconv.Itoa(*value))
	}
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, "&")
}

// EncodeQuery renders args in field order with unset fields omitted. It
// returns "" when nothing is set.
func EncodeQuery(args queryEncoder) string {
	if args == nil {
		return ""
	}
	var q queryBuilder
	args.encodeQuery(&q)
	return q.String()
}

// pairs is an ordered list of fixed query parameters.
type pairs [][2]string

func (p pairs) encodeQuery(q *queryBuilder) {
	for _, kv := range p {
		q.add(kv[0], kv[1])
	}
}

// QueryArgs are the paging, filtering and sorting parameters shared by every
// list endpoint.
type QueryArgs struct {
	PageSize  *int
	Page      *int
	Field     string
	Value     string
	SortField string
	SortOrder string
}

func (a QueryArgs) encodeQuery(q *queryBuilder) {
	q.num("pageSize", a.PageSize)
	q.num("p", a.Page)
	q.str("field", a.Field)
	q.str("value", a.Value)
	q.str("sortField", a.SortField)
	q.str("sortOrder", a.SortOrder)
}

// UserQueryArgs filters GetUsers. GroupName restricts the list to one group.
type UserQueryArgs struct {
	GroupName string
	QueryArgs
}

func (a UserQueryArgs) encodeQuery(q *queryBuilder) {
	q.str("groupName", a.GroupName)
	a.QueryArgs.encodeQuery(q)
}

// UserGroupQueryArgs filters GetUserGroups. WithTree is passed through as-is
// ("true" asks Casdoor for the nested group tree).
type UserGroupQueryArgs struct {
	WithTree string
	QueryArgs
}

func (a UserGroupQueryArgs) encodeQuery(q *queryBuilder) {
	q.str("withTree", a.WithTree)
	a.QueryArgs.encodeQuery(q)
}

type ApplicationQueryArgs struct {
	QueryArgs
	Organization string
}

func (a ApplicationQueryArgs) encodeQuery(q *queryBuilder) {
	a.QueryArgs.encodeQuery(q)
	q.str("organization", a.Organization)
}

type OrganizationQueryArgs struct {
	QueryArgs
	Organization string
}

func (a OrganizationQueryArgs) encodeQuery(q *queryBuilder) {
	a.QueryArgs.encodeQuery(q)
	q.str("organization", a.Organization)
}

// EnforceQueryArgs selects what an enforce call is checked against. Casdoor
// expects exactly one of them to be set.
type EnforceQueryArgs struct {
	PermissionID string
	ModelID      string
	ResourceID   string
	EnforcerID   string
}

func (a EnforceQueryArgs) encodeQuery(q *queryBuilder) {
	q.str("permissionId", a.PermissionID)
	q.str("modelId", a.ModelID)
	q.str("resourceId", a.ResourceID)
	q.str("enforcerId", a.EnforcerID)
}

type BatchEnforceQueryArgs struct {
	PermissionID string
	ModelID      string
	EnforcerID   string
}

func (a BatchEnforceQueryArgs) encodeQuery(q *queryBuilder) {
	q.str("permissionId", a.PermissionID)
	q.str("modelId", a.ModelID)
	q.str("enforcerId", a.EnforcerID)
}
