package casdoor

import (
	"context"
	"net/http"
)

// Session records the Casdoor session ids a user holds in one application.
type Session struct {
	Owner       string   `json:"owner"`
	Name        string   `json:"name"`
	Application string   `json:"application"`
	CreatedTime string   `json:"createdTime"`
	SessionID   []string `json:"sessionId"`
}

func (Session) Ident() string              { return "session" }
func (Session) PluralIdent() string        { return "sessions" }
func (Session) SupportUpdateColumns() bool { return true }
func (s Session) GetOwner() string         { return s.Owner }
func (s Session) GetName() string          { return s.Name }
func (s Session) GetID() string            { return joinID(s.Owner, s.Name) }

// PkID is the session's primary key, "{owner}/{name}/{application}".
func (s Session) PkID() string {
	return s.Owner + "/" + s.Name + "/" + s.Application
}

func (a *Auth) GetSessions(ctx context.Context, args QueryArgs) (QueryResult[Session], error) {
	return getModels[Session](ctx, a.c, "", args)
}

// GetSession returns the session with the given primary key. A missing
// session comes back as the zero Session.
func (a *Auth) GetSession(ctx context.Context, sessionPkID string) (Session, error) {
	path := a.c.urlPath("get-session", true, pairs{{"sessionPkId", sessionPkID}})
	resp, err := request[Session, struct{}](ctx, a.c, http.MethodGet, path, nil)
	if err != nil {
		return Session{}, err
	}
	return resp.PrimaryOrDefault()
}

// IsSessionDuplicated reports whether sessionID is already recorded under
// another session with the same primary key.
func (a *Auth) IsSessionDuplicated(ctx context.Context, sessionPkID, sessionID string) (bool, error) {
	path := a.c.urlPath("is-session-duplicated", true, pairs{{"sessionPkId", sessionPkID}, {"sessionId", sessionID}})
	resp, err := request[bool, struct{}](ctx, a.c, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	return resp.PrimaryOrDefault()
}
