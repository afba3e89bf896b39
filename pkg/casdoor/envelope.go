package casdoor

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusKind is the active variant of a Status.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusError
	StatusOther
)

const (
	statusLabelOK    = "ok"
	statusLabelError = "error"
)

// Status is the envelope's {status, msg} pair decoded into one of three
// variants. Other keeps the unrecognized label for diagnostics.
type Status struct {
	Kind  StatusKind
	Msg   string
	label string
}

func OK(msg string) Status  { return Status{Kind: StatusOK, Msg: msg} }
func Err(msg string) Status { return Status{Kind: StatusError, Msg: msg} }

// Other builds the fallback variant. Passing "ok" or "error" as the label
// still yields an Other status, but it encodes back to that label.
func Other(label, msg string) Status {
	return Status{Kind: StatusOther, Msg: msg, label: label}
}

// Name returns the wire label for the status.
func (s Status) Name() string {
	switch s.Kind {
	case StatusOK:
		return statusLabelOK
	case StatusError:
		return statusLabelError
	default:
		return s.label
	}
}

func (s Status) String() string {
	return fmt.Sprintf("status=%s, msg=%s", s.Name(), s.Msg)
}

func parseStatus(label, msg string) Status {
	switch label {
	case statusLabelOK:
		return OK(msg)
	case statusLabelError:
		return Err(msg)
	default:
		return Other(label, msg)
	}
}

// Response is the uniform envelope every Casdoor endpoint replies with:
//
//	{"data": ..., "data2": ..., "name": "", "status": "ok", "msg": "", "sub": ""}
//
// Data and Data2 are nil when the server omitted them or sent null. Name and
// Sub are carried through untouched.
type Response[D, D2 any] struct {
	Data   *D
	Data2  *D2
	Name   string
	Status Status
	Sub    string
}

// wireResponse fixes the field order on the wire.
type wireResponse[D, D2 any] struct {
	Data   *D     `json:"data"`
	Data2  *D2    `json:"data2"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Sub    string `json:"sub"`
}

func (r Response[D, D2]) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireResponse[D, D2]{
		Data:   r.Data,
		Data2:  r.Data2,
		Name:   r.Name,
		Status: r.Status.Name(),
		Msg:    r.Status.Msg,
		Sub:    r.Sub,
	})
}

func (r *Response[D, D2]) UnmarshalJSON(b []byte) error {
	var w wireResponse[D, D2]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*r = Response[D, D2]{
		Data:   w.Data,
		Data2:  w.Data2,
		Name:   w.Name,
		Status: parseStatus(w.Status, w.Msg),
		Sub:    w.Sub,
	}
	return nil
}

// ============================================================================
// Resolver
// ============================================================================

// Resolve returns both payloads when the status is ok. Payloads are ignored
// on any other status, even when present.
func (r *Response[D, D2]) Resolve() (*D, *D2, error) {
	switch r.Status.Kind {
	case StatusOK:
		return r.Data, r.Data2, nil
	case StatusError:
		return nil, nil, newError(http.StatusInternalServerError, KindBusiness, r.Status.Msg)
	default:
		return nil, nil, newError(
			http.StatusInternalServerError,
			KindUnknownStatus,
			fmt.Sprintf("Unknown: status=%s, msg=%s", r.Status.Name(), r.Status.Msg),
		)
	}
}

// ResolveWithDefaults is Resolve with absent payloads replaced by zero values.
func (r *Response[D, D2]) ResolveWithDefaults() (D, D2, error) {
	var d D
	var d2 D2

	data, data2, err := r.Resolve()
	if err != nil {
		return d, d2, err
	}
	if data != nil {
		d = *data
	}
	if data2 != nil {
		d2 = *data2
	}
	return d, d2, nil
}

// Primary returns the data payload, nil when the server sent none.
func (r *Response[D, D2]) Primary() (*D, error) {
	data, _, err := r.Resolve()
	return data, err
}

// PrimaryRequired fails with a not-found error when data is absent.
func (r *Response[D, D2]) PrimaryRequired() (D, error) {
	var d D
	data, err := r.Primary()
	if err != nil {
		return d, err
	}
	if data == nil {
		return d, newError(http.StatusNotFound, KindNotFound, "Unexpected empty data.")
	}
	return *data, nil
}

// PrimaryOrDefault returns the zero value when data is absent.
func (r *Response[D, D2]) PrimaryOrDefault() (D, error) {
	d, _, err := r.ResolveWithDefaults()
	return d, err
}

func (r *Response[D, D2]) Secondary() (*D2, error) {
	_, data2, err := r.Resolve()
	return data2, err
}

func (r *Response[D, D2]) SecondaryRequired() (D2, error) {
	var d2 D2
	data2, err := r.Secondary()
	if err != nil {
		return d2, err
	}
	if data2 == nil {
		return d2, newError(http.StatusNotFound, KindNotFound, "Unexpected empty data2.")
	}
	return *data2, nil
}

func (r *Response[D, D2]) SecondaryOrDefault() (D2, error) {
	_, d2, err := r.ResolveWithDefaults()
	return d2, err
}
