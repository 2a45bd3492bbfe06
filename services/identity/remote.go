package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/koperasi/core/auth"
)

const verifyEndpoint = "/v1/credentials/verify"

// RemoteVerifier verifies credentials against a remote identity provider.
type RemoteVerifier struct {
	baseURL string
	client  *rest.Client
}

var _ auth.CredentialVerifier = (*RemoteVerifier)(nil)

func NewRemoteVerifier(baseURL string, timeout time.Duration) *RemoteVerifier {
	return &RemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, email, password string) (auth.Principal, error) {
	body, err := json.Marshal(verifyRequest{Email: email, Password: password})
	if err != nil {
		return auth.Principal{}, errors.Wrap(err, "encoding credentials")
	}

	httpReq, err := rest.BuildRequestObject(rest.Request{
		Method:  rest.Post,
		BaseURL: v.baseURL + verifyEndpoint,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	})
	if err != nil {
		return auth.Principal{}, errors.Wrap(err, "building identity provider request")
	}

	httpRes, err := v.client.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		if ctx.Err() != nil {
			return auth.Principal{}, ctx.Err()
		}
		return auth.Principal{}, errors.Wrap(err, "calling identity provider")
	}
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return auth.Principal{}, errors.Wrap(err, "reading identity provider response")
	}

	switch res.StatusCode {
	case http.StatusOK:
		p, err := auth.DecodePrincipal([]byte(res.Body))
		if err != nil {
			return auth.Principal{}, errors.Wrap(err, "identity provider response")
		}
		return p, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	return auth.Principal{}, errors.Errorf("identity provider: unexpected status %d", res.StatusCode)
}
