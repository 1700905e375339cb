// Package auth issues and verifies the HS256 tokens used by the server.
//
// Access tokens identify a user on the information endpoint. Upload tokens
// are short-lived, carry the document they were issued for and are only
// accepted by the local storage endpoint.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const uploadAudience = "upload"

// Claims are the registered claims plus the document an upload token grants.
type Claims struct {
	jwt.RegisteredClaims
	DocumentID string `json:"doc,omitempty"`
}

type Issuer struct {
	secret    []byte
	accessTTL time.Duration
	uploadTTL time.Duration
	now       func() time.Time
}

func NewIssuer(secret []byte, accessTTL, uploadTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, uploadTTL: uploadTTL, now: time.Now}
}

func (i *Issuer) AccessToken(userID string) (string, error) {
	return i.sign(Claims{RegisteredClaims: i.registered(userID, i.accessTTL)})
}

// UploadToken grants a single PUT of documentID content on behalf of userID.
func (i *Issuer) UploadToken(userID, documentID string) (string, error) {
	rc := i.registered(userID, i.uploadTTL)
	rc.Audience = jwt.ClaimStrings{uploadAudience}
	return i.sign(Claims{RegisteredClaims: rc, DocumentID: documentID})
}

// ParseAccessToken returns the user of a valid access token. Upload tokens
// are rejected.
func (i *Issuer) ParseAccessToken(token string) (string, error) {
	c, err := i.parse(token)
	if err != nil {
		return "", err
	}
	if slices.Contains(c.Audience, uploadAudience) {
		return "", common.ErrInvalidToken
	}
	return c.Subject, nil
}

// ParseUploadToken returns the user and document of a valid upload token.
func (i *Issuer) ParseUploadToken(token string) (userID, documentID string, err error) {
	c, err := i.parse(token, jwt.WithAudience(uploadAudience))
	if err != nil {
		return "", "", err
	}
	if c.DocumentID == "" {
		return "", "", common.ErrInvalidToken
	}
	return c.Subject, c.DocumentID, nil
}

func (i *Issuer) registered(userID string, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (i *Issuer) sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

func (i *Issuer) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	case err != nil, !t.Valid, claims.Subject == "":
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
