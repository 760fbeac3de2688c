package storage

import (
	"errors"
	"path/filepath"

	"golang.org/x/oauth2"
)

var ErrNoToken = errors.New("no stored spotify token")

// TokenStore keeps the user's Spotify OAuth token on disk, readable only
// by the owner.
type TokenStore struct {
	path string
}

func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = filepath.Join(Dir(), "token.json")
	}
	return &TokenStore{path: path}
}

func (s *TokenStore) Path() string { return s.path }

func (s *TokenStore) Load() (*oauth2.Token, error) {
	var tok oauth2.Token
	ok, err := readJSON(s.path, &tok)
	if err != nil {
		return nil, err
	}
	if !ok || (tok.AccessToken == "" && tok.RefreshToken == "") {
		return nil, ErrNoToken
	}
	return &tok, nil
}

func (s *TokenStore) Save(tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("token is nil")
	}
	return writeJSON(s.path, tok)
}
