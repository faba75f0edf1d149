package client

import (
	"encoding/json"
	"fmt"
	"os"

	"campus-portal/internal/models"
	"campus-portal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Well-known storage keys for the per-role credential tokens.
const (
	KeyStudentToken = "studentToken"
	KeyFacultyToken = "facultyToken"
	KeyAdminToken   = "adminToken"
)

// roleKeys is the fixed join preference order: a client holding tokens for
// more than one role joins as the first role with a token present.
var roleKeys = []struct {
	key   string
	role  models.Role
	claim string
}{
	{KeyStudentToken, models.RoleStudent, "studentId"},
	{KeyFacultyToken, models.RoleFaculty, "facultyUserId"},
	{KeyAdminToken, models.RoleAdmin, "adminId"},
}

// CredentialStore is wherever the client keeps its issued tokens.
type CredentialStore interface {
	Get(key string) (string, bool)
}

// Identity is the (role, id) pair read out of a stored token.
type Identity struct {
	Role models.Role
	ID   int
}

// ErrNoCredential means no token is stored for any role; the connection
// stays anonymous and receives only global broadcasts.
var ErrNoCredential = fmt.Errorf("no credential token stored")

// DecodeIdentity picks the first stored token in preference order and reads
// the role-appropriate identity claim from its payload. The signature is
// not verified here; the token was signed at issuance and this side only
// needs to learn who it was issued to.
func DecodeIdentity(store CredentialStore) (*Identity, error) {
	for _, rk := range roleKeys {
		token, ok := store.Get(rk.key)
		if !ok || token == "" {
			continue
		}

		id, err := decodeClaim(token, rk.claim)
		if err != nil {
			logger.Error("Error decoding %s: %v", rk.key, err)
			return nil, err
		}
		return &Identity{Role: rk.role, ID: id}, nil
	}
	return nil, ErrNoCredential
}

// decodeClaim splits the token, base64-decodes its payload segment and
// reads the named numeric claim.
func decodeClaim(token, claim string) (int, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("malformed token: %w", err)
	}

	idFloat, ok := claims[claim].(float64)
	if !ok {
		return 0, fmt.Errorf("token payload has no %s claim", claim)
	}
	return int(idFloat), nil
}

// MapCredentialStore is an in-memory CredentialStore.
type MapCredentialStore map[string]string

func (m MapCredentialStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// FileCredentialStore reads tokens from a JSON file of key -> token pairs,
// the client-side equivalent of the browser's local storage.
type FileCredentialStore struct {
	tokens map[string]string
}

func NewFileCredentialStore(path string) (*FileCredentialStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	tokens := make(map[string]string)
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return &FileCredentialStore{tokens: tokens}, nil
}

func (f *FileCredentialStore) Get(key string) (string, bool) {
	v, ok := f.tokens[key]
	return v, ok
}
